package matchapi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalogJSON = `{
  "version": "1",
  "references": [
    {
      "id": "hg38_ucsc",
      "display_name": "GRCh38 (UCSC)",
      "assembly": "GRCh38",
      "source": "UCSC",
      "contigs": [
        {"name": "chr1", "length": 248956422, "md5": "6aef897c3d6ff0c78aff06ac189178dd", "sequence_role": "assembled-molecule"},
        {"name": "chrM", "length": 16569, "md5": "c68f52674c9fb33aef52dcf399755519", "sequence_role": "assembled-molecule"}
      ]
    }
  ]
}`

func TestLoadCatalogRoundTrip(t *testing.T) {
	refs, idx, err := LoadCatalog(strings.NewReader(testCatalogJSON))
	require.NoError(t, err)
	require.Len(t, refs, 1)

	ref := refs[0]
	assert.Equal(t, "hg38_ucsc", ref.ID)
	assert.Equal(t, "GRCh38 (UCSC)", ref.DisplayName)
	assert.Len(t, ref.Contigs, 2)
	assert.True(t, ref.HasFullMD5Coverage())

	query := NewQueryHeader("", append([]Contig(nil), ref.Contigs...))
	results, err := FindMatches(query, idx, DefaultMatchingConfig())
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "hg38_ucsc", results[0].Reference.ID)
	assert.Equal(t, MatchExact, results[0].MatchType)
}

func TestLoadCatalogRejectsDuplicateContigName(t *testing.T) {
	doc := `{"version":"1","references":[{"id":"bad","contigs":[
		{"name":"chr1","length":100},
		{"name":"chr1","length":200}
	]}]}`
	_, _, err := LoadCatalog(strings.NewReader(doc))
	require.Error(t, err)
	var invalid *InvalidCatalogError
	require.ErrorAs(t, err, &invalid)
}

func TestLoadCatalogRejectsMalformedJSON(t *testing.T) {
	_, _, err := LoadCatalog(strings.NewReader("{not json"))
	require.Error(t, err)
}

func TestBuildCatalogIndexExactSignatureMatch(t *testing.T) {
	ref := makeReference(t, "hg38_ucsc", hg38LikeContigs())
	idx := BuildCatalogIndex([]*KnownReference{ref})

	query := NewQueryHeader("", append([]Contig(nil), ref.Contigs...))
	require.NoError(t, query.Fingerprint())

	exact := idx.ExactSignatureMatches(query.Signature())
	require.Len(t, exact, 1)
	assert.Equal(t, "hg38_ucsc", exact[0].ID)
}

func TestBuildCatalogIndexPartialMD5CoverageSkipsSignatureTable(t *testing.T) {
	contigs := []Contig{
		{Name: "chr1", Length: 100, MD5: "6aef897c3d6ff0c78aff06ac189178dd"},
		{Name: "chr2", Length: 200}, // no MD5: full signature coverage fails
	}
	ref := makeReference(t, "partial", contigs)
	idx := BuildCatalogIndex([]*KnownReference{ref})

	assert.False(t, ref.HasFullMD5Coverage())
	query := NewQueryHeader("", append([]Contig(nil), contigs...))
	require.NoError(t, query.Fingerprint())
	assert.Empty(t, idx.ExactSignatureMatches(query.Signature()))

	// Still reachable via the MD5 reverse index.
	refsByMD5 := idx.ReferencesByMD5("6aef897c3d6ff0c78aff06ac189178dd")
	require.Len(t, refsByMD5, 1)
	assert.Equal(t, "partial", refsByMD5[0].ID)
}
