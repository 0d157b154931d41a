package matchapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIndex(t *testing.T, refs ...*KnownReference) *CatalogIndex {
	t.Helper()
	return BuildCatalogIndex(refs)
}

func TestSelfMatchIsExact(t *testing.T) {
	ref := makeReference(t, "hg38_ucsc", hg38LikeContigs())
	idx := newIndex(t, ref)

	query := NewQueryHeader("", append([]Contig(nil), ref.Contigs...))
	results, err := FindMatches(query, idx, DefaultMatchingConfig())
	require.NoError(t, err)
	require.NotEmpty(t, results)

	best := results[0]
	assert.Equal(t, "hg38_ucsc", best.Reference.ID)
	assert.InDelta(t, 1.0, best.Breakdown.Composite, 1e-9)
	assert.Equal(t, MatchExact, best.MatchType)
	assert.Equal(t, 0, best.Counts[StatusUnmatchedQuery])
	assert.Equal(t, 0, best.Counts[StatusUnmatchedReference])
	assert.Equal(t, 0, best.Counts[StatusConflict])
	assert.InDelta(t, 1.0, best.Breakdown.Order, 1e-9)
}

func TestShuffledSelfMatchIsReordered(t *testing.T) {
	ref := makeReference(t, "hg38_ucsc", hg38LikeContigs())
	idx := newIndex(t, ref)

	shuffled := append([]Contig(nil), ref.Contigs...)
	shuffled[0], shuffled[1] = shuffled[1], shuffled[0]

	query := NewQueryHeader("", shuffled)
	results, err := FindMatches(query, idx, DefaultMatchingConfig())
	require.NoError(t, err)
	require.NotEmpty(t, results)

	best := results[0]
	assert.Equal(t, "hg38_ucsc", best.Reference.ID)
	assert.Less(t, best.Breakdown.Composite, 1.0)
	assert.Equal(t, MatchReordered, best.MatchType)
}

func TestRenamingInvarianceStripPrefix(t *testing.T) {
	ref := makeReference(t, "hg38_ucsc", hg38LikeContigs())
	idx := newIndex(t, ref)

	renamed := make([]Contig, len(ref.Contigs))
	ncbi := ncbiChromNames()
	for i, c := range ref.Contigs {
		renamed[i] = Contig{Name: ncbi[i], Length: c.Length, MD5: c.MD5}
	}

	query := NewQueryHeader("", renamed)
	results, err := FindMatches(query, idx, DefaultMatchingConfig())
	require.NoError(t, err)
	require.NotEmpty(t, results)

	best := results[0]
	assert.Equal(t, "hg38_ucsc", best.Reference.ID)
	assert.Equal(t, MatchRenamed, best.MatchType)
	assert.InDelta(t, 1.0, best.Breakdown.MD5Jaccard, 1e-9)
}

func TestSubsetDetection(t *testing.T) {
	ref := makeReference(t, "hg38_ucsc", hg38LikeContigs())
	idx := newIndex(t, ref)

	query := NewQueryHeader("", append([]Contig(nil), ref.Contigs[:5]...))
	results, err := FindMatches(query, idx, DefaultMatchingConfig())
	require.NoError(t, err)
	require.NotEmpty(t, results)

	best := results[0]
	assert.Equal(t, "hg38_ucsc", best.Reference.ID)
	assert.Equal(t, MatchSubset, best.MatchType)
	assert.Equal(t, 20, best.Counts[StatusUnmatchedReference])
	assert.Equal(t, 0, best.Counts[StatusUnmatchedQuery])
}

func TestMitoConflictSuggestsReplace(t *testing.T) {
	contigs := hg38LikeContigs()
	ref := makeReference(t, "hg38_ucsc", contigs)
	idx := newIndex(t, ref)

	query := make([]Contig, len(contigs))
	copy(query, contigs)
	for i, c := range query {
		if c.Name == "chrM" {
			query[i] = Contig{Name: "chrM", Length: 16571} // no MD5: old Cambridge length
		}
	}

	qh := NewQueryHeader("", query)
	results, err := FindMatches(qh, idx, DefaultMatchingConfig())
	require.NoError(t, err)
	require.NotEmpty(t, results)

	best := results[0]
	var found bool
	for _, s := range best.Suggestions {
		if s.Kind == SuggestReplace && s.Reason == "rCRS vs old Cambridge mitochondrial sequence" {
			found = true
		}
	}
	assert.True(t, found, "expected an rCRS/Cambridge Replace suggestion, got %+v", best.Suggestions)
}

func TestCompositeBoundsAndConfidence(t *testing.T) {
	contigs := hg38LikeContigs()
	ref := makeReference(t, "hg38_ucsc", contigs)
	idx := newIndex(t, ref)

	// A single contig shared with the reference gives enough MD5 overlap
	// to surface as a candidate while scoring low on every other factor.
	query := NewQueryHeader("", []Contig{contigs[0]})
	results, err := FindMatches(query, idx, DefaultMatchingConfig())
	require.NoError(t, err)
	require.NotEmpty(t, results)

	for _, r := range results {
		assert.GreaterOrEqual(t, r.Breakdown.Composite, 0.0)
		assert.LessOrEqual(t, r.Breakdown.Composite, 1.0)
		switch {
		case r.Breakdown.Composite >= 1.0:
			assert.Equal(t, ConfidenceExact, r.Confidence)
		case r.Breakdown.Composite >= 0.95:
			assert.Equal(t, ConfidenceHigh, r.Confidence)
		case r.Breakdown.Composite >= 0.80:
			assert.Equal(t, ConfidenceMedium, r.Confidence)
		default:
			assert.Equal(t, ConfidenceLow, r.Confidence)
		}
	}
}

func TestFindMatchesIsDeterministic(t *testing.T) {
	ref := makeReference(t, "hg38_ucsc", hg38LikeContigs())
	idx := newIndex(t, ref)

	contigs := append([]Contig(nil), ref.Contigs[:10]...)

	var last []MatchResult
	for i := 0; i < 5; i++ {
		query := NewQueryHeader("", append([]Contig(nil), contigs...))
		results, err := FindMatches(query, idx, DefaultMatchingConfig())
		require.NoError(t, err)
		if last != nil {
			require.Equal(t, len(last), len(results))
			for j := range results {
				assert.Equal(t, last[j].Reference.ID, results[j].Reference.ID)
				assert.Equal(t, last[j].Breakdown.Composite, results[j].Breakdown.Composite)
			}
		}
		last = results
	}
}

func TestScoreMonotonicity(t *testing.T) {
	ref := makeReference(t, "hg38_ucsc", hg38LikeContigs())

	small := NewQueryHeader("", append([]Contig(nil), ref.Contigs[:5]...))
	bigger := NewQueryHeader("", append([]Contig(nil), ref.Contigs[:6]...))

	cfg := DefaultMatchingConfig()
	smallResult, err := Score(small, ref, cfg)
	require.NoError(t, err)
	biggerResult, err := Score(bigger, ref, cfg)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, biggerResult.Breakdown.Composite, smallResult.Breakdown.Composite)
}

func TestNoMD5sStillExactWhenNameLengthAndOrderAgree(t *testing.T) {
	contigs := hg38LikeContigs()
	ref := makeReference(t, "hg38_ucsc", contigs)
	idx := newIndex(t, ref)

	noMD5 := make([]Contig, len(contigs))
	for i, c := range contigs {
		noMD5[i] = Contig{Name: c.Name, Length: c.Length}
	}

	query := NewQueryHeader("", noMD5)
	results, err := FindMatches(query, idx, DefaultMatchingConfig())
	require.NoError(t, err)
	require.NotEmpty(t, results)

	best := results[0]
	assert.Equal(t, "hg38_ucsc", best.Reference.ID)
	assert.Equal(t, MatchExact, best.MatchType)
	assert.LessOrEqual(t, best.Breakdown.Composite, 1.0)
}

func TestEmptyQueryYieldsEmptyResults(t *testing.T) {
	ref := makeReference(t, "hg38_ucsc", hg38LikeContigs())
	idx := newIndex(t, ref)

	query := NewQueryHeader("", nil)
	results, err := FindMatches(query, idx, DefaultMatchingConfig())
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestInvalidQueryHeaderDuplicateName(t *testing.T) {
	query := NewQueryHeader("", []Contig{
		{Name: "chr1", Length: 100},
		{Name: "chr1", Length: 200},
	})
	err := query.Fingerprint()
	require.Error(t, err)
	var invalid *InvalidQueryHeaderError
	require.ErrorAs(t, err, &invalid)
}

func TestInvalidQueryHeaderNonPositiveLength(t *testing.T) {
	query := NewQueryHeader("", []Contig{{Name: "chr1", Length: 0}})
	err := query.Fingerprint()
	require.Error(t, err)
}

func TestInvalidQueryHeaderMalformedMD5(t *testing.T) {
	query := NewQueryHeader("", []Contig{{Name: "chr1", Length: 100, MD5: "not-a-valid-md5"}})
	err := query.Fingerprint()
	require.Error(t, err)
}

func TestConfigInvalid(t *testing.T) {
	cfg := DefaultMatchingConfig()
	cfg.MaxCandidates = 0
	err := cfg.Validate()
	require.Error(t, err)
	var invalid *ConfigInvalidError
	require.ErrorAs(t, err, &invalid)
}
