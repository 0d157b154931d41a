package matchapi

import (
	"fmt"
	"testing"
)

// ucscChromNames returns the 25 standard UCSC primary contig names in
// order: chr1..chr22, chrX, chrY, chrM.
func ucscChromNames() []string {
	names := make([]string, 0, 25)
	for i := 1; i <= 22; i++ {
		names = append(names, fmt.Sprintf("chr%d", i))
	}
	return append(names, "chrX", "chrY", "chrM")
}

func ncbiChromNames() []string {
	names := make([]string, 0, 25)
	for i := 1; i <= 22; i++ {
		names = append(names, fmt.Sprintf("%d", i))
	}
	return append(names, "X", "Y", "MT")
}

// fakeMD5 deterministically produces a syntactically valid 32-hex-char
// MD5 for a given index, so fixtures don't depend on real sequence
// content.
func fakeMD5(i int) string {
	return fmt.Sprintf("%032x", i+1)
}

// hg38LikeContigs builds a synthetic 25-contig UCSC-named reference with
// the two literal MD5s from spec.md's example scenarios (chr1, chrM) and
// fabricated-but-valid MD5s for the rest, each with a matching length.
func hg38LikeContigs() []Contig {
	names := ucscChromNames()
	lengths := standardLengths()
	contigs := make([]Contig, len(names))
	for i, n := range names {
		md5 := fakeMD5(i)
		if n == "chr1" {
			md5 = "6aef897c3d6ff0c78aff06ac189178dd"
		}
		if n == "chrM" {
			md5 = "c68f52674c9fb33aef52dcf399755519"
		}
		contigs[i] = Contig{Name: n, Length: lengths[i], MD5: md5}
	}
	return contigs
}

// standardLengths returns plausible GRCh38 chromosome lengths in
// chr1..chr22,X,Y,M order (approximate but internally consistent; only
// used to exercise matching logic, not biological accuracy).
func standardLengths() []int64 {
	return []int64{
		248956422, 242193529, 198295559, 190214555, 181538259,
		170805979, 159345973, 145138636, 138394717, 133797422,
		135086622, 133275309, 114364328, 107043718, 101991189,
		90338345, 83257441, 80373285, 58617616, 64444167,
		46709983, 50818468, 156040895, 57227415, 16569,
	}
}

func makeReference(t testing.TB, id string, contigs []Contig) *KnownReference {
	t.Helper()
	ref, err := newKnownReference(id, id, "GRCh38", "UCSC", contigs, "", "")
	if err != nil {
		t.Fatalf("newKnownReference(%s): %v", id, err)
	}
	return ref
}
