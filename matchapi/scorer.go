package matchapi

import (
	"sort"
	"strings"
)

// classification holds the per-contig pairing outcome used to derive
// both the factor scores and the MatchType.
type classification struct {
	pairings []ContigPairing
	counts   map[ContigMatchStatus]int
}

// classify pairs every query contig against the reference per spec.md
// §4.5.1: MD5 match first, then name+length, then alias/name-only
// conflict, else unmatched. Pairing is injective in both directions —
// once a reference contig is consumed it is removed from consideration.
func classify(query *QueryHeader, reference *KnownReference) classification {
	refByMD5 := make(map[string]int, len(reference.Contigs))
	refByKey := make(map[NameLengthKey][]int)
	refByName := make(map[string][]int)

	for i, rc := range reference.Contigs {
		if rc.HasMD5() {
			refByMD5[rc.MD5] = i
		}
		nf := Normalize(rc.Name)
		refByKey[NameLengthKey{nf.CanonicalUCSC, rc.Length}] = append(refByKey[NameLengthKey{nf.CanonicalUCSC, rc.Length}], i)
		refByKey[NameLengthKey{nf.CanonicalBare, rc.Length}] = append(refByKey[NameLengthKey{nf.CanonicalBare, rc.Length}], i)
		refByName[rc.Name] = append(refByName[rc.Name], i)
		for _, alias := range rc.Aliases {
			refByName[alias] = append(refByName[alias], i)
		}
	}

	consumed := make([]bool, len(reference.Contigs))
	pairings := make([]ContigPairing, 0, len(query.Contigs))
	counts := make(map[ContigMatchStatus]int)

	pair := func(qi, ri int, status ContigMatchStatus) {
		consumed[ri] = true
		pairings = append(pairings, ContigPairing{QueryIndex: qi, ReferenceIndex: ri, Status: status})
		counts[status]++
	}

	for qi, qc := range query.Contigs {
		// Step 1: MD5 match.
		if qc.HasMD5() {
			if ri, ok := refByMD5[qc.MD5]; ok && !consumed[ri] {
				rc := reference.Contigs[ri]
				if sameCanonicalName(qc.Name, rc.Name) {
					pair(qi, ri, StatusExact)
				} else {
					pair(qi, ri, StatusRenamed)
				}
				continue
			}
		}

		// Step 2: name+length match (unique, preferring assembled-molecule on ties).
		// Both sides carrying differing MD5s is a conflict, not a name+length match.
		if ri, ok := resolveNameLength(qc, refByKey, consumed, reference); ok {
			rc := reference.Contigs[ri]
			if qc.HasMD5() && rc.HasMD5() && qc.MD5 != rc.MD5 {
				pair(qi, ri, StatusConflict)
			} else {
				pair(qi, ri, StatusNameLength)
			}
			continue
		}

		// Step 3: name (or alias) matches but length/MD5 disagree -> conflict.
		if candidates, ok := refByName[qc.Name]; ok {
			if ri, found := firstUnconsumed(candidates, consumed); found {
				pair(qi, ri, StatusConflict)
				continue
			}
		}
		conflictFound := false
		for _, alias := range qc.Aliases {
			if candidates, ok := refByName[alias]; ok {
				if ri, found := firstUnconsumed(candidates, consumed); found {
					pair(qi, ri, StatusConflict)
					conflictFound = true
					break
				}
			}
		}
		if conflictFound {
			continue
		}

		// Step 4: unmatched.
		pairings = append(pairings, ContigPairing{QueryIndex: qi, ReferenceIndex: -1, Status: StatusUnmatchedQuery})
		counts[StatusUnmatchedQuery]++
	}

	for ri := range reference.Contigs {
		if !consumed[ri] {
			pairings = append(pairings, ContigPairing{QueryIndex: -1, ReferenceIndex: ri, Status: StatusUnmatchedReference})
			counts[StatusUnmatchedReference]++
		}
	}

	return classification{pairings: pairings, counts: counts}
}

// sameCanonicalName reports whether two contig names are the same name,
// modulo case, rather than merely canonically equivalent: "chr1" and "1"
// share a canonical form but are a rename, while "chr1" and "CHR1" are
// the same name written differently and count as an exact match.
func sameCanonicalName(a, b string) bool {
	return strings.EqualFold(a, b)
}

func firstUnconsumed(candidates []int, consumed []bool) (int, bool) {
	for _, ri := range candidates {
		if !consumed[ri] {
			return ri, true
		}
	}
	return 0, false
}

// resolveNameLength finds the unique unconsumed reference contig whose
// canonical (name, length) matches the query contig, breaking ties in
// favor of an assembled-molecule role; remaining ties are left for the
// conflict step by returning not-found.
func resolveNameLength(qc Contig, refByKey map[NameLengthKey][]int, consumed []bool, reference *KnownReference) (int, bool) {
	nf := Normalize(qc.Name)
	var candidates []int
	candidates = append(candidates, refByKey[NameLengthKey{nf.CanonicalUCSC, qc.Length}]...)
	candidates = append(candidates, refByKey[NameLengthKey{nf.CanonicalBare, qc.Length}]...)
	for _, alias := range qc.Aliases {
		anf := Normalize(alias)
		candidates = append(candidates, refByKey[NameLengthKey{anf.CanonicalUCSC, qc.Length}]...)
		candidates = append(candidates, refByKey[NameLengthKey{anf.CanonicalBare, qc.Length}]...)
	}

	unconsumed := dedupeInts(candidates)
	unconsumed = filterUnconsumed(unconsumed, consumed)

	switch len(unconsumed) {
	case 0:
		return 0, false
	case 1:
		return unconsumed[0], true
	default:
		// Prefer assembled-molecule on ties.
		var assembled []int
		for _, ri := range unconsumed {
			if reference.Contigs[ri].SequenceRole == RoleAssembledMolecule {
				assembled = append(assembled, ri)
			}
		}
		if len(assembled) == 1 {
			return assembled[0], true
		}
		return 0, false
	}
}

func dedupeInts(in []int) []int {
	seen := make(map[int]struct{}, len(in))
	out := make([]int, 0, len(in))
	for _, v := range in {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

func filterUnconsumed(in []int, consumed []bool) []int {
	out := make([]int, 0, len(in))
	for _, v := range in {
		if !consumed[v] {
			out = append(out, v)
		}
	}
	return out
}

// scoreFactors computes the four factor scores from a classification
// plus the raw MD5/name-length set data, per spec.md §4.5.2.
func scoreFactors(query *QueryHeader, reference *KnownReference, cls classification) ScoreBreakdown {
	md5Jaccard := jaccard(query.MD5Set(), reference.MD5Set())
	nameLengthJaccard := jaccardKeys(query.NameLengthKeys(), reference.NameLengthKeys)

	md5CoverageDenominator := 0
	md5CoverageMatched := 0
	for _, qc := range query.Contigs {
		if qc.HasMD5() {
			md5CoverageDenominator++
		}
	}
	for _, p := range cls.pairings {
		if p.QueryIndex < 0 {
			continue
		}
		qc := query.Contigs[p.QueryIndex]
		if qc.HasMD5() && (p.Status == StatusExact || p.Status == StatusRenamed) {
			md5CoverageMatched++
		}
	}
	md5Coverage := nameLengthJaccard
	if md5CoverageDenominator > 0 {
		md5Coverage = float64(md5CoverageMatched) / float64(md5CoverageDenominator)
	}

	order := orderScore(query, reference, cls)

	return ScoreBreakdown{
		MD5Jaccard:        md5Jaccard,
		NameLengthJaccard: nameLengthJaccard,
		MD5Coverage:       md5Coverage,
		Order:             order,
	}
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for m := range a {
		if _, ok := b[m]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func jaccardKeys(a, b map[NameLengthKey]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// orderScore is a Kendall-tau-like agreement score: the fraction of
// consecutive pairs of paired query contigs whose corresponding
// reference indices are strictly increasing.
func orderScore(query *QueryHeader, reference *KnownReference, cls classification) float64 {
	type pair struct{ qi, ri int }
	var paired []pair
	for _, p := range cls.pairings {
		if p.QueryIndex >= 0 && p.ReferenceIndex >= 0 {
			paired = append(paired, pair{p.QueryIndex, p.ReferenceIndex})
		}
	}
	if len(paired) < 2 {
		return 1.0
	}
	// Order paired query contigs by their query-side index, then compare
	// adjacent reference indices for inversions.
	sort.Slice(paired, func(i, j int) bool { return paired[i].qi < paired[j].qi })

	increasing := 0
	total := 0
	for i := 1; i < len(paired); i++ {
		total++
		if paired[i].ri > paired[i-1].ri {
			increasing++
		}
	}
	if total == 0 {
		return 1.0
	}
	return float64(increasing) / float64(total)
}

// composite weight-normalizes and clamps the four factor scores.
func composite(b ScoreBreakdown, cfg MatchingConfig) float64 {
	num := cfg.WeightMD5Jaccard*b.MD5Jaccard +
		cfg.WeightNameLengthJaccard*b.NameLengthJaccard +
		cfg.WeightMD5Coverage*b.MD5Coverage +
		cfg.WeightOrder*b.Order
	den := cfg.WeightMD5Jaccard + cfg.WeightNameLengthJaccard + cfg.WeightMD5Coverage + cfg.WeightOrder
	if den == 0 {
		return 0
	}
	c := num / den
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// classifyMatchType applies spec.md §4.5.3's decision tree. Mixed
// detection requires comparing against a second-best candidate and is
// layered on afterward by FindMatches, not here.
func classifyMatchType(counts map[ContigMatchStatus]int, order, compositeScore float64) MatchType {
	if compositeScore < 0.25 {
		return MatchNoMatch
	}

	unmatchedQuery := counts[StatusUnmatchedQuery]
	unmatchedRef := counts[StatusUnmatchedReference]
	conflicts := counts[StatusConflict]
	renamed := counts[StatusRenamed]
	fullyPaired := unmatchedQuery == 0 && unmatchedRef == 0 && conflicts == 0

	switch {
	case fullyPaired && renamed == 0 && order == 1.0:
		return MatchExact
	case fullyPaired && renamed > 0 && order == 1.0:
		return MatchRenamed
	case fullyPaired && order < 1.0:
		return MatchReordered
	case unmatchedQuery == 0 && conflicts == 0 && unmatchedRef > 0:
		return MatchSubset
	case unmatchedRef == 0 && conflicts == 0 && unmatchedQuery > 0:
		return MatchSuperset
	default:
		if partialEnough(counts) {
			return MatchPartial
		}
		return MatchNoMatch
	}
}

// partialEnough reports whether at least half of the larger side's
// contigs ended up paired, per spec.md §4.5.3's Partial rule.
func partialEnough(counts map[ContigMatchStatus]int) bool {
	paired := counts[StatusExact] + counts[StatusRenamed] + counts[StatusNameLength] + counts[StatusConflict]
	querySide := paired + counts[StatusUnmatchedQuery]
	refSide := paired + counts[StatusUnmatchedReference]
	larger := querySide
	if refSide > larger {
		larger = refSide
	}
	if larger == 0 {
		return false
	}
	return float64(paired) >= 0.5*float64(larger)
}


// Score computes the MatchResult for one (query, reference) pair. It is
// pure: the same inputs always produce the same output.
func Score(query *QueryHeader, reference *KnownReference, cfg MatchingConfig) (MatchResult, error) {
	if err := cfg.Validate(); err != nil {
		return MatchResult{}, err
	}
	if err := query.Fingerprint(); err != nil {
		return MatchResult{}, err
	}

	cls := classify(query, reference)
	breakdown := scoreFactors(query, reference, cls)
	breakdown.Composite = composite(breakdown, cfg)
	mt := classifyMatchType(cls.counts, breakdown.Order, breakdown.Composite)

	result := MatchResult{
		Reference:  reference,
		Breakdown:  breakdown,
		MatchType:  mt,
		Confidence: ConfidenceFromScore(breakdown.Composite),
		Counts:     cls.counts,
		Pairings:   cls.pairings,
		Reordered:  mt == MatchReordered,
	}
	result.Suggestions = Diagnose(query, reference, result)
	return result, nil
}
