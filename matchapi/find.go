package matchapi

import "sort"

// FindMatches is the core's single entry point for ranked identification:
// fingerprint the query, select a bounded candidate set from the index,
// score each candidate, then sort and filter per spec.md §6.
//
// Results are stable-sorted by descending composite, ties broken by
// ascending reference contig count, then lexicographically by reference
// id, so that a given (query, catalog, config) always produces
// bit-for-bit identical output.
func FindMatches(query *QueryHeader, idx *CatalogIndex, cfg MatchingConfig) ([]MatchResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := query.Fingerprint(); err != nil {
		return nil, err
	}

	candidates := SelectCandidates(query, idx, cfg.MaxCandidates)
	if len(candidates) == 0 {
		return nil, nil
	}

	results := make([]MatchResult, 0, len(candidates))
	for _, ref := range candidates {
		r, err := Score(query, ref, cfg)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Breakdown.Composite != b.Breakdown.Composite {
			return a.Breakdown.Composite > b.Breakdown.Composite
		}
		if len(a.Reference.Contigs) != len(b.Reference.Contigs) {
			return len(a.Reference.Contigs) < len(b.Reference.Contigs)
		}
		return a.Reference.ID < b.Reference.ID
	})

	applyMixedDetection(results)

	filtered := results[:0]
	for _, r := range results {
		if r.Breakdown.Composite >= cfg.ScoreThreshold {
			filtered = append(filtered, r)
		}
	}
	return filtered, nil
}

// applyMixedDetection resolves the §9 open question: the rank-1 result
// is reclassified as Mixed when the second-best candidate pairs at
// least 20% of the query to a reference from a different assembly
// family, counting only query contigs that rank-1 leaves unpaired so
// that pairs already explained by rank-1 don't count.
func applyMixedDetection(results []MatchResult) {
	if len(results) < 2 {
		return
	}
	best, second := results[0], results[1]
	if best.MatchType == MatchExact || best.MatchType == MatchNoMatch {
		return
	}
	if best.Reference.Assembly == second.Reference.Assembly {
		return
	}

	totalQuery := best.Counts[StatusExact] + best.Counts[StatusRenamed] +
		best.Counts[StatusNameLength] + best.Counts[StatusConflict] + best.Counts[StatusUnmatchedQuery]
	isPaired := func(s ContigMatchStatus) bool {
		return s == StatusExact || s == StatusRenamed || s == StatusNameLength
	}
	explained := make(map[int]bool)
	for _, p := range best.Pairings {
		if isPaired(p.Status) {
			explained[p.QueryIndex] = true
		}
	}
	secondPaired := 0
	for _, p := range second.Pairings {
		if isPaired(p.Status) && !explained[p.QueryIndex] {
			secondPaired++
		}
	}
	if totalQuery == 0 {
		return
	}
	if float64(secondPaired) >= 0.20*float64(totalQuery) {
		results[0].MatchType = MatchMixed
	}
}

// Fingerprint, classify, score, and diagnose are exercised individually
// by Score; FindMatches is the many-candidates convenience wrapper
// parsers and CLIs/HTTP handlers are expected to call.
