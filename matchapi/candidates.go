package matchapi

import "sort"

// SelectCandidates bounds the work of the Scorer per spec.md §4.4: an
// exact signature hit short-circuits to just those references, otherwise
// references are ranked by MD5 overlap (with a lower-priority
// name+length-only pool) and truncated to maxCandidates.
func SelectCandidates(query *QueryHeader, idx *CatalogIndex, maxCandidates int) []*KnownReference {
	if exact := idx.ExactSignatureMatches(query.Signature()); len(exact) > 0 {
		return sortDeterministic(exact)
	}

	type scored struct {
		ref          *KnownReference
		md5Overlap   int
		nlOverlap    int
		hasMD5Signal bool
	}

	querySig := query.MD5Set()
	queryKeys := query.NameLengthKeys()

	seen := make(map[string]*scored)

	for md5 := range querySig {
		for _, ref := range idx.ReferencesByMD5(md5) {
			s, ok := seen[ref.ID]
			if !ok {
				s = &scored{ref: ref}
				seen[ref.ID] = s
			}
			s.md5Overlap++
			s.hasMD5Signal = true
		}
	}

	for key := range queryKeys {
		for _, ref := range idx.ReferencesByNameLength(key) {
			s, ok := seen[ref.ID]
			if !ok {
				s = &scored{ref: ref}
				seen[ref.ID] = s
			}
			s.nlOverlap++
		}
	}

	candidates := make([]*scored, 0, len(seen))
	for _, s := range seen {
		candidates = append(candidates, s)
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.md5Overlap != b.md5Overlap {
			return a.md5Overlap > b.md5Overlap
		}
		if a.nlOverlap != b.nlOverlap {
			return a.nlOverlap > b.nlOverlap
		}
		if len(a.ref.Contigs) != len(b.ref.Contigs) {
			return len(a.ref.Contigs) < len(b.ref.Contigs)
		}
		return a.ref.ID < b.ref.ID
	})

	if maxCandidates > 0 && len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}

	out := make([]*KnownReference, len(candidates))
	for i, s := range candidates {
		out[i] = s.ref
	}
	return out
}

// sortDeterministic orders references deterministically (by contig
// count, then id) so that iteration over an exact-signature hit set
// doesn't depend on map ordering.
func sortDeterministic(refs []*KnownReference) []*KnownReference {
	out := make([]*KnownReference, len(refs))
	copy(out, refs)
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].Contigs) != len(out[j].Contigs) {
			return len(out[i].Contigs) < len(out[j].Contigs)
		}
		return out[i].ID < out[j].ID
	})
	return out
}
