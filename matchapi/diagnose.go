package matchapi

import "fmt"

const (
	renameCommandHint = "fgbio UpdateSequenceDictionary"
	renameCommand     = "fgbio UpdateSequenceDictionary --input input.bam --output output.bam --dict reference.dict"

	reorderCommandHint = "picard ReorderSam"
	reorderCommand     = "picard ReorderSam I=input.bam O=output.bam SEQUENCE_DICTIONARY=reference.dict"

	rcrsMitoLength    int64 = 16569
	cambridgeMitoLength int64 = 16571
)

// Diagnose converts a scored MatchResult into a prioritized suggestion
// list, per spec.md §4.6. Rules are evaluated in order; each produces
// zero or more suggestions.
func Diagnose(query *QueryHeader, reference *KnownReference, result MatchResult) []Suggestion {
	var suggestions []Suggestion

	// Rule 1: exact match needs nothing further.
	if result.MatchType == MatchExact {
		return []Suggestion{{Kind: SuggestUseAsIs}}
	}

	// Rule 2: a consistent rename pattern across all renamed contigs.
	if rename, ok := consistentRename(query, reference, result); ok {
		suggestions = append(suggestions, rename)
	}

	// Rule 3: reordered dictionaries.
	if result.MatchType == MatchReordered {
		suggestions = append(suggestions, Suggestion{
			Kind:     SuggestReorder,
			ToolHint: reorderCommandHint,
			Command:  reorderCommand,
		})
	}

	// Rule 4: per-conflict replacement suggestions.
	for _, p := range result.Pairings {
		if p.Status != StatusConflict || p.QueryIndex < 0 || p.ReferenceIndex < 0 {
			continue
		}
		qc := query.Contigs[p.QueryIndex]
		rc := reference.Contigs[p.ReferenceIndex]

		if qc.IsMitochondrial() && isRCRSCambridgeSwap(qc.Length, rc.Length) {
			suggestions = append(suggestions, Suggestion{
				Kind:   SuggestReplace,
				Contig: qc.Name,
				Reason: "rCRS vs old Cambridge mitochondrial sequence",
			})
			continue
		}
		if qc.Length == rc.Length {
			suggestions = append(suggestions, Suggestion{
				Kind:   SuggestReplace,
				Contig: qc.Name,
				Reason: "sequence content differs despite identical length",
			})
		}
	}

	// Rule 5: weak or absent matches get a realign suggestion.
	if result.Breakdown.Composite < 0.50 || result.MatchType == MatchNoMatch {
		suggestions = append(suggestions, Suggestion{
			Kind: SuggestRealign,
			Reason: fmt.Sprintf(
				"composite score %.2f against %s: %d exact, %d renamed, %d name+length-only, %d conflicts, %d unmatched query contigs",
				result.Breakdown.Composite, reference.ID,
				result.Counts[StatusExact], result.Counts[StatusRenamed],
				result.Counts[StatusNameLength], result.Counts[StatusConflict],
				result.Counts[StatusUnmatchedQuery],
			),
		})
	}

	return suggestions
}

func isRCRSCambridgeSwap(a, b int64) bool {
	return (a == rcrsMitoLength && b == cambridgeMitoLength) || (a == cambridgeMitoLength && b == rcrsMitoLength)
}

// consistentRename checks whether every Renamed pairing follows the same
// chr-prefix-added or chr-prefix-removed direction, and if so emits a
// single Rename suggestion carrying the external command template for
// that direction.
func consistentRename(query *QueryHeader, reference *KnownReference, result MatchResult) (Suggestion, bool) {
	type direction int
	const (
		unknown direction = iota
		addPrefix
		removePrefix
	)

	dir := unknown
	var from, to string
	count := 0

	for _, p := range result.Pairings {
		if p.Status != StatusRenamed || p.QueryIndex < 0 || p.ReferenceIndex < 0 {
			continue
		}
		qc := query.Contigs[p.QueryIndex]
		rc := reference.Contigs[p.ReferenceIndex]
		count++

		qHasPrefix := chrPrefixRe.MatchString(qc.Name)
		rHasPrefix := chrPrefixRe.MatchString(rc.Name)

		var this direction
		switch {
		case !qHasPrefix && rHasPrefix:
			this = addPrefix
		case qHasPrefix && !rHasPrefix:
			this = removePrefix
		default:
			return Suggestion{}, false
		}

		if dir == unknown {
			dir = this
			from, to = qc.Name, rc.Name
		} else if dir != this {
			return Suggestion{}, false
		}
	}

	if count == 0 {
		return Suggestion{}, false
	}

	return Suggestion{
		Kind:     SuggestRename,
		From:     from,
		To:       to,
		ToolHint: renameCommandHint,
		Command:  renameCommand,
	}, true
}

// IsMitochondrial reports whether the contig's normalized name is
// recognized as a mitochondrial contig across common reference builds.
func (c Contig) IsMitochondrial() bool {
	nf := Normalize(c.Name)
	return nf.CanonicalUCSC == "chrM"
}
