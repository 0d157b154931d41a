package render

import (
	"encoding/json"
	"io"

	"github.com/biorefs/refmatch/matchapi"
)

// jsonResult mirrors MatchResult but swaps the reference pointer for its
// id and display name and repeats the composite score at the top level
// next to the nested breakdown, matching spec.md §6's response shape
// instead of leaking internal map/pointer representations into the wire
// format.
type jsonResult struct {
	ReferenceID string                             `json:"reference_id"`
	DisplayName string                             `json:"display_name"`
	MatchType   matchapi.MatchType                 `json:"match_type"`
	Confidence  matchapi.Confidence                `json:"confidence"`
	Composite   float64                            `json:"composite_score"`
	Breakdown   matchapi.ScoreBreakdown            `json:"breakdown"`
	Counts      map[matchapi.ContigMatchStatus]int `json:"counts"`
	Suggestions []matchapi.Suggestion              `json:"suggestions,omitempty"`
}

// JSON writes the full ranked result list as a JSON array.
func JSON(w io.Writer, results []matchapi.MatchResult) error {
	out := make([]jsonResult, len(results))
	for i, r := range results {
		out[i] = jsonResult{
			ReferenceID: r.Reference.ID,
			DisplayName: r.Reference.DisplayName,
			MatchType:   r.MatchType,
			Confidence:  r.Confidence,
			Composite:   r.Breakdown.Composite,
			Breakdown:   r.Breakdown,
			Counts:      r.Counts,
			Suggestions: r.Suggestions,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
