package render

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/biorefs/refmatch/matchapi"
)

// TSV writes one row per ranked match, spreadsheet-friendly: rank,
// reference id, match type, confidence, composite score, and the four
// factor scores.
func TSV(w io.Writer, results []matchapi.MatchResult) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	defer cw.Flush()

	header := []string{
		"rank", "reference_id", "match_type", "confidence", "composite_score",
		"md5_jaccard", "name_length_jaccard", "md5_coverage", "order_score",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, r := range results {
		row := []string{
			strconv.Itoa(i + 1),
			r.Reference.ID,
			string(r.MatchType),
			string(r.Confidence),
			strconv.FormatFloat(r.Breakdown.Composite, 'f', 4, 64),
			strconv.FormatFloat(r.Breakdown.MD5Jaccard, 'f', 4, 64),
			strconv.FormatFloat(r.Breakdown.NameLengthJaccard, 'f', 4, 64),
			strconv.FormatFloat(r.Breakdown.MD5Coverage, 'f', 4, 64),
			strconv.FormatFloat(r.Breakdown.Order, 'f', 4, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}
