// Package render formats []matchapi.MatchResult for a human reader, as
// JSON, or as TSV — the three output modes the CLI and HTTP façade both
// support.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/biorefs/refmatch/matchapi"
)

var titleCaser = cases.Title(language.English, cases.Compact)

// Text writes a ranked, human-readable report: one summary line per
// candidate plus its suggestions, in descending composite order (the
// order FindMatches already returns them in).
func Text(w io.Writer, query *matchapi.QueryHeader, results []matchapi.MatchResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "no catalog reference scored above the configured threshold")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := []string{"rank", "reference", "match type", "confidence", "composite"}
	for i, h := range header {
		header[i] = titleCaser.String(h)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for i, r := range results {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.4f\n",
			i+1, r.Reference.ID, r.MatchType, r.Confidence, r.Breakdown.Composite)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	best := results[0]
	fmt.Fprintf(w, "\n%s vs %s: %s (%s confidence)\n", query.Source, best.Reference.ID, best.MatchType, best.Confidence)
	fmt.Fprintf(w, "  md5_jaccard=%.4f name_length_jaccard=%.4f md5_coverage=%.4f order=%.4f\n",
		best.Breakdown.MD5Jaccard, best.Breakdown.NameLengthJaccard, best.Breakdown.MD5Coverage, best.Breakdown.Order)

	counts := best.Counts
	fmt.Fprintf(w, "  %d exact, %d renamed, %d name+length, %d conflicts, %d unmatched query, %d unmatched reference\n",
		counts[matchapi.StatusExact], counts[matchapi.StatusRenamed], counts[matchapi.StatusNameLength],
		counts[matchapi.StatusConflict], counts[matchapi.StatusUnmatchedQuery], counts[matchapi.StatusUnmatchedReference])

	if len(best.Suggestions) == 0 {
		return nil
	}
	fmt.Fprintln(w, "  suggestions:")
	for _, s := range best.Suggestions {
		fmt.Fprintf(w, "    - %s\n", suggestionLine(s))
	}
	return nil
}

func suggestionLine(s matchapi.Suggestion) string {
	switch s.Kind {
	case matchapi.SuggestRename:
		return fmt.Sprintf("rename %s -> %s (%s: %s)", s.From, s.To, s.ToolHint, s.Command)
	case matchapi.SuggestReorder:
		return fmt.Sprintf("reorder contigs to match the reference (%s: %s)", s.ToolHint, s.Command)
	case matchapi.SuggestReplace:
		return fmt.Sprintf("replace contig %s: %s", s.Contig, s.Reason)
	case matchapi.SuggestRealign:
		return fmt.Sprintf("realign: %s", s.Reason)
	case matchapi.SuggestUseAsIs:
		return "no action needed, dictionary matches exactly"
	default:
		return string(s.Kind)
	}
}
