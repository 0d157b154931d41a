package parsing

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/biorefs/refmatch/matchapi"
)

// ParseFAI reads a samtools FASTA index (.fai): NAME, LENGTH, OFFSET,
// LINEBASES, LINEWIDTH columns, tab-separated. No MD5 or ordering
// metadata beyond file order is available from this format.
func ParseFAI(source string, r io.Reader) (*matchapi.QueryHeader, error) {
	scanner := bufio.NewScanner(r)
	var contigs []matchapi.Contig

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			return nil, &FormatError{Format: "fai", Reason: "expected at least NAME and LENGTH columns"}
		}
		length, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, &FormatError{Format: "fai", Reason: "malformed LENGTH for " + fields[0]}
		}
		contigs = append(contigs, matchapi.Contig{Name: fields[0], Length: length})
	}
	if err := scanner.Err(); err != nil {
		return nil, &FormatError{Format: "fai", Reason: err.Error()}
	}
	if len(contigs) == 0 {
		return nil, &FormatError{Format: "fai", Reason: "no contig rows found"}
	}

	return matchapi.NewQueryHeader(source, contigs), nil
}
