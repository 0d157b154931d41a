package parsing

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/biorefs/refmatch/matchapi"
)

// ParseTSV reads a generic tab- or comma-delimited contig manifest: a
// header row naming its columns (any case, any order), then one row per
// contig. Recognized columns are name/id, length/len, md5, and aliases
// (a single comma-or-semicolon-separated cell, which may itself be
// quoted per RFC 4180 when the outer delimiter is also a comma). This
// is the fallback format for hand-written or third-party manifests
// that don't match any of the genomics-specific formats.
func ParseTSV(source string, r io.Reader) (*matchapi.QueryHeader, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &FormatError{Format: "tsv", Reason: err.Error()}
	}

	firstLine, _, _ := strings.Cut(string(raw), "\n")
	sep := detectDelimiter(firstLine)

	cr := csv.NewReader(strings.NewReader(string(raw)))
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	columns := map[string]int{}
	var contigs []matchapi.Contig
	sawHeader := false

	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &FormatError{Format: "tsv", Reason: err.Error()}
		}
		if len(fields) == 1 && strings.TrimSpace(fields[0]) == "" {
			continue
		}

		if !sawHeader {
			sawHeader = true
			for i, col := range fields {
				columns[normalizeColumn(col)] = i
			}
			continue
		}

		nameIdx, ok := firstColumn(columns, "name", "id")
		if !ok {
			return nil, &FormatError{Format: "tsv", Reason: "missing name/id column"}
		}
		lengthIdx, ok := firstColumn(columns, "length", "len")
		if !ok {
			return nil, &FormatError{Format: "tsv", Reason: "missing length/len column"}
		}
		if len(fields) <= nameIdx || len(fields) <= lengthIdx {
			continue
		}

		name := strings.TrimSpace(fields[nameIdx])
		length, err := strconv.ParseInt(strings.TrimSpace(fields[lengthIdx]), 10, 64)
		if err != nil {
			return nil, &FormatError{Format: "tsv", Reason: "malformed length for " + name}
		}

		c := matchapi.Contig{Name: name, Length: length}
		if idx, ok := columns["md5"]; ok && idx < len(fields) {
			c.MD5 = strings.ToLower(strings.TrimSpace(fields[idx]))
		}
		if idx, ok := columns["aliases"]; ok && idx < len(fields) && fields[idx] != "" {
			c.Aliases = strings.FieldsFunc(fields[idx], func(r rune) bool { return r == ',' || r == ';' })
			for i := range c.Aliases {
				c.Aliases[i] = strings.TrimSpace(c.Aliases[i])
			}
		}
		contigs = append(contigs, c)
	}
	if len(contigs) == 0 {
		return nil, &FormatError{Format: "tsv", Reason: "no data rows found"}
	}

	return matchapi.NewQueryHeader(source, contigs), nil
}

func detectDelimiter(headerLine string) rune {
	if strings.Contains(headerLine, "\t") {
		return '\t'
	}
	return ','
}

func normalizeColumn(col string) string {
	return strings.ToLower(strings.TrimSpace(col))
}

func firstColumn(columns map[string]int, names ...string) (int, bool) {
	for _, n := range names {
		if idx, ok := columns[n]; ok {
			return idx, true
		}
	}
	return 0, false
}
