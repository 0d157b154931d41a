package parsing

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/biorefs/refmatch/matchapi"
)

var dictTagRe = regexp.MustCompile(`([A-Za-z][A-Za-z0-9]):([^\t]*)`)

// ParseDict reads a Picard-style sequence dictionary (.dict): an @HD
// line followed by one @SQ line per contig, each carrying SN/LN/M5/AS/
// SP/UR tags in no fixed order.
func ParseDict(source string, r io.Reader) (*matchapi.QueryHeader, error) {
	scanner := bufio.NewScanner(r)
	const maxCapacity = 8 * 1000 * 1000
	scanner.Buffer(make([]byte, maxCapacity), maxCapacity)

	var contigs []matchapi.Contig
	sawSQ := false
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "@SQ") {
			continue
		}
		sawSQ = true

		tags := map[string]string{}
		for _, m := range dictTagRe.FindAllStringSubmatch(line, -1) {
			tags[m[1]] = m[2]
		}

		name, ok := tags["SN"]
		if !ok || name == "" {
			return nil, &FormatError{Format: "dict", Reason: "@SQ line missing SN tag"}
		}
		lengthStr, ok := tags["LN"]
		if !ok {
			return nil, &FormatError{Format: "dict", Reason: "@SQ line missing LN tag for " + name}
		}
		length, err := strconv.ParseInt(lengthStr, 10, 64)
		if err != nil {
			return nil, &FormatError{Format: "dict", Reason: "malformed LN value for " + name}
		}

		contigs = append(contigs, matchapi.Contig{
			Name:   name,
			Length: length,
			MD5:    strings.ToLower(tags["M5"]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, &FormatError{Format: "dict", Reason: err.Error()}
	}
	if !sawSQ {
		return nil, &FormatError{Format: "dict", Reason: "no @SQ lines found"}
	}

	return matchapi.NewQueryHeader(source, contigs), nil
}
