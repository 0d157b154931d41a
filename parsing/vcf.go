package parsing

import (
	"bufio"
	"bytes"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/biogo/hts/bgzf"

	"github.com/biorefs/refmatch/matchapi"
)

var contigLineRe = regexp.MustCompile(`^##contig=<(.*)>$`)

// ParseVCF reads a VCF's ##contig=<ID=...,length=...,md5=...> header
// lines, transparently handling both bgzipped and plain-text input. The
// bgzip path mirrors the teacher's own byte-by-byte line reader since
// bgzf.Reader doesn't implement bufio.Scanner's interface directly.
func ParseVCF(source string, r io.Reader, bgzipped bool) (*matchapi.QueryHeader, error) {
	if bgzipped {
		return parseVCFBgzip(source, r)
	}
	return parseVCFPlain(source, r)
}

func parseVCFBgzip(source string, r io.Reader) (*matchapi.QueryHeader, error) {
	bgReader, err := bgzf.NewReader(r, 1)
	if err != nil {
		return nil, &FormatError{Format: "vcf", Reason: err.Error()}
	}
	defer bgReader.Close()

	var contigs []matchapi.Contig
	sawFileformat := false
	for {
		line, err := readBgzipLine(bgReader)
		if len(line) > 0 {
			if c, isFileformat, ok := parseVCFHeaderLine(string(bytes.TrimSpace(line))); ok {
				contigs = append(contigs, c)
			} else if isFileformat {
				sawFileformat = true
			}
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, &FormatError{Format: "vcf", Reason: err.Error()}
		}
		if len(line) > 0 && line[0] != '#' {
			break
		}
	}
	if !sawFileformat {
		return nil, &FormatError{Format: "vcf", Reason: "missing ##fileformat=VCF header line"}
	}
	return matchapi.NewQueryHeader(source, contigs), nil
}

// readBgzipLine reads one newline-terminated line from a bgzf stream a
// byte at a time, the same strategy the teacher's VCF reader uses.
func readBgzipLine(r *bgzf.Reader) ([]byte, error) {
	var data []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			return data, err
		}
		data = append(data, b)
		if b == '\n' {
			return data, nil
		}
	}
}

func parseVCFPlain(source string, r io.Reader) (*matchapi.QueryHeader, error) {
	scanner := bufio.NewScanner(r)
	const maxCapacity = 8 * 1000 * 1000
	scanner.Buffer(make([]byte, maxCapacity), maxCapacity)

	var contigs []matchapi.Contig
	sawFileformat := false
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "#") {
			break
		}
		if c, isFileformat, ok := parseVCFHeaderLine(line); ok {
			contigs = append(contigs, c)
		} else if isFileformat {
			sawFileformat = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &FormatError{Format: "vcf", Reason: err.Error()}
	}
	if !sawFileformat {
		return nil, &FormatError{Format: "vcf", Reason: "missing ##fileformat=VCF header line"}
	}

	return matchapi.NewQueryHeader(source, contigs), nil
}

// parseVCFHeaderLine recognizes a ##contig line and extracts a Contig
// from it, and separately reports whether the line was the
// ##fileformat line (used as a cheap VCF sniff-check).
func parseVCFHeaderLine(line string) (c matchapi.Contig, isFileformat, ok bool) {
	if strings.HasPrefix(line, "##fileformat=VCF") {
		return matchapi.Contig{}, true, false
	}
	m := contigLineRe.FindStringSubmatch(line)
	if m == nil {
		return matchapi.Contig{}, false, false
	}

	fields := splitContigFields(m[1])
	name := fields["id"]
	if name == "" {
		return matchapi.Contig{}, false, false
	}
	var length int64
	if lengthStr, ok := fields["length"]; ok {
		length, _ = strconv.ParseInt(lengthStr, 10, 64)
	}

	return matchapi.Contig{
		Name:   name,
		Length: length,
		MD5:    strings.ToLower(fields["md5"]),
	}, false, true
}

// splitContigFields parses the comma-separated KEY=VALUE content inside
// a ##contig=<...> line, respecting quoted values that may themselves
// contain commas (e.g. a free-text description).
func splitContigFields(content string) map[string]string {
	fields := map[string]string{}
	word, key, quote := "", "", byte(0)
	for i := 0; i < len(content); i++ {
		ch := content[i]
		switch {
		case ch == '=' && quote == 0:
			key = strings.ToLower(word)
			word = ""
			continue
		case ch == ',' && quote == 0:
			fields[key] = strings.Trim(word, `"`)
			key, word = "", ""
			continue
		}
		word += string(ch)
		if ch == quote {
			quote = 0
		} else if quote == 0 && (ch == '"' || ch == '\'') {
			quote = ch
		}
	}
	if key != "" {
		fields[key] = strings.Trim(word, `"`)
	}
	return fields
}
