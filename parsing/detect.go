package parsing

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/biorefs/refmatch/matchapi"
)

var bamMagic = []byte{0x1f, 0x8b} // bgzf/gzip magic; BAM and bgzipped VCF both start this way

// Sniff inspects the first bytes of an input stream and reports the
// format it most likely holds: magic bytes for BAM (or bgzipped VCF when
// name ends in .vcf.gz) and CRAM, textual markers for SAM/VCF/.dict, a
// '#' line naming Sequence-Name for NCBI reports, then .fai when the
// first line has exactly five tab-separated columns with numeric
// columns two to five, and finally TSV when the first line contains a
// tab or a comma.
//
// Sniff never fully consumes r: it returns a reader that replays the
// peeked bytes followed by the rest of the stream, so the caller can
// pass the returned reader straight to the matching Parse* function.
func Sniff(name string, r io.Reader) (Format, io.Reader, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	peek, err := br.Peek(4096)
	if err != nil && err != io.EOF {
		return FormatUnknown, br, err
	}

	if bytes.HasPrefix(peek, bamMagic) {
		// Could be BAM or a bgzipped VCF; BAM's decompressed block starts
		// with "BAM\x01", which we can't see without inflating, so lean
		// on the filename when available and default to BAM otherwise.
		if strings.HasSuffix(strings.ToLower(name), ".vcf.gz") {
			return FormatVCF, br, nil
		}
		return FormatBAM, br, nil
	}
	if bytes.HasPrefix(peek, []byte("CRAM")) {
		return FormatCRAM, br, nil
	}

	text := string(peek)
	switch {
	case strings.HasPrefix(text, "@HD") || strings.HasPrefix(text, "@SQ"):
		if strings.Contains(text, "\nLN:") || strings.Contains(text, "\t") && looksLikeDict(text) {
			return FormatDict, br, nil
		}
		return FormatSAM, br, nil
	case strings.HasPrefix(text, "##fileformat=VCF"):
		return FormatVCF, br, nil
	case strings.HasPrefix(text, "##contig"):
		return FormatDict, br, nil
	case strings.HasPrefix(text, "#") && strings.Contains(strings.ToLower(text), "sequence-name"):
		return FormatNCBIReport, br, nil
	}

	if looksLikeFAI(text) {
		return FormatFAI, br, nil
	}
	if strings.Contains(strings.SplitN(text, "\n", 2)[0], "\t") || strings.Contains(strings.SplitN(text, "\n", 2)[0], ",") {
		return FormatTSV, br, nil
	}

	return FormatUnknown, br, nil
}

// looksLikeDict distinguishes a Picard .dict (only @HD/@SQ lines) from a
// full SAM file (which would also carry alignment records) by checking
// that every non-empty line in the peeked window starts with '@'.
func looksLikeDict(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "@") {
			return false
		}
	}
	return true
}

// isBgzipped peeks at r's first two bytes without consuming them,
// falling back to false (plain text) if r doesn't support peeking.
func isBgzipped(r io.Reader) bool {
	br, ok := r.(*bufio.Reader)
	if !ok {
		return false
	}
	peek, err := br.Peek(2)
	if err != nil {
		return false
	}
	return bytes.Equal(peek, bamMagic)
}

// looksLikeFAI checks whether the first line has exactly the five
// tab-separated .fai columns with numeric LENGTH/OFFSET/LINEBASES/
// LINEWIDTH fields.
func looksLikeFAI(text string) bool {
	firstLine := strings.SplitN(text, "\n", 2)[0]
	fields := strings.Split(firstLine, "\t")
	if len(fields) != 5 {
		return false
	}
	for _, f := range fields[1:] {
		for _, r := range f {
			if r < '0' || r > '9' {
				return false
			}
		}
	}
	return true
}

// Parse auto-detects the format of r (using name as a filename hint)
// and dispatches to the matching parser.
func Parse(name string, r io.Reader) (*matchapi.QueryHeader, error) {
	format, sniffed, err := Sniff(name, r)
	if err != nil {
		return nil, err
	}
	return ParseAs(format, name, sniffed)
}

// ParseAs dispatches to the parser for an explicitly chosen format,
// skipping auto-detection.
func ParseAs(format Format, name string, r io.Reader) (*matchapi.QueryHeader, error) {
	switch format {
	case FormatSAM:
		return ParseSAM(name, r)
	case FormatBAM:
		return ParseBAM(name, r)
	case FormatCRAM:
		return ParseCRAMHeader(name, r)
	case FormatDict:
		return ParseDict(name, r)
	case FormatFAI:
		return ParseFAI(name, r)
	case FormatVCF:
		return ParseVCF(name, r, isBgzipped(r))
	case FormatNCBIReport:
		return ParseNCBIReport(name, r)
	case FormatTSV:
		return ParseTSV(name, r)
	default:
		return nil, &FormatError{Format: "unknown", Reason: "could not detect input format for " + name}
	}
}
