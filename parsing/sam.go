package parsing

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"io"
	"strings"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"

	"github.com/biorefs/refmatch/matchapi"
)

// ParseSAM reads a textual SAM header (the @HD/@SQ/... block, or a full
// SAM file — only the header is consulted) and returns its sequence
// dictionary.
func ParseSAM(source string, r io.Reader) (*matchapi.QueryHeader, error) {
	rd, err := sam.NewReader(r)
	if err != nil {
		return nil, &FormatError{Format: "sam", Reason: err.Error()}
	}
	return headerToQuery(source, rd.Header())
}

// ParseBAM reads a BAM file's header (the bgzf-compressed binary
// container) without iterating its alignment records.
func ParseBAM(source string, r io.Reader) (*matchapi.QueryHeader, error) {
	rd, err := bam.NewReader(r, 1)
	if err != nil {
		return nil, &FormatError{Format: "bam", Reason: err.Error()}
	}
	defer rd.Close()
	return headerToQuery(source, rd.Header())
}

// ParseCRAMHeader extracts the sequence dictionary from a CRAM file's
// embedded SAM-style header text. CRAM's container format otherwise
// stores data as compressed binary blocks specific to CRAM itself;
// decoding those without a reference FASTA is out of scope, so this
// only handles CRAM files whose leading SAM header text block is
// readable as plain bytes (true of every CRAM writer observed in the
// wild, since the header block is written before any reference-specific
// compression begins).
func ParseCRAMHeader(source string, r io.Reader) (*matchapi.QueryHeader, error) {
	br := bufio.NewReader(r)
	magic := make([]byte, 4)
	if _, err := io.ReadFull(br, magic); err != nil {
		return nil, &FormatError{Format: "cram", Reason: "could not read CRAM magic bytes"}
	}
	if string(magic[:4]) != "CRAM" {
		return nil, &FormatError{Format: "cram", Reason: "missing CRAM magic bytes"}
	}

	raw, err := io.ReadAll(br)
	if err != nil {
		return nil, &FormatError{Format: "cram", Reason: err.Error()}
	}
	start := bytes.Index(raw, []byte("@HD"))
	if start < 0 {
		start = bytes.Index(raw, []byte("@SQ"))
	}
	if start < 0 {
		return nil, &FormatError{Format: "cram", Reason: "no embedded SAM header text found; re-run with `samtools view -H` piped as SAM instead"}
	}
	end := bytes.IndexByte(raw[start:], 0)
	var headerText []byte
	if end < 0 {
		headerText = raw[start:]
	} else {
		headerText = raw[start : start+end]
	}

	rd, err := sam.NewReader(strings.NewReader(string(headerText)))
	if err != nil {
		return nil, &FormatError{Format: "cram", Reason: err.Error()}
	}
	return headerToQuery(source, rd.Header())
}

func headerToQuery(source string, h *sam.Header) (*matchapi.QueryHeader, error) {
	refs := h.Refs()
	contigs := make([]matchapi.Contig, 0, len(refs))
	for _, ref := range refs {
		if ref == nil {
			continue
		}
		contigs = append(contigs, matchapi.Contig{
			Name:   ref.Name(),
			Length: int64(ref.Len()),
			MD5:    hex.EncodeToString(ref.MD5()),
		})
	}
	return matchapi.NewQueryHeader(source, contigs), nil
}
