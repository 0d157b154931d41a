package parsing

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/biorefs/refmatch/matchapi"
)

// roleAliases maps an NCBI assembly report's Sequence-Role text to our
// SequenceRole enum; unrecognized roles fall back to RoleOther.
var roleAliases = map[string]matchapi.SequenceRole{
	"assembled-molecule":   matchapi.RoleAssembledMolecule,
	"unlocalized-scaffold": matchapi.RoleUnlocalizedScaffold,
	"unplaced-scaffold":    matchapi.RoleUnplacedScaffold,
	"alt-scaffold":         matchapi.RoleAltScaffold,
	"fix-patch":            matchapi.RoleFixPatch,
	"novel-patch":          matchapi.RoleNovelPatch,
}

// ParseNCBIReport reads an NCBI assembly report TSV. The primary contig
// name is the UCSC-style-name column when present and not "na";
// otherwise it falls back to Sequence-Name. GenBank-Accn and RefSeq-Accn
// (and whichever of Sequence-Name/UCSC-style-name wasn't chosen as
// primary) are recorded as aliases.
func ParseNCBIReport(source string, r io.Reader) (*matchapi.QueryHeader, error) {
	scanner := bufio.NewScanner(r)
	const maxCapacity = 8 * 1000 * 1000
	scanner.Buffer(make([]byte, maxCapacity), maxCapacity)

	columns := map[string]int{}
	haveHeader := false
	var contigs []matchapi.Contig

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "#") {
			if strings.Contains(strings.ToLower(line), "sequence-name") {
				header := strings.TrimSpace(strings.TrimPrefix(line, "#"))
				for i, col := range strings.Split(header, "\t") {
					columns[strings.ToLower(strings.TrimSpace(col))] = i
				}
				haveHeader = true
			}
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if !haveHeader {
			return nil, &FormatError{Format: "ncbi_report", Reason: "header row not found before data"}
		}

		fields := strings.Split(line, "\t")
		seqNameIdx, ok := columns["sequence-name"]
		if !ok {
			return nil, &FormatError{Format: "ncbi_report", Reason: "missing Sequence-Name column"}
		}
		lengthIdx, ok := columns["sequence-length"]
		if !ok {
			return nil, &FormatError{Format: "ncbi_report", Reason: "missing Sequence-Length column"}
		}
		if len(fields) <= seqNameIdx || len(fields) <= lengthIdx {
			continue
		}

		sequenceName := strings.TrimSpace(fields[seqNameIdx])
		length, err := strconv.ParseInt(strings.TrimSpace(fields[lengthIdx]), 10, 64)
		if err != nil {
			return nil, &FormatError{Format: "ncbi_report", Reason: "malformed Sequence-Length for " + sequenceName}
		}

		get := func(col string) string {
			idx, ok := columns[col]
			if !ok || idx >= len(fields) {
				return ""
			}
			v := strings.TrimSpace(fields[idx])
			if v == "na" {
				return ""
			}
			return v
		}

		ucscName := get("ucsc-style-name")
		genbankAccn := get("genbank-accn")
		refseqAccn := get("refseq-accn")
		role := get("sequence-role")

		primary := ucscName
		var aliasCandidates []string
		if primary == "" {
			primary = sequenceName
		} else {
			aliasCandidates = append(aliasCandidates, sequenceName)
		}
		aliasCandidates = append(aliasCandidates, genbankAccn, refseqAccn)

		aliases := dedupeAliases(primary, aliasCandidates)

		contig := matchapi.Contig{
			Name:    primary,
			Length:  length,
			Aliases: aliases,
		}
		if r, ok := roleAliases[strings.ToLower(role)]; ok {
			contig.SequenceRole = r
		}
		contigs = append(contigs, contig)
	}
	if err := scanner.Err(); err != nil {
		return nil, &FormatError{Format: "ncbi_report", Reason: err.Error()}
	}
	if len(contigs) == 0 {
		return nil, &FormatError{Format: "ncbi_report", Reason: "no contigs found in assembly report"}
	}

	return matchapi.NewQueryHeader(source, contigs), nil
}

func dedupeAliases(primary string, candidates []string) []string {
	seen := map[string]struct{}{primary: {}}
	var out []string
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
