package parsing

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDictBasic(t *testing.T) {
	dict := "@HD\tVN:1.6\tSO:unsorted\n" +
		"@SQ\tSN:chr1\tLN:248956422\tM5:6aef897c3d6ff0c78aff06ac189178dd\tAS:GRCh38\n" +
		"@SQ\tSN:chrM\tLN:16569\tM5:c68f52674c9fb33aef52dcf399755519\n"

	qh, err := ParseDict("test.dict", strings.NewReader(dict))
	require.NoError(t, err)
	require.Len(t, qh.Contigs, 2)
	assert.Equal(t, "chr1", qh.Contigs[0].Name)
	assert.Equal(t, int64(248956422), qh.Contigs[0].Length)
	assert.Equal(t, "6aef897c3d6ff0c78aff06ac189178dd", qh.Contigs[0].MD5)
	assert.Equal(t, "chrM", qh.Contigs[1].Name)
}

func TestParseDictMissingSQRejected(t *testing.T) {
	_, err := ParseDict("test.dict", strings.NewReader("@HD\tVN:1.6\n"))
	require.Error(t, err)
}

func TestParseDictMissingLNRejected(t *testing.T) {
	_, err := ParseDict("test.dict", strings.NewReader("@SQ\tSN:chr1\n"))
	require.Error(t, err)
}

func TestParseFAIBasic(t *testing.T) {
	fai := "chr1\t248956422\t6\t70\t71\n" +
		"chrM\t16569\t253404903\t70\t71\n"

	qh, err := ParseFAI("test.fai", strings.NewReader(fai))
	require.NoError(t, err)
	require.Len(t, qh.Contigs, 2)
	assert.Equal(t, "chr1", qh.Contigs[0].Name)
	assert.Equal(t, int64(248956422), qh.Contigs[0].Length)
	assert.Empty(t, qh.Contigs[0].MD5)
}

func TestParseVCFPlain(t *testing.T) {
	vcf := "##fileformat=VCFv4.2\n" +
		"##contig=<ID=chr1,length=248956422,md5=6aef897c3d6ff0c78aff06ac189178dd>\n" +
		"##contig=<ID=chrM,length=16569>\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n"

	qh, err := ParseVCF("test.vcf", strings.NewReader(vcf), false)
	require.NoError(t, err)
	require.Len(t, qh.Contigs, 2)
	assert.Equal(t, "chr1", qh.Contigs[0].Name)
	assert.Equal(t, int64(248956422), qh.Contigs[0].Length)
	assert.Equal(t, "6aef897c3d6ff0c78aff06ac189178dd", qh.Contigs[0].MD5)
	assert.Equal(t, "chrM", qh.Contigs[1].Name)
	assert.Empty(t, qh.Contigs[1].MD5)
}

func TestParseVCFMissingFileformatRejected(t *testing.T) {
	vcf := "##contig=<ID=chr1,length=100>\n#CHROM\tPOS\n"
	_, err := ParseVCF("test.vcf", strings.NewReader(vcf), false)
	require.Error(t, err)
}

func TestSplitContigFieldsHandlesQuotedCommas(t *testing.T) {
	fields := splitContigFields(`ID=chr1,length=100,description="Homo sapiens, chromosome 1",md5=abc`)
	assert.Equal(t, "chr1", fields["id"])
	assert.Equal(t, "100", fields["length"])
	assert.Equal(t, "Homo sapiens, chromosome 1", fields["description"])
	assert.Equal(t, "abc", fields["md5"])
}

func TestParseNCBIReportPrefersUCSCName(t *testing.T) {
	report := "# Assembly name:  GRCh38.p14\n" +
		"# Sequence-Name\tSequence-Role\tGenBank-Accn\tRefSeq-Accn\tSequence-Length\tUCSC-style-name\n" +
		"1\tassembled-molecule\tCM000663.2\tNC_000001.11\t248956422\tchr1\n" +
		"MT\tassembled-molecule\tJ01415.2\tNC_012920.1\t16569\tchrM\n" +
		"HSCHR1_RANDOM_CTG1\tunplaced-scaffold\tKN000001.1\tna\t123456\tna\n"

	qh, err := ParseNCBIReport("report.tsv", strings.NewReader(report))
	require.NoError(t, err)
	require.Len(t, qh.Contigs, 3)

	chr1 := qh.Contigs[0]
	assert.Equal(t, "chr1", chr1.Name)
	assert.Equal(t, int64(248956422), chr1.Length)
	assert.Contains(t, chr1.Aliases, "1")
	assert.Contains(t, chr1.Aliases, "CM000663.2")
	assert.Contains(t, chr1.Aliases, "NC_000001.11")

	mt := qh.Contigs[1]
	assert.Equal(t, "chrM", mt.Name)

	unplaced := qh.Contigs[2]
	assert.Equal(t, "HSCHR1_RANDOM_CTG1", unplaced.Name)
	assert.NotContains(t, unplaced.Aliases, "na")
}

func TestParseNCBIReportRejectsMissingHeader(t *testing.T) {
	_, err := ParseNCBIReport("report.tsv", strings.NewReader("1\tassembled-molecule\t248956422\n"))
	require.Error(t, err)
}

func TestParseTSVBasic(t *testing.T) {
	tsv := "name\tlength\tmd5\n" +
		"chr1\t248956422\t6aef897c3d6ff0c78aff06ac189178dd\n" +
		"chrM\t16569\tc68f52674c9fb33aef52dcf399755519\n"

	qh, err := ParseTSV("manifest.tsv", strings.NewReader(tsv))
	require.NoError(t, err)
	require.Len(t, qh.Contigs, 2)
	assert.Equal(t, "chr1", qh.Contigs[0].Name)
	assert.Equal(t, "6aef897c3d6ff0c78aff06ac189178dd", qh.Contigs[0].MD5)
}

func TestParseTSVWithAliasesColumn(t *testing.T) {
	tsv := "id,length,aliases\n" +
		"chr1,248956422,\"1;NC_000001.11\"\n"
	qh, err := ParseTSV("manifest.csv", strings.NewReader(tsv))
	require.NoError(t, err)
	require.Len(t, qh.Contigs, 1)
	assert.ElementsMatch(t, []string{"1", "NC_000001.11"}, qh.Contigs[0].Aliases)
}

func TestParseTSVWithQuotedCommaInAliasesCellWhenOuterDelimiterIsComma(t *testing.T) {
	tsv := "id,length,aliases\n" +
		"chr1,248956422,\"1,NC_000001.11\"\n"
	qh, err := ParseTSV("manifest.csv", strings.NewReader(tsv))
	require.NoError(t, err)
	require.Len(t, qh.Contigs, 1)
	assert.ElementsMatch(t, []string{"1", "NC_000001.11"}, qh.Contigs[0].Aliases)
}

func TestSniffDetectsSAM(t *testing.T) {
	sam := "@HD\tVN:1.6\n@SQ\tSN:chr1\tLN:100\nread1\t0\tchr1\t1\t60\t4M\t*\t0\t0\tACGT\tIIII\n"
	format, _, err := Sniff("input.sam", strings.NewReader(sam))
	require.NoError(t, err)
	assert.Equal(t, FormatSAM, format)
}

func TestSniffDetectsDict(t *testing.T) {
	dict := "@HD\tVN:1.6\tSO:unsorted\n@SQ\tSN:chr1\tLN:100\n@SQ\tSN:chr2\tLN:200\n"
	format, _, err := Sniff("reference.dict", strings.NewReader(dict))
	require.NoError(t, err)
	assert.Equal(t, FormatDict, format)
}

func TestSniffDetectsVCF(t *testing.T) {
	vcf := "##fileformat=VCFv4.2\n##contig=<ID=chr1,length=100>\n#CHROM\tPOS\n"
	format, _, err := Sniff("variants.vcf", strings.NewReader(vcf))
	require.NoError(t, err)
	assert.Equal(t, FormatVCF, format)
}

func TestSniffDetectsFAI(t *testing.T) {
	fai := "chr1\t248956422\t6\t70\t71\nchr2\t242193529\t248956529\t70\t71\n"
	format, _, err := Sniff("genome.fa.fai", strings.NewReader(fai))
	require.NoError(t, err)
	assert.Equal(t, FormatFAI, format)
}

func TestSniffDetectsNCBIReport(t *testing.T) {
	report := "# Sequence-Name\tSequence-Length\tUCSC-style-name\n1\t248956422\tchr1\n"
	format, _, err := Sniff("assembly_report.txt", strings.NewReader(report))
	require.NoError(t, err)
	assert.Equal(t, FormatNCBIReport, format)
}

func TestSniffDetectsBAMFromMagic(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0x1f, 0x8b, 0x08, 0x00})
	buf.WriteString("rest of a bgzf stream")
	format, _, err := Sniff("aligned.bam", &buf)
	require.NoError(t, err)
	assert.Equal(t, FormatBAM, format)
}

func TestParseDispatchesThroughSniff(t *testing.T) {
	dict := "@HD\tVN:1.6\n@SQ\tSN:chr1\tLN:100\tM5:6aef897c3d6ff0c78aff06ac189178dd\n"
	qh, err := Parse("reference.dict", strings.NewReader(dict))
	require.NoError(t, err)
	require.Len(t, qh.Contigs, 1)
	assert.Equal(t, "chr1", qh.Contigs[0].Name)
}
