package matchapi

import (
	"regexp"
	"strings"
)

// NormalForm is the pair of canonical views the normalizer computes for
// a contig name: the UCSC-style (chr-prefixed) view and the bare view.
// Both are indexed so matching works regardless of the query's or the
// catalog's own naming convention.
type NormalForm struct {
	CanonicalUCSC string
	CanonicalBare string
	// ExtraAlias is populated when the input encodes an embedded
	// accession (patch names like chr1_KI270706v1_fix) that should be
	// indexed as an additional alias.
	ExtraAlias string
}

var (
	mitoRegexp     = regexp.MustCompile(`(?i)^(chrM|chrMT|M|MT)$`)
	chrPrefixRe    = regexp.MustCompile(`(?i)^chr(.+)$`)
	primaryTokenRe = regexp.MustCompile(`(?i)^(?:[1-9]|1[0-9]|2[0-2]|X|Y)$`)
	accessionRe    = regexp.MustCompile(`^(NC_\d+\.\d+|CM\d+\.\d+|KN\d+\.\d+|KQ\d+\.\d+|KV\d+\.\d+|GL\d+\.\d+)$`)
	patchNameRe    = regexp.MustCompile(`(?i)^chr([0-9XYM]+)_([A-Za-z]+\d+)v(\d+)_(fix|alt)$`)
)

// accessionToChromosome maps a handful of the most common GRCh38
// RefSeq/GenBank primary-assembly accessions to their bare chromosome
// token. It is deliberately small: unrecognized accessions are preserved
// verbatim rather than guessed at.
var accessionToChromosome = map[string]string{
	"NC_000001.11": "1", "NC_000002.12": "2", "NC_000003.12": "3",
	"NC_000004.12": "4", "NC_000005.10": "5", "NC_000006.12": "6",
	"NC_000007.14": "7", "NC_000008.11": "8", "NC_000009.12": "9",
	"NC_000010.11": "10", "NC_000011.10": "11", "NC_000012.12": "12",
	"NC_000013.11": "13", "NC_000014.9": "14", "NC_000015.10": "15",
	"NC_000016.10": "16", "NC_000017.11": "17", "NC_000018.10": "18",
	"NC_000019.10": "19", "NC_000020.11": "20", "NC_000021.9": "21",
	"NC_000022.11": "22", "NC_000023.11": "X", "NC_000024.10": "Y",
	"NC_012920.1": "MT",
	// GRCh37
	"NC_000001.10": "1", "NC_000002.11": "2", "NC_000003.11": "3",
}

// Normalize canonicalizes a contig name per spec.md §4.1, applying rules
// in order (first match wins) and returning both canonical views plus
// any alias discovered along the way.
func Normalize(name string) NormalForm {
	trimmed := strings.TrimSpace(name)

	// Rule 1: mitochondrial aliases all collapse to chrM.
	if mitoRegexp.MatchString(trimmed) {
		return NormalForm{CanonicalUCSC: "chrM", CanonicalBare: "MT"}
	}

	// Rule 3: accessions are preserved verbatim, but looked up for an
	// equivalent chromosome canonical form where unambiguous.
	if accessionRe.MatchString(trimmed) {
		nf := NormalForm{CanonicalUCSC: trimmed, CanonicalBare: trimmed}
		if chrom, ok := accessionToChromosome[trimmed]; ok {
			nf.CanonicalBare = normalizeBareToken(chrom)
			nf.CanonicalUCSC = "chr" + nf.CanonicalBare
		}
		return nf
	}

	// Rule 4: UCSC patch names (chr1_KI270706v1_fix / _alt) carry an
	// embedded accession that is emitted as an alias.
	if m := patchNameRe.FindStringSubmatch(trimmed); m != nil {
		acc := strings.ToUpper(m[2]) + "." + m[3]
		return NormalForm{
			CanonicalUCSC: trimmed,
			CanonicalBare: trimmed,
			ExtraAlias:    acc,
		}
	}

	// Rule 2: chr-prefixed primary chromosome tokens get both views
	// derived from the bare token; anything else keeps its case except
	// for the chr prefix itself and the primary token casing.
	if m := chrPrefixRe.FindStringSubmatch(trimmed); m != nil {
		rest := m[1]
		if primaryTokenRe.MatchString(rest) {
			bare := normalizeBareToken(rest)
			return NormalForm{CanonicalUCSC: "chr" + bare, CanonicalBare: bare}
		}
		// chr-prefixed but not a primary token (e.g. chrUn_gl000220):
		// preserve rest's case, just normalize the prefix.
		return NormalForm{CanonicalUCSC: "chr" + rest, CanonicalBare: rest}
	}

	if primaryTokenRe.MatchString(trimmed) {
		bare := normalizeBareToken(trimmed)
		return NormalForm{CanonicalUCSC: "chr" + bare, CanonicalBare: bare}
	}

	// Rule 5: non-chromosome tokens keep their case in both views.
	return NormalForm{CanonicalUCSC: trimmed, CanonicalBare: trimmed}
}

// normalizeBareToken lowercases numeric/word tokens but upper-cases the
// single-letter X/Y chromosome tokens, per rule 5.
func normalizeBareToken(tok string) string {
	up := strings.ToUpper(tok)
	if up == "X" || up == "Y" {
		return up
	}
	if up == "M" || up == "MT" {
		return "MT"
	}
	return strings.ToLower(tok)
}

// DetectNamingConvention classifies a set of contigs by how their
// primary-chromosome names are written, per spec.md §4.1.
func DetectNamingConvention(contigs []Contig) NamingConvention {
	var withPrefix, withoutPrefix, accessionLike, primaryTotal int

	for _, c := range contigs {
		nf := Normalize(c.Name)
		isPrimary := primaryTokenRe.MatchString(nf.CanonicalBare) || nf.CanonicalBare == "MT"
		if !isPrimary {
			continue
		}
		primaryTotal++
		switch {
		case accessionRe.MatchString(c.Name):
			accessionLike++
		case chrPrefixRe.MatchString(c.Name):
			withPrefix++
		default:
			withoutPrefix++
		}
	}

	if primaryTotal == 0 {
		return NamingUnknown
	}

	total := float64(primaryTotal)
	if float64(accessionLike)/total > 0.90 {
		return NamingAccession
	}
	if float64(withPrefix)/total > 0.90 {
		return NamingUCSC
	}
	if float64(withoutPrefix)/total > 0.90 {
		return NamingNCBI
	}
	if withPrefix > 0 && withoutPrefix > 0 {
		return NamingMixed
	}
	return NamingUnknown
}
