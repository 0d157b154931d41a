package matchapi

import (
	"regexp"
	"sort"
)

var md5Re = regexp.MustCompile(`^[0-9a-f]{32}$`)

// NewQueryHeader builds a QueryHeader from a parser's contig slice. It
// does not validate or fingerprint the header; call Fingerprint (or let
// Fingerprint, Signature, etc. lazily trigger it) before scoring.
func NewQueryHeader(source string, contigs []Contig) *QueryHeader {
	return &QueryHeader{Source: source, Contigs: contigs}
}

// Fingerprint validates the header per spec.md §4.3 and populates its
// derived fields. It is idempotent and safe to call more than once.
func (h *QueryHeader) Fingerprint() error {
	if h.fingerprinted {
		return nil
	}

	seen := make(map[string]struct{}, len(h.Contigs))
	for _, c := range h.Contigs {
		if _, dup := seen[c.Name]; dup {
			return &InvalidQueryHeaderError{Reason: "duplicate contig name", Contig: c.Name}
		}
		seen[c.Name] = struct{}{}

		if c.Length <= 0 {
			return &InvalidQueryHeaderError{Reason: "length must be positive", Contig: c.Name}
		}
		if c.MD5 != "" && !md5Re.MatchString(c.MD5) {
			return &InvalidQueryHeaderError{Reason: "malformed MD5", Contig: c.Name}
		}
	}

	h.namingConvention = DetectNamingConvention(h.Contigs)
	h.nameLengthKeys = buildNameLengthKeys(h.Contigs)

	withMD5 := 0
	md5s := make([]string, 0, len(h.Contigs))
	for _, c := range h.Contigs {
		if c.HasMD5() {
			withMD5++
			md5s = append(md5s, c.MD5)
		}
	}
	if len(h.Contigs) > 0 {
		h.md5Coverage = float64(withMD5) / float64(len(h.Contigs))
	}
	sort.Strings(md5s)
	h.signature = md5s

	h.fingerprinted = true
	return nil
}

// buildNameLengthKeys indexes every contig under both canonical views of
// its own name and of each alias, so a reference contig's (name, length)
// matches a query contig regardless of which naming convention either
// side used.
func buildNameLengthKeys(contigs []Contig) map[NameLengthKey]struct{} {
	keys := make(map[NameLengthKey]struct{}, len(contigs)*2)
	for _, c := range contigs {
		addNameLengthKeys(keys, c.Name, c.Length)
		for _, alias := range c.Aliases {
			addNameLengthKeys(keys, alias, c.Length)
		}
	}
	return keys
}

func addNameLengthKeys(keys map[NameLengthKey]struct{}, name string, length int64) {
	nf := Normalize(name)
	keys[NameLengthKey{Name: nf.CanonicalUCSC, Length: length}] = struct{}{}
	keys[NameLengthKey{Name: nf.CanonicalBare, Length: length}] = struct{}{}
	if nf.ExtraAlias != "" {
		keys[NameLengthKey{Name: nf.ExtraAlias, Length: length}] = struct{}{}
	}
}

// MD5Coverage returns the fraction of contigs carrying an MD5.
func (h *QueryHeader) MD5Coverage() float64 {
	_ = h.Fingerprint()
	return h.md5Coverage
}

// NamingConvention returns the detected naming convention.
func (h *QueryHeader) NamingConvention() NamingConvention {
	_ = h.Fingerprint()
	return h.namingConvention
}

// Signature returns the sorted tuple of all MD5s present (empty if none).
func (h *QueryHeader) Signature() []string {
	_ = h.Fingerprint()
	return h.signature
}

// NameLengthKeys returns the set of (normalized name, length) pairs
// (both canonical views, plus alias-derived keys) for this header.
func (h *QueryHeader) NameLengthKeys() map[NameLengthKey]struct{} {
	_ = h.Fingerprint()
	return h.nameLengthKeys
}

// MD5Set returns the set of MD5s present in the header.
func (h *QueryHeader) MD5Set() map[string]struct{} {
	_ = h.Fingerprint()
	set := make(map[string]struct{}, len(h.signature))
	for _, m := range h.signature {
		set[m] = struct{}{}
	}
	return set
}

// newKnownReference builds a KnownReference with its derived indexes
// precomputed, mirroring QueryHeader's own derived fields. Catalog
// loading is the only caller; references are immutable afterward.
func newKnownReference(id, displayName, assembly, source string, contigs []Contig, description, downloadURL string) (*KnownReference, error) {
	seen := make(map[string]struct{}, len(contigs))
	for _, c := range contigs {
		if _, dup := seen[c.Name]; dup {
			return nil, &InvalidCatalogError{Reason: "duplicate contig name", Reference: id, Contig: c.Name}
		}
		seen[c.Name] = struct{}{}
		if c.Length <= 0 {
			return nil, &InvalidCatalogError{Reason: "length must be positive", Reference: id, Contig: c.Name}
		}
		if c.MD5 != "" && !md5Re.MatchString(c.MD5) {
			return nil, &InvalidCatalogError{Reason: "malformed MD5", Reference: id, Contig: c.Name}
		}
		for _, alias := range c.Aliases {
			if alias == c.Name {
				return nil, &InvalidCatalogError{Reason: "alias duplicates contig name", Reference: id, Contig: c.Name}
			}
		}
	}

	md5s := make([]string, 0, len(contigs))
	for _, c := range contigs {
		if c.HasMD5() {
			md5s = append(md5s, c.MD5)
		}
	}
	sort.Strings(md5s)

	return &KnownReference{
		ID:             id,
		DisplayName:    displayName,
		Assembly:       assembly,
		Source:         source,
		Contigs:        contigs,
		Description:    description,
		DownloadURL:    downloadURL,
		Signature:      md5s,
		NameLengthKeys: buildNameLengthKeys(contigs),
	}, nil
}

// MD5Set returns the set of MD5s present in the reference.
func (r *KnownReference) MD5Set() map[string]struct{} {
	set := make(map[string]struct{}, len(r.Signature))
	for _, m := range r.Signature {
		set[m] = struct{}{}
	}
	return set
}

// HasFullMD5Coverage reports whether every contig in the reference
// carries an MD5 — only such references are eligible for the Catalog
// Index's by_signature table.
func (r *KnownReference) HasFullMD5Coverage() bool {
	for _, c := range r.Contigs {
		if !c.HasMD5() {
			return false
		}
	}
	return len(r.Contigs) > 0
}
