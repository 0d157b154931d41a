package matchapi

import "strings"

// CatalogIndex holds the lookup tables derived from a set of known
// references. It is built once and is safe to share by reference across
// concurrent scoring operations — nothing about it mutates after
// BuildCatalogIndex returns.
type CatalogIndex struct {
	References []*KnownReference

	bySignature  map[string][]*KnownReference // signature key -> refs with that full signature
	byContigMD5  map[string][]*KnownReference
	byNameLength map[NameLengthKey][]*KnownReference
}

// signatureKey joins a sorted MD5 tuple into a single map key.
func signatureKey(sig []string) string {
	return strings.Join(sig, ",")
}

// BuildCatalogIndex derives the three lookup tables from a validated set
// of references. References must already have their Signature and
// NameLengthKeys populated (as newKnownReference/LoadCatalog do).
func BuildCatalogIndex(references []*KnownReference) *CatalogIndex {
	idx := &CatalogIndex{
		References:   references,
		bySignature:  make(map[string][]*KnownReference),
		byContigMD5:  make(map[string][]*KnownReference),
		byNameLength: make(map[NameLengthKey][]*KnownReference),
	}

	for _, ref := range references {
		if ref.HasFullMD5Coverage() {
			key := signatureKey(ref.Signature)
			idx.bySignature[key] = append(idx.bySignature[key], ref)
		}

		seenMD5 := make(map[string]struct{})
		for _, c := range ref.Contigs {
			if c.HasMD5() {
				if _, ok := seenMD5[c.MD5]; !ok {
					seenMD5[c.MD5] = struct{}{}
					idx.byContigMD5[c.MD5] = append(idx.byContigMD5[c.MD5], ref)
				}
			}
		}

		for key := range ref.NameLengthKeys {
			idx.byNameLength[key] = append(idx.byNameLength[key], ref)
		}
	}

	return idx
}

// ExactSignatureMatches returns the references whose full signature
// equals the query's, or nil if there is no such reference.
func (idx *CatalogIndex) ExactSignatureMatches(signature []string) []*KnownReference {
	if len(signature) == 0 {
		return nil
	}
	return idx.bySignature[signatureKey(signature)]
}

// ReferencesByMD5 returns the references containing the given MD5.
func (idx *CatalogIndex) ReferencesByMD5(md5 string) []*KnownReference {
	return idx.byContigMD5[md5]
}

// ReferencesByNameLength returns the references containing a contig with
// the given (normalized name, length).
func (idx *CatalogIndex) ReferencesByNameLength(key NameLengthKey) []*KnownReference {
	return idx.byNameLength[key]
}
