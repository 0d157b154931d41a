package matchapi

import (
	"encoding/json"
	"fmt"
	"io"
)

// catalogDocument mirrors the wire JSON described in spec.md §6. Field
// names match the document exactly; unknown fields are ignored by
// encoding/json's default decoding, and missing optional fields default
// to their Go zero value.
type catalogDocument struct {
	Version    string               `json:"version"`
	References []catalogReferenceDoc `json:"references"`
}

type catalogReferenceDoc struct {
	ID          string           `json:"id"`
	DisplayName string           `json:"display_name"`
	Assembly    string           `json:"assembly"`
	Source      string           `json:"source"`
	Description string           `json:"description"`
	DownloadURL string           `json:"download_url"`
	Contigs     []catalogContigDoc `json:"contigs"`
}

type catalogContigDoc struct {
	Name         string   `json:"name"`
	Length       int64    `json:"length"`
	MD5          string   `json:"md5"`
	Aliases      []string `json:"aliases"`
	SequenceRole string   `json:"sequence_role"`
}

// LoadCatalog decodes the catalog JSON document from r, validates each
// reference per spec.md §7, and returns the resulting slice of
// KnownReference along with the CatalogIndex built from it.
func LoadCatalog(r io.Reader) ([]*KnownReference, *CatalogIndex, error) {
	var doc catalogDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nil, fmt.Errorf("decode catalog: %w", err)
	}

	refs := make([]*KnownReference, 0, len(doc.References))
	for _, rd := range doc.References {
		contigs := make([]Contig, 0, len(rd.Contigs))
		for _, cd := range rd.Contigs {
			contigs = append(contigs, Contig{
				Name:         cd.Name,
				Length:       cd.Length,
				MD5:          cd.MD5,
				Aliases:      cd.Aliases,
				SequenceRole: SequenceRole(cd.SequenceRole),
			})
		}

		ref, err := newKnownReference(rd.ID, rd.DisplayName, rd.Assembly, rd.Source, contigs, rd.Description, rd.DownloadURL)
		if err != nil {
			return nil, nil, err
		}
		refs = append(refs, ref)
	}

	return refs, BuildCatalogIndex(refs), nil
}
