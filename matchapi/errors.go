package matchapi

import "fmt"

// InvalidQueryHeaderError is returned when a QueryHeader fails
// fingerprinting validation: a duplicate contig name, a non-positive
// length, or a malformed MD5.
type InvalidQueryHeaderError struct {
	Reason string
	Contig string
}

func (e *InvalidQueryHeaderError) Error() string {
	if e.Contig != "" {
		return fmt.Sprintf("invalid query header: %s (contig %q)", e.Reason, e.Contig)
	}
	return fmt.Sprintf("invalid query header: %s", e.Reason)
}

// InvalidCatalogError is returned when a KnownReference fails the same
// checks applied to a QueryHeader.
type InvalidCatalogError struct {
	Reason    string
	Reference string
	Contig    string
}

func (e *InvalidCatalogError) Error() string {
	switch {
	case e.Contig != "":
		return fmt.Sprintf("invalid catalog entry %q: %s (contig %q)", e.Reference, e.Reason, e.Contig)
	case e.Reference != "":
		return fmt.Sprintf("invalid catalog entry %q: %s", e.Reference, e.Reason)
	default:
		return fmt.Sprintf("invalid catalog: %s", e.Reason)
	}
}

// ConfigInvalidError is returned when a MatchingConfig violates its
// invariants: negative weights, a non-positive max_candidates, or a
// score_threshold outside [0,1].
type ConfigInvalidError struct {
	Reason string
}

func (e *ConfigInvalidError) Error() string {
	return fmt.Sprintf("invalid matching config: %s", e.Reason)
}
