// Package matchapi is the matching and diagnosis engine: it identifies
// which known reference genome a query sequence dictionary was aligned
// against, and explains the differences when it wasn't an exact match.
//
// The package is pure and stateless between calls. KnownReference values
// and the CatalogIndex built from them are immutable once constructed and
// may be shared across concurrent callers; a QueryHeader and the
// MatchResult values produced for it live for the duration of one request.
package matchapi

// SequenceRole classifies the role a contig plays in an assembly, as
// reported by an NCBI assembly report.
type SequenceRole string

const (
	RoleAssembledMolecule   SequenceRole = "assembled-molecule"
	RoleUnlocalizedScaffold SequenceRole = "unlocalized-scaffold"
	RoleUnplacedScaffold    SequenceRole = "unplaced-scaffold"
	RoleAltScaffold         SequenceRole = "alt-scaffold"
	RoleFixPatch            SequenceRole = "fix-patch"
	RoleNovelPatch          SequenceRole = "novel-patch"
	RoleDecoy               SequenceRole = "decoy"
	RoleHLA                 SequenceRole = "hla"
	RoleViral               SequenceRole = "viral"
	RoleOther               SequenceRole = "other"
)

// Contig is a single sequence entry in a dictionary.
type Contig struct {
	Name         string
	Length       int64
	MD5          string // empty when unknown; otherwise 32 lowercase hex chars
	Aliases      []string
	SequenceRole SequenceRole
}

// HasMD5 reports whether the contig carries an MD5 checksum.
func (c Contig) HasMD5() bool { return c.MD5 != "" }

// NamingConvention is the systematic mapping a header's contig names follow.
type NamingConvention string

const (
	NamingUCSC      NamingConvention = "UCSC"
	NamingNCBI      NamingConvention = "NCBI"
	NamingAccession NamingConvention = "Accession"
	NamingMixed     NamingConvention = "Mixed"
	NamingUnknown   NamingConvention = "Unknown"
)

// NameLengthKey is the (normalized name, length) pair used for
// name+length matching, independent of naming convention.
type NameLengthKey struct {
	Name   string
	Length int64
}

// QueryHeader is the sequence dictionary extracted from an input file.
// Order of Contigs is significant. Derived fields are computed lazily on
// first access via Fingerprint and then cached.
type QueryHeader struct {
	Source  string
	Contigs []Contig

	fingerprinted    bool
	md5Coverage      float64
	namingConvention NamingConvention
	signature        []string // sorted MD5s
	nameLengthKeys   map[NameLengthKey]struct{}
}

// KnownReference is one catalog entry: a full expected dictionary plus
// descriptive metadata. Built once at catalog load time and immutable
// thereafter.
type KnownReference struct {
	ID          string
	DisplayName string
	Assembly    string
	Source      string
	Contigs     []Contig
	Description string
	DownloadURL string

	// Precomputed once at construction, same shape as QueryHeader's derived fields.
	Signature      []string
	NameLengthKeys map[NameLengthKey]struct{}
}

// MatchType categorizes how a query dictionary relates to a reference.
type MatchType string

const (
	MatchExact     MatchType = "Exact"
	MatchRenamed   MatchType = "Renamed"
	MatchReordered MatchType = "Reordered"
	MatchSubset    MatchType = "Subset"
	MatchSuperset  MatchType = "Superset"
	MatchPartial   MatchType = "Partial"
	MatchMixed     MatchType = "Mixed"
	MatchNoMatch   MatchType = "NoMatch"
)

// Confidence is derived only from the composite score.
type Confidence string

const (
	ConfidenceExact  Confidence = "Exact"
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// ConfidenceFromScore maps a composite score to its Confidence bucket.
func ConfidenceFromScore(score float64) Confidence {
	switch {
	case score >= 1.0:
		return ConfidenceExact
	case score >= 0.95:
		return ConfidenceHigh
	case score >= 0.80:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// ContigMatchStatus is the per-contig classification within a scored pair.
type ContigMatchStatus string

const (
	StatusExact              ContigMatchStatus = "Exact"
	StatusRenamed            ContigMatchStatus = "Renamed"
	StatusNameLength         ContigMatchStatus = "NameLength"
	StatusConflict           ContigMatchStatus = "Conflict"
	StatusUnmatchedQuery     ContigMatchStatus = "UnmatchedQuery"
	StatusUnmatchedReference ContigMatchStatus = "UnmatchedReference"
)

// ScoreBreakdown holds the four factor scores and their composite.
type ScoreBreakdown struct {
	MD5Jaccard        float64
	NameLengthJaccard float64
	MD5Coverage       float64
	Order             float64
	Composite         float64
}

// ContigPairing records how one query contig resolved against the
// reference, or marks a reference contig that no query contig paired with.
type ContigPairing struct {
	QueryIndex     int // index into the query's Contigs slice, -1 for an unmatched reference contig
	ReferenceIndex int // index into the reference's Contigs slice, -1 if unmatched
	Status         ContigMatchStatus
}

// MatchResult is the scored output for one (query, reference) pair.
type MatchResult struct {
	Reference   *KnownReference
	Breakdown   ScoreBreakdown
	MatchType   MatchType
	Confidence  Confidence
	Counts      map[ContigMatchStatus]int
	Pairings    []ContigPairing
	Reordered   bool
	Suggestions []Suggestion
}

// SuggestionKind tags the variant of a Suggestion.
type SuggestionKind string

const (
	SuggestRename  SuggestionKind = "Rename"
	SuggestReorder SuggestionKind = "Reorder"
	SuggestReplace SuggestionKind = "Replace"
	SuggestUseAsIs SuggestionKind = "UseAsIs"
	SuggestRealign SuggestionKind = "Realign"
)

// Suggestion is a single actionable remediation item. Only the fields
// relevant to Kind are populated.
type Suggestion struct {
	Kind     SuggestionKind
	From     string // Rename
	To       string // Rename
	ToolHint string // Rename, Reorder
	Command  string // Rename, Reorder
	Contig   string // Replace
	Reason   string // Replace, Realign
}

// MatchingConfig controls scoring weights, candidate fan-out, and the
// ranking cutoff.
type MatchingConfig struct {
	WeightMD5Jaccard        float64 `yaml:"weight_md5_jaccard"`
	WeightNameLengthJaccard float64 `yaml:"weight_name_length_jaccard"`
	WeightMD5Coverage       float64 `yaml:"weight_md5_coverage"`
	WeightOrder             float64 `yaml:"weight_order"`
	MaxCandidates           int     `yaml:"max_candidates"`
	ScoreThreshold          float64 `yaml:"score_threshold"`
}

// DefaultMatchingConfig mirrors the weighting the core was designed
// against: MD5 identity dominates, name+length and order provide
// secondary corroboration.
func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		WeightMD5Jaccard:        0.40,
		WeightNameLengthJaccard: 0.30,
		WeightMD5Coverage:       0.20,
		WeightOrder:             0.10,
		MaxCandidates:           5,
		ScoreThreshold:          0.0,
	}
}

// Validate checks the invariants from spec.md §3/§7.
func (c MatchingConfig) Validate() error {
	for _, w := range []float64{c.WeightMD5Jaccard, c.WeightNameLengthJaccard, c.WeightMD5Coverage, c.WeightOrder} {
		if w < 0 {
			return &ConfigInvalidError{Reason: "weights must be non-negative"}
		}
	}
	if c.WeightMD5Jaccard+c.WeightNameLengthJaccard+c.WeightMD5Coverage+c.WeightOrder == 0 {
		return &ConfigInvalidError{Reason: "at least one weight must be positive"}
	}
	if c.MaxCandidates < 1 {
		return &ConfigInvalidError{Reason: "max_candidates must be >= 1"}
	}
	if c.ScoreThreshold < 0 || c.ScoreThreshold > 1 {
		return &ConfigInvalidError{Reason: "score_threshold must be within [0,1]"}
	}
	return nil
}
