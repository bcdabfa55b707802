// Package pipeline defines the central data types shared across every stage
// of the comparison engine. These types are the data backbone: rule
// compilation, the structural diff walk, categorization, summarization,
// cross-file aggregation, file classification, and the request-replay
// pipeline all operate on the same DTOs defined here.
//
// This package has zero external dependencies -- only stdlib types. It
// contains only data types and lightweight validation helpers; no business
// logic lives here.
package pipeline

import "time"

// Category is the semantic classification assigned to a single Difference
// by the categorizer (C3). Exactly one Category is assigned per Difference.
type Category string

const (
	CategoryValueChanged         Category = "VALUE_CHANGED"
	CategoryNumericValueChanged  Category = "NUMERIC_VALUE_CHANGED"
	CategoryDateTimeChanged      Category = "DATETIME_CHANGED"
	CategoryBooleanValueChanged  Category = "BOOLEAN_VALUE_CHANGED"
	CategoryTextContentChanged   Category = "TEXT_CONTENT_CHANGED"
	CategoryNullValueChange      Category = "NULL_VALUE_CHANGE"
	CategoryItemAdded            Category = "ITEM_ADDED"
	CategoryItemRemoved          Category = "ITEM_REMOVED"
	CategoryCollectionItemChange Category = "COLLECTION_ITEM_CHANGED"
	CategoryGeneralValueChanged  Category = "GENERAL_VALUE_CHANGED"
	CategoryUncategorized        Category = "UNCATEGORIZED"
)

// Category5 is the five-way file partition used for coverage reports (C6).
// Every file in PatternAnalysis.FileClassification.FilesByCategory belongs to
// exactly one Category5 bucket (invariant I1).
type Category5 string

const (
	Category5Value         Category5 = "VALUE"
	Category5Missing       Category5 = "MISSING"
	Category5Order         Category5 = "ORDER"
	Category5Mixed         Category5 = "MIXED"
	Category5Uncategorized Category5 = "UNCATEGORIZED"
)

// KindHint narrows how a Difference was produced when the raw values alone
// would be ambiguous to the categorizer. NULL_DIFF flags a one-sided null
// that must be categorized as NullValueChange regardless of value shape.
type KindHint string

const (
	KindHintNone     KindHint = ""
	KindHintNullDiff KindHint = "NULL_DIFF"
)

// PairOutcome is the HTTP-layer verdict for one executed request pair (C7).
type PairOutcome string

const (
	OutcomeBothSuccess        PairOutcome = "BOTH_SUCCESS"
	OutcomeStatusCodeMismatch PairOutcome = "STATUS_CODE_MISMATCH"
	OutcomeBothNonSuccess     PairOutcome = "BOTH_NON_SUCCESS"
	OutcomeOneOrBothFailed    PairOutcome = "ONE_OR_BOTH_FAILED"
)

// SmartIgnoreKind selects how a SmartIgnoreRule synthesizes path rules.
type SmartIgnoreKind string

const (
	SmartIgnorePropertyName      SmartIgnoreKind = "PropertyName"
	SmartIgnoreNamePattern       SmartIgnoreKind = "NamePattern"
	SmartIgnorePropertyType      SmartIgnoreKind = "PropertyType"
	SmartIgnoreCollectionOrder   SmartIgnoreKind = "CollectionOrdering"
	SmartIgnoreNullEmptyEquality SmartIgnoreKind = "NullEmptyCollectionEquivalence"
)

// Rule is one entry of the path-based ignore configuration (spec C1). Path is
// a dotted PropertyPath; segments may carry [*], [n], or [Order] index
// qualifiers. Rules are additive: ignoring a path ignores its whole subtree.
type Rule struct {
	Path             string `json:"path"`
	IgnoreCompletely bool   `json:"ignore_completely"`
	IgnoreOrder      bool   `json:"ignore_order"`
}

// SmartIgnoreRule synthesizes Rules on demand from a higher-level predicate
// rather than a literal path, e.g. "ignore every property named Timestamp
// wherever it occurs".
type SmartIgnoreRule struct {
	Kind        SmartIgnoreKind `json:"type"`
	Value       string          `json:"value"`
	Enabled     bool            `json:"enabled"`
	Description string          `json:"description,omitempty"`
}

// RulesDocument is the external, caller-supplied rules configuration (spec
// §6). It is decoded once per comparison run and compiled into an immutable
// ruleengine.CompiledRules value shared read-only across every pair.
type RulesDocument struct {
	IgnoreCollectionOrder bool              `json:"ignore_collection_order"`
	IgnoreStringCase      bool              `json:"ignore_string_case"`
	IgnoreXMLNamespaces   bool              `json:"ignore_xml_namespaces"`
	Rules                 []Rule            `json:"rules"`
	SmartRules            []SmartIgnoreRule `json:"smart_rules"`
}

// Difference is one leaf-level mismatch between the A and B trees of a pair.
type Difference struct {
	PropertyPath  string      `json:"property_path"`
	ExpectedValue interface{} `json:"expected_value"`
	ActualValue   interface{} `json:"actual_value"`
	ParentType    string      `json:"parent_type"`
	KindHint      KindHint    `json:"kind_hint,omitempty"`
	Category      Category    `json:"category,omitempty"`
}

// PatternExemplar groups two or more Differences within a single pair that
// share the same index-normalized property path (C4).
type PatternExemplar struct {
	Pattern  string       `json:"pattern"`
	Count    int          `json:"count"`
	Examples []Difference `json:"examples"`
}

// DifferenceSummary is the per-pair rollup produced by the summarizer (C4).
type DifferenceSummary struct {
	AreEqual       bool                    `json:"are_equal"`
	TotalCount     int                     `json:"total_count"`
	ByCategory     map[Category][]Difference `json:"by_category"`
	ByRootObject   map[string][]Difference   `json:"by_root_object"`
	CommonPatterns []PatternExemplar         `json:"common_patterns"`
}

// FilePairResult is the outcome of comparing one pair of documents.
type FilePairResult struct {
	FileAName     string       `json:"file_a_name"`
	FileBName     string       `json:"file_b_name"`
	AreEqual      bool         `json:"are_equal"`
	Differences   []Difference `json:"differences"`
	Error         string       `json:"error,omitempty"`
	ErrorKind     string       `json:"error_kind,omitempty"`
	HTTPStatusA   int          `json:"http_status_a,omitempty"`
	HTTPStatusB   int          `json:"http_status_b,omitempty"`
	PairOutcome   *PairOutcome `json:"pair_outcome,omitempty"`
	RawTextDiffs  []RawTextDiff `json:"raw_text_diffs,omitempty"`
	Summary       DifferenceSummary `json:"summary"`
}

// RawTextDiff is one line-level entry produced by the raw-text fallback
// differ (C8) when domain deserialization is not applicable to a pair.
type RawTextDiff struct {
	Kind    string `json:"kind"` // ONLY_IN_A | ONLY_IN_B | MODIFIED | STATUS_MISMATCH
	LineA   int    `json:"line_a,omitempty"`
	LineB   int    `json:"line_b,omitempty"`
	TextA   string `json:"text_a,omitempty"`
	TextB   string `json:"text_b,omitempty"`
}

// StructuralPattern is one ranked equivalence class of Differences sharing
// the same index-normalized property path across many files (C5).
type StructuralPattern struct {
	FullPattern             string       `json:"full_pattern"`
	ParentPath              string       `json:"parent_path"`
	MissingProperty         string       `json:"missing_property,omitempty"`
	Category                Category     `json:"category"`
	IsCollectionElement     bool         `json:"is_collection_element"`
	CollectionName          string       `json:"collection_name,omitempty"`
	FileCount               int          `json:"file_count"`
	OccurrenceCount         int          `json:"occurrence_count"`
	Consistency             float64      `json:"consistency"`
	IsCritical              bool         `json:"is_critical"`
	AffectedFiles           []string     `json:"affected_files"`
	Examples                []Difference `json:"examples"`
	HumanReadableDescription string      `json:"human_readable_description"`
	RecommendedAction       string       `json:"recommended_action"`
}

// FileClassification is the five-way coverage partition produced by C6.
type FileClassification struct {
	FilesByCategory map[Category5][]string `json:"files_by_category"`
	Counts          map[Category5]int      `json:"counts"`
	IsComplete      bool                   `json:"is_complete"`
}

// PatternAnalysis is the full cross-file aggregation result (C5 + C6).
type PatternAnalysis struct {
	TotalFiles          int                 `json:"total_files"`
	FilesWithDifferences int                `json:"files_with_differences"`
	TotalDifferences    int                 `json:"total_differences"`
	CriticalCount       int                 `json:"critical_count"`
	AllPatterns         []StructuralPattern `json:"all_patterns"`
	FileClassification  FileClassification  `json:"file_classification"`
}

// RequestPair is one request payload to be replayed against both endpoints
// in a request-compare job (C7).
type RequestPair struct {
	RelativePath      string            `json:"relative_path"`
	BodyBytes         []byte            `json:"-"`
	ContentType       string            `json:"content_type"`
	PerRequestHeaders map[string]string `json:"per_request_headers,omitempty"`
}

// ExecutionResult is the HTTP-layer outcome of replaying one RequestPair
// against both endpoints, before structural or raw-text comparison.
type ExecutionResult struct {
	Request    RequestPair `json:"-"`
	OK         bool        `json:"ok"`
	StatusA    int         `json:"status_a"`
	StatusB    int         `json:"status_b"`
	RespPathA  string      `json:"resp_path_a,omitempty"`
	RespPathB  string      `json:"resp_path_b,omitempty"`
	DurationMS int64       `json:"duration_ms"`
	Error      string      `json:"error,omitempty"`
}

// MultiFolderComparisonResult is the top-level output of one comparison run,
// whether sourced from two directories or from a request-replay job.
type MultiFolderComparisonResult struct {
	TotalPairs      int               `json:"total_pairs"`
	AllEqual        bool              `json:"all_equal"`
	FilePairResults []FilePairResult  `json:"file_pair_results"`
	Metadata        map[string]any    `json:"metadata"`
}

// Phase is one stage of a replay job's lifecycle (C7, C10).
type Phase string

const (
	PhaseInitializing Phase = "Initializing"
	PhaseParsing      Phase = "Parsing"
	PhaseExecuting    Phase = "Executing"
	PhaseComparing    Phase = "Comparing"
	PhaseCompleted    Phase = "Completed"
	PhaseFailed       Phase = "Failed"
	PhaseCancelled    Phase = "Cancelled"
)

// ProgressEvent is one JSON-serializable progress record emitted by a job's
// progress publisher (C10).
type ProgressEvent struct {
	JobID          string    `json:"job_id"`
	Phase          Phase     `json:"phase"`
	PercentComplete float64  `json:"percent_complete"`
	Message        string    `json:"message"`
	Timestamp      time.Time `json:"timestamp"`
	CompletedItems int       `json:"completed_items,omitempty"`
	TotalItems     int       `json:"total_items,omitempty"`
	ErrorMessage   string    `json:"error_message,omitempty"`
}

// JobConfig describes one comparison run: either a folder-compare (DirA/DirB
// set) or a request-replay (EndpointA/EndpointB + RequestBatchDir set).
type JobConfig struct {
	JobID           string        `json:"job_id"`
	ModelName       string        `json:"model_name"`
	DirA            string        `json:"dir_a,omitempty"`
	DirB            string        `json:"dir_b,omitempty"`
	EndpointA       string        `json:"endpoint_a,omitempty"`
	EndpointB       string        `json:"endpoint_b,omitempty"`
	RequestBatchDir string        `json:"request_batch_dir,omitempty"`
	GlobalHeadersA  map[string]string `json:"global_headers_a,omitempty"`
	GlobalHeadersB  map[string]string `json:"global_headers_b,omitempty"`
	TimeoutMS       int64         `json:"timeout_ms"`
	MaxConcurrency  int           `json:"max_concurrency"`
	IncludeAll      bool          `json:"include_all"`
	Rules           RulesDocument `json:"rules"`
}

// IsRequestReplay reports whether this job replays HTTP requests rather than
// comparing two on-disk directories directly.
func (c *JobConfig) IsRequestReplay() bool {
	return c.EndpointA != "" && c.EndpointB != ""
}
