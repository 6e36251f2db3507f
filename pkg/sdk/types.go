package palmrag

import "time"

// Similarity selects the scoring function.
type Similarity string

// Similarity constants.
const (
	Cosine Similarity = "cosine"
	Dot    Similarity = "dot"
)

// BlockReason explains why a query was refused.
type BlockReason string

// Block reason constants.
const (
	BlockNone     BlockReason = ""
	BlockDenylist BlockReason = "denylist"
	BlockBudget   BlockReason = "budget"
)

// Document is a collection entry. ID and Text are required.
type Document struct {
	ID    string
	Title string
	Text  string
	Tags  []string
}

// Query is a single question. Zero K and empty Similarity use the client defaults.
type Query struct {
	Text       string
	K          int
	Similarity Similarity
}

// Snippet is a ranked document.
type Snippet struct {
	DocID string
	Title string
	Text  string
	Score float64
}

// Answer is the composed response to a Query.
type Answer struct {
	Text          string
	Blocked       bool
	BlockReason   BlockReason
	Snippets      []Snippet
	Similarity    Similarity
	K             int
	LowConfidence bool
}

// Stats is a point-in-time view of the request counters.
type Stats struct {
	RequestCount int64
	BlockedCount int64
	P95Latency   time.Duration
	HitRate      float64
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status    string            // "ok", "error"
	Checks    map[string]string // component → "ok"/"error"
	Documents int
}
