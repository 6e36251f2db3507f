package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/palmrag/internal/domain"
	"github.com/kailas-cloud/palmrag/internal/domain/search/mode"
)

// Query parameter limits.
const (
	// MaxQueryLength is the maximum accepted query size in bytes.
	// Word budgets are enforced later by the guardrail gate.
	MaxQueryLength = 32768
	DefaultK       = 3
	MaxK           = 10
)

// Request is a validated query record. Constructed per request, discarded after.
type Request struct {
	query      string
	k          int
	similarity mode.Mode
}

// New validates and normalizes query parameters.
// An empty mode defaults to cosine. k is clamped to [1, MaxK], never rejected.
func New(query string, k int, m mode.Mode) (Request, error) {
	if strings.TrimSpace(query) == "" {
		return Request{}, fmt.Errorf("%w: query is required", domain.ErrInvalidRequest)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d bytes)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	if m == "" {
		m = mode.Default
	}
	if !m.IsValid() {
		return Request{}, fmt.Errorf("%w: invalid similarity %q", domain.ErrInvalidRequest, m)
	}

	return Request{
		query:      query,
		k:          ClampK(k, MaxK),
		similarity: m,
	}, nil
}

// ClampK bounds k to [1, limit]. A limit below 1 is treated as 1.
func ClampK(k, limit int) int {
	if limit < 1 {
		limit = 1
	}
	if k < 1 {
		return 1
	}
	if k > limit {
		return limit
	}
	return k
}

// Query returns the raw query text.
func (r *Request) Query() string { return r.query }

// K returns the number of snippets requested (already clamped to MaxK).
func (r *Request) K() int { return r.k }

// Similarity returns the scoring function.
func (r *Request) Similarity() mode.Mode { return r.similarity }
