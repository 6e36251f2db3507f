package answer

import (
	"time"

	"github.com/kailas-cloud/palmrag/internal/domain/guardrail"
	"github.com/kailas-cloud/palmrag/internal/domain/search/mode"
	"github.com/kailas-cloud/palmrag/internal/domain/search/result"
)

// Gate screens a query before ranking.
type Gate interface {
	Check(query string) guardrail.Verdict
}

// Searcher ranks corpus snippets against a query.
type Searcher interface {
	Search(query string, k int, m mode.Mode) []result.Result
	Size() int
}

// Recorder aggregates per-request operational counters.
type Recorder interface {
	Record(d time.Duration, blocked bool, topScore *float64)
}
