package answer

import (
	"github.com/kailas-cloud/palmrag/internal/domain/guardrail"
	"github.com/kailas-cloud/palmrag/internal/domain/search/mode"
	"github.com/kailas-cloud/palmrag/internal/domain/search/result"
)

// IndexConfig echoes the retrieval parameters actually used.
type IndexConfig struct {
	Similarity mode.Mode
	K          int
}

// Answer is the composed response to a query.
type Answer struct {
	Text        string
	Blocked     bool
	BlockReason guardrail.Reason
	Snippets    []result.Result
	IndexConfig IndexConfig
	// LowConfidence is set when ranking found no overlapping document.
	LowConfidence bool
}

// TopScore returns the best snippet score, or nil when nothing was ranked.
func (a *Answer) TopScore() *float64 {
	if a.Blocked {
		return nil
	}
	return result.TopScore(a.Snippets)
}
