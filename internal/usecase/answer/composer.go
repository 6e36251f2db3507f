package answer

import (
	"fmt"
	"strings"

	domanswer "github.com/kailas-cloud/palmrag/internal/domain/answer"
	"github.com/kailas-cloud/palmrag/internal/domain/guardrail"
	"github.com/kailas-cloud/palmrag/internal/domain/search/mode"
	"github.com/kailas-cloud/palmrag/internal/domain/search/result"
)

// Fixed answer texts.
const (
	RefusalText       = "Unable to answer: query violates safety guardrails."
	NoRelevantText    = "No relevant snippet found."
	NoDocumentsText   = "No supporting documents found."
	maxProvenanceDocs = 3
)

// Refuse composes the response for a blocked query. No ranking happened, so
// the snippet list is empty and k is reported as 0.
func Refuse(v guardrail.Verdict, m mode.Mode) domanswer.Answer {
	return domanswer.Answer{
		Text:        RefusalText,
		Blocked:     true,
		BlockReason: v.Reason,
		Snippets:    []result.Result{},
		IndexConfig: domanswer.IndexConfig{Similarity: m, K: 0},
	}
}

// Compose turns ranked snippets into a single answer. The top snippet text is
// returned with the titles of the leading snippets as provenance.
func Compose(ranked []result.Result, m mode.Mode, k int) domanswer.Answer {
	a := domanswer.Answer{
		Snippets:    ranked,
		IndexConfig: domanswer.IndexConfig{Similarity: m, K: k},
	}
	if a.Snippets == nil {
		a.Snippets = []result.Result{}
	}

	switch {
	case len(ranked) == 0:
		a.Text = NoDocumentsText
		a.LowConfidence = true
	case result.AllZero(ranked):
		a.Text = NoRelevantText
		a.LowConfidence = true
	default:
		a.Text = fmt.Sprintf("%s (Answer grounded in: %s).", ranked[0].Text(), provenance(ranked))
	}
	return a
}

func provenance(ranked []result.Result) string {
	n := len(ranked)
	if n > maxProvenanceDocs {
		n = maxProvenanceDocs
	}
	titles := make([]string, 0, n)
	for i := 0; i < n; i++ {
		if ranked[i].Score() <= 0 {
			break
		}
		titles = append(titles, ranked[i].Title())
	}
	return strings.Join(titles, ", ")
}
