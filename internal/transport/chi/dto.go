package chi

import (
	domanswer "github.com/kailas-cloud/palmrag/internal/domain/answer"
	"github.com/kailas-cloud/palmrag/internal/usecase/stats"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeBadRequest     = "bad_request"
	CodeInvalidRequest = "invalid_request"
	CodeUnauthorized   = "unauthorized"
	CodeNotReady       = "not_ready"
	CodeInternalError  = "internal_error"
)

// AnswerRequest is the body of POST /answer.
type AnswerRequest struct {
	Query      string  `json:"query" validate:"required,nonblank,maxbytes=32768"`
	K          *int    `json:"k,omitempty"`
	Similarity *string `json:"similarity,omitempty" validate:"omitempty,oneof=cosine dot"`
}

// Snippet is a scored document in AnswerResponse.
type Snippet struct {
	DocID string  `json:"doc_id"`
	Title string  `json:"title"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// IndexConfig echoes the retrieval parameters used.
type IndexConfig struct {
	Similarity string `json:"similarity"`
	K          int    `json:"k"`
}

// AnswerResponse is the body returned by POST /answer.
type AnswerResponse struct {
	Answer      string      `json:"answer"`
	Blocked     bool        `json:"blocked"`
	BlockReason *string     `json:"block_reason"`
	Snippets    []Snippet   `json:"snippets"`
	IndexConfig IndexConfig `json:"index_config"`
}

// StatsResponse is the body returned by GET /stats.
type StatsResponse struct {
	RequestCount int64   `json:"request_count"`
	BlockedCount int64   `json:"blocked_count"`
	P95LatencyMs float64 `json:"p95_latency_ms"`
	HitRate      float64 `json:"hit_rate"`
}

// HealthResponse is the body returned by GET /health.
type HealthResponse struct {
	Status    string            `json:"status"`
	Checks    map[string]string `json:"checks"`
	Documents int               `json:"documents"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func answerToResponse(a *domanswer.Answer) AnswerResponse {
	resp := AnswerResponse{
		Answer:   a.Text,
		Blocked:  a.Blocked,
		Snippets: make([]Snippet, len(a.Snippets)),
		IndexConfig: IndexConfig{
			Similarity: a.IndexConfig.Similarity.String(),
			K:          a.IndexConfig.K,
		},
	}
	if a.Blocked {
		reason := string(a.BlockReason)
		resp.BlockReason = &reason
	}
	for i := range a.Snippets {
		s := &a.Snippets[i]
		resp.Snippets[i] = Snippet{DocID: s.ID(), Title: s.Title(), Text: s.Text(), Score: s.Score()}
	}
	return resp
}

func snapshotToResponse(s stats.Snapshot) StatsResponse {
	return StatsResponse{
		RequestCount: s.RequestCount,
		BlockedCount: s.BlockedCount,
		P95LatencyMs: float64(s.P95Latency.Microseconds()) / 1000,
		HitRate:      s.HitRate,
	}
}
