package answer

import (
	"context"
	"time"

	"go.uber.org/zap"

	domanswer "github.com/kailas-cloud/palmrag/internal/domain/answer"
	"github.com/kailas-cloud/palmrag/internal/domain/search/request"
	logpkg "github.com/kailas-cloud/palmrag/internal/logger"
)

// Service runs the gate → rank → compose pipeline and records every outcome.
type Service struct {
	gate     Gate
	index    Searcher
	recorder Recorder
	now      func() time.Time
}

// New creates an answer service. recorder can be nil.
func New(gate Gate, index Searcher, recorder Recorder) *Service {
	return &Service{gate: gate, index: index, recorder: recorder, now: time.Now}
}

// Answer screens the query, ranks snippets when allowed and composes the
// response. Blocked queries short-circuit before ranking. Never returns an error.
func (s *Service) Answer(ctx context.Context, req *request.Request) domanswer.Answer {
	start := s.now()
	log := logpkg.FromContext(ctx)

	verdict := s.gate.Check(req.Query())
	if verdict.Blocked {
		ans := Refuse(verdict, req.Similarity())
		s.record(start, &ans)
		log.Info("query blocked",
			zap.String("reason", string(verdict.Reason)),
			zap.String("term", verdict.Term),
			zap.Int("words", verdict.Words),
		)
		return ans
	}

	k := s.EffectiveK(req.K())
	ranked := s.index.Search(req.Query(), k, req.Similarity())
	ans := Compose(ranked, req.Similarity(), k)
	s.record(start, &ans)

	fields := []zap.Field{
		zap.String("similarity", req.Similarity().String()),
		zap.Int("k", k),
		zap.Int("snippets", len(ans.Snippets)),
		zap.Bool("low_confidence", ans.LowConfidence),
	}
	if top := ans.TopScore(); top != nil {
		fields = append(fields, zap.Float64("top_score", *top), zap.String("top_doc", ans.Snippets[0].ID()))
	}
	log.Debug("query answered", fields...)
	return ans
}

// EffectiveK clamps k to what the index can return.
func (s *Service) EffectiveK(k int) int {
	limit := request.MaxK
	if n := s.index.Size(); n < limit {
		limit = n
	}
	return request.ClampK(k, limit)
}

// IsReady reports whether the vector index has been built.
func (s *Service) IsReady() bool {
	return s.index != nil && s.index.Size() > 0
}

// DocumentCount returns the number of indexed documents.
func (s *Service) DocumentCount() int {
	if s.index == nil {
		return 0
	}
	return s.index.Size()
}

func (s *Service) record(start time.Time, ans *domanswer.Answer) {
	if s.recorder == nil {
		return
	}
	s.recorder.Record(s.now().Sub(start), ans.Blocked, ans.TopScore())
}
