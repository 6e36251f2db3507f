package palmrag

import (
	"context"
	"fmt"
	"time"

	domanswer "github.com/kailas-cloud/palmrag/internal/domain/answer"
	"github.com/kailas-cloud/palmrag/internal/domain/corpus"
	"github.com/kailas-cloud/palmrag/internal/domain/search/mode"
	"github.com/kailas-cloud/palmrag/internal/domain/search/request"
	"github.com/kailas-cloud/palmrag/internal/index"
	answeruc "github.com/kailas-cloud/palmrag/internal/usecase/answer"
	"github.com/kailas-cloud/palmrag/internal/usecase/guardrail"
	healthuc "github.com/kailas-cloud/palmrag/internal/usecase/health"
	"github.com/kailas-cloud/palmrag/internal/usecase/stats"
)

// Internal interfaces for substitution in tests.
type answerUseCase interface {
	Answer(ctx context.Context, req *request.Request) domanswer.Answer
}

type statsUseCase interface {
	Snapshot() stats.Snapshot
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the palmrag SDK entry point. Safe for concurrent use.
type Client struct {
	answerSvc  answerUseCase
	statsSvc   statsUseCase
	healthSvc  healthUseCase
	defaultK   int
	similarity mode.Mode
	obs        *observer
}

// New builds the index and wires the pipeline. Without WithDocuments the
// built-in library collection is used.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	sim := mode.Default
	if cfg.similarity != "" {
		parsed, err := mode.Parse(string(cfg.similarity))
		if err != nil {
			return nil, fmt.Errorf("palmrag: %w", err)
		}
		sim = parsed
	}

	docs := corpus.Library()
	if cfg.documents != nil {
		docs = toCorpus(cfg.documents)
	}
	ix, err := index.Build(docs)
	if err != nil {
		return nil, fmt.Errorf("palmrag: %w", err)
	}

	agg := stats.NewAggregator(stats.DefaultHitThreshold)
	if cfg.hitThreshold != nil {
		agg = stats.NewAggregator(*cfg.hitThreshold)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg, agg.Threshold())
	if err != nil {
		return nil, err
	}
	answerSvc := answeruc.New(guardrail.NewGate(policy(cfg)), ix, agg)

	defaultK := cfg.defaultK
	if defaultK <= 0 {
		defaultK = request.DefaultK
	}

	return &Client{
		answerSvc:  answerSvc,
		statsSvc:   agg,
		healthSvc:  healthuc.New(answerSvc),
		defaultK:   defaultK,
		similarity: sim,
		obs:        obs,
	}, nil
}

func policy(cfg *clientConfig) guardrail.Policy {
	p := guardrail.DefaultPolicy()
	if cfg.denyPhrases != nil {
		p.DenyPhrases = cfg.denyPhrases
	}
	if cfg.denyCombos != nil {
		p.DenyCombos = cfg.denyCombos
	}
	if cfg.maxWords > 0 {
		p.MaxWords = cfg.maxWords
	}
	return p
}

// Answer screens, ranks and composes a response. Blocked queries are not
// errors; only an empty query or unknown similarity returns ErrInvalidRequest.
func (c *Client) Answer(ctx context.Context, q Query) (ans Answer, err error) {
	start := time.Now()
	defer func() {
		sim := q.Similarity
		if sim == "" {
			sim = Similarity(c.similarity)
		}
		c.obs.observeAnswer(start, sim, &ans, err)
	}()

	k := q.K
	if k == 0 {
		k = c.defaultK
	}
	sim := c.similarity
	if q.Similarity != "" {
		if sim, err = mode.Parse(string(q.Similarity)); err != nil {
			return Answer{}, fmt.Errorf("answer: %w", err)
		}
	}

	req, err := request.New(q.Text, k, sim)
	if err != nil {
		return Answer{}, fmt.Errorf("answer: %w", err)
	}

	return fromDomain(c.answerSvc.Answer(ctx, &req)), nil
}

// Stats returns the request counters accumulated since New.
func (c *Client) Stats() Stats {
	defer c.obs.observe("stats", time.Now(), nil)

	s := c.statsSvc.Snapshot()
	return Stats{
		RequestCount: s.RequestCount,
		BlockedCount: s.BlockedCount,
		P95Latency:   s.P95Latency,
		HitRate:      s.HitRate,
	}
}

// Health reports index readiness.
func (c *Client) Health(ctx context.Context) HealthStatus {
	start := time.Now()
	report := c.healthSvc.Check(ctx)

	var err error
	if report.Status != healthuc.Healthy {
		err = ErrIndexNotReady
	}
	c.obs.observe("health", start, err)

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:    string(report.Status),
		Checks:    checks,
		Documents: report.Documents,
	}
}

func toCorpus(docs []Document) []corpus.Document {
	out := make([]corpus.Document, len(docs))
	for i, d := range docs {
		out[i] = corpus.NewDocument(d.ID, d.Title, d.Text, d.Tags...)
	}
	return out
}

func fromDomain(a domanswer.Answer) Answer {
	out := Answer{
		Text:          a.Text,
		Blocked:       a.Blocked,
		BlockReason:   BlockReason(a.BlockReason),
		Snippets:      make([]Snippet, len(a.Snippets)),
		Similarity:    Similarity(a.IndexConfig.Similarity),
		K:             a.IndexConfig.K,
		LowConfidence: a.LowConfidence,
	}
	for i := range a.Snippets {
		s := &a.Snippets[i]
		out.Snippets[i] = Snippet{DocID: s.ID(), Title: s.Title(), Text: s.Text(), Score: s.Score()}
	}
	return out
}
