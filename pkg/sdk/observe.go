package palmrag

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Answer outcomes used as metric label values.
const (
	OutcomeBlocked       = "blocked"
	OutcomeLowConfidence = "low_confidence"
	OutcomeHit           = "hit"
	OutcomeMiss          = "miss"
	OutcomeError         = "error"
)

// sdkMetrics holds prometheus metrics registered for the SDK.
type sdkMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	answers    *prometheus.CounterVec
	topScore   *prometheus.HistogramVec
}

func newSDKMetrics(reg prometheus.Registerer) (*sdkMetrics, error) {
	m := &sdkMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "palmrag",
			Subsystem: "sdk",
			Name:      "operations_total",
			Help:      "SDK calls by operation (answer, stats, health) and status.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "palmrag",
			Subsystem: "sdk",
			Name:      "operation_duration_seconds",
			Help:      "SDK call duration in seconds.",
			Buckets:   []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
		}, []string{"operation"}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "palmrag",
			Subsystem: "sdk",
			Name:      "answers_total",
			Help:      "Answers by similarity and outcome (blocked, low_confidence, hit, miss, error).",
		}, []string{"similarity", "outcome"}),
		topScore: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "palmrag",
			Subsystem: "sdk",
			Name:      "answer_top_score",
			Help:      "Best snippet score of answers that were not blocked.",
			Buckets:   []float64{0, 0.05, 0.1, 0.2, 0.3, 0.5, 0.75, 1, 5, 25, 100},
		}, []string{"similarity"}),
	}
	if err := registerOrReuse(reg, &m.operations); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.duration); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.answers); err != nil {
		return nil, err
	}
	if err := registerOrReuse(reg, &m.topScore); err != nil {
		return nil, err
	}
	return m, nil
}

// registerOrReuse registers a collector or reuses an existing one.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c *T) error {
	if err := reg.Register(*c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			existing, ok := are.ExistingCollector.(T)
			if !ok {
				return fmt.Errorf("palmrag: metric already registered with incompatible type: %T", are.ExistingCollector)
			}
			*c = existing
			return nil
		}
		return fmt.Errorf("palmrag: register metric: %w", err)
	}
	return nil
}

// outcome classifies an answer. threshold is the hit threshold of the client.
func outcome(a *Answer, threshold float64, err error) string {
	switch {
	case err != nil:
		return OutcomeError
	case a.Blocked:
		return OutcomeBlocked
	case a.LowConfidence:
		return OutcomeLowConfidence
	case len(a.Snippets) > 0 && a.Snippets[0].Score > threshold:
		return OutcomeHit
	default:
		return OutcomeMiss
	}
}

// observer provides logging and metrics for SDK calls.
type observer struct {
	logger    *slog.Logger
	metrics   *sdkMetrics
	threshold float64
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer, threshold float64) (*observer, error) {
	var m *sdkMetrics
	if reg != nil {
		var err error
		m, err = newSDKMetrics(reg)
		if err != nil {
			return nil, err
		}
	}
	return &observer{logger: logger, metrics: m, threshold: threshold}, nil
}

// observe records a call that has no answer payload (stats, health).
func (o *observer) observe(op string, start time.Time, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	o.count(op, dur, err)

	if o.logger == nil {
		return
	}
	if err != nil {
		o.logger.Warn("operation failed", "op", op, "duration", dur, "error", err)
		return
	}
	o.logger.Debug("operation completed", "op", op, "duration", dur)
}

// observeAnswer records an Answer call with its outcome. sim is the requested
// similarity, used when the call failed before an answer was composed.
func (o *observer) observeAnswer(start time.Time, sim Similarity, a *Answer, err error) {
	if o == nil {
		return
	}
	dur := time.Since(start)
	o.count("answer", dur, err)

	out := outcome(a, o.threshold, err)
	if err == nil {
		sim = a.Similarity
	}

	if o.metrics != nil {
		o.metrics.answers.WithLabelValues(string(sim), out).Inc()
		if err == nil && !a.Blocked && len(a.Snippets) > 0 {
			o.metrics.topScore.WithLabelValues(string(sim)).Observe(a.Snippets[0].Score)
		}
	}

	if o.logger == nil {
		return
	}
	switch out {
	case OutcomeError:
		o.logger.Warn("answer rejected", "duration", dur, "error", err)
	case OutcomeBlocked:
		o.logger.Info("answer blocked", "reason", string(a.BlockReason), "duration", dur)
	default:
		attrs := []any{"outcome", out, "similarity", string(sim), "k", a.K, "duration", dur}
		if len(a.Snippets) > 0 {
			attrs = append(attrs, "top_doc", a.Snippets[0].DocID, "top_score", a.Snippets[0].Score)
		}
		o.logger.Debug("answer composed", attrs...)
	}
}

func (o *observer) count(op string, dur time.Duration, err error) {
	if o.metrics == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	o.metrics.operations.WithLabelValues(op, status).Inc()
	o.metrics.duration.WithLabelValues(op).Observe(dur.Seconds())
}
