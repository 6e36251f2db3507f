package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Answer outcomes used as label values.
const (
	OutcomeBlocked = "blocked"
	OutcomeHit     = "hit"
	OutcomeMiss    = "miss"
)

// Pipeline exports answer pipeline outcomes to Prometheus.
// It implements stats.Observer.
type Pipeline struct {
	requests *prometheus.CounterVec
	duration prometheus.Histogram
	topScore prometheus.Histogram
}

// NewPipeline creates pipeline metrics and registers them on reg.
func NewPipeline(reg prometheus.Registerer) *Pipeline {
	p := &Pipeline{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "answer_requests_total",
			Help:      "Answer requests by outcome (blocked, hit, miss)",
		}, []string{"outcome"}),

		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "answer_duration_seconds",
			Help:      "Time spent in the gate, rank and compose pipeline",
			Buckets:   []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.05},
		}),

		topScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "answer_top_score",
			Help:      "Best snippet score of non-blocked answers",
			Buckets:   []float64{0, 0.05, 0.1, 0.2, 0.3, 0.5, 0.75, 1, 5, 25, 100},
		}),
	}
	reg.MustRegister(p.requests, p.duration, p.topScore)
	return p
}

// ObserveRequest records one pipeline run.
func (p *Pipeline) ObserveRequest(d time.Duration, blocked bool, topScore *float64, hit bool) {
	p.duration.Observe(d.Seconds())

	switch {
	case blocked:
		p.requests.WithLabelValues(OutcomeBlocked).Inc()
		return
	case hit:
		p.requests.WithLabelValues(OutcomeHit).Inc()
	default:
		p.requests.WithLabelValues(OutcomeMiss).Inc()
	}
	if topScore != nil {
		p.topScore.Observe(*topScore)
	}
}
