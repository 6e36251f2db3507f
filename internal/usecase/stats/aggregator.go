package stats

import (
	"math"
	"sort"
	"sync"
	"time"
)

// DefaultHitThreshold is the top score a non-blocked query must exceed to count as a hit.
const DefaultHitThreshold = 0.2

// Observer receives every recorded request (e.g. a Prometheus exporter).
type Observer interface {
	ObserveRequest(d time.Duration, blocked bool, topScore *float64, hit bool)
}

// Snapshot is a read-only view of the aggregated counters.
type Snapshot struct {
	RequestCount int64
	BlockedCount int64
	P95Latency   time.Duration
	HitRate      float64
}

// Aggregator holds process-wide request counters. Never reset.
// All methods are safe for concurrent use.
type Aggregator struct {
	mu        sync.Mutex
	requests  int64
	blocked   int64
	hits      int64
	latencies []time.Duration
	threshold float64
	observer  Observer
}

// NewAggregator creates an empty aggregator. A negative threshold falls back to the default.
func NewAggregator(hitThreshold float64) *Aggregator {
	if hitThreshold < 0 || math.IsNaN(hitThreshold) {
		hitThreshold = DefaultHitThreshold
	}
	return &Aggregator{threshold: hitThreshold}
}

// WithObserver attaches an observer notified after each Record.
func (a *Aggregator) WithObserver(o Observer) *Aggregator {
	a.mu.Lock()
	a.observer = o
	a.mu.Unlock()
	return a
}

// Record adds one request. topScore is nil when nothing was ranked.
func (a *Aggregator) Record(d time.Duration, blocked bool, topScore *float64) {
	hit := !blocked && topScore != nil && *topScore > a.threshold

	a.mu.Lock()
	a.requests++
	if blocked {
		a.blocked++
	}
	if hit {
		a.hits++
	}
	a.latencies = append(a.latencies, d)
	o := a.observer
	a.mu.Unlock()

	if o != nil {
		o.ObserveRequest(d, blocked, topScore, hit)
	}
}

// Snapshot recomputes p95 and hit-rate from the full history.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	requests, blocked, hits := a.requests, a.blocked, a.hits
	latencies := make([]time.Duration, len(a.latencies))
	copy(latencies, a.latencies)
	a.mu.Unlock()

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	var hitRate float64
	if ranked := requests - blocked; ranked > 0 {
		hitRate = float64(hits) / float64(ranked)
	}

	return Snapshot{
		RequestCount: requests,
		BlockedCount: blocked,
		P95Latency:   percentile(latencies, 0.95),
		HitRate:      hitRate,
	}
}

// Threshold returns the hit threshold in use.
func (a *Aggregator) Threshold() float64 { return a.threshold }

// percentile returns the nearest-rank percentile of sorted samples.
func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(math.Ceil(p * float64(len(sorted))))
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}
