package stats

import (
	"sync"
	"testing"
	"time"
)

func score(v float64) *float64 { return &v }

type recordingObserver struct {
	mu    sync.Mutex
	calls int
	hits  int
}

func (o *recordingObserver) ObserveRequest(_ time.Duration, _ bool, _ *float64, hit bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.calls++
	if hit {
		o.hits++
	}
}

func TestSnapshot_Empty(t *testing.T) {
	a := NewAggregator(DefaultHitThreshold)
	s := a.Snapshot()
	if s.RequestCount != 0 || s.BlockedCount != 0 {
		t.Errorf("unexpected counts: %+v", s)
	}
	if s.P95Latency != 0 {
		t.Errorf("P95Latency = %v, want 0", s.P95Latency)
	}
	if s.HitRate != 0 {
		t.Errorf("HitRate = %f, want 0", s.HitRate)
	}
}

func TestRecord_Counts(t *testing.T) {
	a := NewAggregator(0.2)

	a.Record(10*time.Millisecond, false, score(0.5)) // hit
	a.Record(20*time.Millisecond, false, score(0.1)) // miss
	a.Record(5*time.Millisecond, true, nil)          // blocked
	a.Record(15*time.Millisecond, false, score(0.2)) // not strictly above threshold
	a.Record(25*time.Millisecond, false, nil)        // nothing ranked
	a.Record(30*time.Millisecond, true, score(0.99)) // blocked never counts as hit

	s := a.Snapshot()
	if s.RequestCount != 6 {
		t.Errorf("RequestCount = %d, want 6", s.RequestCount)
	}
	if s.BlockedCount != 2 {
		t.Errorf("BlockedCount = %d, want 2", s.BlockedCount)
	}
	if want := 1.0 / 4.0; s.HitRate != want {
		t.Errorf("HitRate = %f, want %f", s.HitRate, want)
	}
}

func TestSnapshot_AllBlocked(t *testing.T) {
	a := NewAggregator(0.2)
	a.Record(time.Millisecond, true, nil)
	a.Record(time.Millisecond, true, nil)
	if s := a.Snapshot(); s.HitRate != 0 {
		t.Errorf("HitRate = %f, want 0 when every request was blocked", s.HitRate)
	}
}

func TestSnapshot_P95NearestRank(t *testing.T) {
	a := NewAggregator(0.2)
	// Insert 1..100 ms out of order.
	for i := 100; i >= 1; i-- {
		a.Record(time.Duration(i)*time.Millisecond, false, nil)
	}
	if got := a.Snapshot().P95Latency; got != 95*time.Millisecond {
		t.Errorf("P95Latency = %v, want 95ms", got)
	}
}

func TestPercentile(t *testing.T) {
	ms := func(v ...int) []time.Duration {
		out := make([]time.Duration, len(v))
		for i, x := range v {
			out[i] = time.Duration(x) * time.Millisecond
		}
		return out
	}

	tests := []struct {
		name   string
		sorted []time.Duration
		want   time.Duration
	}{
		{"single", ms(7), 7 * time.Millisecond},
		{"two", ms(1, 9), 9 * time.Millisecond},
		{"ten", ms(1, 2, 3, 4, 5, 6, 7, 8, 9, 10), 10 * time.Millisecond},
		{"twenty", ms(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20), 19 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := percentile(tt.sorted, 0.95); got != tt.want {
				t.Errorf("percentile = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSnapshot_DoesNotReset(t *testing.T) {
	a := NewAggregator(0.2)
	a.Record(time.Millisecond, false, score(0.9))
	_ = a.Snapshot()
	a.Record(time.Millisecond, false, score(0.9))
	s := a.Snapshot()
	if s.RequestCount != 2 {
		t.Errorf("RequestCount = %d after two snapshots, want 2", s.RequestCount)
	}
	if s.HitRate != 1 {
		t.Errorf("HitRate = %f, want 1", s.HitRate)
	}
}

func TestNewAggregator_NegativeThreshold(t *testing.T) {
	if got := NewAggregator(-1).Threshold(); got != DefaultHitThreshold {
		t.Errorf("Threshold() = %f, want default", got)
	}
}

func TestRecord_NotifiesObserver(t *testing.T) {
	o := &recordingObserver{}
	a := NewAggregator(0.2).WithObserver(o)
	a.Record(time.Millisecond, false, score(0.3))
	a.Record(time.Millisecond, true, nil)
	if o.calls != 2 {
		t.Errorf("observer calls = %d, want 2", o.calls)
	}
	if o.hits != 1 {
		t.Errorf("observer hits = %d, want 1", o.hits)
	}
}

func TestRecord_Concurrent(t *testing.T) {
	a := NewAggregator(0.2)
	const workers, perWorker = 16, 250

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				blocked := i%5 == 0
				a.Record(time.Duration(i)*time.Microsecond, blocked, score(0.5))
				if i%50 == 0 {
					_ = a.Snapshot()
				}
			}
		}(w)
	}
	wg.Wait()

	s := a.Snapshot()
	if s.RequestCount != workers*perWorker {
		t.Errorf("RequestCount = %d, want %d", s.RequestCount, workers*perWorker)
	}
	if s.BlockedCount != workers*perWorker/5 {
		t.Errorf("BlockedCount = %d, want %d", s.BlockedCount, workers*perWorker/5)
	}
	if s.HitRate != 1 {
		t.Errorf("HitRate = %f, want 1", s.HitRate)
	}
}
