package core

import (
	"errors"
	"math"
	"slices"
	"sync"
	"testing"
)

// recorder collects reported values.
type recorder struct {
	mu     sync.Mutex
	values []float64
}

func (r *recorder) Report(v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, v)
}

func (r *recorder) all() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.values)
}

func (r *recorder) last() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.values) == 0 {
		return math.NaN()
	}
	return r.values[len(r.values)-1]
}

func TestNewAggregatorInvalid(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		n    int
		sink Reporter
	}{
		"zero count":     {n: 0, sink: &recorder{}},
		"negative count": {n: -2, sink: &recorder{}},
		"nil sink":       {n: 1, sink: nil},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if _, err := NewAggregator(tc.n, tc.sink); !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("NewAggregator error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestAggregator(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	agg, err := NewAggregator(4, rec)
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}
	if agg.Len() != 4 {
		t.Errorf("Len = %d, want 4", agg.Len())
	}

	for _, idx := range []int{-1, 4} {
		if _, err := agg.CreateSubProgress(idx); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("CreateSubProgress(%d) error = %v, want ErrOutOfRange", idx, err)
		}
	}

	subs := make([]Reporter, 4)
	for i := range subs {
		subs[i], err = agg.CreateSubProgress(i)
		if err != nil {
			t.Fatalf("CreateSubProgress(%d): %v", i, err)
		}
	}

	subs[0].Report(1)
	if got := rec.last(); got != 0.25 {
		t.Errorf("after one complete slot: %v, want 0.25", got)
	}
	subs[1].Report(0.5)
	if got := rec.last(); got != 0.375 {
		t.Errorf("after half slot: %v, want 0.375", got)
	}

	// Out-of-range values are clamped.
	subs[2].Report(5)
	subs[3].Report(-1)
	if got := agg.Value(); got != 0.625 {
		t.Errorf("Value = %v, want 0.625", got)
	}

	for _, s := range subs {
		s.Report(1)
	}
	if got := rec.last(); got != 1 {
		t.Errorf("all complete: %v, want 1", got)
	}
}

func TestAggregatorConcurrentReports(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	agg, err := NewAggregator(8, rec)
	if err != nil {
		t.Fatalf("NewAggregator: %v", err)
	}

	var wg sync.WaitGroup
	for i := range 8 {
		sub, err := agg.CreateSubProgress(i)
		if err != nil {
			t.Fatalf("CreateSubProgress: %v", err)
		}
		wg.Go(func() {
			for step := 1; step <= 10; step++ {
				sub.Report(float64(step) / 10)
			}
		})
	}
	wg.Wait()

	if got := agg.Value(); math.Abs(got-1) > 1e-9 {
		t.Errorf("Value = %v, want 1", got)
	}
	for _, v := range rec.all() {
		if v < 0 || v > 1 {
			t.Errorf("reported %v outside [0,1]", v)
		}
	}
}

func TestMonotonicReporter(t *testing.T) {
	t.Parallel()

	if NewMonotonicReporter(nil) != nil {
		t.Error("NewMonotonicReporter(nil) is not nil")
	}

	rec := &recorder{}
	m := NewMonotonicReporter(rec)
	for _, v := range []float64{0.2, 0.1, 0.5, -1, 0.4, 2} {
		m.Report(v)
	}
	want := []float64{0.2, 0.2, 0.5, 0.5, 0.5, 1}
	if got := rec.all(); !slices.Equal(got, want) {
		t.Errorf("reported %v, want %v", got, want)
	}
}
