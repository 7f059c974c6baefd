package core

import "sync"

// Reporter receives progress values. Values may fall outside [0,1] when they
// come from intermediate arithmetic; receivers that need a strict range
// clamp them.
type Reporter interface {
	Report(value float64)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(value float64)

// Report calls f(value).
func (f ReporterFunc) Report(value float64) {
	f(value)
}

// report forwards value to r when r is non-nil.
func report(r Reporter, value float64) {
	if r != nil {
		r.Report(value)
	}
}

// Aggregator combines a fixed number of independently reporting subtasks
// into one overall progress value. It is safe for concurrent use.
//
// Every slot starts at 0 and counts toward the mean, so the aggregate
// understates completion until each subtask has reported at least once.
type Aggregator struct {
	// mu guards slots and serializes sink calls so the sink observes means
	// in the order the updates were applied.
	mu    sync.Mutex
	slots []float64
	sink  Reporter
}

// NewAggregator returns an Aggregator with subtaskCount slots that forwards
// every recomputed mean to sink. Returns ErrInvalidArgument when
// subtaskCount <= 0 or sink is nil.
func NewAggregator(subtaskCount int, sink Reporter) (*Aggregator, error) {
	if subtaskCount <= 0 {
		return nil, ErrInvalidArgument.Withf("subtask count must be greater than zero, got %d", subtaskCount)
	}
	if sink == nil {
		return nil, ErrInvalidArgument.Withf("progress sink must not be nil")
	}
	return &Aggregator{
		slots: make([]float64, subtaskCount),
		sink:  sink,
	}, nil
}

// Len returns the number of slots.
func (a *Aggregator) Len() int {
	return len(a.slots)
}

// CreateSubProgress returns a Reporter bound to slot index. Returns
// ErrOutOfRange when index is not in [0, Len()).
func (a *Aggregator) CreateSubProgress(index int) (Reporter, error) {
	if index < 0 || index >= len(a.slots) {
		return nil, ErrOutOfRange.Withf("sub-progress index %d, subtask count %d", index, len(a.slots))
	}
	return ReporterFunc(func(value float64) {
		a.set(index, value)
	}), nil
}

// Value returns the current mean over all slots.
func (a *Aggregator) Value() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.meanLocked()
}

func (a *Aggregator) set(index int, value float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.slots[index] = clamp01(value)
	a.sink.Report(a.meanLocked())
}

func (a *Aggregator) meanLocked() float64 {
	var sum float64
	for _, v := range a.slots {
		sum += v
	}
	return sum / float64(len(a.slots))
}

// monotonicReporter clamps values to [0,1] and never lets the forwarded
// value move backwards.
type monotonicReporter struct {
	mu   sync.Mutex
	high float64
	next Reporter
}

// NewMonotonicReporter wraps next so it only ever sees clamped,
// non-decreasing values. Useful for presentation sinks fed by the poll loop,
// whose combined mean can dip when new operations join a group.
func NewMonotonicReporter(next Reporter) Reporter {
	if next == nil {
		return nil
	}
	return &monotonicReporter{next: next}
}

func (m *monotonicReporter) Report(value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v := clamp01(value); v > m.high {
		m.high = v
	}
	m.next.Report(m.high)
}
