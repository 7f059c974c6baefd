package core

import "sync"

// Compile-time interface satisfaction checks.
var (
	_ Operation = (*Tracker)(nil)
	_ Handle    = (*Tracker)(nil)
)

// Tracker is a settable Operation/Handle for backing-store implementations:
// the store's worker calls SetProgress while it works and Complete or
// Resolve exactly once when it finishes. Safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	progress  float64
	done      bool
	err       error
	result    SceneInstance
	hasResult bool
	doneCh    chan struct{}
}

// NewTracker returns an unfinished Tracker at progress 0.
func NewTracker() *Tracker {
	return &Tracker{doneCh: make(chan struct{})}
}

// SetProgress records intermediate progress, clamped to [0,1]. Ignored once
// the tracker is done.
func (t *Tracker) SetProgress(p float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.done {
		t.progress = clamp01(p)
	}
}

// Complete finishes the tracker. A nil err sets progress to 1. Only the
// first call to Complete or Resolve has an effect.
func (t *Tracker) Complete(err error) {
	t.finish(err, SceneInstance{}, false)
}

// Resolve finishes the tracker successfully with a result.
func (t *Tracker) Resolve(inst SceneInstance) {
	t.finish(nil, inst, true)
}

func (t *Tracker) finish(err error, inst SceneInstance, hasResult bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return
	}
	t.done = true
	t.err = err
	t.result = inst
	t.hasResult = hasResult
	if err == nil {
		t.progress = 1
	}
	close(t.doneCh)
}

// Done reports whether the tracker has finished.
func (t *Tracker) Done() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

// Progress returns the last recorded progress.
func (t *Tracker) Progress() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress
}

// Err returns the failure passed to Complete, if any.
func (t *Tracker) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Result returns the value passed to Resolve.
func (t *Tracker) Result() (SceneInstance, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.result, t.hasResult
}

// Finished returns a channel closed when the tracker finishes.
func (t *Tracker) Finished() <-chan struct{} {
	return t.doneCh
}
