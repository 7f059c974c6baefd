package simstore

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/giantswarm/scenegroup/internal/core"
	"github.com/giantswarm/scenegroup/internal/sentinel"
)

// ErrSceneNotLoaded is returned by UnloadAsync and Detach for a scene that
// is not loaded.
const ErrSceneNotLoaded = sentinel.Error("scene is not loaded")

// ErrSceneLoaded is returned by Attach for a scene that is already loaded.
const ErrSceneLoaded = sentinel.Error("scene is already loaded")

// Compile-time interface satisfaction check.
var _ core.Runtime = (*Runtime)(nil)

// Option configures a Runtime.
type Option func(*Runtime)

// WithLoadDuration sets how long regular loads take. Default: 0 (next tick).
func WithLoadDuration(d time.Duration) Option {
	return func(r *Runtime) { r.loadDuration = d }
}

// WithUnloadDuration sets how long unloads take. Default: 0 (next tick).
func WithUnloadDuration(d time.Duration) Option {
	return func(r *Runtime) { r.unloadDuration = d }
}

// WithPreloaded marks scenes as loaded at construction. The first becomes
// the active scene.
func WithPreloaded(names ...string) Option {
	return func(r *Runtime) {
		for _, n := range names {
			if !slices.Contains(r.loaded, n) {
				r.loaded = append(r.loaded, n)
			}
		}
		if r.active == "" && len(r.loaded) > 0 {
			r.active = r.loaded[0]
		}
	}
}

// Runtime simulates the engine's scene runtime. Safe for concurrent use.
type Runtime struct {
	loadDuration   time.Duration
	unloadDuration time.Duration

	mu          sync.Mutex
	loaded      []string
	active      string
	loadFaults  map[string]error
	durations   map[string]time.Duration
	loadCounts  map[string]int
	activations []string
}

// New returns a Runtime with no loaded scenes unless WithPreloaded is given.
func New(opts ...Option) *Runtime {
	r := &Runtime{
		loadFaults: make(map[string]error),
		durations:  make(map[string]time.Duration),
		loadCounts: make(map[string]int),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FailLoad makes every later load of the named scene finish with err.
// A nil err clears the fault.
func (r *Runtime) FailLoad(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.loadFaults, name)
		return
	}
	r.loadFaults[name] = err
}

// SetLoadDuration overrides the load duration for one scene.
func (r *Runtime) SetLoadDuration(name string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.durations[name] = d
}

// LoadCount returns how many loads of the named scene were dispatched.
func (r *Runtime) LoadCount(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadCounts[name]
}

// Activations returns every name passed to a successful SetActive, in order.
func (r *Runtime) Activations() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.activations)
}

// LoadAsync starts an additive load of a built-in scene. The scene joins
// the loaded list when the operation completes.
func (r *Runtime) LoadAsync(path string) (core.Operation, error) {
	name := core.Ref{Path: path}.Name()
	if name == "" {
		return nil, fmt.Errorf("scene path %q has no name", path)
	}

	r.mu.Lock()
	r.loadCounts[name]++
	fault := r.loadFaults[name]
	d, ok := r.durations[name]
	if !ok {
		d = r.loadDuration
	}
	r.mu.Unlock()

	return startTimed(d, func() error {
		if fault != nil {
			return fault
		}
		return r.Attach(name)
	}), nil
}

// UnloadAsync starts unloading a loaded scene by name.
func (r *Runtime) UnloadAsync(name string) (core.Operation, error) {
	if !slices.Contains(r.LoadedSceneNames(), name) {
		return nil, fmt.Errorf("unload %s: %w", name, ErrSceneNotLoaded)
	}
	return startTimed(r.unloadDuration, func() error {
		return r.Detach(name)
	}), nil
}

// Attach adds a scene to the loaded list. Addressable stores call it when a
// content load completes.
func (r *Runtime) Attach(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if slices.Contains(r.loaded, name) {
		return fmt.Errorf("attach %s: %w", name, ErrSceneLoaded)
	}
	r.loaded = append(r.loaded, name)
	return nil
}

// Detach removes a scene from the loaded list, clearing the active pointer
// if it named that scene.
func (r *Runtime) Detach(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := slices.Index(r.loaded, name)
	if i < 0 {
		return fmt.Errorf("detach %s: %w", name, ErrSceneNotLoaded)
	}
	r.loaded = slices.Delete(r.loaded, i, i+1)
	if r.active == name {
		r.active = ""
	}
	return nil
}

// LoadedSceneNames returns the loaded scenes in load order.
func (r *Runtime) LoadedSceneNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.loaded)
}

// ActiveScene returns the active scene name, or "".
func (r *Runtime) ActiveScene() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// SetActive promotes a loaded scene. Returns core.ErrNoActiveScene when the
// scene is not loaded.
func (r *Runtime) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !slices.Contains(r.loaded, name) {
		return fmt.Errorf("set active %s: %w", name, core.ErrNoActiveScene)
	}
	r.active = name
	r.activations = append(r.activations, name)
	return nil
}

// timedOp reports progress from elapsed time until its commit step runs.
type timedOp struct {
	*core.Tracker
	start    time.Time
	duration time.Duration
}

// startTimed returns an operation that runs commit after d and completes
// with its error.
func startTimed(d time.Duration, commit func() error) *timedOp {
	op := &timedOp{Tracker: core.NewTracker(), start: time.Now(), duration: d}
	time.AfterFunc(d, func() {
		op.Complete(commit())
	})
	return op
}

// Progress interpolates over the configured duration, holding below 1 until
// the operation has actually completed.
func (o *timedOp) Progress() float64 {
	if o.Done() || o.duration <= 0 {
		return o.Tracker.Progress()
	}
	p := float64(time.Since(o.start)) / float64(o.duration)
	return min(p, 0.99)
}
