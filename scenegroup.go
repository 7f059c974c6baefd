package scenegroup

import (
	"context"

	"github.com/giantswarm/scenegroup/internal/core"
)

// Compile-time interface satisfaction checks.
var (
	_ Manager      = (*managerWrapper)(nil)
	_ Loader       = (*loaderWrapper)(nil)
	_ SingleLoader = (*core.SingleManager)(nil)
)

// managerWrapper hides *core.GroupManager behind Manager so callers cannot
// reach internal methods through a type assertion.
type managerWrapper struct {
	mgr *core.GroupManager
}

func (w *managerWrapper) LoadGroup(ctx context.Context, g Group, progress Reporter, reloadDuplicates bool) error {
	return w.mgr.LoadGroup(ctx, g, progress, reloadDuplicates)
}

func (w *managerWrapper) UnloadGroup(ctx context.Context) error {
	return w.mgr.UnloadGroup(ctx)
}

func (w *managerWrapper) State() State {
	return w.mgr.State()
}

func (w *managerWrapper) Subscribe(l Listener) (unsubscribe func()) {
	return w.mgr.Subscribe(l)
}

type loaderWrapper struct {
	loader  *core.SceneLoader
	manager *managerWrapper
}

func (w *loaderWrapper) LoadGroup(ctx context.Context, index int, progress Reporter, reloadDuplicates bool) error {
	return w.loader.LoadGroup(ctx, index, progress, reloadDuplicates)
}

func (w *loaderWrapper) Groups() []Group {
	return w.loader.Groups()
}

//nolint:ireturn // Returns Manager interface by design.
func (w *loaderWrapper) Manager() Manager {
	return w.manager
}

func newGroupManager(rt Runtime, store AddressableStore, opts []Option) *managerWrapper {
	cfg := applyOptions(opts)
	mgr := core.NewGroupManager(cfg.ManagerConfig, rt, store)
	for _, l := range cfg.listeners {
		mgr.Subscribe(l)
	}
	return &managerWrapper{mgr: mgr}
}

// NewManager returns a Manager over rt. store may be nil when no group
// contains addressable entries; loading one then fails with
// ErrNoAddressableStore.
//
// Panics if rt is nil or any option receives an invalid value.
//
//nolint:ireturn // Returns Manager interface by design for testability (mockable).
func NewManager(rt Runtime, store AddressableStore, opts ...Option) Manager {
	return newGroupManager(rt, store, opts)
}

// NewLoader returns a Loader over the ordered catalog groups, backed by a
// new Manager. groups is copied.
//
// Panics if rt is nil or any option receives an invalid value.
//
//nolint:ireturn // Returns Loader interface by design for testability (mockable).
func NewLoader(rt Runtime, store AddressableStore, groups []Group, opts ...Option) Loader {
	mgr := newGroupManager(rt, store, opts)
	return &loaderWrapper{loader: core.NewSceneLoader(mgr.mgr, groups), manager: mgr}
}

// NewSingleLoader returns a SingleLoader over rt.
//
// Panics if rt is nil or any option receives an invalid value.
//
//nolint:ireturn // Returns SingleLoader interface by design for testability (mockable).
func NewSingleLoader(rt Runtime, store AddressableStore, opts ...Option) SingleLoader {
	cfg := applyOptions(opts)
	m := core.NewSingleManager(cfg.ManagerConfig, rt, store)
	for _, l := range cfg.listeners {
		m.Subscribe(l)
	}
	return m
}

// RunParallel runs every factory concurrently and waits for all of them.
// When overall is non-nil each task gets its own sub-progress sink and
// overall receives their mean. Failures are returned together as an
// *AggregateError in factory order. A nil factory fails with
// ErrInvalidArgument before any task starts; no factories succeed
// immediately.
func RunParallel(ctx context.Context, factories []TaskFactory, overall Reporter) error {
	return core.RunParallel(ctx, factories, overall)
}

// NewParallelTasks returns an empty ParallelTasks reporting to overall,
// which may be nil.
func NewParallelTasks(overall Reporter) *ParallelTasks {
	return core.NewParallelTasks(overall)
}

// NewAggregator returns an Aggregator over subtaskCount slots that reports
// their mean to sink.
func NewAggregator(subtaskCount int, sink Reporter) (*Aggregator, error) {
	return core.NewAggregator(subtaskCount, sink)
}

// NewMonotonicReporter returns a Reporter that forwards the highest value
// seen so far to next. Returns nil if next is nil.
//
//nolint:ireturn // Reporter is the sink interface.
func NewMonotonicReporter(next Reporter) Reporter {
	return core.NewMonotonicReporter(next)
}

// NewTracker returns an unfinished Tracker for store implementations.
func NewTracker() *Tracker {
	return core.NewTracker()
}
