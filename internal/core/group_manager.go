package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// GroupManager orchestrates whole scene-group loads across the regular
// Runtime and an AddressableStore: unload stale scenes, load missing ones
// concurrently, poll combined progress, promote the ActiveScene entry and
// publish lifecycle events.
//
// Orchestration runs on the caller's goroutine; only the backing-store
// operations progress elsewhere. A second LoadGroup or UnloadGroup issued
// before the first settles returns ErrBusy.
type GroupManager struct {
	cfg          ManagerConfig
	runtime      Runtime
	addressables AddressableStore
	bus          Bus

	state atomic.Uint32 // State; zero value is StateIdle

	// mu guards retained.
	mu sync.Mutex

	// retained maps scene name to the addressable handle that loaded it, so
	// later cycles can release those scenes through the addressable store.
	retained map[string]Handle
}

// NewGroupManager returns a GroupManager. addressables may be nil when no
// group contains addressable entries.
//
// Panics if cfg is invalid or rt is nil; both are programmer errors.
func NewGroupManager(cfg ManagerConfig, rt Runtime, addressables AddressableStore) *GroupManager {
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("scenegroup: invalid manager config: %v", err))
	}
	if rt == nil {
		panic("scenegroup: NewGroupManager runtime must not be nil")
	}
	return &GroupManager{
		cfg:          cfg,
		runtime:      rt,
		addressables: addressables,
		retained:     make(map[string]Handle, cfg.HandleCapacity),
	}
}

// Subscribe registers l for lifecycle events and returns its remover.
func (m *GroupManager) Subscribe(l Listener) (unsubscribe func()) {
	return m.bus.Subscribe(l)
}

// State returns the current lifecycle state.
func (m *GroupManager) State() State {
	return State(m.state.Load())
}

func (m *GroupManager) storeState(s State) {
	m.state.Store(uint32(s))
}

// begin moves the manager out of Idle, or reports ErrBusy.
func (m *GroupManager) begin(next State) error {
	if !m.state.CompareAndSwap(uint32(StateIdle), uint32(next)) {
		return ErrBusy.Withf("state %s", m.State())
	}
	return nil
}

// RetainedHandles returns the names of scenes loaded through the
// addressable store that the manager can still release.
func (m *GroupManager) RetainedHandles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.retained))
	for name := range m.retained {
		names = append(names, name)
	}
	return names
}

// LoadGroup makes g the loaded scene set.
//
// Loaded scenes absent from g (other than the active scene) are unloaded
// first. Every entry of g that is not loaded afterwards is dispatched to its
// backing store in entry order, publishing SceneLoaded right after each
// dispatch. The call then polls until every load is done, reporting the mean
// of the regular and addressable group progress to progress (which may be
// nil). Finally the ActiveScene entry, if any and loaded, is promoted and
// GroupLoaded is published.
//
// When reloadDuplicates is true, scenes of g that are already loaded are
// unloaded and loaded again; the active scene is never unloaded.
//
// Failures of individual loads or unloads do not stop their siblings; they
// are returned together as an *AggregateError once everything has settled,
// and the scenes that did load stay loaded. In that case neither activation
// nor GroupLoaded happens. Context cancellation stops orchestration and
// returns an error matching ErrCancelled; operations already dispatched are
// not aborted. An empty group completes immediately with progress 1.
func (m *GroupManager) LoadGroup(ctx context.Context, g Group, progress Reporter, reloadDuplicates bool) error {
	if err := m.begin(StateUnloading); err != nil {
		return err
	}
	defer m.storeState(StateIdle)

	log := Logger().With("group", g.Name, "cycle", uuid.NewString())

	if len(g.Entries) == 0 {
		log.Debug("empty scene group, nothing to load")
		report(progress, 1)
		m.bus.Publish(Event{Kind: GroupLoaded, Group: g.Name})
		return nil
	}

	log.Info("loading scene group", "scenes", len(g.Entries), "reload_duplicates", reloadDuplicates)

	unloadFailures, err := m.unloadStale(ctx, log, g, reloadDuplicates)
	if err != nil {
		return err
	}

	m.storeState(StateLoading)
	loadFailures, err := m.loadMissing(ctx, log, g, progress)
	if err != nil {
		return err
	}

	if failures := append(unloadFailures, loadFailures...); len(failures) > 0 {
		log.Error("scene group load failed", "failures", len(failures))
		return newAggregateError(failures)
	}

	report(progress, 1)

	m.storeState(StateActivating)
	m.activate(log, g)

	m.bus.Publish(Event{Kind: GroupLoaded, Group: g.Name})
	log.Info("scene group loaded")
	return nil
}

// UnloadGroup unloads every loaded scene except the active one, including
// scenes loaded through the addressable store in earlier cycles.
func (m *GroupManager) UnloadGroup(ctx context.Context) error {
	if err := m.begin(StateUnloading); err != nil {
		return err
	}
	defer m.storeState(StateIdle)

	log := Logger().With("cycle", uuid.NewString())
	active := m.runtime.ActiveScene()

	var names []string
	for _, name := range m.runtime.LoadedSceneNames() {
		if name != active {
			names = append(names, name)
		}
	}

	failures, err := m.unloadScenes(ctx, log, "", names)
	if err != nil {
		return err
	}
	return newAggregateError(failures)
}

// unloadStale unloads every loaded scene that is neither active nor (unless
// reloadDuplicates) part of g. The returned error is non-nil only on
// cancellation; unload failures are returned as a slice.
func (m *GroupManager) unloadStale(ctx context.Context, log *slog.Logger, g Group, reloadDuplicates bool) ([]error, error) {
	active := m.runtime.ActiveScene()

	var stale []string
	for _, name := range m.runtime.LoadedSceneNames() {
		if name == active {
			continue
		}
		if !reloadDuplicates && g.Contains(name) {
			continue
		}
		stale = append(stale, name)
	}

	if len(stale) == 0 {
		return nil, nil
	}
	log.Debug("unloading stale scenes", "scenes", stale)
	return m.unloadScenes(ctx, log, g.Name, stale)
}

// unloadScenes dispatches an unload for each name, through the addressable
// store when a retained handle matches and through the runtime otherwise,
// then waits for all of them.
func (m *GroupManager) unloadScenes(ctx context.Context, log *slog.Logger, groupName string, names []string) ([]error, error) {
	ops := NewOperationGroup(len(names))
	dispatched := make([]namedOp, 0, len(names))
	var failures []error

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			ops.Clear()
			return nil, ErrCancelled.With(err)
		}

		op, err := m.dispatchUnload(name)
		if err != nil {
			failures = append(failures, fmt.Errorf("unload %s: %w", name, err))
			continue
		}
		ops.Add(op)
		dispatched = append(dispatched, namedOp{name: name, op: op})
		m.bus.Publish(Event{Kind: SceneUnloaded, Scene: name, Group: groupName})
	}

	if err := waitDone(ctx, m.cfg.PollInterval, ops.IsDone, nil); err != nil {
		ops.Clear()
		log.Info("scene unload cancelled", "error", err)
		return nil, err
	}

	return append(failures, collectFailures("unload", dispatched)...), nil
}

// dispatchUnload starts unloading one scene and forgets its retained handle.
func (m *GroupManager) dispatchUnload(name string) (Operation, error) {
	m.mu.Lock()
	h, ok := m.retained[name]
	if ok {
		delete(m.retained, name)
	}
	m.mu.Unlock()

	if ok && m.addressables != nil {
		return m.addressables.UnloadAsync(h)
	}
	return m.runtime.UnloadAsync(name)
}

// loadMissing dispatches every entry of g that is not loaded, then polls
// until all loads are done. The returned error is non-nil only on
// cancellation.
func (m *GroupManager) loadMissing(ctx context.Context, log *slog.Logger, g Group, progress Reporter) ([]error, error) {
	loaded := loadedSet(m.runtime)
	ops := NewOperationGroup(len(g.Entries))
	handles := NewHandleGroup(len(g.Entries))
	dispatched := make([]namedOp, 0, len(g.Entries))
	var failures []error

	for _, e := range g.Entries {
		if err := ctx.Err(); err != nil {
			ops.Clear()
			handles.Clear()
			return nil, ErrCancelled.With(err)
		}

		name := e.Name()
		if _, ok := loaded[name]; ok {
			log.Debug("scene already loaded, skipping", "scene", name)
			continue
		}

		op, err := m.dispatchLoad(e, ops, handles)
		if err != nil {
			failures = append(failures, fmt.Errorf("load %s: %w", name, err))
			continue
		}
		loaded[name] = struct{}{}
		dispatched = append(dispatched, namedOp{name: name, op: op})
		m.bus.Publish(Event{Kind: SceneLoaded, Scene: name, Group: g.Name})
	}

	sampler := newProgressSampler(log, 0.1)
	err := waitDone(ctx, m.cfg.PollInterval,
		func() bool { return ops.IsDone() && handles.IsDone() },
		func() {
			p := (ops.Progress() + handles.Progress()) / 2
			report(progress, p)
			sampler.observe(p)
		},
	)
	if err != nil {
		ops.Clear()
		handles.Clear()
		log.Info("scene group load cancelled", "error", err)
		return nil, err
	}

	m.retain(handles)
	return append(failures, collectFailures("load", dispatched)...), nil
}

// dispatchLoad starts one load on the entry's backing store and adds the
// operation to the matching group.
func (m *GroupManager) dispatchLoad(e Entry, ops *OperationGroup, handles *HandleGroup) (Operation, error) {
	switch e.Kind {
	case Regular:
		op, err := m.runtime.LoadAsync(e.Path)
		if err != nil {
			return nil, err
		}
		ops.Add(op)
		return op, nil
	case Addressable:
		if m.addressables == nil {
			return nil, ErrNoAddressableStore
		}
		h, err := m.addressables.LoadAsync(e.Path)
		if err != nil {
			return nil, err
		}
		handles.Add(h)
		return h, nil
	default:
		return nil, ErrInvalidArgument.Withf("unknown store kind %s", e.Kind)
	}
}

// retain keeps every successfully resolved handle for later unloads.
func (m *GroupManager) retain(handles *HandleGroup) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range handles.Handles() {
		if inst, ok := h.Result(); ok && h.Err() == nil {
			m.retained[inst.Name] = h
		}
	}
}

// activate promotes g's ActiveScene entry when it is loaded. A missing entry
// or scene is not an error.
func (m *GroupManager) activate(log *slog.Logger, g Group) {
	name := g.FindNameByRole(ActiveScene)
	if name == "" {
		log.Debug("no active scene entry in group")
		return
	}
	if !isLoaded(m.runtime, name) {
		log.Warn("active scene entry is not loaded, skipping activation", "scene", name)
		return
	}
	if err := m.runtime.SetActive(name); err != nil {
		log.Warn("failed to set active scene", "scene", name, "error", err)
		return
	}
	log.Debug("active scene set", "scene", name)
}
