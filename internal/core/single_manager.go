package core

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// SingleManager loads and unloads one scene at a time and tracks the scene
// it last promoted. It is the single-capacity form of GroupManager and uses
// the same poll-and-join machinery.
//
// A LoadOne or UnloadOne issued before the previous call settles returns
// ErrBusy.
type SingleManager struct {
	cfg          ManagerConfig
	runtime      Runtime
	addressables AddressableStore
	bus          Bus

	busy atomic.Bool

	// mu guards activeName and retained.
	mu         sync.Mutex
	activeName string
	retained   map[string]Handle
}

// NewSingleManager returns a SingleManager. addressables may be nil when
// only regular scenes are loaded.
//
// Panics if cfg is invalid or rt is nil.
func NewSingleManager(cfg ManagerConfig, rt Runtime, addressables AddressableStore) *SingleManager {
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("scenegroup: invalid manager config: %v", err))
	}
	if rt == nil {
		panic("scenegroup: NewSingleManager runtime must not be nil")
	}
	return &SingleManager{
		cfg:          cfg,
		runtime:      rt,
		addressables: addressables,
		retained:     make(map[string]Handle, 1),
	}
}

// Subscribe registers l for SceneLoaded and SceneUnloaded events.
func (m *SingleManager) Subscribe(l Listener) (unsubscribe func()) {
	return m.bus.Subscribe(l)
}

// ActiveName returns the name of the scene this manager last loaded and
// promoted, or "".
func (m *SingleManager) ActiveName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeName
}

func (m *SingleManager) begin() error {
	if !m.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}
	return nil
}

func (m *SingleManager) end() {
	m.busy.Store(false)
}

// LoadOne loads ref and promotes it to the active scene.
//
// If the scene is already loaded and reloadIfLoaded is false, LoadOne is a
// no-op: nothing is dispatched and no event fires. With reloadIfLoaded the
// scene is unloaded first. Progress (which may be nil) receives the combined
// regular/addressable progress while polling and 1 on success.
//
// On cancellation the in-flight operation is abandoned (not aborted), the
// tracked active scene is left unchanged, and the returned error matches
// ErrCancelled.
func (m *SingleManager) LoadOne(ctx context.Context, ref Ref, progress Reporter, reloadIfLoaded bool) error {
	if err := m.begin(); err != nil {
		return err
	}
	defer m.end()

	name := ref.Name()
	if name == "" {
		return ErrInvalidArgument.Withf("scene reference %q has no name", ref.Path)
	}
	log := Logger().With("scene", name, "store", ref.Kind.String(), "cycle", uuid.NewString())

	if isLoaded(m.runtime, name) {
		if !reloadIfLoaded {
			log.Debug("scene already loaded, skipping")
			return nil
		}
		log.Debug("scene already loaded, reloading")
		if err := m.unload(ctx, log, name); err != nil {
			return err
		}
	}

	ops := NewOperationGroup(1)
	handles := NewHandleGroup(1)

	if err := ctx.Err(); err != nil {
		return ErrCancelled.With(err)
	}

	var op Operation
	switch ref.Kind {
	case Regular:
		o, err := m.runtime.LoadAsync(ref.Path)
		if err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
		ops.Add(o)
		op = o
	case Addressable:
		if m.addressables == nil {
			return fmt.Errorf("load %s: %w", name, ErrNoAddressableStore)
		}
		h, err := m.addressables.LoadAsync(ref.Path)
		if err != nil {
			return fmt.Errorf("load %s: %w", name, err)
		}
		handles.Add(h)
		op = h
	default:
		return ErrInvalidArgument.Withf("unknown store kind %s", ref.Kind)
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
		log.Info("scene load cancelled", "error", err)
		return err
	}
	if err := op.Err(); err != nil {
		return fmt.Errorf("load %s: %w", name, err)
	}

	if isLoaded(m.runtime, name) {
		if err := m.runtime.SetActive(name); err != nil {
			log.Warn("failed to set active scene", "error", err)
		}
	}

	m.mu.Lock()
	m.activeName = name
	for _, h := range handles.Handles() {
		if inst, ok := h.Result(); ok {
			m.retained[inst.Name] = h
		}
	}
	m.mu.Unlock()

	report(progress, 1)
	m.bus.Publish(Event{Kind: SceneLoaded, Scene: name})
	log.Info("scene loaded")
	return nil
}

// UnloadOne unloads ref. A scene that is not loaded is logged as
// ErrNotLoaded and nil is returned; no event fires. If ref was the tracked
// active scene, the tracked name is cleared once the unload completes.
func (m *SingleManager) UnloadOne(ctx context.Context, ref Ref) error {
	if err := m.begin(); err != nil {
		return err
	}
	defer m.end()

	name := ref.Name()
	log := Logger().With("scene", name, "store", ref.Kind.String(), "cycle", uuid.NewString())
	if !isLoaded(m.runtime, name) {
		log.Warn("unload skipped", "error", ErrNotLoaded)
		return nil
	}
	return m.unload(ctx, log, name)
}

// unload releases a loaded scene and waits for completion.
func (m *SingleManager) unload(ctx context.Context, log *slog.Logger, name string) error {
	if err := ctx.Err(); err != nil {
		return ErrCancelled.With(err)
	}

	m.mu.Lock()
	h, viaHandle := m.retained[name]
	m.mu.Unlock()

	var (
		op  Operation
		err error
	)
	if viaHandle && m.addressables != nil {
		op, err = m.addressables.UnloadAsync(h)
	} else {
		op, err = m.runtime.UnloadAsync(name)
	}
	if err != nil {
		return fmt.Errorf("unload %s: %w", name, err)
	}

	ops := NewOperationGroup(1)
	ops.Add(op)
	m.bus.Publish(Event{Kind: SceneUnloaded, Scene: name})

	if err := waitDone(ctx, m.cfg.PollInterval, ops.IsDone, nil); err != nil {
		ops.Clear()
		log.Info("scene unload cancelled", "error", err)
		return err
	}
	if err := op.Err(); err != nil {
		return fmt.Errorf("unload %s: %w", name, err)
	}

	m.mu.Lock()
	delete(m.retained, name)
	if m.activeName == name {
		m.activeName = ""
	}
	m.mu.Unlock()

	log.Info("scene unloaded")
	return nil
}
