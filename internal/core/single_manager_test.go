package core_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/giantswarm/scenegroup/internal/core"
	"github.com/giantswarm/scenegroup/internal/simstore"
)

func newSingleManager(t *testing.T, rt *simstore.Runtime, store core.AddressableStore) (*core.SingleManager, *eventLog) {
	t.Helper()
	m := core.NewSingleManager(testConfig, rt, store)
	events := &eventLog{}
	t.Cleanup(m.Subscribe(events.listen))
	return m, events
}

func TestLoadOne(t *testing.T) {
	t.Parallel()

	rt := simstore.New(simstore.WithPreloaded("Boot"))
	m, events := newSingleManager(t, rt, nil)
	progress := &progressLog{}

	if err := m.LoadOne(context.Background(), core.Ref{Path: "Scenes/Arena.unity"}, progress, false); err != nil {
		t.Fatalf("LoadOne: %v", err)
	}
	if rt.ActiveScene() != "Arena" || m.ActiveName() != "Arena" {
		t.Errorf("active = %q, tracked = %q, want Arena", rt.ActiveScene(), m.ActiveName())
	}
	if got := events.kinds(); !slices.Equal(got, []core.EventKind{core.SceneLoaded}) {
		t.Errorf("events = %v, want [SceneLoaded]", got)
	}
	if values := progress.all(); len(values) == 0 || values[len(values)-1] != 1 {
		t.Errorf("progress = %v, want final 1", values)
	}
}

func TestLoadOneAlreadyLoaded(t *testing.T) {
	t.Parallel()

	t.Run("without reload is a no-op", func(t *testing.T) {
		t.Parallel()
		rt := simstore.New(simstore.WithPreloaded("Boot", "Arena"))
		m, events := newSingleManager(t, rt, nil)

		if err := m.LoadOne(context.Background(), core.Ref{Path: "Arena"}, nil, false); err != nil {
			t.Fatalf("LoadOne: %v", err)
		}
		if rt.LoadCount("Arena") != 0 || len(events.kinds()) != 0 {
			t.Errorf("loads=%d events=%v, want none", rt.LoadCount("Arena"), events.kinds())
		}
		if m.ActiveName() != "" {
			t.Errorf("tracked = %q, want empty", m.ActiveName())
		}
	})

	t.Run("with reload unloads first", func(t *testing.T) {
		t.Parallel()
		rt := simstore.New(simstore.WithPreloaded("Boot", "Arena"))
		m, events := newSingleManager(t, rt, nil)

		if err := m.LoadOne(context.Background(), core.Ref{Path: "Arena"}, nil, true); err != nil {
			t.Fatalf("LoadOne: %v", err)
		}
		if rt.LoadCount("Arena") != 1 {
			t.Errorf("Arena loaded %d times, want 1", rt.LoadCount("Arena"))
		}
		want := []core.EventKind{core.SceneUnloaded, core.SceneLoaded}
		if got := events.kinds(); !slices.Equal(got, want) {
			t.Errorf("events = %v, want %v", got, want)
		}
		if m.ActiveName() != "Arena" {
			t.Errorf("tracked = %q, want Arena", m.ActiveName())
		}
	})
}

func TestLoadOneErrors(t *testing.T) {
	t.Parallel()

	t.Run("empty name", func(t *testing.T) {
		t.Parallel()
		m, _ := newSingleManager(t, simstore.New(), nil)
		if err := m.LoadOne(context.Background(), core.Ref{}, nil, false); !errors.Is(err, core.ErrInvalidArgument) {
			t.Errorf("LoadOne error = %v, want ErrInvalidArgument", err)
		}
	})

	t.Run("load failure keeps tracked scene", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("missing asset")
		rt := simstore.New()
		m, events := newSingleManager(t, rt, nil)
		if err := m.LoadOne(context.Background(), core.Ref{Path: "Good"}, nil, false); err != nil {
			t.Fatalf("LoadOne Good: %v", err)
		}
		rt.FailLoad("Bad", boom)

		if err := m.LoadOne(context.Background(), core.Ref{Path: "Bad"}, nil, false); !errors.Is(err, boom) {
			t.Errorf("LoadOne error = %v, want %v", err, boom)
		}
		if m.ActiveName() != "Good" {
			t.Errorf("tracked = %q, want Good", m.ActiveName())
		}
		if got := events.scenes(core.SceneLoaded); !slices.Equal(got, []string{"Good"}) {
			t.Errorf("SceneLoaded events = %v, want [Good]", got)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()
		rt := simstore.New()
		rt.SetLoadDuration("Slow", time.Hour)
		m, _ := newSingleManager(t, rt, nil)

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		err := m.LoadOne(ctx, core.Ref{Path: "Slow"}, nil, false)
		if !errors.Is(err, core.ErrCancelled) {
			t.Errorf("LoadOne error = %v, want ErrCancelled", err)
		}
		if m.ActiveName() != "" {
			t.Errorf("tracked = %q, want empty", m.ActiveName())
		}

		// The manager is usable again.
		if err := m.LoadOne(context.Background(), core.Ref{Path: "Fast"}, nil, false); err != nil {
			t.Errorf("LoadOne after cancel: %v", err)
		}
	})

	t.Run("addressable without store", func(t *testing.T) {
		t.Parallel()
		m, _ := newSingleManager(t, simstore.New(), nil)
		err := m.LoadOne(context.Background(), core.Ref{Path: "ui/hud", Kind: core.Addressable}, nil, false)
		if !errors.Is(err, core.ErrNoAddressableStore) {
			t.Errorf("LoadOne error = %v, want ErrNoAddressableStore", err)
		}
	})
}

func TestUnloadOne(t *testing.T) {
	t.Parallel()

	t.Run("not loaded is logged and ignored", func(t *testing.T) {
		t.Parallel()
		m, events := newSingleManager(t, simstore.New(), nil)
		if err := m.UnloadOne(context.Background(), core.Ref{Path: "Ghost"}); err != nil {
			t.Errorf("UnloadOne: %v", err)
		}
		if len(events.kinds()) != 0 {
			t.Errorf("events = %v, want none", events.kinds())
		}
	})

	t.Run("clears tracked scene", func(t *testing.T) {
		t.Parallel()
		rt := simstore.New()
		m, events := newSingleManager(t, rt, nil)
		if err := m.LoadOne(context.Background(), core.Ref{Path: "Arena"}, nil, false); err != nil {
			t.Fatalf("LoadOne: %v", err)
		}
		if err := m.UnloadOne(context.Background(), core.Ref{Path: "Arena"}); err != nil {
			t.Fatalf("UnloadOne: %v", err)
		}
		if m.ActiveName() != "" || len(rt.LoadedSceneNames()) != 0 {
			t.Errorf("tracked=%q loaded=%v, want none", m.ActiveName(), rt.LoadedSceneNames())
		}
		if got := events.scenes(core.SceneUnloaded); !slices.Equal(got, []string{"Arena"}) {
			t.Errorf("SceneUnloaded events = %v, want [Arena]", got)
		}
	})

	t.Run("addressable scene released through its handle", func(t *testing.T) {
		t.Parallel()
		rt := simstore.New()
		store := openContent(t, rt, "ui/hud")
		m, _ := newSingleManager(t, rt, store)

		ref := core.Ref{Path: "ui/hud", Kind: core.Addressable}
		if err := m.LoadOne(context.Background(), ref, nil, false); err != nil {
			t.Fatalf("LoadOne: %v", err)
		}
		if !slices.Equal(rt.LoadedSceneNames(), []string{"hud"}) {
			t.Fatalf("loaded = %v, want [hud]", rt.LoadedSceneNames())
		}
		if err := m.UnloadOne(context.Background(), ref); err != nil {
			t.Fatalf("UnloadOne: %v", err)
		}
		if len(rt.LoadedSceneNames()) != 0 {
			t.Errorf("loaded = %v, want none", rt.LoadedSceneNames())
		}
	})
}
