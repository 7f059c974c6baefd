package scenegroup_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/giantswarm/scenegroup"
	"github.com/giantswarm/scenegroup/internal/simstore"
)

var catalog = []scenegroup.Group{
	{Name: "menu", Entries: []scenegroup.Entry{
		{Ref: scenegroup.Ref{Path: "Scenes/Menu.unity"}, Role: scenegroup.ActiveScene},
	}},
	{Name: "forest", Entries: []scenegroup.Entry{
		{Ref: scenegroup.Ref{Path: "Scenes/Forest.unity"}, Role: scenegroup.ActiveScene},
		{Ref: scenegroup.Ref{Path: "Scenes/Trees.unity"}, Role: scenegroup.Environment},
	}},
}

func TestLoaderSwitchesGroups(t *testing.T) {
	t.Parallel()

	rt := simstore.New()
	var mu sync.Mutex
	var groupsLoaded []string
	l := scenegroup.NewLoader(rt, nil, catalog,
		scenegroup.WithPollInterval(time.Millisecond),
		scenegroup.WithListener(func(ev scenegroup.Event) {
			if ev.Kind == scenegroup.GroupLoaded {
				mu.Lock()
				groupsLoaded = append(groupsLoaded, ev.Group)
				mu.Unlock()
			}
		}),
	)

	ctx := context.Background()
	if err := l.LoadGroup(ctx, 0, nil, false); err != nil {
		t.Fatalf("load menu: %v", err)
	}
	if rt.ActiveScene() != "Menu" {
		t.Fatalf("active = %q, want Menu", rt.ActiveScene())
	}

	if err := l.LoadGroup(ctx, 1, nil, false); err != nil {
		t.Fatalf("load forest: %v", err)
	}
	// Menu was active while the forest group loaded, so it survives the
	// stale unload; Forest is promoted afterwards.
	if rt.ActiveScene() != "Forest" {
		t.Errorf("active = %q, want Forest", rt.ActiveScene())
	}
	got := slices.Sorted(slices.Values(rt.LoadedSceneNames()))
	if !slices.Equal(got, []string{"Forest", "Menu", "Trees"}) {
		t.Errorf("loaded = %v, want Forest Menu Trees", got)
	}

	// Loading forest again unloads the now inactive Menu.
	if err := l.LoadGroup(ctx, 1, nil, false); err != nil {
		t.Fatalf("reload forest: %v", err)
	}
	got = slices.Sorted(slices.Values(rt.LoadedSceneNames()))
	if !slices.Equal(got, []string{"Forest", "Trees"}) {
		t.Errorf("loaded = %v, want Forest Trees", got)
	}

	mu.Lock()
	defer mu.Unlock()
	if !slices.Equal(groupsLoaded, []string{"menu", "forest", "forest"}) {
		t.Errorf("GroupLoaded events = %v", groupsLoaded)
	}
	if l.Manager().State() != scenegroup.StateIdle {
		t.Errorf("state = %s, want Idle", l.Manager().State())
	}
}

func TestManagerReportsAggregateFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("missing lightmap")
	rt := simstore.New()
	rt.FailLoad("Trees", boom)
	mgr := scenegroup.NewManager(rt, nil, scenegroup.WithPollInterval(time.Millisecond))

	err := mgr.LoadGroup(context.Background(), catalog[1], nil, false)
	var agg *scenegroup.AggregateError
	if !errors.As(err, &agg) {
		t.Fatalf("LoadGroup error = %v, want *AggregateError", err)
	}
	if !errors.Is(err, boom) || !errors.Is(err, scenegroup.ErrAggregateFailure) {
		t.Errorf("LoadGroup error = %v, want boom and ErrAggregateFailure", err)
	}
	if !slices.Equal(rt.LoadedSceneNames(), []string{"Forest"}) {
		t.Errorf("loaded = %v, want [Forest]", rt.LoadedSceneNames())
	}
}

func TestSingleLoader(t *testing.T) {
	t.Parallel()

	rt := simstore.New()
	sl := scenegroup.NewSingleLoader(rt, nil, scenegroup.WithPollInterval(time.Millisecond))

	ref := scenegroup.Ref{Path: "Scenes/Arena.unity"}
	if err := sl.LoadOne(context.Background(), ref, nil, false); err != nil {
		t.Fatalf("LoadOne: %v", err)
	}
	if sl.ActiveName() != "Arena" {
		t.Errorf("ActiveName = %q, want Arena", sl.ActiveName())
	}
	if err := sl.UnloadOne(context.Background(), ref); err != nil {
		t.Fatalf("UnloadOne: %v", err)
	}
	if sl.ActiveName() != "" {
		t.Errorf("ActiveName = %q after unload, want empty", sl.ActiveName())
	}
}

func TestRunParallelPublic(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var last float64
	overall := scenegroup.NewMonotonicReporter(scenegroup.ReporterFunc(func(v float64) {
		mu.Lock()
		last = v
		mu.Unlock()
	}))

	task := func(_ context.Context, p scenegroup.Reporter) error {
		p.Report(1)
		return nil
	}
	err := scenegroup.NewParallelTasks(overall).Add(task).Add(task).RunAll(context.Background())
	if err != nil {
		t.Fatalf("RunAll: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if last != 1 {
		t.Errorf("overall progress = %v, want 1", last)
	}
}
