package simstore

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/giantswarm/scenegroup/internal/core"
)

func waitOp(t *testing.T, op core.Operation) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !op.Done() {
		if time.Now().After(deadline) {
			t.Fatal("operation did not finish")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestRuntimeLoadUnload(t *testing.T) {
	t.Parallel()

	r := New(WithPreloaded("Boot"))
	if r.ActiveScene() != "Boot" {
		t.Fatalf("active = %q, want Boot", r.ActiveScene())
	}

	op, err := r.LoadAsync("Scenes/Forest.unity")
	if err != nil {
		t.Fatalf("LoadAsync: %v", err)
	}
	waitOp(t, op)
	if op.Err() != nil || op.Progress() != 1 {
		t.Errorf("load err=%v progress=%v", op.Err(), op.Progress())
	}
	if !slices.Equal(r.LoadedSceneNames(), []string{"Boot", "Forest"}) {
		t.Errorf("loaded = %v", r.LoadedSceneNames())
	}
	if r.LoadCount("Forest") != 1 {
		t.Errorf("LoadCount = %d, want 1", r.LoadCount("Forest"))
	}

	if err := r.SetActive("Forest"); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	op, err = r.UnloadAsync("Forest")
	if err != nil {
		t.Fatalf("UnloadAsync: %v", err)
	}
	waitOp(t, op)
	if r.ActiveScene() != "" {
		t.Errorf("active = %q after unloading it, want empty", r.ActiveScene())
	}
	if !slices.Equal(r.Activations(), []string{"Forest"}) {
		t.Errorf("activations = %v", r.Activations())
	}
}

func TestRuntimeErrors(t *testing.T) {
	t.Parallel()

	r := New()

	if _, err := r.LoadAsync(""); err == nil {
		t.Error("LoadAsync with empty path succeeded")
	}
	if _, err := r.UnloadAsync("Ghost"); !errors.Is(err, ErrSceneNotLoaded) {
		t.Errorf("UnloadAsync error = %v, want ErrSceneNotLoaded", err)
	}
	if err := r.SetActive("Ghost"); !errors.Is(err, core.ErrNoActiveScene) {
		t.Errorf("SetActive error = %v, want ErrNoActiveScene", err)
	}
	if err := r.Attach("A"); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if err := r.Attach("A"); !errors.Is(err, ErrSceneLoaded) {
		t.Errorf("second Attach error = %v, want ErrSceneLoaded", err)
	}

	boom := errors.New("boom")
	r.FailLoad("Bad", boom)
	op, err := r.LoadAsync("Bad")
	if err != nil {
		t.Fatalf("LoadAsync: %v", err)
	}
	waitOp(t, op)
	if !errors.Is(op.Err(), boom) {
		t.Errorf("load error = %v, want boom", op.Err())
	}
	if slices.Contains(r.LoadedSceneNames(), "Bad") {
		t.Error("failed scene is loaded")
	}

	r.FailLoad("Bad", nil)
	op, _ = r.LoadAsync("Bad")
	waitOp(t, op)
	if op.Err() != nil {
		t.Errorf("load after clearing fault: %v", op.Err())
	}
}

func TestTimedOpProgress(t *testing.T) {
	t.Parallel()

	r := New()
	r.SetLoadDuration("Slow", time.Hour)
	op, err := r.LoadAsync("Slow")
	if err != nil {
		t.Fatalf("LoadAsync: %v", err)
	}
	if p := op.Progress(); p < 0 || p >= 0.99 {
		t.Errorf("progress = %v, want in [0, 0.99)", p)
	}
	if op.Done() {
		t.Error("hour-long load is done")
	}
}
