package core

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestWaitDone(t *testing.T) {
	t.Parallel()

	t.Run("ticks until done", func(t *testing.T) {
		t.Parallel()
		var calls, ticks atomic.Int32
		done := func() bool { return calls.Add(1) > 3 }
		if err := waitDone(context.Background(), time.Millisecond, done, func() { ticks.Add(1) }); err != nil {
			t.Fatalf("waitDone: %v", err)
		}
		if ticks.Load() != 3 {
			t.Errorf("ticked %d times, want 3", ticks.Load())
		}
	})

	t.Run("already done does not tick", func(t *testing.T) {
		t.Parallel()
		var ticks atomic.Int32
		if err := waitDone(context.Background(), time.Hour, func() bool { return true }, func() { ticks.Add(1) }); err != nil {
			t.Fatalf("waitDone: %v", err)
		}
		if ticks.Load() != 0 {
			t.Errorf("ticked %d times, want 0", ticks.Load())
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := waitDone(ctx, time.Millisecond, func() bool { return true }, nil)
		if !errors.Is(err, ErrCancelled) || !errors.Is(err, context.Canceled) {
			t.Errorf("waitDone error = %v, want ErrCancelled wrapping context.Canceled", err)
		}
	})
}
