package core

import (
	"context"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// waitDone polls done at a fixed interval until it reports true. While not
// done, tick (if non-nil) runs once per iteration, which is where callers
// report progress. The context is checked at the top of every iteration,
// including the first; on cancellation the returned error wraps both
// ErrCancelled and the context error.
//
// Polling is used because the two backing stores share no blocking-wait
// primitive.
func waitDone(ctx context.Context, interval time.Duration, done func() bool, tick func()) error {
	err := wait.PollUntilContextCancel(ctx, interval, true, func(pollCtx context.Context) (bool, error) {
		if err := pollCtx.Err(); err != nil {
			return false, err
		}
		if done() {
			return true, nil
		}
		if tick != nil {
			tick()
		}
		return false, nil
	})
	if err != nil {
		return ErrCancelled.With(err)
	}
	return nil
}
