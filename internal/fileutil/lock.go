package fileutil

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
)

// lockRetryInterval is the interval between consecutive lock attempts.
const lockRetryInterval = 50 * time.Millisecond

// LockMode selects between a shared and an exclusive file lock.
type LockMode int

const (
	// Shared allows any number of concurrent shared holders.
	Shared LockMode = iota
	// Exclusive excludes every other holder.
	Exclusive
)

// AcquireLock locks lockPath in the given mode, retrying until it succeeds
// or ctx is done. The lock file is created if missing.
func AcquireLock(ctx context.Context, lockPath string, mode LockMode) (*flock.Flock, error) {
	if err := EnsureDirForFile(lockPath); err != nil {
		return nil, err
	}
	fl := flock.New(lockPath)

	var (
		locked bool
		err    error
	)
	if mode == Exclusive {
		locked, err = fl.TryLockContext(ctx, lockRetryInterval)
	} else {
		locked, err = fl.TryRLockContext(ctx, lockRetryInterval)
	}
	if err != nil {
		return nil, fmt.Errorf("acquiring file lock %s: %w", lockPath, err)
	}
	if !locked {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("acquiring file lock %s: %w", lockPath, ctx.Err())
		}
		return nil, fmt.Errorf("acquiring file lock %s: lock not acquired", lockPath)
	}
	return fl, nil
}

// ReleaseLock releases fl. The lock file stays on disk so a concurrent
// holder's lock is never invalidated. Errors are logged, not returned.
func ReleaseLock(logger *slog.Logger, fl *flock.Flock) {
	if fl == nil {
		return
	}
	if err := fl.Close(); err != nil {
		logger.Debug("failed to release file lock", "path", fl.Path(), "error", err)
	}
}
