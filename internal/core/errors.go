package core

import (
	"fmt"
	"strings"

	"github.com/giantswarm/scenegroup/internal/sentinel"
)

const (
	// ErrInvalidArgument is returned for structural misuse detected before
	// any work is scheduled: nil factories or sinks, non-positive counts.
	ErrInvalidArgument = sentinel.Error("invalid argument")

	// ErrOutOfRange is returned by Aggregator.CreateSubProgress for an index
	// outside [0, subtaskCount).
	ErrOutOfRange = sentinel.Error("index out of range")

	// ErrOutOfRangeIndex marks a group index outside the loader's catalog.
	// It is logged, never returned.
	ErrOutOfRangeIndex = sentinel.Error("scene group index out of range")

	// ErrNotLoaded marks an unload request for a scene that is not loaded.
	// It is logged, never returned.
	ErrNotLoaded = sentinel.Error("scene not loaded")

	// ErrAggregateFailure matches every *AggregateError via errors.Is.
	ErrAggregateFailure = sentinel.Error("one or more loads failed")

	// ErrCancelled is returned when the caller's context ends while a load
	// or unload is being orchestrated. The returned error also wraps the
	// context error.
	ErrCancelled = sentinel.Error("scene operation cancelled")

	// ErrNoActiveScene is returned by Runtime.SetActive implementations when
	// the requested scene is not loaded.
	ErrNoActiveScene = sentinel.Error("scene cannot be made active")

	// ErrBusy is returned when a load or unload is requested on a manager
	// that is still settling a previous call.
	ErrBusy = sentinel.Error("manager is busy with another operation")

	// ErrNoAddressableStore is returned when an addressable entry is loaded
	// by a manager constructed without an AddressableStore.
	ErrNoAddressableStore = sentinel.Error("no addressable store configured")
)

// AggregateError collects every failure of a set of concurrently run loads.
// It is only produced after all siblings have settled.
type AggregateError struct {
	Errs []error
}

// Error lists every collected failure.
func (e *AggregateError) Error() string {
	if len(e.Errs) == 1 {
		return fmt.Sprintf("%s: %v", ErrAggregateFailure, e.Errs[0])
	}
	parts := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		parts[i] = err.Error()
	}
	return fmt.Sprintf("%s (%d failures): %s", ErrAggregateFailure, len(e.Errs), strings.Join(parts, "; "))
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errs
}

// Is reports true for ErrAggregateFailure.
func (e *AggregateError) Is(target error) bool {
	return target == ErrAggregateFailure
}

// newAggregateError returns nil for an empty slice, otherwise an
// *AggregateError holding a copy of errs.
func newAggregateError(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	cp := make([]error, len(errs))
	copy(cp, errs)
	return &AggregateError{Errs: cp}
}
