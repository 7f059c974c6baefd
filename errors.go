package scenegroup

import "github.com/giantswarm/scenegroup/internal/core"

// Sentinel errors for error inspection with errors.Is.
const (
	// ErrInvalidArgument is returned for structural misuse detected before
	// any work starts, such as a nil task factory or progress sink.
	ErrInvalidArgument = core.ErrInvalidArgument

	// ErrOutOfRange is returned by Aggregator.CreateSubProgress for an index
	// outside the subtask range.
	ErrOutOfRange = core.ErrOutOfRange

	// ErrOutOfRangeIndex is logged when a Loader is asked for a group index
	// outside its catalog. It is never returned.
	ErrOutOfRangeIndex = core.ErrOutOfRangeIndex

	// ErrNotLoaded is logged when UnloadOne is asked to unload a scene that
	// is not loaded. It is never returned.
	ErrNotLoaded = core.ErrNotLoaded

	// ErrAggregateFailure matches every *AggregateError.
	ErrAggregateFailure = core.ErrAggregateFailure

	// ErrCancelled is returned when the context ends during a load or
	// unload. The error also wraps the context's error.
	ErrCancelled = core.ErrCancelled

	// ErrNoActiveScene is returned by Runtime.SetActive implementations for
	// a scene that is not loaded.
	ErrNoActiveScene = core.ErrNoActiveScene

	// ErrBusy is returned when a call overlaps a previous one on the same
	// Manager or SingleLoader.
	ErrBusy = core.ErrBusy

	// ErrNoAddressableStore is returned for an addressable entry when no
	// AddressableStore was configured.
	ErrNoAddressableStore = core.ErrNoAddressableStore
)
