package scenegroup

import "context"

// Manager loads whole scene groups.
//
// Calls must not overlap: a LoadGroup or UnloadGroup issued while another is
// still settling returns ErrBusy. Each call runs its orchestration on the
// caller's goroutine.
type Manager interface {
	// LoadGroup makes g the loaded scene set. Loaded scenes absent from g,
	// other than the active scene, are unloaded first; missing scenes are
	// then loaded concurrently. progress may be nil. With reloadDuplicates,
	// scenes of g that are already loaded are unloaded and loaded again.
	//
	// Individual load failures do not stop their siblings. They are returned
	// together as an *AggregateError after everything has settled, and the
	// scenes that did load stay loaded. Returns an error matching
	// ErrCancelled if ctx ends first.
	LoadGroup(ctx context.Context, g Group, progress Reporter, reloadDuplicates bool) error

	// UnloadGroup unloads every loaded scene except the active one.
	UnloadGroup(ctx context.Context) error

	// State returns the lifecycle state of the current call, or StateIdle.
	State() State

	// Subscribe registers l for SceneLoaded, SceneUnloaded and GroupLoaded
	// events and returns a function that removes it.
	Subscribe(l Listener) (unsubscribe func())
}

// Loader loads groups from a fixed catalog by index.
type Loader interface {
	// LoadGroup loads the group at index. An index outside the catalog is
	// logged and nil is returned. Progress reported to progress never
	// decreases.
	LoadGroup(ctx context.Context, index int, progress Reporter, reloadDuplicates bool) error

	// Groups returns a copy of the catalog.
	Groups() []Group

	// Manager returns the Manager the loader delegates to.
	Manager() Manager
}

// SingleLoader loads one scene at a time and promotes it to the active
// scene. Overlapping calls return ErrBusy.
type SingleLoader interface {
	// LoadOne loads ref and makes it the active scene. An already loaded
	// scene is left alone unless reloadIfLoaded is set, in which case it is
	// unloaded first.
	LoadOne(ctx context.Context, ref Ref, progress Reporter, reloadIfLoaded bool) error

	// UnloadOne unloads ref. Unloading a scene that is not loaded is logged
	// and ignored.
	UnloadOne(ctx context.Context, ref Ref) error

	// ActiveName returns the scene the loader last promoted, or "".
	ActiveName() string

	// Subscribe registers l for SceneLoaded and SceneUnloaded events.
	Subscribe(l Listener) (unsubscribe func())
}
