package scenegroup

import "github.com/giantswarm/scenegroup/internal/core"

// The domain types are aliases, so their methods (Name, FindNameByRole,
// String, text marshaling) are part of the public API.
type (
	// Ref points at a loadable scene. Its Name, derived from Path, is the
	// identifier used for every lookup and for the active-scene pointer.
	Ref = core.Ref

	// StoreKind selects the backing store of a Ref.
	StoreKind = core.StoreKind

	// Role is descriptive metadata on a group entry. Only ActiveScene
	// changes behavior.
	Role = core.Role

	// Entry is one scene of a Group.
	Entry = core.Entry

	// Group is an ordered, named list of entries loaded together.
	Group = core.Group

	// SceneInstance identifies a scene loaded through an AddressableStore.
	SceneInstance = core.SceneInstance

	// Operation is an in-flight load or unload.
	Operation = core.Operation

	// Handle is an in-flight addressable load.
	Handle = core.Handle

	// Runtime is the engine's scene runtime and regular backing store.
	Runtime = core.Runtime

	// AddressableStore loads scenes by address.
	AddressableStore = core.AddressableStore

	// Reporter receives progress values in [0, 1].
	Reporter = core.Reporter

	// ReporterFunc adapts a function to Reporter.
	ReporterFunc = core.ReporterFunc

	// Event is a lifecycle notification.
	Event = core.Event

	// EventKind identifies an Event.
	EventKind = core.EventKind

	// Listener receives events synchronously on the loading goroutine.
	Listener = core.Listener

	// State is a Manager lifecycle state.
	State = core.State

	// AggregateError collects every failure of a set of concurrent loads or
	// tasks.
	AggregateError = core.AggregateError

	// Tracker is a settable Operation and Handle for store implementations.
	Tracker = core.Tracker

	// TaskFactory starts one task of RunParallel.
	TaskFactory = core.TaskFactory

	// Aggregator averages sub-task progress into one sink.
	Aggregator = core.Aggregator

	// ParallelTasks builds a RunParallel call.
	ParallelTasks = core.ParallelTasks
)

const (
	Regular     = core.Regular
	Addressable = core.Addressable
)

const (
	ActiveScene   = core.ActiveScene
	MainMenu      = core.MainMenu
	UserInterface = core.UserInterface
	HUD           = core.HUD
	Cinematic     = core.Cinematic
	Environment   = core.Environment
	Tooling       = core.Tooling
)

const (
	SceneLoaded   = core.SceneLoaded
	SceneUnloaded = core.SceneUnloaded
	GroupLoaded   = core.GroupLoaded
)

const (
	StateIdle       = core.StateIdle
	StateUnloading  = core.StateUnloading
	StateLoading    = core.StateLoading
	StateActivating = core.StateActivating
)
