package core

import "fmt"

// State is the lifecycle state of a manager.
//
//	Idle → Unloading → Loading → Activating → Idle
//
// Every failure path returns to Idle after the error is surfaced.
type State uint32

const (
	StateIdle State = iota
	StateUnloading
	StateLoading
	StateActivating
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateUnloading:
		return "Unloading"
	case StateLoading:
		return "Loading"
	case StateActivating:
		return "Activating"
	default:
		return fmt.Sprintf("State(%d)", uint32(s))
	}
}

// namedOp pairs a dispatched operation with the scene it acts on, so
// failures can be reported by name.
type namedOp struct {
	name string
	op   Operation
}

// collectFailures returns one error per failed operation, in dispatch order.
func collectFailures(verb string, ops []namedOp) []error {
	var errs []error
	for _, n := range ops {
		if err := n.op.Err(); err != nil {
			errs = append(errs, fmt.Errorf("%s %s: %w", verb, n.name, err))
		}
	}
	return errs
}

// loadedSet returns the runtime's loaded scene names as a set.
func loadedSet(rt Runtime) map[string]struct{} {
	names := rt.LoadedSceneNames()
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// isLoaded reports whether name is in the runtime's loaded scene list.
func isLoaded(rt Runtime, name string) bool {
	for _, n := range rt.LoadedSceneNames() {
		if n == name {
			return true
		}
	}
	return false
}
