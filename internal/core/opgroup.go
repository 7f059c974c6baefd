package core

import "math"

// memberState is a point-in-time reading of one operation.
type memberState struct {
	done     bool
	progress float64
}

// joinDone reports whether every member is done. Vacuously true when empty.
func joinDone(states []memberState) bool {
	for _, s := range states {
		if !s.done {
			return false
		}
	}
	return true
}

// joinProgress returns the mean member progress, each clamped to [0,1].
// Returns 0 when empty, never NaN.
func joinProgress(states []memberState) float64 {
	if len(states) == 0 {
		return 0
	}
	var sum float64
	for _, s := range states {
		sum += clamp01(s.progress)
	}
	return sum / float64(len(states))
}

// clamp01 clamps v to [0,1], mapping NaN to 0.
func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// group is the shared join over any Operation-shaped member type.
// Not safe for concurrent mutation: one orchestrating goroutine adds members
// and polls; the members themselves may progress on other goroutines.
type group[T Operation] struct {
	members []T
}

func (g *group[T]) snapshot() []memberState {
	states := make([]memberState, len(g.members))
	for i, m := range g.members {
		states[i] = memberState{done: m.Done(), progress: m.Progress()}
	}
	return states
}

// Add appends a member.
func (g *group[T]) Add(m T) {
	g.members = append(g.members, m)
}

// Len returns the number of members.
func (g *group[T]) Len() int {
	return len(g.members)
}

// IsDone reports whether every member is done; true when empty.
// Recomputed on every call.
func (g *group[T]) IsDone() bool {
	return joinDone(g.snapshot())
}

// Progress returns the mean member progress; 0 when empty.
// Recomputed on every call.
func (g *group[T]) Progress() float64 {
	return joinProgress(g.snapshot())
}

// Clear drops every member without touching the operations themselves.
func (g *group[T]) Clear() {
	clear(g.members)
	g.members = g.members[:0]
}

// OperationGroup joins regular-store operations (and unload operations of
// either store) into one completion/progress view.
type OperationGroup struct {
	group[Operation]
}

// NewOperationGroup returns an empty group with room for capacity members.
func NewOperationGroup(capacity int) *OperationGroup {
	return &OperationGroup{group[Operation]{members: make([]Operation, 0, max(capacity, 0))}}
}

// HandleGroup joins addressable-store handles into one completion/progress
// view and keeps the handles for later unload matching.
type HandleGroup struct {
	group[Handle]
}

// NewHandleGroup returns an empty group with room for capacity members.
func NewHandleGroup(capacity int) *HandleGroup {
	return &HandleGroup{group[Handle]{members: make([]Handle, 0, max(capacity, 0))}}
}

// Handles returns a copy of the member handles.
func (g *HandleGroup) Handles() []Handle {
	cp := make([]Handle, len(g.members))
	copy(cp, g.members)
	return cp
}
