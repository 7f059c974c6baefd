package core

import (
	"fmt"
	"sync"
)

// EventKind identifies a lifecycle notification.
type EventKind int

const (
	// SceneLoaded fires once per dispatched load, in entry order, right
	// after the load is dispatched.
	SceneLoaded EventKind = iota
	// SceneUnloaded fires once per dispatched unload.
	SceneUnloaded
	// GroupLoaded fires once per successful group load, after activation
	// was attempted.
	GroupLoaded
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case SceneLoaded:
		return "SceneLoaded"
	case SceneUnloaded:
		return "SceneUnloaded"
	case GroupLoaded:
		return "GroupLoaded"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is a fire-and-forget lifecycle notification. Scene is empty for
// GroupLoaded; Group is empty for events from a SingleManager.
type Event struct {
	Kind  EventKind
	Scene string
	Group string
}

// Listener consumes events. It runs on the publishing goroutine and must not
// block for long.
type Listener func(Event)

type subscription struct {
	id uint64
	fn Listener
}

// Bus delivers events synchronously to registered listeners in registration
// order. Registration is safe for concurrent use, including from within a
// listener.
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   []subscription
}

// Subscribe registers l and returns a function that removes it. The returned
// function is idempotent. A nil listener is ignored.
func (b *Bus) Subscribe(l Listener) (unsubscribe func()) {
	if l == nil {
		return func() {}
	}
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, fn: l})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered listeners.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Publish delivers ev to a snapshot of the current listeners.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, s := range subs {
		s.fn(ev)
	}
}
