package scenegroup

import "time"

// ConfigSnapshot holds a copy of managerConfig fields for test assertions.
type ConfigSnapshot struct {
	PollInterval   time.Duration
	HandleCapacity int
	Listeners      int
}

// ApplyOptionsForTesting applies opts to the defaults and returns a
// snapshot, without constructing a manager.
func ApplyOptionsForTesting(opts ...Option) ConfigSnapshot {
	cfg := applyOptions(opts)
	return ConfigSnapshot{
		PollInterval:   cfg.PollInterval,
		HandleCapacity: cfg.HandleCapacity,
		Listeners:      len(cfg.listeners),
	}
}
