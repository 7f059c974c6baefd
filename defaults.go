package scenegroup

import "time"

// Default configuration values for NewManager, NewLoader and
// NewSingleLoader.
const (
	// DefaultPollInterval is how often a load or unload checks whether its
	// dispatched operations are done and reports progress.
	DefaultPollInterval = 100 * time.Millisecond

	// DefaultHandleCapacity sizes the table of addressable handles a manager
	// keeps so it can release addressable scenes in later cycles.
	DefaultHandleCapacity = 10
)
