package core

import (
	"errors"
	"fmt"
	"time"
)

// ManagerConfig holds configuration shared by GroupManager and
// SingleManager. It is immutable after construction.
type ManagerConfig struct {
	// PollInterval is the fixed delay between completion checks while
	// waiting on backing-store operations.
	PollInterval time.Duration

	// HandleCapacity preallocates the addressable handle group a
	// GroupManager retains across loads. It is a hint, not a limit.
	HandleCapacity int
}

// Validate reports every invalid field at once via errors.Join.
func (c ManagerConfig) Validate() error {
	var errs []error
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("poll interval must be greater than 0, got %s", c.PollInterval))
	}
	if c.HandleCapacity < 0 {
		errs = append(errs, fmt.Errorf("handle capacity must not be negative, got %d", c.HandleCapacity))
	}
	return errors.Join(errs...)
}
