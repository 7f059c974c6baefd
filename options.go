package scenegroup

import (
	"fmt"
	"time"

	"github.com/giantswarm/scenegroup/internal/core"
)

// requirePositive panics if v <= 0 with a descriptive message.
func requirePositive[T int | time.Duration](name string, v T) {
	if v <= 0 {
		panic(fmt.Sprintf("scenegroup: %s must be greater than 0, got %v", name, v))
	}
}

// managerConfig is the option target shared by every constructor.
type managerConfig struct {
	core.ManagerConfig
	listeners []Listener
}

func defaultManagerConfig() managerConfig {
	return managerConfig{ManagerConfig: core.ManagerConfig{
		PollInterval:   DefaultPollInterval,
		HandleCapacity: DefaultHandleCapacity,
	}}
}

func applyOptions(opts []Option) managerConfig {
	cfg := defaultManagerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option configures a Manager, Loader or SingleLoader during construction.
//
// With* functions panic on invalid input. Option values are normally
// constants, so an invalid value is a programmer error.
type Option func(*managerConfig)

// WithPollInterval sets how often in-flight operations are polled for
// completion and progress.
//
// Default: 100ms.
//
// Panics if d <= 0.
func WithPollInterval(d time.Duration) Option {
	requirePositive("poll interval", d)
	return func(c *managerConfig) {
		c.PollInterval = d
	}
}

// WithHandleCapacity sets the initial size of the retained addressable
// handle table. The table still grows past it.
//
// Default: 10.
//
// Panics if n < 0.
func WithHandleCapacity(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("scenegroup: handle capacity must not be negative, got %d", n))
	}
	return func(c *managerConfig) {
		c.HandleCapacity = n
	}
}

// WithListener subscribes l to lifecycle events at construction, before any
// load can run. It may be given more than once.
//
// Panics if l is nil.
func WithListener(l Listener) Option {
	if l == nil {
		panic("scenegroup: listener must not be nil")
	}
	return func(c *managerConfig) {
		c.listeners = append(c.listeners, l)
	}
}
