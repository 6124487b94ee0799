package syncx

import (
	"runtime"

	"github.com/rs/zerolog"
)

// Config contains all configuration options for a WorkerPool.
type Config struct {
	// MaxWorkers is the ceiling on persistent worker threads. The pool
	// grows lazily up to this bound as work is submitted and never
	// shrinks. Defaults to runtime.NumCPU().
	MaxWorkers int

	// QueueSize bounds the shared work queue. Submitters block while the
	// queue is full. Defaults to DefaultQueueCapacity.
	QueueSize int

	// Logger receives reports of panicking or failing work items.
	// Defaults to the package logger.
	Logger zerolog.Logger

	// PanicHandler, when non-nil, is called with the recovered value when
	// a work item panics, after the panic is captured into the item's
	// future. When nil, the panic is logged instead.
	PanicHandler func(interface{})
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxWorkers: runtime.NumCPU(),
		QueueSize:  DefaultQueueCapacity,
		Logger:     defaultLogger,
	}
}

// Validate checks the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.MaxWorkers <= 0 {
		return errInvalidConfig("MaxWorkers must be > 0")
	}
	if c.QueueSize <= 0 {
		return errInvalidConfig("QueueSize must be > 0")
	}
	return nil
}
