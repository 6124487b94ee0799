package syncx

import "github.com/rs/zerolog"

// Option configures a WorkerPool.
type Option func(*Config)

// WithMaxWorkers sets the maximum number of persistent workers.
func WithMaxWorkers(n int) Option {
	return func(c *Config) {
		c.MaxWorkers = n
	}
}

// WithQueueSize sets the capacity of the shared work queue.
func WithQueueSize(n int) Option {
	return func(c *Config) {
		c.QueueSize = n
	}
}

// WithLogger sets the logger used for swallowed work-item failures.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}

// WithPanicHandler sets a custom handler for panicking work items.
func WithPanicHandler(h func(interface{})) Option {
	return func(c *Config) {
		c.PanicHandler = h
	}
}
