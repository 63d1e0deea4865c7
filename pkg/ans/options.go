package ans

import logAdapter "github.com/bft-labs/ans/internal/adapters/log"

// Option configures optional behavior of a Registry.
type Option func(*options)

// options holds the optional configuration for a Registry instance.
type options struct {
	logger       Logger
	eventHandler EventHandler
	repo         SnapshotRepository
}

// defaultOptions returns options with sensible defaults.
func defaultOptions() options {
	return options{
		logger: logAdapter.NewNoopLogger(),
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEventHandler sets a handler notified of every committed event.
// If not provided, events are only kept in the journal.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithSnapshotRepository replaces the file repository derived from StateDir.
func WithSnapshotRepository(repo SnapshotRepository) Option {
	return func(o *options) {
		o.repo = repo
	}
}
