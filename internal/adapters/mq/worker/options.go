// Package worker defines worker contracts for asynchronous rating updates.
package worker

import (
	"github.com/codeduel/arena/pkg/logger"
)

// Option applies a configuration option to the Worker.
type Option func(*Worker)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithInitialRating seeds players unknown to the rating store.
func WithInitialRating(r int) Option {
	return func(w *Worker) {
		if r > 0 {
			w.initialRating = r
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(logger logger.Logger) Option {
	return func(w *Worker) {
		if logger != nil {
			w.logger = logger
		}
	}
}
