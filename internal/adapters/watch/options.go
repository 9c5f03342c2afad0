package watch

import (
	"time"

	"github.com/j0rgedev/football-analysis/pkg/logger"
)

// Option applies a configuration option to the Watcher.
type Option func(*Watcher)

// WithSettle sets how long a file must be quiet before it is submitted.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.settle = d
		}
	}
}

// WithLogger sets the watcher's logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}
