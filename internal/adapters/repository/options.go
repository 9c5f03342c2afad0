package repository

import "github.com/j0rgedev/football-analysis/pkg/logger"

// Option applies a configuration option to the Writer.
type Option func(*Writer)

// WithBatchSize sets the maximum number of rows per batch. Values below one
// are ignored.
func WithBatchSize(n int) Option {
	return func(w *Writer) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

// WithLogger sets the writer's logger.
func WithLogger(l logger.Logger) Option {
	return func(w *Writer) {
		if l != nil {
			w.log = l
		}
	}
}
