package repository

import (
	"context"
	"time"

	"github.com/j0rgedev/football-analysis/pkg/logger"
	"github.com/j0rgedev/football-analysis/pkg/metrics"
)

// DefaultBatchSize is the number of rows submitted per batch.
const DefaultBatchSize = 500

// Writer submits rows in fixed-size batches. It holds no state between calls.
type Writer struct {
	batchSize int
	log       logger.Logger
}

// NewWriter creates a Writer.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{
		batchSize: DefaultBatchSize,
		log:       logger.Get().Named("writer"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// BatchSize returns the configured chunk size.
func (w *Writer) BatchSize() int { return w.batchSize }

// WriteAll splits rows into contiguous chunks of at most BatchSize rows and
// executes them one after another against table's insert statement. The first
// failing chunk stops the call with a *WriteError; earlier chunks stay written.
// It returns the number of rows committed.
func (w *Writer) WriteAll(ctx context.Context, s Session, table Table, rows [][]any) (int, error) {
	written := 0
	for chunk, start := 0, 0; start < len(rows); chunk, start = chunk+1, start+w.batchSize {
		if err := ctx.Err(); err != nil {
			return written, &WriteError{Table: table.Name, Chunk: chunk, Err: err}
		}

		end := min(start+w.batchSize, len(rows))
		began := time.Now()
		if err := s.ExecuteBatch(ctx, table.Insert, rows[start:end]); err != nil {
			metrics.RecordWriteError(table.Name)
			w.log.Error(ctx, "batch failed",
				logger.String("table", table.Name),
				logger.Int("chunk", chunk),
				logger.Int("rows_written", written),
				logger.Error(err))
			return written, &WriteError{Table: table.Name, Chunk: chunk, Err: err}
		}

		n := end - start
		written += n
		metrics.RecordBatch(table.Name, n, float64(time.Since(began).Milliseconds()))
		w.log.Debug(ctx, "batch written",
			logger.String("table", table.Name),
			logger.Int("chunk", chunk),
			logger.Int("rows", n))
	}
	return written, nil
}
