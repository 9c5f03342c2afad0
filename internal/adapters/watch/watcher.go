// Package watch submits tracking documents dropped into an input directory.
package watch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/j0rgedev/football-analysis/internal/adapters/trackfile"
	"github.com/j0rgedev/football-analysis/internal/domain/lease"
	"github.com/j0rgedev/football-analysis/internal/domain/model"
	"github.com/j0rgedev/football-analysis/pkg/logger"
	"github.com/j0rgedev/football-analysis/pkg/metrics"
)

const defaultSettle = 500 * time.Millisecond

// Submitter queues a video for ingestion.
type Submitter interface {
	Submit(ctx context.Context, job model.IngestJob) error
}

// Watcher monitors a directory for new tracking documents and submits them.
// Writes to the same file are coalesced until it has been quiet for the
// settle period.
type Watcher struct {
	dir       string
	submitter Submitter
	settle    time.Duration
	logger    logger.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
	wg      sync.WaitGroup
}

// New creates a watcher for dir.
func New(dir string, submitter Submitter, opts ...Option) *Watcher {
	w := &Watcher{
		dir:       dir,
		submitter: submitter,
		settle:    defaultSettle,
		pending:   make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named("watch")
	}
	return w
}

// Start watches the directory until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if err := fw.Add(w.dir); err != nil {
		_ = fw.Close()
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	w.wg.Add(1)
	go w.loop(ctx, fw)
	w.logger.Info(ctx, "watching input directory", logger.String("dir", w.dir))
	return nil
}

// Wait blocks until the watch loop and any pending submissions have stopped.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

func (w *Watcher) loop(ctx context.Context, fw *fsnotify.Watcher) {
	defer w.wg.Done()
	defer func() { _ = fw.Close() }()
	defer w.cancelPending()

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-fw.Events:
			if !ok {
				return
			}
			if evt.Op&(fsnotify.Create|fsnotify.Write) != 0 && trackfile.IsTrackFile(evt.Name) {
				w.schedule(ctx, evt.Name)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			metrics.RecordErrorByComponent("watch", "fsnotify")
			w.logger.Warn(ctx, "watcher error", logger.Error(err))
		}
	}
}

func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.scheduleLocked(ctx, path)
}

// scheduleLocked must be called with w.mu held. A timer that already fired is
// never re-armed: its callback may be waiting on w.mu and will run exactly
// once, so a fresh timer takes its place.
func (w *Watcher) scheduleLocked(ctx context.Context, path string) {
	if t, ok := w.pending[path]; ok && t.Stop() {
		t.Reset(w.settle)
		return
	}

	w.wg.Add(1)
	var t *time.Timer
	t = time.AfterFunc(w.settle, func() {
		defer w.wg.Done()
		w.mu.Lock()
		if w.pending[path] == t {
			delete(w.pending, path)
		}
		w.mu.Unlock()
		_ = w.submitFile(ctx, path)
	})
	w.pending[path] = t
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		if t.Stop() {
			w.wg.Done()
		}
		delete(w.pending, path)
	}
}

// Backfill submits every tracking document already in the directory and
// returns how many were accepted.
func (w *Watcher) Backfill(ctx context.Context) (int, error) {
	files, skipped, err := trackfile.List(w.dir)
	if err != nil {
		return 0, err
	}
	for _, path := range skipped {
		w.logger.Debug(ctx, "skipping non-tracking file", logger.String("path", path))
	}

	submitted := 0
	for _, path := range files {
		if ctx.Err() != nil {
			return submitted, ctx.Err()
		}
		if w.submitFile(ctx, path) == nil {
			submitted++
		}
	}
	return submitted, nil
}

func (w *Watcher) submitFile(ctx context.Context, path string) error {
	videoID := trackfile.VideoID(path)
	in, err := trackfile.Read(path)
	if err != nil {
		metrics.RecordErrorByComponent("watch", "decode")
		w.logger.Warn(ctx, "cannot read tracking file",
			logger.String("path", path),
			logger.Error(err))
		return err
	}

	err = w.submitter.Submit(ctx, model.IngestJob{
		VideoID:    videoID,
		Input:      in,
		Source:     "watch",
		EnqueuedAt: time.Now(),
	})
	switch {
	case err == nil:
		w.logger.Info(ctx, "tracking file submitted",
			logger.String("path", path),
			logger.String("video_id", videoID))
	case errors.Is(err, lease.ErrVideoInFlight):
		w.logger.Debug(ctx, "video already in flight", logger.String("video_id", videoID))
	default:
		w.logger.Warn(ctx, "tracking file not submitted",
			logger.String("path", path),
			logger.String("video_id", videoID),
			logger.Error(err))
	}
	return err
}
