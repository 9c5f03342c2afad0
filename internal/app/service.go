// Package service wires the ingestion pipeline to the job queue, worker pool
// and per-video leases used by the HTTP API and the directory watcher.
package service

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/j0rgedev/football-analysis/internal/adapters/mq/queue"
	"github.com/j0rgedev/football-analysis/internal/adapters/mq/worker"
	"github.com/j0rgedev/football-analysis/internal/domain/lease"
	"github.com/j0rgedev/football-analysis/internal/domain/model"
	"github.com/j0rgedev/football-analysis/pkg/logger"
	"github.com/j0rgedev/football-analysis/pkg/metrics"
)

// Job phases reported by Status.
const (
	PhaseQueued  = "queued"
	PhaseRunning = "running"
	PhaseDone    = "done"
	PhaseSkipped = "skipped"
	PhaseFailed  = "failed"
)

// VideoStatus is the last known state of a submitted video.
type VideoStatus struct {
	VideoID   string    `json:"video_id"`
	Phase     string    `json:"phase"`
	Source    string    `json:"source,omitempty"`
	Result    *Result   `json:"result,omitempty"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Service runs submitted videos through the pipeline on a worker pool. At most
// one ingestion per video is in flight at a time.
type Service struct {
	mu sync.RWMutex

	pipeline *Pipeline
	leases   lease.Leaser
	queue    *queue.InMemoryQueue
	pool     *worker.Pool

	workerCount int
	queueSize   int

	statusMu sync.RWMutex
	statuses map[string]VideoStatus

	started bool
	logger  logger.Logger
}

// New constructs a Service around pipeline.
func New(pipeline *Pipeline, opts ...Option) *Service {
	s := &Service{
		pipeline:    pipeline,
		workerCount: runtime.NumCPU(),
		queueSize:   64,
		statuses:    make(map[string]VideoStatus),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start creates the queue and starts the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.leases = lease.New()
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize), queue.WithDropHandler(s.drop))
	s.pool = worker.NewPool(s.workerCount, s.queue, s)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "ingestion service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.String("keyspace", s.pipeline.Keyspace()))
	return nil
}

// Stop closes the queue and waits for queued jobs to finish. Jobs still
// queued when ctx expires are dropped and reported as failed.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(ctx, "stopping ingestion service")
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown incomplete", logger.Error(err))
	}
	s.started = false
	s.logger.Info(ctx, "ingestion service stopped")
}

// Submit leases the job's video and queues it. It fails with ErrVideoInFlight
// when the video is already queued or running and with ErrBackpressure when
// the queue is full.
func (s *Service) Submit(ctx context.Context, job model.IngestJob) error { //nolint:gocritic // hugeParam: job is queued by value
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return ErrNotStarted
	}
	if job.VideoID == "" {
		return ErrInvalidVideoID
	}
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now()
	}

	if err := s.leases.Acquire(ctx, job.VideoID); err != nil {
		metrics.RecordQueueRejected("in_flight")
		return err
	}
	metrics.UpdateVideosInFlight(s.leases.Size())

	prev, hadPrev := s.Status(job.VideoID)
	s.setStatus(VideoStatus{VideoID: job.VideoID, Phase: PhaseQueued, Source: job.Source})
	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.leases.Release(ctx, job.VideoID)
		metrics.UpdateVideosInFlight(s.leases.Size())
		if hadPrev {
			s.restoreStatus(prev)
		} else {
			s.clearStatus(job.VideoID)
		}
		if errors.Is(err, queue.ErrFull) {
			return ErrBackpressure
		}
		return err
	}

	s.logger.Debug(ctx, "video queued",
		logger.String("video_id", job.VideoID),
		logger.String("source", job.Source))
	return nil
}

// Process runs one job through the pipeline and releases its lease. It is
// called by the worker pool.
func (s *Service) Process(ctx context.Context, job model.IngestJob) error { //nolint:gocritic // hugeParam: matches worker.Processor
	defer func() {
		s.leases.Release(ctx, job.VideoID)
		metrics.UpdateVideosInFlight(s.leases.Size())
	}()

	s.setStatus(VideoStatus{VideoID: job.VideoID, Phase: PhaseRunning, Source: job.Source})

	res, err := s.pipeline.Ingest(ctx, job.Input.Tracks, job.Input.TeamBallControl, job.VideoID)
	st := VideoStatus{VideoID: job.VideoID, Source: job.Source, Result: &res}
	switch {
	case err != nil:
		st.Phase = PhaseFailed
		st.Error = err.Error()
	case res.Skipped:
		st.Phase = PhaseSkipped
	default:
		st.Phase = PhaseDone
	}
	s.setStatus(st)
	return err
}

// drop releases a job that will never run and marks it failed, so the video
// can be submitted again.
func (s *Service) drop(job model.IngestJob) { //nolint:gocritic // hugeParam: matches the queue drop handler
	ctx := context.Background()
	s.leases.Release(ctx, job.VideoID)
	metrics.UpdateVideosInFlight(s.leases.Size())
	s.setStatus(VideoStatus{
		VideoID: job.VideoID,
		Phase:   PhaseFailed,
		Source:  job.Source,
		Error:   ErrJobDropped.Error(),
	})
	s.logger.Warn(ctx, "queued video dropped", logger.String("video_id", job.VideoID))
}

// Status returns the last known status of videoID.
func (s *Service) Status(videoID string) (VideoStatus, bool) {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	st, ok := s.statuses[videoID]
	return st, ok
}

// Statuses returns every known status ordered by video id.
func (s *Service) Statuses() []VideoStatus {
	s.statusMu.RLock()
	out := make([]VideoStatus, 0, len(s.statuses))
	for _, st := range s.statuses {
		out = append(out, st)
	}
	s.statusMu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].VideoID < out[j].VideoID })
	return out
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"keyspace":    s.pipeline.Keyspace(),
	}
	if s.started {
		stats["queueLength"] = s.queue.Len(context.Background())
		stats["videosInFlight"] = s.leases.Size()
	}

	phases := make(map[string]int)
	s.statusMu.RLock()
	for _, st := range s.statuses {
		phases[st.Phase]++
	}
	s.statusMu.RUnlock()
	stats["videos"] = phases

	return stats
}

func (s *Service) setStatus(st VideoStatus) {
	st.UpdatedAt = time.Now()
	s.statusMu.Lock()
	s.statuses[st.VideoID] = st
	s.statusMu.Unlock()
}

func (s *Service) restoreStatus(st VideoStatus) {
	s.statusMu.Lock()
	s.statuses[st.VideoID] = st
	s.statusMu.Unlock()
}

func (s *Service) clearStatus(videoID string) {
	s.statusMu.Lock()
	delete(s.statuses, videoID)
	s.statusMu.Unlock()
}
