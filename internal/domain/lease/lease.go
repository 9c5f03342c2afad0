// Package lease guards against concurrent ingestion of the same video.
package lease

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// Sentinel errors returned by Acquire.
var (
	ErrVideoInFlight = errors.New("video ingestion already in flight")
	ErrTooManyLeases = errors.New("too many videos in flight")
)

// Leaser hands out exclusive per-video leases.
type Leaser interface {
	// Acquire takes the lease for videoID. It fails with ErrVideoInFlight when
	// the video is already leased.
	Acquire(ctx context.Context, videoID string) error
	// Release drops the lease. Releasing an unheld lease is a no-op.
	Release(ctx context.Context, videoID string)
	// Held reports whether videoID is currently leased.
	Held(videoID string) bool
	Size() int64
}

type table struct {
	mu      sync.Mutex
	held    map[string]time.Time
	maxHeld int
	size    atomic.Int64
}

// New creates an in-memory lease table.
func New(opts ...Option) Leaser {
	t := &table{held: make(map[string]time.Time)}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *table) Acquire(ctx context.Context, videoID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.held[videoID]; ok {
		return ErrVideoInFlight
	}
	if t.maxHeld > 0 && len(t.held) >= t.maxHeld {
		return ErrTooManyLeases
	}
	t.held[videoID] = time.Now()
	t.size.Add(1)
	return nil
}

func (t *table) Release(_ context.Context, videoID string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.held[videoID]; ok {
		delete(t.held, videoID)
		t.size.Add(-1)
	}
}

func (t *table) Held(videoID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.held[videoID]
	return ok
}

func (t *table) Size() int64 {
	return t.size.Load()
}
