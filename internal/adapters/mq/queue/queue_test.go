package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/j0rgedev/football-analysis/internal/domain/model"
)

func job(id string) Job {
	return model.IngestJob{VideoID: id, Source: "test", EnqueuedAt: time.Now()}
}

func TestInMemoryQueue_BasicOperations(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if l := q.Len(ctx); l != 0 {
		t.Errorf("expected length 0, got %d", l)
	}
	if c := q.Cap(); c != 2 {
		t.Errorf("expected capacity 2, got %d", c)
	}

	if err := q.Enqueue(ctx, job("v1")); err != nil {
		t.Errorf("expected enqueue to succeed, got %v", err)
	}
	if l := q.Len(ctx); l != 1 {
		t.Errorf("expected length 1, got %d", l)
	}

	j := <-q.Dequeue(ctx)
	if j.VideoID != "v1" {
		t.Errorf("expected v1, got %v", j.VideoID)
	}
}

func TestInMemoryQueue_Capacity(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(2))
	ctx := context.Background()

	if err := q.Enqueue(ctx, job("v1")); err != nil {
		t.Errorf("expected enqueue to succeed, got %v", err)
	}
	if err := q.Enqueue(ctx, job("v2")); err != nil {
		t.Errorf("expected enqueue to succeed, got %v", err)
	}
	if err := q.Enqueue(ctx, job("v3")); !errors.Is(err, ErrFull) {
		t.Errorf("expected ErrFull, got %v", err)
	}
	if l := q.Len(ctx); l != 2 {
		t.Errorf("expected length 2, got %d", l)
	}
}

func TestInMemoryQueue_CancelledContext(t *testing.T) {
	q := NewInMemoryQueue()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := q.Enqueue(ctx, job("v1")); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestInMemoryQueue_ConcurrentAccess(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(16))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const producers, perProducer = 8, 25

	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				for q.Enqueue(ctx, job(fmt.Sprintf("v%d_%d", id, j))) != nil {
					time.Sleep(time.Millisecond)
				}
			}
		}(i)
	}

	seen := make(map[string]bool)
	jobs := q.Dequeue(ctx)
	timeout := time.After(5 * time.Second)
	for len(seen) < producers*perProducer {
		select {
		case j := <-jobs:
			if seen[j.VideoID] {
				t.Fatalf("job %s delivered twice", j.VideoID)
			}
			seen[j.VideoID] = true
		case <-timeout:
			t.Fatalf("received %d of %d jobs", len(seen), producers*perProducer)
		}
	}
	wg.Wait()
}

func TestInMemoryQueue_GracefulShutdown(t *testing.T) {
	q := NewInMemoryQueue(WithCapacity(10))
	ctx := context.Background()

	_ = q.Enqueue(ctx, job("v1"))
	_ = q.Enqueue(ctx, job("v2"))

	if q.IsClosed() {
		t.Error("expected queue to be open initially")
	}
	if err := q.Close(); err != nil {
		t.Errorf("expected close to succeed, got error: %v", err)
	}
	if !q.IsClosed() {
		t.Error("expected queue to be closed after Close()")
	}
	if err := q.Enqueue(ctx, job("v3")); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}

	// Jobs queued before Close are still delivered, then the channel closes.
	var got []string
	timeout := time.After(time.Second)
	jobs := q.Dequeue(ctx)
	for {
		select {
		case j, ok := <-jobs:
			if !ok {
				if len(got) != 2 {
					t.Errorf("expected 2 drained jobs, got %v", got)
				}
				if err := q.Close(); err != nil {
					t.Errorf("expected second close to succeed, got error: %v", err)
				}
				return
			}
			got = append(got, j.VideoID)
		case <-timeout:
			t.Fatal("expected dequeue channel to be closed within timeout")
		}
	}
}

func TestInMemoryQueue_DropHandler(t *testing.T) {
	var mu sync.Mutex
	var dropped []string
	q := NewInMemoryQueue(WithCapacity(4), WithDropHandler(func(j Job) {
		mu.Lock()
		dropped = append(dropped, j.VideoID)
		mu.Unlock()
	}))
	droppedIDs := func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), dropped...)
	}

	_ = q.Enqueue(context.Background(), job("v1"))
	_ = q.Enqueue(context.Background(), job("v2"))

	// Nobody reads the dequeue channel, so the reader holds v1.
	ctx, cancel := context.WithCancel(context.Background())
	_ = q.Dequeue(ctx)
	deadline := time.Now().Add(time.Second)
	for q.Len(ctx) != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("reader never took a job, len=%d", q.Len(ctx))
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	deadline = time.Now().Add(time.Second)
	for len(droppedIDs()) != 1 {
		if time.Now().After(deadline) {
			t.Fatal("held job was not handed to the drop handler")
		}
		time.Sleep(time.Millisecond)
	}
	if got := droppedIDs(); got[0] != "v1" {
		t.Errorf("expected v1 dropped first, got %v", got)
	}

	if n := q.Discard(); n != 1 {
		t.Errorf("expected 1 discarded job, got %d", n)
	}
	if got := droppedIDs(); len(got) != 2 || got[1] != "v2" {
		t.Errorf("expected v1 then v2 dropped, got %v", got)
	}
	if n := q.Discard(); n != 0 {
		t.Errorf("expected empty queue, discarded %d", n)
	}
}
