package queue

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity sets the maximum number of queued jobs.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// WithDropHandler sets a callback for jobs taken off the queue that no worker
// will run: a reader gave up while holding one, or Discard was called.
func WithDropHandler(fn func(Job)) Option {
	return func(q *InMemoryQueue) {
		q.onDrop = fn
	}
}
