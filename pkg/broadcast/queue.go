package broadcast

import (
	"context"
	"sync"
)

// queue is a FIFO with a non-blocking push and a blocking pop.
// A limit of zero means the queue grows without bound.
type queue[T any] struct {
	mu      sync.Mutex
	items   []T
	limit   int
	dropped uint64
	closed  bool

	// ready holds at most one wake-up token for the single reader.
	ready chan struct{}
	done  chan struct{}
}

func newQueue[T any](limit int) *queue[T] {
	return &queue[T]{
		limit: max(limit, 0),
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// push appends v and returns false if the queue is already closed.
func (q *queue[T]) push(v T) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	if q.limit > 0 && len(q.items) >= q.limit {
		var zero T
		q.items[0] = zero
		q.items = q.items[1:]
		q.dropped++
	}
	q.items = append(q.items, v)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
	return true
}

// pop returns the oldest item, waiting for one if the queue is empty.
// Items queued before close are still returned; after that pop reports ErrSubscriberClosed.
func (q *queue[T]) pop(ctx context.Context) (T, error) {
	var zero T
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			v := q.items[0]
			q.items[0] = zero
			q.items = q.items[1:]
			if len(q.items) == 0 {
				// release the backing array once drained
				q.items = nil
			}
			q.mu.Unlock()
			return v, nil
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			return zero, ErrSubscriberClosed
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-q.ready:
		case <-q.done:
		}
	}
}

func (q *queue[T]) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *queue[T]) droppedCount() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

func (q *queue[T]) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.done)
}
