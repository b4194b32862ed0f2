package broadcast

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Option configures a MemoryBroadcaster.
type Option func(*options)

type options struct {
	queueLimit int
	onChange   func(subscribers int)
}

// WithQueueLimit caps every subscriber queue at limit messages.
// When a queue is full the oldest message is discarded to make room.
// Zero or a negative value keeps queues unbounded, which is the default.
func WithQueueLimit(limit int) Option {
	return func(o *options) {
		o.queueLimit = max(limit, 0)
	}
}

// WithSubscribersCallback registers fn to be called with the new registry size
// after every subscribe and unsubscribe. fn runs outside the registry lock.
func WithSubscribersCallback(fn func(subscribers int)) Option {
	return func(o *options) {
		o.onChange = fn
	}
}

// MemoryBroadcaster is an in-process Broadcaster.
// All methods are safe for concurrent use.
type MemoryBroadcaster[T any] struct {
	opts        options
	subscribers map[*subscriber[T]]struct{}
	closed      bool
	mu          sync.Mutex
	cleanupWg   sync.WaitGroup // tracks context watchers
}

// NewMemoryBroadcaster creates a new in-memory broadcaster.
func NewMemoryBroadcaster[T any](opts ...Option) *MemoryBroadcaster[T] {
	b := &MemoryBroadcaster[T]{
		subscribers: make(map[*subscriber[T]]struct{}),
	}
	for _, opt := range opts {
		opt(&b.opts)
	}
	return b
}

// Subscribe registers a new subscriber.
// If the broadcaster is already closed, a closed subscriber is returned.
func (b *MemoryBroadcaster[T]) Subscribe(ctx context.Context) Subscriber[T] {
	sub := &subscriber[T]{
		id:    uuid.New().String(),
		queue: newQueue[Message[T]](b.opts.queueLimit),
		owner: b,
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		sub.queue.close()
		return sub
	}
	b.subscribers[sub] = struct{}{}
	count := len(b.subscribers)

	if ctx.Done() != nil {
		b.cleanupWg.Add(1)
		go func() {
			defer b.cleanupWg.Done()
			select {
			case <-ctx.Done():
				_ = sub.Close()
			case <-sub.queue.done:
			}
		}()
	}
	b.mu.Unlock()

	b.notify(count)
	return sub
}

// Broadcast enqueues msg on every registered subscriber.
// The registry lock is held while enqueueing so that concurrent broadcasts reach
// every subscriber in the same order; enqueueing itself never waits on a reader.
func (b *MemoryBroadcaster[T]) Broadcast(_ context.Context, msg Message[T]) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}

	for sub := range b.subscribers {
		sub.queue.push(msg)
	}
	return nil
}

// Subscribers reports the number of registered subscribers.
func (b *MemoryBroadcaster[T]) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}

// Close shuts down the broadcaster and closes all subscribers.
// It is safe to call Close multiple times.
func (b *MemoryBroadcaster[T]) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true

	subs := make([]*subscriber[T], 0, len(b.subscribers))
	for sub := range b.subscribers {
		subs = append(subs, sub)
	}
	clear(b.subscribers)
	b.mu.Unlock()

	for _, sub := range subs {
		_ = sub.Close()
	}

	b.cleanupWg.Wait()
	b.notify(0)
	return nil
}

// unsubscribe reports whether sub was still registered.
func (b *MemoryBroadcaster[T]) unsubscribe(sub *subscriber[T]) bool {
	b.mu.Lock()
	_, ok := b.subscribers[sub]
	delete(b.subscribers, sub)
	count := len(b.subscribers)
	b.mu.Unlock()

	if ok {
		b.notify(count)
	}
	return ok
}

func (b *MemoryBroadcaster[T]) notify(count int) {
	if b.opts.onChange != nil {
		b.opts.onChange(count)
	}
}

type subscriber[T any] struct {
	id        string
	queue     *queue[Message[T]]
	owner     *MemoryBroadcaster[T]
	closeOnce sync.Once
}

func (s *subscriber[T]) ID() string { return s.id }

func (s *subscriber[T]) Next(ctx context.Context) (Message[T], error) {
	return s.queue.pop(ctx)
}

func (s *subscriber[T]) Len() int { return s.queue.len() }

func (s *subscriber[T]) Dropped() uint64 { return s.queue.droppedCount() }

func (s *subscriber[T]) Close() error {
	s.closeOnce.Do(func() {
		s.owner.unsubscribe(s)
		s.queue.close()
	})
	return nil
}
