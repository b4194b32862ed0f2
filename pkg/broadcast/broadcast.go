package broadcast

import "context"

// Message wraps data of type T for type-safe broadcasting.
type Message[T any] struct {
	Data T
}

// Subscriber receives messages from a Broadcaster.
// Implementations must be safe for concurrent use: the broadcaster writes
// into the queue while the owner reads from it.
type Subscriber[T any] interface {
	// ID returns the unique subscriber identifier.
	ID() string

	// Next blocks until the next queued message is available and returns it.
	// Messages are returned in the order they were broadcast.
	// It returns ctx.Err() when the context ends first, and ErrSubscriberClosed
	// once the subscriber is closed and its queue is empty.
	Next(ctx context.Context) (Message[T], error)

	// Len reports the number of queued, not yet received messages.
	Len() int

	// Dropped reports how many messages were discarded because the queue limit was reached.
	Dropped() uint64

	// Close removes the subscriber from its broadcaster.
	// Close is idempotent and safe to call multiple times.
	Close() error
}

// Broadcaster sends messages to multiple subscribers.
type Broadcaster[T any] interface {
	// Subscribe registers a new subscriber. Every message broadcast after Subscribe
	// returns is delivered to it. The subscription is removed automatically when
	// ctx is cancelled.
	Subscribe(ctx context.Context) Subscriber[T]

	// Broadcast enqueues msg for every subscriber registered at the time of the call.
	// It never blocks on a consumer.
	Broadcast(ctx context.Context, msg Message[T]) error

	// Subscribers reports the number of registered subscribers.
	Subscribers() int

	// Close shuts down the broadcaster and closes all subscribers.
	Close() error
}
