// Package broadcast provides type-safe message fan-out with per-subscriber queues.
//
// Every subscriber owns an isolated FIFO queue. Broadcasting appends the message to the
// queue of each subscriber registered at that instant and never waits for a consumer, so a
// stalled subscriber cannot slow down producers or other subscribers. Queues are unbounded
// by default; WithQueueLimit caps them and drops the oldest queued message instead.
//
// Basic usage:
//
//	b := broadcast.NewMemoryBroadcaster[string]()
//	defer b.Close()
//
//	sub := b.Subscribe(ctx)
//	defer sub.Close()
//
//	_ = b.Broadcast(ctx, broadcast.Message[string]{Data: "hello"})
//
//	for {
//		msg, err := sub.Next(ctx)
//		if err != nil {
//			return err // context cancelled or subscriber closed
//		}
//		fmt.Println(msg.Data)
//	}
//
// A subscriber is removed from the broadcaster exactly once, whichever happens first:
//   - Close is called on it
//   - the context passed to Subscribe is cancelled
//   - the broadcaster is closed
package broadcast
