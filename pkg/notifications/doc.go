// Package notifications implements the push relay domain: the notification
// record, the append-only history, intake and live streaming to subscribers.
//
// # Architecture
//
// The package follows a layered architecture:
//
//   - Storage: append-only history of every notification created by the process
//   - broadcast.Broadcaster: registry of live subscribers, one queue each
//   - Service: validates input, stores and fans out notifications, runs stream sessions
//
// # Basic Usage
//
//	svc := notifications.NewService(
//	    notifications.NewMemoryStorage(),
//	    broadcast.NewMemoryBroadcaster[notifications.Notification](),
//	    notifications.WithIconResolver(iconRegistry),
//	    notifications.WithLogger(log),
//	)
//	defer svc.Close()
//
//	n, err := svc.Create(ctx, notifications.Input{Title: "Build failed"})
//
// # Streaming
//
// Stream registers a subscriber, writes the "Connected" event, then writes every
// notification created afterwards, in creation order, until ctx ends or the sink
// fails. The subscriber is removed exactly once when Stream returns:
//
//	err := svc.Stream(r.Context(), sink)
//
// # Ordering
//
// Appending to the history and enqueueing to subscribers happen under one lock,
// so every subscriber observes notifications in history order. Enqueueing never
// waits for a subscriber to read.
package notifications
