package notifications

import "context"

// Storage is the append-only notification history.
// Records are returned in insertion order and are never updated or removed.
type Storage interface {
	// Append adds a notification to the end of the history.
	Append(ctx context.Context, notif Notification) error

	// All returns every stored notification, oldest first.
	// The returned slice is owned by the caller.
	All(ctx context.Context) ([]Notification, error)

	// Latest returns the most recently appended notification,
	// or ErrNotificationNotFound when the history is empty.
	Latest(ctx context.Context) (Notification, error)

	// Len returns the number of stored notifications.
	Len(ctx context.Context) (int, error)
}
