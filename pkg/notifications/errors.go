package notifications

import "errors"

var (
	// ErrNotificationNotFound is returned when the history is empty.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrInvalidNotification is returned by storage for records without an id or title.
	ErrInvalidNotification = errors.New("notification must have an id and a title")

	// ErrStoreNotification wraps storage failures during intake.
	ErrStoreNotification = errors.New("failed to store notification")

	// ErrSendEvent wraps sink failures during streaming.
	ErrSendEvent = errors.New("failed to send stream event")
)
