package notifications

import (
	"context"
	"sync"
)

// MemoryStorage keeps the history in process memory for the lifetime of the process.
type MemoryStorage struct {
	notifications []Notification
	mu            sync.RWMutex
}

// NewMemoryStorage creates an empty in-memory history.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) Append(ctx context.Context, notif Notification) error {
	if notif.ID == "" || notif.Title == "" {
		return ErrInvalidNotification
	}

	// Store a private copy so callers cannot mutate history through shared pointers
	notif = notif.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, notif)
	return nil
}

func (s *MemoryStorage) All(ctx context.Context) ([]Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Notification, len(s.notifications))
	for i, n := range s.notifications {
		out[i] = n.Clone()
	}
	return out, nil
}

func (s *MemoryStorage) Latest(ctx context.Context) (Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.notifications) == 0 {
		return Notification{}, ErrNotificationNotFound
	}
	return s.notifications[len(s.notifications)-1].Clone(), nil
}

func (s *MemoryStorage) Len(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notifications), nil
}
