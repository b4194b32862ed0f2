package notifications

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/pushrelay/pkg/broadcast"
	"github.com/dmitrymomot/pushrelay/pkg/logger"
	"github.com/dmitrymomot/pushrelay/pkg/validator"
)

// IconResolver maps an icon name to embedded image data.
type IconResolver interface {
	Lookup(name string) (string, bool)
}

// Input carries the client-supplied fields of a new notification.
type Input struct {
	Title   string
	Message *string
	URL     *string
	Icon    *string
	Color   *string
}

// Stats is a point-in-time view of the relay state.
type Stats struct {
	Notifications int `json:"notifications"`
	Subscribers   int `json:"subscribers"`
}

// Service orchestrates the history and the live subscribers.
// It is safe for concurrent use and is meant to be shared by all request handlers.
type Service struct {
	storage     Storage
	broadcaster broadcast.Broadcaster[Notification]
	icons       IconResolver
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string

	// mu makes "append to history, then enqueue to subscribers" one step,
	// which keeps per-subscriber order equal to history order.
	mu sync.Mutex
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger for the Service.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIconResolver enables icon name resolution.
// Without a resolver icon values are stored as given.
func WithIconResolver(r IconResolver) ServiceOption {
	return func(s *Service) {
		s.icons = r
	}
}

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides the notification id generator.
func WithIDGenerator(fn func() string) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewService creates a notification service.
func NewService(storage Storage, broadcaster broadcast.Broadcaster[Notification], opts ...ServiceOption) *Service {
	s := &Service{
		storage:     storage,
		broadcaster: broadcaster,
		logger:      slog.Default(),
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates in, stores the resulting notification and delivers it to
// every connected subscriber. Validation failures are returned as
// validator.ValidationErrors and leave the history untouched.
func (s *Service) Create(ctx context.Context, in Input) (Notification, error) {
	if err := validator.Apply(
		validator.RequiredString("title", in.Title),
	); err != nil {
		return Notification{}, err
	}

	notif := Notification{
		ID:        s.newID(),
		Title:     strings.TrimSpace(in.Title),
		Message:   in.Message,
		URL:       in.URL,
		Icon:      s.resolveIcon(ctx, in.Icon),
		Color:     in.Color,
		CreatedAt: FormatTimestamp(s.now()),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Append(ctx, notif); err != nil {
		return Notification{}, errors.Join(ErrStoreNotification, err)
	}

	// The notification is already in the history; a failed fan-out is logged, not returned.
	if err := s.broadcaster.Broadcast(ctx, broadcast.Message[Notification]{Data: notif.Clone()}); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to broadcast notification",
			logger.NotificationID(notif.ID),
			logger.Error(err),
		)
	}

	s.logger.LogAttrs(ctx, slog.LevelDebug, "notification created",
		logger.NotificationID(notif.ID),
		slog.Int("subscribers", s.broadcaster.Subscribers()),
	)

	return notif, nil
}

// List returns the full history, oldest first.
func (s *Service) List(ctx context.Context) ([]Notification, error) {
	return s.storage.All(ctx)
}

// Latest returns the most recent notification or ErrNotificationNotFound.
func (s *Service) Latest(ctx context.Context) (Notification, error) {
	return s.storage.Latest(ctx)
}

// Stats reports the history size and the number of live subscribers.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	n, err := s.storage.Len(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Notifications: n, Subscribers: s.broadcaster.Subscribers()}, nil
}

// Close disconnects every subscriber. The history is kept.
func (s *Service) Close() error {
	return s.broadcaster.Close()
}

// resolveIcon swaps an icon name for its embedded data.
// Unknown names are logged and kept verbatim.
func (s *Service) resolveIcon(ctx context.Context, icon *string) *string {
	if icon == nil || s.icons == nil || strings.TrimSpace(*icon) == "" {
		return icon
	}
	if data, ok := s.icons.Lookup(*icon); ok {
		return &data
	}
	s.logger.LogAttrs(ctx, slog.LevelError, "failed to load icon: file not found",
		slog.String("icon", *icon),
		logger.Component("notifications"),
	)
	return icon
}
