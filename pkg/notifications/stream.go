package notifications

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/pushrelay/pkg/broadcast"
	"github.com/dmitrymomot/pushrelay/pkg/logger"
)

// ConnectedEvent is the first payload written to every stream.
const ConnectedEvent = "Connected"

// EventSink receives encoded stream payloads.
// Send must deliver the payload to the client before returning.
type EventSink interface {
	Send(data []byte) error
}

// Stream runs a stream session: it subscribes, sends ConnectedEvent and then
// every notification created while the session is open, in creation order.
//
// Stream returns when ctx ends (ctx.Err() is returned), when the sink fails
// (an error wrapping ErrSendEvent) or when the service is closed (nil).
// The subscription is removed exactly once on every path.
func (s *Service) Stream(ctx context.Context, sink EventSink) error {
	sub := s.broadcaster.Subscribe(ctx)
	defer func() {
		_ = sub.Close()
		s.logger.LogAttrs(ctx, slog.LevelInfo, "client disconnected",
			logger.SubscriberID(sub.ID()),
			slog.Uint64("dropped", sub.Dropped()),
		)
	}()

	s.logger.LogAttrs(ctx, slog.LevelInfo, "client connected",
		logger.SubscriberID(sub.ID()),
	)

	if err := sink.Send([]byte(ConnectedEvent)); err != nil {
		return errors.Join(ErrSendEvent, err)
	}

	for {
		msg, err := sub.Next(ctx)
		switch {
		case errors.Is(err, broadcast.ErrSubscriberClosed):
			// the subscription is also closed when ctx ends
			return ctx.Err()
		case err != nil:
			return err
		}

		data, err := Encode(msg.Data)
		if err != nil {
			return err
		}
		if err := sink.Send(data); err != nil {
			return errors.Join(ErrSendEvent, err)
		}
	}
}
