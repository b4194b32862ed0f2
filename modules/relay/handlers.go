package relay

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/pushrelay/handler"
	"github.com/dmitrymomot/pushrelay/pkg/notifications"
)

type api struct {
	svc          NotificationService
	errorHandler handler.ErrorHandler
}

// createRequest is shared by the JSON body and query string entry points.
type createRequest struct {
	Title   string  `json:"title" query:"title"`
	Message *string `json:"message" query:"message"`
	URL     *string `json:"url" query:"url"`
	Icon    *string `json:"icon" query:"icon"`
	Color   *string `json:"color" query:"color"`
}

func (req createRequest) input() notifications.Input {
	return notifications.Input{
		Title:   req.Title,
		Message: req.Message,
		URL:     req.URL,
		Icon:    req.Icon,
		Color:   req.Color,
	}
}

type healthResponse struct {
	Status        string `json:"status"`
	Notifications int    `json:"notifications"`
	Subscribers   int    `json:"subscribers"`
}

func (a *api) create(ctx handler.Context, req createRequest) handler.Response {
	return a.intake(ctx, req, http.StatusCreated)
}

func (a *api) send(ctx handler.Context, req createRequest) handler.Response {
	return a.intake(ctx, req, http.StatusOK)
}

func (a *api) intake(ctx handler.Context, req createRequest, status int) handler.Response {
	n, err := a.svc.Create(ctx, req.input())
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(n, handler.WithJSONStatus(status))
}

func (a *api) list(ctx handler.Context, _ struct{}) handler.Response {
	all, err := a.svc.List(ctx)
	if err != nil {
		return handler.Error(err)
	}
	if all == nil {
		all = []notifications.Notification{}
	}
	return handler.JSON(all)
}

func (a *api) latest(ctx handler.Context, _ struct{}) handler.Response {
	n, err := a.svc.Latest(ctx)
	switch {
	case errors.Is(err, notifications.ErrNotificationNotFound):
		return handler.Error(handler.ErrNotFound)
	case err != nil:
		return handler.Error(err)
	}
	return handler.JSON(n)
}

func (a *api) events(_ handler.Context, _ struct{}) handler.Response {
	return handler.SSE(func(stream handler.StreamContext) error {
		return a.svc.Stream(stream, stream)
	})
}

func (a *api) health(ctx handler.Context, _ struct{}) handler.Response {
	stats, err := a.svc.Stats(ctx)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(healthResponse{
		Status:        "ok",
		Notifications: stats.Notifications,
		Subscribers:   stats.Subscribers,
	})
}
