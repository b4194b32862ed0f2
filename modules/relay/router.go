package relay

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dmitrymomot/pushrelay/binder"
	"github.com/dmitrymomot/pushrelay/handler"
	"github.com/dmitrymomot/pushrelay/pkg/clientip"
	"github.com/dmitrymomot/pushrelay/pkg/logger"
	"github.com/dmitrymomot/pushrelay/pkg/notifications"
	"github.com/dmitrymomot/pushrelay/pkg/requestid"
)

// NotificationService is the part of notifications.Service the API needs.
type NotificationService interface {
	Create(ctx context.Context, in notifications.Input) (notifications.Notification, error)
	List(ctx context.Context) ([]notifications.Notification, error)
	Latest(ctx context.Context) (notifications.Notification, error)
	Stats(ctx context.Context) (notifications.Stats, error)
	Stream(ctx context.Context, sink notifications.EventSink) error
}

// RouterOptions configures the relay router.
type RouterOptions struct {
	Service NotificationService
	Logger  *slog.Logger

	// AllowedOrigins defaults to every origin.
	AllowedOrigins []string
	// TrustProxyHeaders makes client IPs come from X-Forwarded-For / X-Real-IP.
	TrustProxyHeaders bool
	// MaxBodyBytes caps JSON request bodies; zero keeps binder.DefaultMaxBodySize.
	MaxBodyBytes int64
}

// Router creates the relay router with its middleware stack.
//
//	svc := notifications.NewService(storage, broadcaster)
//	srv.Run(ctx, relay.Router(relay.RouterOptions{Service: svc, Logger: log}))
func Router(opts RouterOptions) chi.Router {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	api := &api{
		svc:          opts.Service,
		errorHandler: handler.NewErrorHandler(log),
	}

	r := chi.NewRouter()
	r.Use(
		requestid.Middleware,
		clientip.Middleware(opts.TrustProxyHeaders),
		logger.Middleware(log),
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"*"},
			ExposedHeaders: []string{requestid.Header},
			MaxAge:         300,
		}),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handler.WriteError(w, r, handler.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handler.WriteError(w, r, handler.ErrMethodNotAllowed)
	})

	r.Post("/", handler.Wrap(api.create,
		handler.WithBinder[createRequest](binder.JSON(binder.WithMaxBodySize(opts.MaxBodyBytes))),
		handler.WithErrorHandler[createRequest](api.errorHandler),
	))
	r.Get("/send", handler.Wrap(api.send,
		handler.WithBinder[createRequest](binder.Query()),
		handler.WithErrorHandler[createRequest](api.errorHandler),
	))
	r.Get("/", handler.Wrap(api.list, handler.WithErrorHandler[struct{}](api.errorHandler)))
	r.Get("/latest", handler.Wrap(api.latest, handler.WithErrorHandler[struct{}](api.errorHandler)))
	r.Get("/events", handler.Wrap(api.events, handler.WithErrorHandler[struct{}](api.errorHandler)))
	r.Get("/health", handler.Wrap(api.health, handler.WithErrorHandler[struct{}](api.errorHandler)))

	return r
}
