package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/dmitrymomot/pushrelay/modules/relay"
	"github.com/dmitrymomot/pushrelay/pkg/broadcast"
	"github.com/dmitrymomot/pushrelay/pkg/clientip"
	"github.com/dmitrymomot/pushrelay/pkg/config"
	"github.com/dmitrymomot/pushrelay/pkg/httpserver"
	"github.com/dmitrymomot/pushrelay/pkg/icons"
	"github.com/dmitrymomot/pushrelay/pkg/logger"
	"github.com/dmitrymomot/pushrelay/pkg/notifications"
	"github.com/dmitrymomot/pushrelay/pkg/requestid"
)

type appConfig struct {
	HTTP httpserver.Config

	AppEnv   string `env:"APP_ENV" envDefault:"development"`
	AppName  string `env:"APP_NAME" envDefault:"pushrelay"`
	LogLevel string `env:"LOG_LEVEL"`

	// StreamQueueLimit caps each event stream backlog; zero means unbounded.
	StreamQueueLimit   int      `env:"STREAM_QUEUE_LIMIT" envDefault:"0"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	TrustProxyHeaders  bool     `env:"TRUST_PROXY_HEADERS" envDefault:"false"`
	MaxBodyBytes       int64    `env:"MAX_BODY_BYTES" envDefault:"1048576"`
}

func main() {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		slog.Error("failed to load config", logger.Error(err))
		os.Exit(1)
	}

	logOpts := []logger.Option{
		logger.WithEnvironment(cfg.AppEnv, cfg.AppName),
		logger.WithContextExtractors(requestid.LogExtractor(), clientip.LogExtractor()),
	}
	if cfg.LogLevel != "" {
		level, err := logger.ParseLevel(cfg.LogLevel)
		if err != nil {
			slog.Error("failed to parse log level", logger.Error(err))
			os.Exit(1)
		}
		logOpts = append(logOpts, logger.WithLevel(level))
	}
	log := logger.New(logOpts...)
	logger.SetAsDefault(log)

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	registry, err := icons.Embedded()
	if err != nil {
		return err
	}

	broadcaster := broadcast.NewMemoryBroadcaster[notifications.Notification](
		broadcast.WithQueueLimit(cfg.StreamQueueLimit),
		broadcast.WithSubscribersCallback(func(n int) {
			log.Debug("subscribers changed", slog.Int("subscribers", n))
		}),
	)

	svc := notifications.NewService(
		notifications.NewMemoryStorage(),
		broadcaster,
		notifications.WithIconResolver(registry),
		notifications.WithLogger(log),
	)

	router := relay.Router(relay.RouterOptions{
		Service:           svc,
		Logger:            log,
		AllowedOrigins:    cfg.CORSAllowedOrigins,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
		MaxBodyBytes:      cfg.MaxBodyBytes,
	})

	srv := httpserver.NewFromConfig(cfg.HTTP,
		httpserver.WithLogger(log),
		httpserver.WithStartHook(httpserver.AnnounceHook(cfg.HTTP.Host)),
		httpserver.WithShutdownHook(func() { _ = svc.Close() }),
	)
	return srv.Run(ctx, router)
}
