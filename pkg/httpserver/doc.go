// Package httpserver wraps net/http with graceful shutdown, configurable
// timeouts, lifecycle hooks and structured logging via slog.
//
// Run binds the listener, invokes the start hooks with the bound address and
// serves until the context is cancelled, SIGINT/SIGTERM arrives or Shutdown is
// called. Shutdown first runs the shutdown hooks so long-lived handlers (event
// streams) can finish, then waits up to the shutdown timeout for in-flight
// requests before closing what is left.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP,
//	    httpserver.WithLogger(log),
//	    httpserver.WithStartHook(httpserver.AnnounceHook(cfg.HTTP.Host)),
//	    httpserver.WithShutdownHook(func() { _ = svc.Close() }),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server failed", logger.Error(err))
//	}
//
// Config carries the env-driven settings (HOST, PORT and HTTP_* timeouts).
// The write timeout is off by default because streaming responses never finish
// on their own.
//
// AdvertisedHost turns the wildcard listen host into the LAN address of the
// machine so the startup log shows a URL other devices can reach.
package httpserver
