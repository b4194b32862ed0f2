// Package logger provides a context-aware wrapper around Go's slog package
// adding functional options for configuration, helper attribute constructors,
// an HTTP request logging middleware and transparent injection of values
// stored in context.Context.
//
// New creates a *slog.Logger configured by Option functions. These options allow you to:
//
//   - Select an output format (text or json)
//   - Set the minimum log level
//   - Supply default slog.Attr values applied to every record
//   - Register ContextExtractor callbacks that inject attributes pulled from
//     the context (for example a request id) every time a record is handled.
//
// # Architecture
//
// New picks slog.NewTextHandler or slog.NewJSONHandler based on the configured
// Format and, when extractors are registered, wraps it so that every
// record also carries the attributes returned by the ContextExtractor callbacks.
//
// Helper constructors such as Error, RequestID and NotificationID live in attr.go
// and keep attribute naming consistent across the codebase.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment(os.Getenv("APP_ENV"), "pushrelay"),
//	    logger.WithContextExtractors(requestid.LogExtractor()),
//	)
//	logger.SetAsDefault(log)
//
//	r := chi.NewRouter()
//	r.Use(logger.Middleware(log))
//
// # Error Handling
//
// Error and Errors produce attributes only when the supplied error is non-nil,
// so calls like
//
//	log.Info("operation finished", logger.Error(err))
//
// need no additional nil check.
package logger
