package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/pushrelay/binder"
	"github.com/dmitrymomot/pushrelay/pkg/logger"
	"github.com/dmitrymomot/pushrelay/pkg/validator"
)

// ErrorEnvelope is the JSON body of every error response.
type ErrorEnvelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Errors  any    `json:"errors,omitempty"`
	Path    string `json:"path,omitempty"`
}

const invalidPayloadMessage = "Invalid request payload"

// classify maps err onto a status code and envelope.
// A zero status means nothing must be written.
func classify(err error) (int, ErrorEnvelope) {
	env := ErrorEnvelope{Status: "error"}

	var (
		httpErr HTTPError
		bindErr *binder.Error
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, ErrResponseCommitted):
		return 0, env
	case validator.IsValidationError(err):
		env.Message = err.Error()
		env.Errors = validator.ExtractValidationErrors(err)
		return http.StatusBadRequest, env
	case errors.As(err, &bindErr):
		env.Message = invalidPayloadMessage
		env.Errors = bindErr.Details
		return http.StatusUnprocessableEntity, env
	case errors.As(err, &httpErr):
		env.Message = httpErr.Message
		return httpErr.Code, env
	default:
		env.Message = ErrInternal.Message
		return ErrInternal.Code, env
	}
}

func logLevel(status int) slog.Level {
	switch {
	case status == 0:
		return slog.LevelDebug
	case status < http.StatusInternalServerError:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// NewErrorHandler creates the error handler writing ErrorEnvelope responses.
// Every error is logged; the cause of a 500 is never sent to the client.
func NewErrorHandler(log *slog.Logger) ErrorHandler {
	if log == nil {
		log = slog.Default()
	}

	return func(ctx Context, err error) {
		r := ctx.Request()
		status, env := classify(err)

		msg := "request error"
		if status == 0 {
			msg = "response aborted"
		}
		log.LogAttrs(r.Context(), logLevel(status), msg,
			logger.Error(err),
			slog.Int("status_code", status),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			logger.Component("error_handler"),
		)

		if status == 0 {
			return
		}
		env.Path = r.URL.Path
		if werr := writeEnvelope(ctx.ResponseWriter(), status, env); werr != nil {
			log.LogAttrs(r.Context(), slog.LevelDebug, "failed to write error response",
				logger.Error(werr),
			)
		}
	}
}

// WriteError writes an error envelope with the status text of code as message.
// It is meant for router-level fallbacks such as NotFound.
func WriteError(w http.ResponseWriter, r *http.Request, err HTTPError) {
	_ = writeEnvelope(w, err.Code, ErrorEnvelope{
		Status:  "error",
		Message: err.Message,
		Path:    r.URL.Path,
	})
}

func writeEnvelope(w http.ResponseWriter, status int, env ErrorEnvelope) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(env); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(bytes.TrimRight(buf.Bytes(), "\n"))
	return err
}
