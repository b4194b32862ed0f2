package handler

import (
	"errors"
	"net/http"
)

var (
	// ErrNilResponse indicates a handler returned nil instead of a Response.
	ErrNilResponse = errors.New("handler returned nil response")
	// ErrResponseCommitted is joined with errors raised after the status line was sent.
	ErrResponseCommitted = errors.New("response already committed")
	// ErrStreamingUnsupported is returned when the writer cannot flush.
	ErrStreamingUnsupported = errors.New("streaming not supported by response writer")
)

// HTTPError is an error carrying the status code and client-facing message.
type HTTPError struct {
	Code    int
	Message string
}

// NewHTTPError creates an HTTPError. An empty message defaults to the status text.
func NewHTTPError(code int, message string) HTTPError {
	if message == "" {
		message = http.StatusText(code)
	}
	return HTTPError{Code: code, Message: message}
}

func (e HTTPError) Error() string { return e.Message }

var (
	ErrBadRequest       = NewHTTPError(http.StatusBadRequest, "")
	ErrNotFound         = NewHTTPError(http.StatusNotFound, "")
	ErrMethodNotAllowed = NewHTTPError(http.StatusMethodNotAllowed, "")
	ErrInternal         = NewHTTPError(http.StatusInternalServerError, "Internal server error")
)
