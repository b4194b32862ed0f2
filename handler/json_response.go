package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
)

type jsonResponse struct {
	status int
	body   any
}

// Render encodes the body before touching the writer so that an encoding
// failure can still produce an error response.
func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(j.body); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(j.status)
	_, err := w.Write(bytes.TrimRight(buf.Bytes(), "\n"))
	if err != nil {
		return errors.Join(ErrResponseCommitted, err)
	}
	return nil
}

// JSONOption configures JSON response
type JSONOption func(*jsonResponse)

// WithJSONStatus sets custom HTTP status code
func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// JSON creates a 200 response with v encoded as the whole body.
// HTML characters and non-ASCII text are written literally.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK, body: v}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
