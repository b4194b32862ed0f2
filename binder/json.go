package binder

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// DefaultMaxBodySize caps request bodies read by JSON.
const DefaultMaxBodySize int64 = 1 << 20

// JSONOption configures the JSON binder.
type JSONOption func(*jsonConfig)

type jsonConfig struct {
	maxBodySize    int64
	disallowFields bool
}

// WithMaxBodySize overrides DefaultMaxBodySize. Non-positive values are ignored.
func WithMaxBodySize(n int64) JSONOption {
	return func(c *jsonConfig) {
		if n > 0 {
			c.maxBodySize = n
		}
	}
}

// WithStrictFields rejects bodies containing fields the target does not declare.
func WithStrictFields() JSONOption {
	return func(c *jsonConfig) { c.disallowFields = true }
}

// JSON creates a JSON body binder.
//
// A missing Content-Type is treated as JSON; any other media type than
// application/json or a "+json" suffix is rejected with ErrUnsupportedMediaType.
// Unknown fields are ignored unless WithStrictFields is set.
func JSON(opts ...JSONOption) func(r *http.Request, v any) error {
	cfg := jsonConfig{maxBodySize: DefaultMaxBodySize}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(r *http.Request, v any) error {
		if ct := r.Header.Get("Content-Type"); ct != "" {
			mediaType, _, err := mime.ParseMediaType(ct)
			if err != nil || (mediaType != "application/json" && !strings.HasSuffix(mediaType, "+json")) {
				return newError(ErrUnsupportedMediaType, "",
					fmt.Sprintf("got %q, expected application/json", ct))
			}
		}
		if r.Body == nil {
			return newError(ErrInvalidJSON, "", "empty body")
		}

		dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, cfg.maxBodySize))
		if cfg.disallowFields {
			dec.DisallowUnknownFields()
		}

		if err := dec.Decode(v); err != nil {
			return decodeError(err)
		}
		if _, err := dec.Token(); !errors.Is(err, io.EOF) {
			return newError(ErrInvalidJSON, "", "unexpected data after JSON value")
		}
		return nil
	}
}

func decodeError(err error) *Error {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		sizeErr   *http.MaxBytesError
	)
	switch {
	case errors.Is(err, io.EOF):
		return newError(ErrInvalidJSON, "", "empty body")
	case errors.Is(err, io.ErrUnexpectedEOF):
		return newError(ErrInvalidJSON, "", "unexpected end of JSON input")
	case errors.As(err, &syntaxErr):
		return newError(ErrInvalidJSON, "", fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset))
	case errors.As(err, &typeErr):
		return newError(ErrInvalidJSON, typeErr.Field,
			fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value))
	case errors.As(err, &sizeErr):
		return newError(ErrInvalidJSON, "", fmt.Sprintf("body exceeds %d bytes", sizeErr.Limit))
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return newError(ErrInvalidJSON, field, "unknown field")
	default:
		return newError(ErrInvalidJSON, "", err.Error())
	}
}
