package binder

import (
	"errors"
	"strings"
)

var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrInvalidJSON          = errors.New("invalid JSON")
	ErrInvalidQuery         = errors.New("invalid query parameter")
	ErrInvalidTarget        = errors.New("binding target must be a non-nil pointer to struct")
)

// FieldError describes why a single input value was rejected.
// Field is empty when the problem is not tied to one field.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Error is returned by the binders. It matches its Kind with errors.Is.
type Error struct {
	Kind    error
	Details []FieldError
}

func newError(kind error, field, msg string) *Error {
	return &Error{Kind: kind, Details: []FieldError{{Field: field, Message: msg}}}
}

func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		if d.Field != "" {
			parts = append(parts, d.Field+": "+d.Message)
		} else {
			parts = append(parts, d.Message)
		}
	}
	if len(parts) == 0 {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error { return e.Kind }

// IsBindError reports whether err came from one of the binders.
func IsBindError(err error) bool {
	var be *Error
	return errors.As(err, &be)
}
