package validator

import (
	"fmt"
	"strings"
)

// RequiredString fails when value is empty after trimming whitespace.
func RequiredString(field, value string) Rule {
	return Rule{
		Check: func() bool {
			return strings.TrimSpace(value) != ""
		},
		Error: ValidationError{
			Field:   field,
			Message: fmt.Sprintf("'%s' field is required", field),
		},
	}
}
