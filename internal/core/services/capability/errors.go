package capability

import (
	"errors"
	"fmt"
)

// ErrMalformedField marks a field that is present but cannot be decoded.
var ErrMalformedField = errors.New("malformed field")

// FieldError describes a present field whose value failed to parse.
type FieldError struct {
	Mode  string // amendment the field belongs to, empty for standalone decoder calls
	Field string
	Value any
	Err   error
}

func (e *FieldError) Error() string {
	if e.Mode != "" {
		return fmt.Sprintf("%s: %s %q: %v", e.Mode, e.Field, fmt.Sprint(e.Value), e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, fmt.Sprint(e.Value), e.Err)
}

func (e *FieldError) Unwrap() []error {
	return []error{ErrMalformedField, e.Err}
}

func malformed(field string, value any, err error) *FieldError {
	return &FieldError{Field: field, Value: value, Err: err}
}
