package economics

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument marks any input that violates a stated invariant.
// The engine performs no partial computation when it is returned.
var ErrInvalidArgument = errors.New("invalid argument")

// ValidationError describes one offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is(err, ErrInvalidArgument) match.
func (e *ValidationError) Unwrap() error { return ErrInvalidArgument }

// Invalid builds a ValidationError for field.
func Invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
