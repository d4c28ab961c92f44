package services

import (
	"errors"
	"fmt"
)

// ErrForbidden is returned when the caller holds a valid identity but
// lacks the role or ownership required for the operation.
var ErrForbidden = errors.New("forbidden")

// ValidationError marks input rejected before any write happened.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func invalidf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}
