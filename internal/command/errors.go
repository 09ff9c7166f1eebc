package command

import (
	"errors"
	"fmt"
)

// UsageError signals bad user input. The dispatcher surfaces its message
// verbatim to the user and never files an incident for it. Any other error a
// handler returns is treated as a handler fault.
type UsageError struct {
	Message string
}

// Error implements the error interface.
func (e *UsageError) Error() string {
	return e.Message
}

// Usagef builds a UsageError with a formatted message.
func Usagef(format string, args ...any) error {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

// AsUsage unwraps err as a UsageError if it is one.
func AsUsage(err error) (*UsageError, bool) {
	var ue *UsageError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}
