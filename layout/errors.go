package layout

import (
	"errors"
	"fmt"
)

// ErrLayoutViolation is matched by every ViolationError.
var ErrLayoutViolation = errors.New("layout violation")

// ViolationError reports a descriptor that fails static validation.
type ViolationError struct {
	Layout string
	Field  string // empty for element-level problems
	Reason string
}

func (e *ViolationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("layout %q: %s", e.Layout, e.Reason)
	}
	return fmt.Sprintf("layout %q field %q: %s", e.Layout, e.Field, e.Reason)
}

func (e *ViolationError) Unwrap() error { return ErrLayoutViolation }

func violation(layout, field, format string, args ...any) error {
	return &ViolationError{Layout: layout, Field: field, Reason: fmt.Sprintf(format, args...)}
}
