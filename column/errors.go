package column

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is matched by every *OutOfBoundsError.
	ErrOutOfBounds = errors.New("column: index out of bounds")
	// ErrImageSize is returned by Load when the image is not a whole number of rows.
	ErrImageSize = errors.New("column: image size is not a multiple of the element width")
	// ErrLayoutMismatch is returned when an image was produced for a different layout.
	ErrLayoutMismatch = errors.New("column: layout mismatch")
)

// OutOfBoundsError is the panic value for accesses outside [0, Capacity()).
type OutOfBoundsError struct {
	Column   string
	Index    int
	Capacity int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("column %q: index %d out of range [0, %d)", e.Column, e.Index, e.Capacity)
}

func (e *OutOfBoundsError) Unwrap() error { return ErrOutOfBounds }
