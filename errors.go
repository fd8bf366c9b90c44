package featcol

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by operations on a closed Store.
	ErrClosed = errors.New("featcol: store is closed")
	// ErrColumnExists is returned when adding a column under a taken name.
	ErrColumnExists = errors.New("featcol: column already exists")
	// ErrColumnNotFound is returned when no column has the given name.
	ErrColumnNotFound = errors.New("featcol: column not found")
	// ErrColumnType is returned when a column is looked up with the wrong
	// element type.
	ErrColumnType = errors.New("featcol: column has a different element type")
	// ErrNoBlobStore is returned by snapshot operations on a Store opened
	// without WithBlobStore.
	ErrNoBlobStore = errors.New("featcol: no blob store configured")
	// ErrInvalidOption is returned by Open for out-of-range options.
	ErrInvalidOption = errors.New("featcol: invalid option")
)

// ColumnError records the column and operation that failed.
//
// The original underlying error can be accessed via errors.Unwrap.
type ColumnError struct {
	Op     string
	Column string
	cause  error
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("featcol: %s %q: %v", e.Op, e.Column, e.cause)
}

func (e *ColumnError) Unwrap() error { return e.cause }

func columnError(op, name string, err error) error {
	if err == nil {
		return nil
	}
	return &ColumnError{Op: op, Column: name, cause: err}
}
