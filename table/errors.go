package table

import (
	"errors"
	"fmt"
)

var (
	// ErrColumnNotFound is returned when a named column is not in the header
	ErrColumnNotFound = errors.New("column not found")

	// ErrDuplicateColumn is returned when a header names a column twice
	ErrDuplicateColumn = errors.New("duplicate column")

	// ErrMissingValue is wrapped by ParseError when the value is absent
	ErrMissingValue = errors.New("missing value")

	// ErrRowOutOfRange is returned by Row for an index outside the table
	ErrRowOutOfRange = errors.New("row index out of range")
)

// ParseError reports a value that could not be parsed as the requested kind.
//
// Row is the original record index, or -1 when the value did not come from
// a table.
type ParseError struct {
	Column string
	Row    int
	Value  string
	Kind   Kind
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("cannot parse %q as %s: %v", e.Value, e.Kind, e.Err)
	}
	return fmt.Sprintf("column %q row %d: cannot parse %q as %s: %v", e.Column, e.Row, e.Value, e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ShapeError reports a count mismatch, e.g. unpacking four values into
// three fields or a CSV row that is shorter than its header.
type ShapeError struct {
	What string
	Want int
	Got  int
}

func (e *ShapeError) Error() string {
	if e.Got > e.Want {
		return fmt.Sprintf("%s: too many values (expected %d, got %d)", e.What, e.Want, e.Got)
	}
	return fmt.Sprintf("%s: not enough values (expected %d, got %d)", e.What, e.Want, e.Got)
}

// TypeError reports an operation applied to incompatible value kinds.
type TypeError struct {
	Op    string
	Left  Kind
	Right Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("unsupported operand kinds for %s: %s and %s", e.Op, e.Left, e.Right)
}
