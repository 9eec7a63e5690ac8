package csvio

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package.
var (
	ErrUnknownLayout = errors.New("unknown input layout")
	ErrMissingColumn = errors.New("required column missing")
	ErrBadValue      = errors.New("malformed cell")
	ErrEmptyInput    = errors.New("input has no header")
)

// CellError locates a malformed cell. Line is 1-based and counts the header.
type CellError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("line %d column %s: %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *CellError) Unwrap() error { return ErrBadValue }
