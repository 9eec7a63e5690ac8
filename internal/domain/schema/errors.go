package schema

import "errors"

// Sentinel error kinds for this package.
var (
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrUnknownColumn   = errors.New("unknown column")
)
