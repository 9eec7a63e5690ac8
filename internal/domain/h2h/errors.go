package h2h

import "errors"

// Sentinel error kinds for this package.
var (
	ErrDuplicateGame = errors.New("duplicate game in head-to-head sequence")
	ErrSelfMatchup   = errors.New("team paired with itself")
)
