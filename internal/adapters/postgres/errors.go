package postgres

import "errors"

// Sentinel error kinds for this package.
var (
	ErrConnect = errors.New("postgres connect failed")
	ErrWrite   = errors.New("postgres write failed")
)
