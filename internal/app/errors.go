package app

import "errors"

// Sentinel error kinds for this package.
var (
	ErrNoObservations = errors.New("no observations")
)
