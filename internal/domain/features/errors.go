package features

import "errors"

// Sentinel error kinds for this package.
var (
	ErrMissingDependency = errors.New("missing dependency column")
)
