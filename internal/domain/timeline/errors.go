package timeline

import "errors"

// Sentinel error kinds for this package.
var (
	ErrAmbiguousOrder = errors.New("ambiguous game order")
)
