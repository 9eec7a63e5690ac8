package pool

import "errors"

// ErrJobPanicked is returned in place of a job that panicked.
var ErrJobPanicked = errors.New("pool: job panicked")
