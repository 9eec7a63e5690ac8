package dedupe

import (
	"github.com/okian/courtside/pkg/logger"
)

// Option applies a configuration option to the Tracker.
type Option func(*Tracker)

// WithCapacity pre-sizes the seen set.
func WithCapacity(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.capacity = n
		}
	}
}

// WithLogger reports dropped and conflicting observations to l.
func WithLogger(l logger.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.log = l
		}
	}
}
