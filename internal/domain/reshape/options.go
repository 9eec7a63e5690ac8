package reshape

import (
	"github.com/okian/courtside/pkg/logger"
)

const defaultMaxExamples = 5

// Option applies a configuration option to Pair.
type Option func(*pairer)

// WithLogger reports neutral-venue resolutions to l.
func WithLogger(l logger.Logger) Option {
	return func(p *pairer) {
		if l != nil {
			p.log = l
		}
	}
}

// WithMaxExamples caps the example games kept per issue kind.
func WithMaxExamples(n int) Option {
	return func(p *pairer) {
		if n > 0 {
			p.maxExamples = n
		}
	}
}
