package csvio

import (
	"github.com/okian/courtside/pkg/logger"
)

// Option applies a configuration option to a Reader.
type Option func(*Reader)

// WithLogger sets a custom logger for the reader.
func WithLogger(l logger.Logger) Option {
	return func(r *Reader) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithDescriptive marks additional non-numeric columns to ignore.
func WithDescriptive(cols ...string) Option {
	return func(r *Reader) {
		for _, c := range cols {
			r.descriptive[c] = struct{}{}
		}
	}
}
