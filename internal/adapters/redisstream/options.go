package redisstream

import (
	"github.com/okian/courtside/pkg/logger"
)

// Option applies a configuration option to the Publisher.
type Option func(*Publisher)

// WithStream sets the destination stream key.
func WithStream(name string) Option {
	return func(p *Publisher) {
		if name != "" {
			p.stream = name
		}
	}
}

// WithMaxLen caps the stream at roughly n entries.
func WithMaxLen(n int64) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.maxLen = n
		}
	}
}

// WithLogger sets a custom logger for the publisher.
func WithLogger(l logger.Logger) Option {
	return func(p *Publisher) {
		if l != nil {
			p.logger = l
		}
	}
}
