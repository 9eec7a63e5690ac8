package postgres

import (
	"github.com/okian/courtside/pkg/logger"
)

// Option applies a configuration option to the Sink.
type Option func(*Sink)

// WithTable sets the destination table.
func WithTable(name string) Option {
	return func(s *Sink) {
		if name != "" {
			s.table = name
		}
	}
}

// WithBatchSize sets how many records go into one UNNEST statement.
func WithBatchSize(n int) Option {
	return func(s *Sink) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithLogger sets a custom logger for the sink.
func WithLogger(l logger.Logger) Option {
	return func(s *Sink) {
		if l != nil {
			s.logger = l
		}
	}
}
