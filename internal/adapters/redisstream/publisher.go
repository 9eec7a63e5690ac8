// Package redisstream publishes pipeline run summaries to a Redis stream.
package redisstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/courtside/pkg/logger"
)

const (
	defaultStream = "courtside:runs"
	defaultMaxLen = 1000
	pingTimeout   = 5 * time.Second
)

// ErrPublish is returned when a summary cannot be added to the stream.
var ErrPublish = errors.New("redis publish failed")

// Client is the subset of the redis client the publisher uses.
type Client interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	Close() error
}

// Publisher appends one entry per run to a stream.
type Publisher struct {
	client Client
	stream string
	maxLen int64
	logger logger.Logger
	now    func() time.Time
}

// New wraps an existing client.
func New(client Client, opts ...Option) *Publisher {
	p := &Publisher{
		client: client,
		stream: defaultStream,
		maxLen: defaultMaxLen,
		logger: logger.Get().Named("redisstream"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Dial connects to redisURL and verifies the connection.
func Dial(ctx context.Context, redisURL string, opts ...Option) (*Publisher, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return New(client, opts...), nil
}

// Close closes the underlying client.
func (p *Publisher) Close() error {
	return p.client.Close()
}

// Stream returns the destination stream key.
func (p *Publisher) Stream() string { return p.stream }

// Args builds the XADD arguments for one summary.
func (p *Publisher) Args(runID string, summary any) (*redis.XAddArgs, error) {
	data, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("encode summary: %w", err)
	}
	return &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"run_id":    runID,
			"data":      string(data),
			"timestamp": p.now().Unix(),
		},
	}, nil
}

// Publish appends summary to the stream and returns the entry id.
func (p *Publisher) Publish(ctx context.Context, runID string, summary any) (string, error) {
	args, err := p.Args(runID, summary)
	if err != nil {
		return "", err
	}
	id, err := p.client.XAdd(ctx, args).Result()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPublish, err)
	}
	p.logger.Info(ctx, "run summary published",
		logger.String("stream", p.stream),
		logger.String("entry", id),
		logger.String("run_id", runID),
	)
	return id, nil
}
