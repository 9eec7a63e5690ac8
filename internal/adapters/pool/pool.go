// Package pool runs independent timeline jobs on a fixed set of workers.
package pool

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/courtside/pkg/logger"
)

const (
	defaultQueueSize = 1024
)

// Job is a unit of work run by the pool.
type Job = func(context.Context) error

// Pool fans jobs out to a bounded number of goroutines.
//
// Run is safe to call repeatedly; every call starts and drains its own
// worker set so a Pool holds no goroutines between calls.
type Pool struct {
	workers   int
	queueSize int
	name      string
	logger    logger.Logger
}

type task struct {
	index int
	job   Job
}

// New creates a pool with the given worker count. A count below 1 uses
// runtime.NumCPU.
func New(workers int, opts ...Option) *Pool {
	if workers < 1 {
		workers = runtime.NumCPU()
	}

	p := &Pool{
		workers:   workers,
		queueSize: defaultQueueSize,
		name:      "pool",
		logger:    logger.Get(),
	}

	for _, opt := range opts {
		opt(p)
	}

	// Named once, nested under the supplied logger's component.
	p.logger = p.logger.Named(p.name)

	return p
}

// Workers returns the configured worker count.
func (p *Pool) Workers() int { return p.workers }

// Run executes every job and waits for all started jobs to finish.
//
// The first failure cancels the jobs that have not started yet. The error
// returned is the failure with the lowest job index, so repeated runs over
// the same input report the same error regardless of scheduling.
func (p *Pool) Run(ctx context.Context, jobs []Job) error {
	if len(jobs) == 0 {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := min(p.workers, len(jobs))
	tasks := make(chan task, min(p.queueSize, len(jobs)))
	errs := make([]error, len(jobs))
	start := time.Now()

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				if runCtx.Err() != nil {
					continue
				}
				if err := p.execute(runCtx, t); err != nil {
					errs[t.index] = err
					cancel()
				}
			}
		}()
	}

dispatch:
	for i, job := range jobs {
		select {
		case tasks <- task{index: i, job: job}:
		case <-runCtx.Done():
			break dispatch
		}
	}
	close(tasks)
	wg.Wait()

	p.logger.Debug(ctx, "jobs finished",
		logger.Int("jobs", len(jobs)),
		logger.Int("workers", workers),
		logger.Duration("took", time.Since(start)),
	)

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return ctx.Err()
}

func (p *Pool) execute(ctx context.Context, t task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: job %d: %v", ErrJobPanicked, t.index, r)
			p.logger.Error(ctx, "job panicked", logger.Int("job", t.index), logger.Any("panic", r))
		}
	}()
	return t.job(ctx)
}
