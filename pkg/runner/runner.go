// Package runner executes a batch of tasks on a bounded worker pool with a
// configurable launch strategy. Pacing launches (instead of firing everything
// at once) gives an upstream cache a chance to fill before the next task asks
// the same question.
package runner

import (
	"context"
	"time"

	"github.com/apex/log"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Strategy picks how tasks are handed to the pool.
type Strategy string

const (
	// StrategySequentialDelay launches tasks one by one with a delay between
	// launches. This is the default.
	StrategySequentialDelay Strategy = "sequential-with-delay"
	// StrategyImmediate launches every task at once.
	StrategyImmediate Strategy = "immediate"
	// StrategyBatched launches tasks in groups with a delay between groups.
	StrategyBatched Strategy = "batched"
)

const (
	DefaultWorkers   = 4
	DefaultDelay     = 100 * time.Second
	DefaultBatchSize = 2
)

// TaskFunc processes a single task.
type TaskFunc[T, R any] func(ctx context.Context, task T) (R, error)

// Result holds one task's outcome; failed tasks keep their slot with Err set
// so the output lines up with the input.
type Result[R any] struct {
	Value R
	Err   error
}

// Config tunes the pool. Zero values fall back to the defaults above.
type Config struct {
	Workers   int
	Delay     time.Duration
	Strategy  Strategy
	BatchSize int
}

type Pool[T, R any] struct {
	fn  TaskFunc[T, R]
	cfg Config
}

// New creates a pool running fn over tasks.
func New[T, R any](fn TaskFunc[T, R], cfg Config) *Pool[T, R] {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.Strategy == "" {
		cfg.Strategy = StrategySequentialDelay
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	return &Pool[T, R]{fn: fn, cfg: cfg}
}

// Process runs all tasks and returns their results in input order along with
// the total elapsed time. Launching stops when ctx is cancelled; tasks never
// launched carry the context error in their slot.
func (p *Pool[T, R]) Process(ctx context.Context, tasks []T) ([]Result[R], time.Duration, error) {
	start := time.Now()
	if len(tasks) == 0 {
		return nil, time.Since(start), nil
	}

	log.Debugf("processing %d tasks with %d workers, strategy %q", len(tasks), p.cfg.Workers, p.cfg.Strategy)

	results := make([]Result[R], len(tasks))
	group := &errgroup.Group{}
	group.SetLimit(min(p.cfg.Workers, len(tasks)))

	launch := func(i int) {
		task := tasks[i]
		group.Go(func() error {
			value, err := p.fn(ctx, task)
			if err != nil {
				log.WithError(err).Warnf("task %d failed", i)
			}
			results[i] = Result[R]{Value: value, Err: err}
			return nil
		})
	}

	var launched int
	var launchErr error
	switch p.cfg.Strategy {
	case StrategySequentialDelay:
		launched, launchErr = p.launchPaced(ctx, len(tasks), 1, launch)
	case StrategyImmediate:
		launched, launchErr = p.launchPaced(ctx, len(tasks), 0, launch)
	case StrategyBatched:
		launched, launchErr = p.launchPaced(ctx, len(tasks), p.cfg.BatchSize, launch)
	default:
		return nil, time.Since(start), errors.Errorf("unknown strategy %q", p.cfg.Strategy)
	}

	_ = group.Wait()

	// Slots that never launched carry the launch error.
	for i := launched; i < len(results); i++ {
		results[i].Err = launchErr
	}
	return results, time.Since(start), launchErr
}

// launchPaced starts tasks with a delay every `every` launches; every == 0
// means no pacing at all. Returns how many tasks were launched.
func (p *Pool[T, R]) launchPaced(ctx context.Context, n, every int, launch func(int)) (int, error) {
	for i := 0; i < n; i++ {
		if every > 0 && i > 0 && i%every == 0 {
			if err := sleepCtx(ctx, p.cfg.Delay); err != nil {
				return i, errors.Wrapf(err, "stopped launching after %d of %d tasks", i, n)
			}
		}
		launch(i)
	}
	return n, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
