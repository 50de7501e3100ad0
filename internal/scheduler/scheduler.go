package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/phrazzld/bulkprompt-api/internal/domain"
	"github.com/phrazzld/bulkprompt-api/internal/provider"
)

// Default pacing between requests and between batches.
const (
	DefaultRequestDelay = 2 * time.Second
	DefaultBatchDelay   = 3 * time.Second
)

// Options configures one run of the scheduler.
type Options struct {
	// Mode selects sequential or batched execution.
	Mode domain.Mode

	// BatchSize is the quick-mode batch width. Ignored in
	// high-accuracy mode.
	BatchSize int

	// RequestDelay is the pause between consecutive jobs in
	// high-accuracy mode. Defaults to DefaultRequestDelay.
	RequestDelay time.Duration

	// BatchDelay is the cooldown between quick-mode batches.
	// Defaults to DefaultBatchDelay.
	BatchDelay time.Duration

	// OnProgress receives the human-readable progress string after
	// each job (high-accuracy) or batch (quick). Optional.
	OnProgress func(progress string)

	// Sleep overrides the pacing sleeps, mainly for tests. Defaults
	// to provider.SleepWithContext.
	Sleep provider.SleepFunc
}

// Scheduler executes a run's jobs against one provider client using a
// shared retry policy. One scheduler instance serves one run.
type Scheduler struct {
	client provider.Client
	retry  provider.RetryPolicy
	logger *slog.Logger
}

// New creates a scheduler bound to the given client and retry policy.
func New(client provider.Client, retry provider.RetryPolicy, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		client: client,
		retry:  retry,
		logger: logger.With("component", "scheduler"),
	}
}

// Run executes every job and returns the ordered answer list: the
// answer at position i corresponds to the job with Index i, regardless
// of completion order. A nil element marks a prompt whose request
// failed permanently or exhausted its retries. A non-nil error is a
// run-level fault (context cancellation): the whole run fails.
func (s *Scheduler) Run(ctx context.Context, jobs []domain.Job, opts Options) ([]*string, error) {
	if opts.Sleep == nil {
		opts.Sleep = provider.SleepWithContext
	}
	if opts.RequestDelay <= 0 {
		opts.RequestDelay = DefaultRequestDelay
	}
	if opts.BatchDelay <= 0 {
		opts.BatchDelay = DefaultBatchDelay
	}

	switch opts.Mode {
	case domain.ModeQuick:
		if opts.BatchSize <= 0 {
			return nil, domain.ErrInvalidBatch
		}
		return s.runBatched(ctx, jobs, opts)
	case domain.ModeHighAccuracy:
		return s.runSequential(ctx, jobs, opts)
	default:
		return nil, domain.ErrInvalidMode
	}
}

// runSequential processes jobs strictly one at a time, reporting
// progress after each job and pacing requests with a fixed delay.
func (s *Scheduler) runSequential(ctx context.Context, jobs []domain.Job, opts Options) ([]*string, error) {
	total := len(jobs)
	results := make([]*string, total)

	for i, job := range jobs {
		answer, err := s.retry.Do(ctx, s.client, job)
		if err != nil {
			return nil, err
		}
		results[job.Index] = answer

		s.report(opts, i+1, total)

		if i < total-1 {
			if err := opts.Sleep(ctx, opts.RequestDelay); err != nil {
				return nil, err
			}
		}
	}

	s.logger.Info("sequential run finished", "prompt_count", total)
	return results, nil
}

// runBatched partitions jobs into fixed-size batches in input order.
// Jobs within a batch run concurrently; the scheduler waits for the
// whole batch before reporting progress and moving on, cooling down
// between batches.
func (s *Scheduler) runBatched(ctx context.Context, jobs []domain.Job, opts Options) ([]*string, error) {
	total := len(jobs)
	results := make([]*string, total)

	for start := 0; start < total; start += opts.BatchSize {
		end := start + opts.BatchSize
		if end > total {
			end = total
		}

		g, gctx := errgroup.WithContext(ctx)
		for _, job := range jobs[start:end] {
			job := job
			g.Go(func() error {
				answer, err := s.retry.Do(gctx, s.client, job)
				if err != nil {
					return err
				}
				// Each goroutine writes a distinct index.
				results[job.Index] = answer
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return nil, err
		}

		s.logger.Debug("batch finished",
			"batch_start", start,
			"batch_end", end,
			"total", total)
		s.report(opts, end, total)

		if end < total {
			if err := opts.Sleep(ctx, opts.BatchDelay); err != nil {
				return nil, err
			}
		}
	}

	s.logger.Info("batched run finished", "prompt_count", total, "batch_size", opts.BatchSize)
	return results, nil
}

func (s *Scheduler) report(opts Options, completed, total int) {
	if opts.OnProgress == nil {
		return
	}
	opts.OnProgress(fmt.Sprintf("Processing prompt %d of %d", completed, total))
}
