package provider

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/bulkprompt-api/internal/domain"
)

// Retry defaults, matching the backoff observed to keep OpenAI-scale
// rate limiting tolerable: a 10s seed doubled on each attempt.
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 10 * time.Second
)

// SleepFunc waits for the given duration or until the context is done.
// Injected so retry behavior is unit-testable without real delays.
type SleepFunc func(ctx context.Context, d time.Duration) error

// SleepWithContext is the production SleepFunc.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryPolicy wraps a single-job attempt with bounded retries.
// Rate-limited and transient failures are retried with exponential
// backoff (a server-supplied Retry-After hint takes precedence);
// permanent failures short-circuit immediately. Both cases, as well as
// an exhausted budget, degrade to a nil answer so one bad prompt never
// aborts the rest of the run.
type RetryPolicy struct {
	maxAttempts int
	baseDelay   time.Duration
	sleep       SleepFunc
	logger      *slog.Logger
}

// NewRetryPolicy builds a policy with the given attempt ceiling and
// backoff seed, falling back to defaults for non-positive values.
func NewRetryPolicy(maxAttempts int, baseDelay time.Duration, logger *slog.Logger) RetryPolicy {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}

	return RetryPolicy{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		sleep:       SleepWithContext,
		logger:      logger.With("component", "retry_policy"),
	}
}

// WithSleep returns a copy of the policy using the given SleepFunc.
func (p RetryPolicy) WithSleep(sleep SleepFunc) RetryPolicy {
	p.sleep = sleep
	return p
}

// Do attempts the job until it succeeds, fails permanently, or the
// attempt ceiling is reached. A nil answer marks a prompt whose
// request could not be completed. The returned error is non-nil only
// when the context is cancelled, which is a run-level fault rather
// than a per-prompt failure.
func (p RetryPolicy) Do(ctx context.Context, client Client, job domain.Job) (*string, error) {
	logger := p.logger.With("prompt_index", job.Index, "provider", job.Provider)
	delay := p.baseDelay

	for attempt := 1; ; attempt++ {
		answer, err := client.Complete(ctx, job)
		if err == nil {
			return &answer, nil
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if !Retryable(err) {
			logger.Warn("permanent request failure, not retrying",
				"attempt", attempt,
				"error", err)
			return nil, nil
		}

		if attempt >= p.maxAttempts {
			logger.Warn("retry budget exhausted",
				"max_attempts", p.maxAttempts,
				"error", err)
			return nil, nil
		}

		wait := delay
		var rateLimited *RateLimitError
		if errors.As(err, &rateLimited) && rateLimited.RetryAfter > 0 {
			wait = rateLimited.RetryAfter
		}

		logger.Info("retrying after backoff",
			"attempt", attempt,
			"wait", wait,
			"error", err)

		if sleepErr := p.sleep(ctx, wait); sleepErr != nil {
			return nil, sleepErr
		}

		delay *= 2
	}
}
