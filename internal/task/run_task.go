package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/bulkprompt-api/internal/domain"
	"github.com/phrazzld/bulkprompt-api/internal/events"
	"github.com/phrazzld/bulkprompt-api/internal/provider"
	"github.com/phrazzld/bulkprompt-api/internal/scheduler"
	"github.com/phrazzld/bulkprompt-api/internal/store"
)

// Common errors
var (
	ErrNilStore      = errors.New("run store cannot be nil")
	ErrNilLogger     = errors.New("logger cannot be nil")
	ErrEmptyRunID    = errors.New("run ID cannot be empty")
	ErrInvalidParams = errors.New("invalid run parameters")
)

// ClientFactory builds the provider client for one run. Injected so
// tests can supply fakes.
type ClientFactory func(p domain.Provider, cfg provider.Config) (provider.Client, error)

// Settings carries the provider and pacing configuration shared by
// every prompt-run task.
type Settings struct {
	// RequestTimeout bounds each outbound provider request.
	RequestTimeout time.Duration

	// MaxAttempts is the retry ceiling per job.
	MaxAttempts int

	// RetryBaseDelay seeds the exponential backoff.
	RetryBaseDelay time.Duration

	// RequestDelay paces consecutive high-accuracy requests.
	RequestDelay time.Duration

	// BatchDelay is the cooldown between quick-mode batches.
	BatchDelay time.Duration

	// MaxTokens is the Anthropic response-length ceiling.
	MaxTokens int

	// OpenAIBaseURL and AnthropicBaseURL override the provider
	// endpoints, mainly for tests and compatible gateways.
	OpenAIBaseURL    string
	AnthropicBaseURL string
}

// PromptRunTask carries one run from submission to its terminal state.
// The task ID is the run ID: the poller's handle and the unit of work
// are the same thing. The task is the single writer for its run record.
type PromptRunTask struct {
	runID         uuid.UUID
	params        domain.RunParams
	runStore      store.RunStore
	emitter       events.Emitter
	settings      Settings
	clientFactory ClientFactory
	sleep         provider.SleepFunc
	logger        *slog.Logger
	status        Status
}

// NewPromptRunTask creates the task executing the given run.
func NewPromptRunTask(
	runID uuid.UUID,
	params domain.RunParams,
	runStore store.RunStore,
	emitter events.Emitter,
	settings Settings,
	clientFactory ClientFactory,
	logger *slog.Logger,
) (*PromptRunTask, error) {
	if runStore == nil {
		return nil, ErrNilStore
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if runID == uuid.Nil {
		return nil, ErrEmptyRunID
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	if clientFactory == nil {
		clientFactory = provider.NewClient
	}

	return &PromptRunTask{
		runID:         runID,
		params:        params,
		runStore:      runStore,
		emitter:       emitter,
		settings:      settings,
		clientFactory: clientFactory,
		sleep:         provider.SleepWithContext,
		logger:        logger.With("task_type", TypePromptRun, "run_id", runID),
		status:        StatusPending,
	}, nil
}

// ID returns the task's unique identifier, which is the run ID.
func (t *PromptRunTask) ID() uuid.UUID {
	return t.runID
}

// Type returns the task type identifier.
func (t *PromptRunTask) Type() string {
	return TypePromptRun
}

// Status returns the current task status.
func (t *PromptRunTask) Status() Status {
	return t.status
}

// Execute processes every prompt of the run and records the terminal
// state. Per-prompt failures are absorbed into nil answers upstream;
// only a scheduler-level fault fails the run as a whole.
func (t *PromptRunTask) Execute(ctx context.Context) error {
	t.status = StatusProcessing
	t.logger.Info("starting prompt run",
		"prompt_count", len(t.params.Prompts),
		"provider", t.params.Provider,
		"mode", t.params.Mode)

	client, err := t.clientFactory(t.params.Provider, provider.Config{
		APIKey:    t.params.APIKey,
		BaseURL:   t.baseURL(),
		Timeout:   t.settings.RequestTimeout,
		MaxTokens: t.settings.MaxTokens,
	})
	if err != nil {
		return t.fail(ctx, fmt.Errorf("create provider client: %w", err))
	}
	defer client.Close()

	retry := provider.NewRetryPolicy(t.settings.MaxAttempts, t.settings.RetryBaseDelay, t.logger).
		WithSleep(t.sleep)
	sched := scheduler.New(client, retry, t.logger)

	results, err := sched.Run(ctx, t.params.Jobs(), scheduler.Options{
		Mode:         t.params.Mode,
		BatchSize:    t.params.BatchSize,
		RequestDelay: t.settings.RequestDelay,
		BatchDelay:   t.settings.BatchDelay,
		Sleep:        t.sleep,
		OnProgress: func(progress string) {
			if err := t.runStore.UpdateProgress(ctx, t.runID, progress); err != nil {
				t.logger.Warn("failed to update run progress", "error", err)
			}
		},
	})
	if err != nil {
		return t.fail(ctx, err)
	}

	if err := t.runStore.Complete(ctx, t.runID, results); err != nil {
		return t.fail(ctx, fmt.Errorf("record run completion: %w", err))
	}

	t.status = StatusCompleted
	t.logger.Info("prompt run completed")
	t.emit(ctx, events.EventRunCompleted)
	return nil
}

// fail records the run failure and surfaces the fault to the runner.
func (t *PromptRunTask) fail(ctx context.Context, cause error) error {
	t.status = StatusFailed

	if err := t.runStore.Fail(ctx, t.runID, cause.Error()); err != nil {
		t.logger.Error("failed to record run failure", "error", err)
	}

	t.emit(ctx, events.EventRunFailed)
	return cause
}

// emit publishes a lifecycle event when an emitter is wired.
func (t *PromptRunTask) emit(ctx context.Context, eventType string) {
	if t.emitter == nil {
		return
	}

	if err := t.emitter.EmitEvent(ctx, events.NewRunEvent(eventType, t.runID)); err != nil {
		t.logger.Warn("failed to emit run event", "event_type", eventType, "error", err)
	}
}

// baseURL picks the endpoint override for the run's provider.
func (t *PromptRunTask) baseURL() string {
	switch t.params.Provider {
	case domain.ProviderAnthropic:
		return t.settings.AnthropicBaseURL
	default:
		return t.settings.OpenAIBaseURL
	}
}
