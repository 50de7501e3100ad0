package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// RunnerConfig holds configuration for the task runner
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount: 4,
		QueueSize:   100,
	}
}

// Runner owns the worker pool that drains the task queue. Tasks run
// independently: one task's failure never touches another task's
// progress.
type Runner struct {
	queue      *Queue
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     RunnerConfig
	logger     *slog.Logger
	errHandler func(task Task, err error)
}

// NewRunner creates a new Runner with its own queue.
func NewRunner(config RunnerConfig, logger *slog.Logger) *Runner {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultRunnerConfig().QueueSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		queue:      NewQueue(config.QueueSize, logger),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger.With("component", "task_runner"),
		errHandler: func(task Task, err error) {
			logger.Error("task execution failed",
				"task_id", task.ID(),
				"task_type", task.Type(),
				"error", err)
		},
	}
}

// SetErrorHandler allows setting a custom error handler function.
func (r *Runner) SetErrorHandler(handler func(task Task, err error)) {
	r.errHandler = handler
}

// Submit adds a new task to the queue. Returns ErrQueueFull when the
// queue is at capacity so the caller can shed load.
func (r *Runner) Submit(ctx context.Context, task Task) error {
	if err := r.queue.Enqueue(task); err != nil {
		return fmt.Errorf("submit task: %w", err)
	}
	return nil
}

// Start launches the worker goroutines.
func (r *Runner) Start() {
	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.logger.Info("task runner started", "worker_count", r.config.WorkerCount)
}

// Stop gracefully shuts down the runner: no new submissions are
// accepted, in-flight tasks are cancelled through their context, and
// Stop returns once every worker has exited.
func (r *Runner) Stop() {
	r.queue.Close()
	r.cancelFunc()
	r.wg.Wait()
	r.logger.Info("task runner stopped")
}

// worker drains the queue until it is closed or the runner shuts down.
func (r *Runner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", "worker_id", id)
			return

		case task, ok := <-r.queue.GetChannel():
			if !ok {
				r.logger.Debug("task channel closed, stopping worker", "worker_id", id)
				return
			}

			r.processTask(task, id)
		}
	}
}

// processTask executes a single task, routing failures to the error
// handler. The task itself is responsible for recording its terminal
// state in the run store.
func (r *Runner) processTask(task Task, workerID int) {
	logger := r.logger.With(
		"task_id", task.ID(),
		"task_type", task.Type(),
		"worker_id", workerID,
	)

	logger.Info("processing task")

	if err := task.Execute(r.ctx); err != nil {
		logger.Error("task execution failed", "error", err)
		r.errHandler(task, err)
		return
	}

	logger.Info("task completed")
}
