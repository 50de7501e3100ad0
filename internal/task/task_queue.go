package task

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Common errors returned by the Queue
var (
	ErrQueueClosed = errors.New("task queue is closed")
	ErrQueueFull   = errors.New("task queue is full")
)

// Queue is a bounded in-memory task queue satisfying both QueueReader
// and QueueWriter. A full queue rejects submissions rather than
// blocking the caller, which is how backpressure reaches the HTTP
// layer.
type Queue struct {
	mu     sync.Mutex
	tasks  chan Task
	closed bool
	logger *slog.Logger
}

// NewQueue creates a task queue with the given buffer size.
func NewQueue(size int, logger *slog.Logger) *Queue {
	return &Queue{
		tasks:  make(chan Task, size),
		logger: logger.With("component", "task_queue"),
	}
}

// Enqueue adds a task to the queue for processing.
func (q *Queue) Enqueue(task Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.tasks <- task:
		q.logger.Debug("task enqueued",
			"task_id", task.ID(),
			"task_type", task.Type(),
			"queue_len", len(q.tasks),
			"queue_cap", cap(q.tasks))
		return nil
	default:
		return fmt.Errorf("%w: capacity %d reached", ErrQueueFull, cap(q.tasks))
	}
}

// Close closes the queue, preventing further submission. Safe to call
// more than once.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.tasks)
		q.logger.Info("task queue closed")
	}
}

// GetChannel returns a read-only channel for consuming tasks.
func (q *Queue) GetChannel() <-chan Task {
	return q.tasks
}
