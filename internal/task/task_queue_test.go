package task

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTask implements the Task interface for testing
type mockTask struct {
	id     uuid.UUID
	status Status
	execFn func(ctx context.Context) error
}

func (m *mockTask) ID() uuid.UUID { return m.id }

func (m *mockTask) Type() string { return "mock" }

func (m *mockTask) Status() Status { return m.status }

func (m *mockTask) Execute(ctx context.Context) error {
	if m.execFn != nil {
		return m.execFn(ctx)
	}
	return nil
}

func newMockTask() *mockTask {
	return &mockTask{id: uuid.New(), status: StatusPending}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func TestQueueEnqueue(t *testing.T) {
	queue := NewQueue(2, testLogger())

	require.NoError(t, queue.Enqueue(newMockTask()))
	require.NoError(t, queue.Enqueue(newMockTask()))

	err := queue.Enqueue(newMockTask())
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestQueueClose(t *testing.T) {
	queue := NewQueue(2, testLogger())
	require.NoError(t, queue.Enqueue(newMockTask()))

	queue.Close()
	queue.Close() // idempotent

	assert.ErrorIs(t, queue.Enqueue(newMockTask()), ErrQueueClosed)

	// Already-enqueued tasks remain consumable after close.
	_, ok := <-queue.GetChannel()
	assert.True(t, ok)
	_, ok = <-queue.GetChannel()
	assert.False(t, ok, "channel drains and closes")
}
