package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	events []*RunEvent
	err    error
}

func (h *recordingHandler) HandleEvent(ctx context.Context, event *RunEvent) error {
	h.events = append(h.events, event)
	return h.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewRunEvent(t *testing.T) {
	runID := uuid.New()
	event := NewRunEvent(EventRunCompleted, runID)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, EventRunCompleted, event.Type)
	assert.Equal(t, runID, event.RunID)
	assert.False(t, event.CreatedAt.IsZero())
}

func TestEmitEventDeliversToAllHandlers(t *testing.T) {
	emitter := NewInMemoryEmitter(testLogger())
	first := &recordingHandler{}
	second := &recordingHandler{}
	emitter.RegisterHandler(first)
	emitter.RegisterHandler(second)

	event := NewRunEvent(EventRunCompleted, uuid.New())
	require.NoError(t, emitter.EmitEvent(context.Background(), event))

	require.Len(t, first.events, 1)
	require.Len(t, second.events, 1)
	assert.Equal(t, event, first.events[0])
}

func TestEmitEventNoHandlers(t *testing.T) {
	emitter := NewInMemoryEmitter(testLogger())
	assert.NoError(t, emitter.EmitEvent(context.Background(), NewRunEvent(EventRunFailed, uuid.New())))
}

func TestEmitEventHandlerErrorDoesNotStopDelivery(t *testing.T) {
	emitter := NewInMemoryEmitter(testLogger())
	failing := &recordingHandler{err: errors.New("sink unavailable")}
	healthy := &recordingHandler{}
	emitter.RegisterHandler(failing)
	emitter.RegisterHandler(healthy)

	err := emitter.EmitEvent(context.Background(), NewRunEvent(EventRunCompleted, uuid.New()))
	assert.EqualError(t, err, "sink unavailable")
	assert.Len(t, healthy.events, 1, "later handlers still receive the event")
}
