package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the task layer
const (
	// EventRunCompleted announces that a run finished with results.
	EventRunCompleted = "run_completed"

	// EventRunFailed announces that a run failed as a whole.
	EventRunFailed = "run_failed"
)

// RunEvent announces a run lifecycle transition. It carries only the
// run ID; consumers fetch the record they need from the run store, so
// the event stays small and the store remains the single source of
// truth.
type RunEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the event type constants above
	Type string `json:"type"`

	// RunID identifies the run that transitioned
	RunID uuid.UUID `json:"run_id"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// NewRunEvent creates a RunEvent of the given type for a run.
func NewRunEvent(eventType string, runID uuid.UUID) *RunEvent {
	return &RunEvent{
		ID:        uuid.New(),
		Type:      eventType,
		RunID:     runID,
		CreatedAt: time.Now().UTC(),
	}
}

// Handler processes run events. Handlers must tolerate events of types
// they do not care about by returning nil.
type Handler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *RunEvent) error
}

// Emitter publishes run events to registered handlers, letting the task
// layer announce transitions without direct knowledge of consumers.
type Emitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *RunEvent) error
}
