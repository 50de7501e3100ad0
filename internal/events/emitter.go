package events

import (
	"context"
	"log/slog"
	"sync"
)

// InMemoryEmitter dispatches events synchronously to the handlers
// registered with it. A handler error does not stop delivery to the
// remaining handlers; the first error is returned.
type InMemoryEmitter struct {
	mu       sync.RWMutex
	handlers []Handler
	logger   *slog.Logger
}

// NewInMemoryEmitter creates an emitter with no handlers registered.
func NewInMemoryEmitter(logger *slog.Logger) *InMemoryEmitter {
	return &InMemoryEmitter{
		logger: logger.With("component", "event_emitter"),
	}
}

// RegisterHandler adds a handler to receive future events.
func (e *InMemoryEmitter) RegisterHandler(handler Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handler)
	e.logger.Debug("registered event handler", "handler_count", len(e.handlers))
}

// EmitEvent publishes the event to every registered handler.
func (e *InMemoryEmitter) EmitEvent(ctx context.Context, event *RunEvent) error {
	e.mu.RLock()
	handlers := make([]Handler, len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	if len(handlers) == 0 {
		e.logger.Debug("no handlers registered for event",
			"event_type", event.Type,
			"run_id", event.RunID)
		return nil
	}

	var firstErr error
	for _, handler := range handlers {
		if err := handler.HandleEvent(ctx, event); err != nil {
			e.logger.Error("event handler failed",
				"error", err,
				"event_type", event.Type,
				"run_id", event.RunID)
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
