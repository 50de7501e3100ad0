package export

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/bulkprompt-api/internal/events"
	"github.com/phrazzld/bulkprompt-api/internal/store"
)

// DepositEventHandler reacts to run-completed events by fetching the
// run from the store and handing its pairs to the sink. Failed runs
// and events of other types are ignored.
type DepositEventHandler struct {
	store  store.RunStore
	sink   Sink
	logger *slog.Logger
}

// NewDepositEventHandler wires a sink to the run store.
func NewDepositEventHandler(runStore store.RunStore, sink Sink, logger *slog.Logger) *DepositEventHandler {
	return &DepositEventHandler{
		store:  runStore,
		sink:   sink,
		logger: logger.With("component", "deposit_event_handler"),
	}
}

// HandleEvent deposits the completed run's results.
func (h *DepositEventHandler) HandleEvent(ctx context.Context, event *events.RunEvent) error {
	if event.Type != events.EventRunCompleted {
		return nil
	}

	run, err := h.store.Get(ctx, event.RunID)
	if err != nil {
		return fmt.Errorf("fetch completed run: %w", err)
	}

	pairs, err := Pairs(run)
	if err != nil {
		return err
	}

	if err := h.sink.Deposit(ctx, FileName(run), pairs); err != nil {
		return fmt.Errorf("deposit run %s: %w", run.ID, err)
	}

	h.logger.Debug("run results deposited", "run_id", run.ID)
	return nil
}
