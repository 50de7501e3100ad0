package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/bulkprompt-api/internal/api/shared"
	"github.com/phrazzld/bulkprompt-api/internal/domain"
	"github.com/phrazzld/bulkprompt-api/internal/export"
	"github.com/phrazzld/bulkprompt-api/internal/store"
	"github.com/phrazzld/bulkprompt-api/internal/task"
)

// TaskFactory creates the background task executing a run.
type TaskFactory interface {
	CreateTask(runID uuid.UUID, params domain.RunParams) (task.Task, error)
}

// TaskSubmitter enqueues a task for background execution.
type TaskSubmitter interface {
	Submit(ctx context.Context, t task.Task) error
}

// RunHandler handles run-related HTTP requests.
type RunHandler struct {
	runStore  store.RunStore
	factory   TaskFactory
	submitter TaskSubmitter
	logger    *slog.Logger
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(
	runStore store.RunStore,
	factory TaskFactory,
	submitter TaskSubmitter,
	logger *slog.Logger,
) *RunHandler {
	return &RunHandler{
		runStore:  runStore,
		factory:   factory,
		submitter: submitter,
		logger:    logger.With("component", "run_handler"),
	}
}

// CreateRun handles POST /api/runs requests. Validation failures are
// rejected before any run record exists; a successful submission
// enqueues the run and answers 202 with the run ID for polling.
func (h *RunHandler) CreateRun(w http.ResponseWriter, r *http.Request) {
	var req CreateRunRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	params := req.toParams()

	run, err := domain.NewRun(params.Prompts)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	if err := h.runStore.Create(r.Context(), run); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to register run", err)
		return
	}

	t, err := h.factory.CreateTask(run.ID, params)
	if err != nil {
		h.discardRun(r.Context(), run.ID)
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to create run task", err)
		return
	}

	if err := h.submitter.Submit(r.Context(), t); err != nil {
		h.discardRun(r.Context(), run.ID)
		if errors.Is(err, task.ErrQueueFull) {
			shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable,
				"Server is at capacity, try again later", err)
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to start processing", err)
		return
	}

	h.logger.Info("run submitted",
		"run_id", run.ID,
		"prompt_count", len(params.Prompts),
		"provider", params.Provider,
		"mode", params.Mode)

	shared.RespondWithJSON(w, r, http.StatusAccepted, CreateRunResponse{
		Message: "Processing started",
		RunID:   run.ID.String(),
	})
}

// GetRun handles GET /api/runs/{id} requests: the status poll.
func (h *RunHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := h.fetchRun(w, r)
	if !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, runToResponse(run))
}

// ExportRun handles GET /api/runs/{id}/export requests, serving the
// completed run's prompt/answer pairs as a CSV download.
func (h *RunHandler) ExportRun(w http.ResponseWriter, r *http.Request) {
	run, ok := h.fetchRun(w, r)
	if !ok {
		return
	}

	if run.Status != domain.RunStatusCompleted {
		shared.RespondWithError(w, r, http.StatusConflict,
			fmt.Sprintf("Run is %s, results are only exportable once completed", run.Status))
		return
	}

	pairs, err := export.Pairs(run)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to assemble export", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.FileName(run)))

	if err := export.WriteCSV(w, pairs); err != nil {
		h.logger.Error("failed to stream export", "run_id", run.ID, "error", err)
	}
}

// fetchRun resolves the {id} URL parameter to a run snapshot, writing
// the error response itself when resolution fails.
func (h *RunHandler) fetchRun(w http.ResponseWriter, r *http.Request) (*domain.Run, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid run ID")
		return nil, false
	}

	run, err := h.runStore.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrRunNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Run not found")
			return nil, false
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to load run", err)
		return nil, false
	}

	return run, true
}

// discardRun rolls back the run record of a submission that could not
// be enqueued.
func (h *RunHandler) discardRun(ctx context.Context, id uuid.UUID) {
	if err := h.runStore.Delete(ctx, id); err != nil {
		h.logger.Error("failed to discard run record", "run_id", id, "error", err)
	}
}
