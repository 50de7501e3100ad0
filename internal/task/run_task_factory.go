package task

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/bulkprompt-api/internal/domain"
	"github.com/phrazzld/bulkprompt-api/internal/events"
	"github.com/phrazzld/bulkprompt-api/internal/store"
)

// PromptRunTaskFactory creates PromptRunTask instances with shared
// dependencies, so the submission path only supplies the run ID and
// its parameters.
type PromptRunTaskFactory struct {
	runStore      store.RunStore
	emitter       events.Emitter
	settings      Settings
	clientFactory ClientFactory
	logger        *slog.Logger
}

// NewPromptRunTaskFactory creates a new factory for prompt-run tasks.
// A nil emitter disables lifecycle events; a nil clientFactory uses the
// real provider clients.
func NewPromptRunTaskFactory(
	runStore store.RunStore,
	emitter events.Emitter,
	settings Settings,
	clientFactory ClientFactory,
	logger *slog.Logger,
) *PromptRunTaskFactory {
	return &PromptRunTaskFactory{
		runStore:      runStore,
		emitter:       emitter,
		settings:      settings,
		clientFactory: clientFactory,
		logger:        logger.With("component", "prompt_run_task_factory"),
	}
}

// CreateTask creates the task executing the given run.
func (f *PromptRunTaskFactory) CreateTask(runID uuid.UUID, params domain.RunParams) (Task, error) {
	return NewPromptRunTask(
		runID,
		params,
		f.runStore,
		f.emitter,
		f.settings,
		f.clientFactory,
		f.logger,
	)
}
