package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/bulkprompt-api/internal/api"
	"github.com/phrazzld/bulkprompt-api/internal/config"
	"github.com/phrazzld/bulkprompt-api/internal/events"
	"github.com/phrazzld/bulkprompt-api/internal/export"
	"github.com/phrazzld/bulkprompt-api/internal/store"
	"github.com/phrazzld/bulkprompt-api/internal/task"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	runStore *store.MemoryRunStore
	emitter  *events.InMemoryEmitter

	taskRunner *task.Runner
	runHandler *api.RunHandler
}

// newApplication creates a new application instance with all
// dependencies initialized. The task runner is started here; callers
// are responsible for invoking Run (which stops it on shutdown).
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	app.runStore = store.NewMemoryRunStore(cfg.Store.RunTTL, logger)
	app.runStore.StartJanitor(cfg.Store.GCInterval)

	app.emitter = events.NewInMemoryEmitter(logger)

	// Optional on-disk deposit of completed runs.
	if cfg.Export.Dir != "" {
		sink, err := export.NewDirectorySink(cfg.Export.Dir, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize deposit sink: %w", err)
		}
		app.emitter.RegisterHandler(export.NewDepositEventHandler(app.runStore, sink, logger))
		logger.Info("Deposit sink registered", "dir", cfg.Export.Dir)
	}

	taskFactory := task.NewPromptRunTaskFactory(
		app.runStore,
		app.emitter,
		task.Settings{
			RequestTimeout:   cfg.Provider.RequestTimeout,
			MaxAttempts:      cfg.Provider.MaxAttempts,
			RetryBaseDelay:   cfg.Provider.RetryBaseDelay,
			RequestDelay:     cfg.Provider.RequestDelay,
			BatchDelay:       cfg.Provider.BatchDelay,
			MaxTokens:        cfg.Provider.MaxTokens,
			OpenAIBaseURL:    cfg.Provider.OpenAIBaseURL,
			AnthropicBaseURL: cfg.Provider.AnthropicBaseURL,
		},
		nil, // real provider clients
		logger,
	)

	app.taskRunner = task.NewRunner(task.RunnerConfig{
		WorkerCount: cfg.Task.WorkerCount,
		QueueSize:   cfg.Task.QueueSize,
	}, logger)
	app.taskRunner.Start()

	app.runHandler = api.NewRunHandler(app.runStore, taskFactory, app.taskRunner, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources: the task
// runner drains in-flight runs before the janitor stops.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}
	if app.runStore != nil {
		app.runStore.StopJanitor()
	}

	app.logger.Info("Application shutdown completed")
}
