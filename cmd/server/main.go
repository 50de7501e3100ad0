// Package main implements the entry point for the Bulkprompt API
// server, which fans user-supplied prompt batches out to LLM providers
// and serves the collected answers.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/phrazzld/bulkprompt-api/internal/config"
	"github.com/phrazzld/bulkprompt-api/internal/platform/logger"
)

// main is the entry point for the bulkprompt-api server. It loads
// configuration, sets up logging, wires the application dependencies,
// and runs the HTTP server until shutdown.
func main() {
	cfg, appLogger, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to wire application: %v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration and sets up structured logging.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"worker_count", cfg.Task.WorkerCount,
		"queue_size", cfg.Task.QueueSize)

	if cfg.Export.Dir != "" {
		appLogger.Debug("Result deposit enabled", "dir", cfg.Export.Dir)
	}

	return cfg, appLogger, nil
}
