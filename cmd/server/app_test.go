package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/bulkprompt-api/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Server: config.ServerConfig{Port: 0, LogLevel: "error"},
		Task:   config.TaskConfig{WorkerCount: 1, QueueSize: 4},
		Store:  config.StoreConfig{RunTTL: 0, GCInterval: time.Minute},
		Provider: config.ProviderConfig{
			RequestTimeout: 5 * time.Second,
			MaxAttempts:    1,
			RetryBaseDelay: time.Millisecond,
			MaxTokens:      16,
		},
	}
}

func newTestApp(t *testing.T) *application {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := newApplication(testConfig(t), logger)
	require.NoError(t, err)
	t.Cleanup(app.cleanup)
	return app
}

func TestNewApplicationWiresDependencies(t *testing.T) {
	app := newTestApp(t)

	assert.NotNil(t, app.runStore)
	assert.NotNil(t, app.emitter)
	assert.NotNil(t, app.taskRunner)
	assert.NotNil(t, app.runHandler)
}

func TestNewApplicationRejectsUnusableExportDir(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(t)
	// A regular file cannot serve as the deposit directory.
	cfg.Export.Dir = "/dev/null"

	_, err := newApplication(cfg, logger)
	assert.Error(t, err)
}

func TestRouterEndpoints(t *testing.T) {
	app := newTestApp(t)
	router := app.setupRouter()

	t.Run("health check", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
	})

	t.Run("run submission validates payloads", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/runs", strings.NewReader(`{}`))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown run answers 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			"/api/runs/00000000-0000-0000-0000-000000000001", nil)
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown route answers 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cards", nil))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
