package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupEnv sets up environment variables for testing
func setupEnv(t *testing.T, envVars map[string]string) func() {
	// Save current environment values
	originalValues := make(map[string]string)
	for name := range envVars {
		originalValues[name] = os.Getenv(name)
	}

	// Set new environment variables
	for name, value := range envVars {
		err := os.Setenv(name, value)
		require.NoError(t, err, "Failed to set environment variable %s", name)
	}

	// Return cleanup function
	return func() {
		// Restore original environment
		for name, value := range originalValues {
			if value == "" {
				os.Unsetenv(name)
			} else {
				os.Setenv(name, value)
			}
		}
	}
}

// TestLoadDefaults verifies that Load fills in the documented defaults
// when no environment variables are set.
func TestLoadDefaults(t *testing.T) {
	cleanup := setupEnv(t, map[string]string{
		"BULKPROMPT_SERVER_PORT":      "",
		"BULKPROMPT_SERVER_LOG_LEVEL": "",
	})
	defer cleanup()

	cfg, err := Load()

	require.NoError(t, err, "Load() should not return an error with default values")
	require.NotNil(t, cfg, "Load() should return a non-nil config")
	assert.Equal(t, 8080, cfg.Server.Port, "Default server port should be 8080")
	assert.Equal(t, "info", cfg.Server.LogLevel, "Default log level should be 'info'")
	assert.Equal(t, 4, cfg.Task.WorkerCount, "Default worker count should be 4")
	assert.Equal(t, 100, cfg.Task.QueueSize, "Default queue size should be 100")
	assert.Equal(t, time.Hour, cfg.Store.RunTTL, "Default run TTL should be 1h")
	assert.Equal(t, 5*time.Minute, cfg.Store.GCInterval, "Default GC interval should be 5m")
	assert.Equal(t, 90*time.Second, cfg.Provider.RequestTimeout, "Default request timeout should be 90s")
	assert.Equal(t, 3, cfg.Provider.MaxAttempts, "Default max attempts should be 3")
	assert.Equal(t, 10*time.Second, cfg.Provider.RetryBaseDelay, "Default retry base delay should be 10s")
	assert.Equal(t, 2*time.Second, cfg.Provider.RequestDelay, "Default request delay should be 2s")
	assert.Equal(t, 3*time.Second, cfg.Provider.BatchDelay, "Default batch delay should be 3s")
	assert.Equal(t, 1024, cfg.Provider.MaxTokens, "Default max tokens should be 1024")
	assert.Empty(t, cfg.Export.Dir, "Export dir should default to empty (disabled)")
}

// TestLoadFromEnv verifies that Load correctly reads values from environment variables.
func TestLoadFromEnv(t *testing.T) {
	cleanup := setupEnv(t, map[string]string{
		"BULKPROMPT_SERVER_PORT":              "9090",
		"BULKPROMPT_SERVER_LOG_LEVEL":         "debug",
		"BULKPROMPT_TASK_WORKER_COUNT":        "8",
		"BULKPROMPT_TASK_QUEUE_SIZE":          "250",
		"BULKPROMPT_STORE_RUN_TTL":            "30m",
		"BULKPROMPT_STORE_GC_INTERVAL":        "1m",
		"BULKPROMPT_PROVIDER_REQUEST_TIMEOUT": "45s",
		"BULKPROMPT_PROVIDER_MAX_ATTEMPTS":    "5",
		"BULKPROMPT_PROVIDER_MAX_TOKENS":      "2048",
		"BULKPROMPT_PROVIDER_OPENAI_BASE_URL": "http://localhost:9999/v1",
		"BULKPROMPT_EXPORT_DIR":               "/tmp/deposits",
	})
	defer cleanup()

	cfg, err := Load()

	require.NoError(t, err, "Load() should not return an error with valid environment variables")
	require.NotNil(t, cfg, "Load() should return a non-nil config")
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 8, cfg.Task.WorkerCount)
	assert.Equal(t, 250, cfg.Task.QueueSize)
	assert.Equal(t, 30*time.Minute, cfg.Store.RunTTL)
	assert.Equal(t, time.Minute, cfg.Store.GCInterval)
	assert.Equal(t, 45*time.Second, cfg.Provider.RequestTimeout)
	assert.Equal(t, 5, cfg.Provider.MaxAttempts)
	assert.Equal(t, 2048, cfg.Provider.MaxTokens)
	assert.Equal(t, "http://localhost:9999/v1", cfg.Provider.OpenAIBaseURL)
	assert.Equal(t, "/tmp/deposits", cfg.Export.Dir)
}

// TestLoadValidationErrors verifies that Load rejects out-of-range values.
func TestLoadValidationErrors(t *testing.T) {
	testCases := []struct {
		name           string
		envVars        map[string]string
		errorSubstring string
	}{
		{
			name: "Invalid port number",
			envVars: map[string]string{
				"BULKPROMPT_SERVER_PORT": "999999",
			},
			errorSubstring: "validation failed",
		},
		{
			name: "Invalid log level",
			envVars: map[string]string{
				"BULKPROMPT_SERVER_LOG_LEVEL": "verbose",
			},
			errorSubstring: "validation failed",
		},
		{
			name: "Zero worker count",
			envVars: map[string]string{
				"BULKPROMPT_TASK_WORKER_COUNT": "0",
			},
			errorSubstring: "validation failed",
		},
		{
			name: "Negative queue size",
			envVars: map[string]string{
				"BULKPROMPT_TASK_QUEUE_SIZE": "-1",
			},
			errorSubstring: "validation failed",
		},
		{
			name: "Malformed openai base URL",
			envVars: map[string]string{
				"BULKPROMPT_PROVIDER_OPENAI_BASE_URL": "not-a-url",
			},
			errorSubstring: "validation failed",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cleanup := setupEnv(t, tc.envVars)
			defer cleanup()

			cfg, err := Load()

			require.Error(t, err, "Load() should return an error for invalid configuration")
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tc.errorSubstring)
		})
	}
}

// TestZeroRunTTLAccepted verifies that disabling eviction is a valid
// configuration.
func TestZeroRunTTLAccepted(t *testing.T) {
	cleanup := setupEnv(t, map[string]string{
		"BULKPROMPT_STORE_RUN_TTL": "0s",
	})
	defer cleanup()

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), cfg.Store.RunTTL)
}
