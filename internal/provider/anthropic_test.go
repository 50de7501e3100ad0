package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/bulkprompt-api/internal/domain"
)

func anthropicJob() domain.Job {
	return domain.Job{
		Prompt:      "What is Go?",
		Model:       "claude-3-haiku",
		Provider:    domain.ProviderAnthropic,
		Temperature: 0.5,
		Seed:        12345,
	}
}

func TestAnthropicClientComplete(t *testing.T) {
	var captured struct {
		apiKey  string
		version string
		body    map[string]any
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.apiKey = r.Header.Get("x-api-key")
		captured.version = r.Header.Get("anthropic-version")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured.body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"text":"hello"}]}`))
	}))
	defer srv.Close()

	client, err := NewAnthropicClient(Config{APIKey: "ak-test", BaseURL: srv.URL, MaxTokens: 512})
	require.NoError(t, err)
	defer client.Close()

	answer, err := client.Complete(context.Background(), anthropicJob())
	require.NoError(t, err)
	assert.Equal(t, "hello", answer)

	assert.Equal(t, "ak-test", captured.apiKey)
	assert.Equal(t, "2023-06-01", captured.version)
	assert.Equal(t, "claude-3-haiku", captured.body["model"])
	assert.Equal(t, float64(512), captured.body["max_tokens"])
	assert.Equal(t, 0.5, captured.body["temperature"])

	// The seed parameter is not part of this wire format.
	_, hasSeed := captured.body["seed"]
	assert.False(t, hasSeed)
}

func TestAnthropicClientMissingContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer srv.Close()

	client, err := NewAnthropicClient(Config{APIKey: "ak-test", BaseURL: srv.URL})
	require.NoError(t, err)

	answer, err := client.Complete(context.Background(), anthropicJob())
	require.NoError(t, err)
	assert.Equal(t, "", answer)
}

func TestAnthropicClientDefaultMaxTokens(t *testing.T) {
	var gotMaxTokens float64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotMaxTokens = body["max_tokens"].(float64)
		_, _ = w.Write([]byte(`{"content":[{"text":"ok"}]}`))
	}))
	defer srv.Close()

	client, err := NewAnthropicClient(Config{APIKey: "ak-test", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), anthropicJob())
	require.NoError(t, err)
	assert.Equal(t, float64(DefaultMaxTokens), gotMaxTokens)
}

func TestAnthropicClientRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client, err := NewAnthropicClient(Config{APIKey: "ak-test", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), anthropicJob())
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestNewAnthropicClientMissingKey(t *testing.T) {
	_, err := NewAnthropicClient(Config{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
