package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/phrazzld/bulkprompt-api/internal/domain"
)

// anthropicVersion is the fixed protocol-version header the messages
// API requires.
const anthropicVersion = "2023-06-01"

// AnthropicClient targets the Anthropic messages API.
type AnthropicClient struct {
	url       string
	apiKey    string
	maxTokens int
	hc        *http.Client
	ownedPool bool
}

// NewAnthropicClient builds a client for the Anthropic wire format.
func NewAnthropicClient(cfg Config) (*AnthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing API key", ErrInvalidConfig)
	}

	base := cfg.BaseURL
	if base == "" {
		base = DefaultAnthropicBaseURL
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	hc, owned := cfg.httpClient()
	return &AnthropicClient{
		url:       base + "/messages",
		apiKey:    cfg.APIKey,
		maxTokens: maxTokens,
		hc:        hc,
		ownedPool: owned,
	}, nil
}

type anthropicRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

// Complete sends one messages request and returns the first content
// block's text, or an empty string when the shape is absent. The seed
// parameter is not part of this wire format and is not sent.
func (c *AnthropicClient) Complete(ctx context.Context, job domain.Job) (string, error) {
	body, err := json.Marshal(anthropicRequest{
		Model:       job.Model,
		MaxTokens:   c.maxTokens,
		Messages:    []chatMessage{{Role: "user", Content: job.FullPrompt()}},
		Temperature: job.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrPermanent, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrPermanent, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", statusError(resp)
	}

	var decoded anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrPermanent, err)
	}

	if len(decoded.Content) == 0 {
		return "", nil
	}

	return decoded.Content[0].Text, nil
}

// Close releases the owned connection pool.
func (c *AnthropicClient) Close() {
	if c.ownedPool {
		c.hc.CloseIdleConnections()
	}
}
