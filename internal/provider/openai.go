package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/phrazzld/bulkprompt-api/internal/domain"
)

// OpenAIClient targets the OpenAI chat-completions API and any
// compatible endpoint reachable through BaseURL.
type OpenAIClient struct {
	url       string
	apiKey    string
	hc        *http.Client
	ownedPool bool
}

// NewOpenAIClient builds a client for the OpenAI wire format.
func NewOpenAIClient(cfg Config) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: missing API key", ErrInvalidConfig)
	}

	base := cfg.BaseURL
	if base == "" {
		base = DefaultOpenAIBaseURL
	}

	hc, owned := cfg.httpClient()
	return &OpenAIClient{
		url:       base + "/chat/completions",
		apiKey:    cfg.APIKey,
		hc:        hc,
		ownedPool: owned,
	}, nil
}

type openAIRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	TopP        float64       `json:"top_p"`
	Seed        int           `json:"seed"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one chat-completion request and returns the first
// choice's message content, or an empty string when the shape is absent.
func (c *OpenAIClient) Complete(ctx context.Context, job domain.Job) (string, error) {
	body, err := json.Marshal(openAIRequest{
		Model:       job.Model,
		Messages:    []chatMessage{{Role: "user", Content: job.FullPrompt()}},
		Temperature: job.Temperature,
		TopP:        1,
		Seed:        job.Seed,
	})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrPermanent, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrPermanent, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

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

	var decoded openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrPermanent, err)
	}

	if len(decoded.Choices) == 0 {
		return "", nil
	}

	return decoded.Choices[0].Message.Content, nil
}

// Close releases the owned connection pool. Injected transports are
// left alone.
func (c *OpenAIClient) Close() {
	if c.ownedPool {
		c.hc.CloseIdleConnections()
	}
}
