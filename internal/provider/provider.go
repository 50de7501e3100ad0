package provider

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/phrazzld/bulkprompt-api/internal/domain"
)

// Default endpoints and limits
const (
	DefaultOpenAIBaseURL    = "https://api.openai.com/v1"
	DefaultAnthropicBaseURL = "https://api.anthropic.com/v1"
	DefaultTimeout          = 90 * time.Second
	DefaultMaxTokens        = 1024
)

// Client performs a single chat-completion request for a job and
// extracts the generated answer text. Implementations must be safe for
// concurrent use; quick mode dispatches a whole batch against one
// client. Errors are classified per errors.go.
type Client interface {
	// Complete sends the job's full prompt to the provider and returns
	// the generated answer. A response whose expected fields are
	// absent yields an empty string, not an error.
	Complete(ctx context.Context, job domain.Job) (string, error)

	// Close releases the connection pool held for the run.
	Close()
}

// Config holds the settings shared by the provider clients. One client
// (and therefore one connection pool) is created per run and released
// when the run reaches a terminal state.
type Config struct {
	// APIKey is the caller-supplied provider credential. Required.
	APIKey string

	// BaseURL overrides the provider's default API root. Optional.
	BaseURL string

	// Timeout bounds each outbound request. Exceeding it is a
	// transient failure. Defaults to DefaultTimeout.
	Timeout time.Duration

	// MaxTokens is the response-length ceiling sent to providers that
	// require one (Anthropic). Defaults to DefaultMaxTokens.
	MaxTokens int

	// HTTPClient overrides the transport, mainly for tests. When set,
	// Close does not touch it.
	HTTPClient *http.Client
}

// NewClient constructs the adapter for the given provider.
func NewClient(p domain.Provider, cfg Config) (Client, error) {
	switch p {
	case domain.ProviderOpenAI:
		return NewOpenAIClient(cfg)
	case domain.ProviderAnthropic:
		return NewAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, p)
	}
}

// httpClient returns the configured transport, building an owned one
// when none was injected. The second result reports ownership.
func (c Config) httpClient() (*http.Client, bool) {
	if c.HTTPClient != nil {
		return c.HTTPClient, false
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &http.Client{Timeout: timeout}, true
}

// statusError converts a non-success HTTP status into the retry
// taxonomy: 429 becomes a RateLimitError carrying any Retry-After
// hint, everything else is permanent.
func statusError(resp *http.Response) error {
	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{RetryAfter: retryAfterHint(resp)}
	}

	return fmt.Errorf("%w: unexpected status %d", ErrPermanent, resp.StatusCode)
}

// retryAfterHint parses the Retry-After header, accepting the
// delta-seconds form or an HTTP date. Returns zero when absent or
// unusable.
func retryAfterHint(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	if at, err := http.ParseTime(header); err == nil {
		if wait := time.Until(at); wait > 0 {
			return wait
		}
	}

	return 0
}

// chatMessage is the user-turn message shape shared by both wire formats.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
