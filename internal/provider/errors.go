package provider

import (
	"errors"
	"fmt"
	"time"
)

// Failure classification for a single provider request
var (
	// ErrRateLimited is returned when the provider answers HTTP 429.
	// Retryable with backoff; the server may supply a Retry-After hint.
	ErrRateLimited = errors.New("provider rate limited the request")

	// ErrTransient is returned for timeouts and connection-level
	// failures that may resolve on retry.
	ErrTransient = errors.New("transient provider failure")

	// ErrPermanent is returned for any other non-success status or an
	// undecodable response body. Retrying cannot fix these, so the
	// retry budget is not spent on them.
	ErrPermanent = errors.New("permanent provider request failure")

	// ErrInvalidConfig is returned when a client is constructed with
	// missing or invalid settings.
	ErrInvalidConfig = errors.New("invalid provider configuration")
)

// RateLimitError carries the server-supplied retry hint from a 429
// response. RetryAfter is zero when the server sent no usable hint.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("provider rate limited the request (retry after %s)", e.RetryAfter)
	}
	return ErrRateLimited.Error()
}

// Unwrap makes the error match ErrRateLimited under errors.Is.
func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

// Retryable reports whether the failure is worth another attempt.
func Retryable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTransient)
}
