// Package redact scrubs sensitive material from strings before they
// reach a log line or an HTTP error body. Caller-supplied provider API
// keys flow through every request this service makes, so any error
// bubbling up from the HTTP client may embed one.
package redact

import "regexp"

// Redaction placeholders
const (
	RedactedKeyPlaceholder  = "[REDACTED_KEY]"
	RedactedHostPlaceholder = "[REDACTED_HOST]"
)

// Precompiled patterns
var (
	// Bearer tokens in Authorization headers or error dumps
	bearerRegex = regexp.MustCompile(`(?i)bearer\s+[A-Za-z0-9_\-.~+/]{8,}`)

	// Provider API keys: OpenAI sk-..., Anthropic sk-ant-..., and
	// generic key=value shapes
	providerKeyRegex = regexp.MustCompile(`\bsk-[A-Za-z0-9_-]{8,}`)
	apiKeyRegex      = regexp.MustCompile(
		`(?i)(api[_-]?key|x-api-key|token|secret)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`,
	)

	// URLs with embedded credentials
	urlCredsRegex = regexp.MustCompile(`(?i)https?://[^@/\s]+@[^\s]+`)

	patterns = map[*regexp.Regexp]string{
		bearerRegex:      RedactedKeyPlaceholder,
		providerKeyRegex: RedactedKeyPlaceholder,
		apiKeyRegex:      RedactedKeyPlaceholder,
		urlCredsRegex:    RedactedHostPlaceholder,
	}
)

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for pattern, placeholder := range patterns {
		result = pattern.ReplaceAllString(result, placeholder)
	}

	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
