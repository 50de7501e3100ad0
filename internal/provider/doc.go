// Package provider adapts jobs to the chat-completion HTTP APIs of the
// supported LLM providers and classifies their failures into the retry
// taxonomy: rate-limited and transient errors are worth retrying,
// permanent errors are not. The RetryPolicy wraps a single-job attempt
// with bounded exponential backoff; an exhausted or permanently failed
// job degrades to a nil answer instead of failing the run.
package provider
