// Package config handles configuration loading, parsing, and validation
// from environment variables (BULKPROMPT_ prefix) and an optional config
// file. It provides type-safe access to server, task-runner, store, and
// provider settings while keeping configuration details separate from
// business logic.
package config
