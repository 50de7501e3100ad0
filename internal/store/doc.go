// Package store defines the run registry: a narrow key-value interface
// over run records plus an in-memory implementation with TTL eviction
// of terminal runs. The interface keeps the scheduler decoupled from
// the backing store so a durable implementation can be swapped in
// without touching task execution.
package store
