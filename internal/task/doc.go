// Package task provides the background execution machinery: a bounded
// in-memory queue, a worker pool that drains it, and the task that
// carries one prompt-processing run from submission to its terminal
// state. Submission enqueues; workers execute; backpressure surfaces
// as a queue-full error instead of unbounded fire-and-forget
// goroutines.
package task
