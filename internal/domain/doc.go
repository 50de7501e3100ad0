// Package domain contains the core types for bulk prompt processing:
// runs (one end-to-end processing request tracked through its lifecycle)
// and jobs (a single prompt's request to an LLM provider). Types here
// have no dependencies on transport, storage, or provider packages.
package domain
