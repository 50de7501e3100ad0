// Package scheduler drives a run's jobs through the provider adapter:
// strictly sequential in high-accuracy mode, batched fan-out/fan-in in
// quick mode. Output order always matches input prompt order, and
// per-job failures have already been absorbed into nil answers by the
// retry policy before they reach the assembled result.
package scheduler
