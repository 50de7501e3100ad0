package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/phrazzld/bulkprompt-api/internal/domain"
)

// Common errors returned by RunStore implementations
var (
	// ErrRunNotFound is returned when no run exists for the given ID,
	// either because it never existed or because it was evicted.
	ErrRunNotFound = errors.New("run not found")
)

// RunStore persists run records. Implementations must be safe for
// concurrent use; callers follow a single-writer-per-key discipline
// (only the task owning a run ID mutates it) with any number of
// concurrent readers.
type RunStore interface {
	// Create registers a new run record. The run ID must not already exist.
	Create(ctx context.Context, run *domain.Run) error

	// Get returns a snapshot of the run with the given ID, or
	// ErrRunNotFound. The snapshot is a copy; mutating it has no
	// effect on the stored record.
	Get(ctx context.Context, id uuid.UUID) (*domain.Run, error)

	// UpdateProgress sets the progress string of a processing run.
	UpdateProgress(ctx context.Context, id uuid.UUID, progress string) error

	// Complete transitions the run to completed with the ordered
	// answer list.
	Complete(ctx context.Context, id uuid.UUID, results []*string) error

	// Fail transitions the run to failed with the given reason.
	Fail(ctx context.Context, id uuid.UUID, reason string) error

	// Delete removes the run record. Used to roll back a submission
	// whose task could not be enqueued, and by TTL eviction.
	Delete(ctx context.Context, id uuid.UUID) error
}
