package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunStatus represents the processing state of a run
type RunStatus string

// Possible run status values
const (
	RunStatusProcessing RunStatus = "processing"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusFailed     RunStatus = "failed"
)

// Common validation errors for Run
var (
	ErrEmptyRunID      = errors.New("run ID cannot be empty")
	ErrNoPrompts       = errors.New("run must contain at least one prompt")
	ErrRunTerminal     = errors.New("run is already in a terminal state")
	ErrResultCount     = errors.New("result count does not match prompt count")
	ErrEmptyFailReason = errors.New("failure reason cannot be empty")
)

// Run represents one bulk prompt-processing request. It is created at
// submission time in the processing state and transitions exactly once
// to completed or failed, never backward.
//
// Exactly one of the following holds at any time:
//   - Status == processing: Results and Error are both unset
//   - Status == completed:  Results is set, Error is unset
//   - Status == failed:     Error is set, Results is unset
type Run struct {
	ID        uuid.UUID `json:"id"`
	Prompts   []string  `json:"-"`
	Status    RunStatus `json:"status"`
	Progress  string    `json:"progress,omitempty"`
	Results   []*string `json:"results,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewRun creates a new Run for the given prompts with a fresh ID and
// processing status. Returns an error if the prompt list is empty.
func NewRun(prompts []string) (*Run, error) {
	if len(prompts) == 0 {
		return nil, ErrNoPrompts
	}

	now := time.Now().UTC()
	return &Run{
		ID:        uuid.New(),
		Prompts:   prompts,
		Status:    RunStatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Terminal reports whether the run has reached a final state.
func (r *Run) Terminal() bool {
	return r.Status == RunStatusCompleted || r.Status == RunStatusFailed
}

// SetProgress updates the human-readable progress string. Progress is
// only meaningful while the run is processing.
func (r *Run) SetProgress(progress string) error {
	if r.Terminal() {
		return ErrRunTerminal
	}

	r.Progress = progress
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// Complete transitions the run to the completed state with the final
// ordered answer list. A nil element marks a prompt whose request
// failed permanently. The transition is rejected if the run is already
// terminal or the result count does not match the prompt count.
func (r *Run) Complete(results []*string) error {
	if r.Terminal() {
		return ErrRunTerminal
	}

	if len(results) != len(r.Prompts) {
		return fmt.Errorf("%w: %d results for %d prompts", ErrResultCount, len(results), len(r.Prompts))
	}

	r.Status = RunStatusCompleted
	r.Results = results
	r.Progress = ""
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// Fail transitions the run to the failed state with the given reason.
func (r *Run) Fail(reason string) error {
	if r.Terminal() {
		return ErrRunTerminal
	}

	if reason == "" {
		return ErrEmptyFailReason
	}

	r.Status = RunStatusFailed
	r.Error = reason
	r.Progress = ""
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// Clone returns a deep copy of the run so readers never alias the
// slices mutated by the owning scheduler.
func (r *Run) Clone() *Run {
	c := *r

	c.Prompts = make([]string, len(r.Prompts))
	copy(c.Prompts, r.Prompts)

	if r.Results != nil {
		c.Results = make([]*string, len(r.Results))
		for i, res := range r.Results {
			if res != nil {
				v := *res
				c.Results[i] = &v
			}
		}
	}

	return &c
}
