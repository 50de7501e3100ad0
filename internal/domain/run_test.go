package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestNewRun(t *testing.T) {
	t.Run("creates processing run with fresh id", func(t *testing.T) {
		run, err := NewRun([]string{"one", "two"})
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, run.ID)
		assert.Equal(t, RunStatusProcessing, run.Status)
		assert.Empty(t, run.Progress)
		assert.Nil(t, run.Results)
		assert.Empty(t, run.Error)
		assert.False(t, run.Terminal())
	})

	t.Run("rejects empty prompt list", func(t *testing.T) {
		run, err := NewRun(nil)
		assert.ErrorIs(t, err, ErrNoPrompts)
		assert.Nil(t, run)
	})
}

func TestRunComplete(t *testing.T) {
	run, err := NewRun([]string{"a", "b", "c"})
	require.NoError(t, err)
	require.NoError(t, run.SetProgress("Processing prompt 2 of 3"))

	results := []*string{strPtr("x"), nil, strPtr("z")}
	require.NoError(t, run.Complete(results))

	assert.Equal(t, RunStatusCompleted, run.Status)
	assert.Equal(t, results, run.Results)
	assert.Empty(t, run.Error, "completed run must not carry an error")
	assert.Empty(t, run.Progress, "terminal run must not carry progress")
	assert.True(t, run.Terminal())

	// Transitions are monotonic: a terminal run never changes again.
	assert.ErrorIs(t, run.Complete(results), ErrRunTerminal)
	assert.ErrorIs(t, run.Fail("late failure"), ErrRunTerminal)
	assert.ErrorIs(t, run.SetProgress("more"), ErrRunTerminal)
}

func TestRunCompleteCountMismatch(t *testing.T) {
	run, err := NewRun([]string{"a", "b"})
	require.NoError(t, err)

	err = run.Complete([]*string{strPtr("only one")})
	assert.ErrorIs(t, err, ErrResultCount)
	assert.Equal(t, RunStatusProcessing, run.Status)
}

func TestRunFail(t *testing.T) {
	run, err := NewRun([]string{"a"})
	require.NoError(t, err)

	require.NoError(t, run.Fail("provider unreachable"))

	assert.Equal(t, RunStatusFailed, run.Status)
	assert.Equal(t, "provider unreachable", run.Error)
	assert.Nil(t, run.Results, "failed run must not carry results")
	assert.ErrorIs(t, run.Complete([]*string{nil}), ErrRunTerminal)
}

func TestRunFailEmptyReason(t *testing.T) {
	run, err := NewRun([]string{"a"})
	require.NoError(t, err)

	assert.ErrorIs(t, run.Fail(""), ErrEmptyFailReason)
	assert.Equal(t, RunStatusProcessing, run.Status)
}

func TestRunClone(t *testing.T) {
	run, err := NewRun([]string{"a", "b"})
	require.NoError(t, err)
	require.NoError(t, run.Complete([]*string{strPtr("one"), nil}))

	clone := run.Clone()
	assert.Equal(t, run, clone)

	// Mutating the clone must not affect the original.
	clone.Prompts[0] = "changed"
	*clone.Results[0] = "changed"
	assert.Equal(t, "a", run.Prompts[0])
	assert.Equal(t, "one", *run.Results[0])
}
