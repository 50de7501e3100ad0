package export

import (
	"context"
	"fmt"

	"github.com/phrazzld/bulkprompt-api/internal/domain"
)

// Pair is one prompt with its answer. A nil answer marks a prompt whose
// request failed permanently during the run.
type Pair struct {
	Prompt string
	Answer *string
}

// Sink accepts a completed run's ordered pairs under a suggested file
// name. Implementations decide where the result actually lands.
type Sink interface {
	Deposit(ctx context.Context, name string, pairs []Pair) error
}

// Pairs zips a completed run's prompts with its results by original
// index. Returns an error unless the run is completed.
func Pairs(run *domain.Run) ([]Pair, error) {
	if run.Status != domain.RunStatusCompleted {
		return nil, fmt.Errorf("run %s is not completed (status %s)", run.ID, run.Status)
	}

	pairs := make([]Pair, len(run.Prompts))
	for i, prompt := range run.Prompts {
		pairs[i] = Pair{Prompt: prompt, Answer: run.Results[i]}
	}
	return pairs, nil
}

// FileName suggests a download file name for a run's result set.
func FileName(run *domain.Run) string {
	return fmt.Sprintf("answers-%s.csv", run.ID)
}
