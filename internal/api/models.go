package api

import (
	"github.com/phrazzld/bulkprompt-api/internal/domain"
)

// CreateRunRequest defines the payload for the run submission endpoint.
// BatchSize is required (and must be positive) only in quick mode.
type CreateRunRequest struct {
	Prompts      []string `json:"prompts"      validate:"required,min=1,dive,required"`
	Model        string   `json:"model"        validate:"required"`
	Provider     string   `json:"provider"     validate:"required,oneof=openai anthropic"`
	Instructions string   `json:"instructions"`
	APIKey       string   `json:"api_key"      validate:"required"`
	Temperature  float64  `json:"temperature"  validate:"gte=0,lte=1"`
	Seed         int      `json:"seed"`
	Mode         string   `json:"mode"         validate:"required,oneof=quick high_accuracy"`
	BatchSize    int      `json:"batch_size"   validate:"required_if=Mode quick,omitempty,gt=0"`
}

// toParams converts the validated request into domain run parameters.
func (r CreateRunRequest) toParams() domain.RunParams {
	return domain.RunParams{
		Prompts:      r.Prompts,
		Model:        r.Model,
		Provider:     domain.Provider(r.Provider),
		Instructions: r.Instructions,
		APIKey:       r.APIKey,
		Temperature:  r.Temperature,
		Seed:         r.Seed,
		Mode:         domain.Mode(r.Mode),
		BatchSize:    r.BatchSize,
	}
}

// CreateRunResponse defines the successful response for run submission.
type CreateRunResponse struct {
	Message string `json:"message"`
	RunID   string `json:"run_id"`
}

// RunResponse defines the status-poll response. Exactly one of Results
// (completed) and Error (failed) is present; neither while processing.
type RunResponse struct {
	ID       string    `json:"id"`
	Status   string    `json:"status"`
	Progress string    `json:"progress,omitempty"`
	Results  []*string `json:"results,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// runToResponse converts a run snapshot to its wire representation.
func runToResponse(run *domain.Run) RunResponse {
	return RunResponse{
		ID:       run.ID.String(),
		Status:   string(run.Status),
		Progress: run.Progress,
		Results:  run.Results,
		Error:    run.Error,
	}
}
