package domain

import "errors"

// Provider identifies the external LLM API family a request targets.
type Provider string

// Supported providers
const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Mode selects the processing strategy for a run.
type Mode string

// Supported processing modes
const (
	// ModeQuick partitions prompts into fixed-size batches and runs each
	// batch's requests concurrently.
	ModeQuick Mode = "quick"

	// ModeHighAccuracy runs requests strictly one at a time.
	ModeHighAccuracy Mode = "high_accuracy"
)

// Common validation errors for run parameters
var (
	ErrInvalidProvider = errors.New("provider must be openai or anthropic")
	ErrInvalidMode     = errors.New("mode must be quick or high_accuracy")
	ErrEmptyAPIKey     = errors.New("API key cannot be empty")
	ErrEmptyModel      = errors.New("model cannot be empty")
	ErrInvalidBatch    = errors.New("batch size must be positive in quick mode")
	ErrTemperature     = errors.New("temperature must be between 0 and 1")
)

// Job is the immutable description of a single prompt's request to the
// provider, carrying its original position for result placement.
type Job struct {
	Index        int
	Prompt       string
	Model        string
	Provider     Provider
	Instructions string
	Temperature  float64
	Seed         int
}

// FullPrompt derives the text actually sent to the provider: the shared
// instruction prefix joined to the prompt by a newline when instructions
// are present, else the prompt verbatim.
func (j Job) FullPrompt() string {
	if j.Instructions == "" {
		return j.Prompt
	}
	return j.Instructions + "\n" + j.Prompt
}

// RunParams captures a validated submission: the prompts plus the
// provider configuration shared by every job in the run.
type RunParams struct {
	Prompts      []string
	Model        string
	Provider     Provider
	Instructions string
	APIKey       string
	Temperature  float64
	Seed         int
	Mode         Mode
	BatchSize    int
}

// Validate checks the submission preconditions. It mirrors the HTTP
// payload validation so programmatic callers get the same guarantees.
func (p RunParams) Validate() error {
	if len(p.Prompts) == 0 {
		return ErrNoPrompts
	}

	if p.APIKey == "" {
		return ErrEmptyAPIKey
	}

	if p.Model == "" {
		return ErrEmptyModel
	}

	switch p.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return ErrInvalidProvider
	}

	if p.Temperature < 0 || p.Temperature > 1 {
		return ErrTemperature
	}

	switch p.Mode {
	case ModeQuick:
		if p.BatchSize <= 0 {
			return ErrInvalidBatch
		}
	case ModeHighAccuracy:
	default:
		return ErrInvalidMode
	}

	return nil
}

// Jobs expands the parameters into one Job per prompt, preserving input
// order in Job.Index.
func (p RunParams) Jobs() []Job {
	jobs := make([]Job, len(p.Prompts))
	for i, prompt := range p.Prompts {
		jobs[i] = Job{
			Index:        i,
			Prompt:       prompt,
			Model:        p.Model,
			Provider:     p.Provider,
			Instructions: p.Instructions,
			Temperature:  p.Temperature,
			Seed:         p.Seed,
		}
	}
	return jobs
}
