// Package domain contains the core records of the evaluation service:
// experiments, per-model results, judge verdicts, and the pricing table
// used to derive cost metrics. The package has no infrastructure
// dependencies and all types are safe to share across goroutines once
// constructed.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Experiment is one user submission: a prompt together with every
// per-model result it produced. Experiments are append-only; they are
// created exactly once after all model calls have settled and are never
// mutated afterwards.
type Experiment struct {
	// ID is an opaque identifier assigned when the experiment is created.
	ID string `json:"id"`

	// Prompt is the submitted text, immutable once created.
	Prompt string `json:"prompt"`

	// CreatedAt records when the experiment was assembled.
	CreatedAt time.Time `json:"createdAt"`

	// Results holds one entry per evaluated model, ordered by settlement:
	// the order in which provider calls completed, which is not the order
	// in which they were requested.
	Results []ModelResult `json:"results"`
}

// NewExperiment assembles an experiment from a prompt and its settled
// results, assigning a fresh identifier and creation timestamp.
func NewExperiment(prompt string, results []ModelResult) Experiment {
	return Experiment{
		ID:        uuid.NewString(),
		Prompt:    prompt,
		CreatedAt: time.Now().UTC(),
		Results:   results,
	}
}

// ModelResult is the outcome of one provider's response to one
// experiment's prompt. A result is owned exclusively by its parent
// experiment and its ModelName is unique within that experiment.
type ModelResult struct {
	// ModelName identifies the evaluated model.
	ModelName string `json:"modelName"`

	// ResponseText is the raw text returned by the provider.
	ResponseText string `json:"response"`

	// ResponseSeconds is the wall-clock duration of the provider call,
	// measured by the orchestrator rather than reported by the provider.
	ResponseSeconds float64 `json:"responseTime"`

	// TokenCount, PromptTokens, and CompletionTokens carry the provider's
	// usage report. Zero when the provider does not report usage.
	TokenCount       int `json:"tokenCount"`
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`

	// CostUSD is derived from TokenCount and the rate table. Zero when the
	// model has no configured rate.
	CostUSD float64 `json:"cost"`

	// AccuracyPercent and RelevancyPercent are the judge's verdict in
	// [0, 100]. Both are zero, not absent, when judging fails.
	AccuracyPercent  float64 `json:"accuracy"`
	RelevancyPercent float64 `json:"relevancy"`
}

// Validate reports structural problems with an experiment: an empty
// prompt, a missing identifier, or duplicate model names among sibling
// results.
func (e Experiment) Validate() error {
	v := NewValidationError("experiment")
	if e.ID == "" {
		v.AddError("id must not be empty")
	}
	if e.Prompt == "" {
		v.AddError("prompt must not be empty")
	}

	seen := make(map[string]struct{}, len(e.Results))
	for _, r := range e.Results {
		if r.ModelName == "" {
			v.AddError("result model name must not be empty")
			continue
		}
		if _, dup := seen[r.ModelName]; dup {
			v.AddError("duplicate result for model " + r.ModelName)
		}
		seen[r.ModelName] = struct{}{}
	}

	if v.HasErrors() {
		return v
	}
	return nil
}
