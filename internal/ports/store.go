package ports

import (
	"context"

	"github.com/llmetrics/llmetrics/internal/domain"
)

// ModelAggregate summarizes every persisted result for one model,
// feeding the analytics endpoint.
type ModelAggregate struct {
	ModelName       string  `json:"modelName"`
	Experiments     int     `json:"experiments"`
	AvgAccuracy     float64 `json:"averageAccuracy"`
	AvgRelevancy    float64 `json:"averageRelevancy"`
	AvgResponseTime float64 `json:"averageResponseTime"`
	TotalCost       float64 `json:"totalCost"`
	TotalTokens     int     `json:"totalTokens"`
}

// ExperimentStore is the durable, append-only home of experiments.
// CreateExperiment writes one experiment and all of its result rows as a
// single atomic unit: either everything is persisted or nothing is. No
// partial experiment may ever exist in the store.
type ExperimentStore interface {
	// CreateExperiment persists the experiment assembled from the prompt
	// and settled results. Failures are reported as *domain.StoreError.
	CreateExperiment(ctx context.Context, prompt string, results []domain.ModelResult) (domain.Experiment, error)

	// ListExperiments returns the most recent experiments with their
	// results, newest first.
	ListExperiments(ctx context.Context, limit int) ([]domain.Experiment, error)

	// ModelAggregates returns per-model summary statistics across all
	// persisted experiments.
	ModelAggregates(ctx context.Context) ([]ModelAggregate, error)
}
