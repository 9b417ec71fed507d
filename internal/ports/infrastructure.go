// Package ports defines the interfaces between the evaluation core and
// its collaborators: LLM providers, the judge model, the experiment
// store, and observability. Infrastructure packages implement these
// interfaces; the application layer depends only on them.
package ports

import (
	"context"
	"time"
)

// LLMClient defines the interface for interacting with Large Language
// Model providers.
// Implementations handle provider-specific details like authentication,
// request formatting, and response parsing.
type LLMClient interface {
	// Complete sends a completion request to the LLM provider and returns
	// the generated text.
	//
	// The options map allows provider-specific tuning without changing the
	// interface. Common options include:
	//   - "temperature": float64
	//   - "max_tokens": int
	//   - "model": string (specific model version)
	Complete(ctx context.Context, prompt string, options map[string]any) (string, error)

	// CompleteWithUsage sends a completion request and additionally
	// returns the prompt and completion token counts reported by the
	// provider. Counts are zero when the provider omits usage data.
	CompleteWithUsage(ctx context.Context, prompt string, options map[string]any) (response string, tokensIn, tokensOut int, err error)

	// GetModel returns the model identifier used by this client.
	GetModel() string
}

// MetricsCollector defines the interface for collecting operational
// metrics. Implementations integrate with observability platforms such
// as Prometheus.
type MetricsCollector interface {
	// RecordLatency records the execution time of an operation.
	// The labels map provides additional context for the metric.
	RecordLatency(operation string, duration time.Duration, labels map[string]string)

	// RecordCounter increments a counter metric.
	RecordCounter(metric string, value float64, labels map[string]string)

	// RecordGauge sets the current value of a gauge metric.
	RecordGauge(metric string, value float64, labels map[string]string)

	// RecordHistogram records a value in a histogram, useful for
	// distributions like response times or scores.
	RecordHistogram(metric string, value float64, labels map[string]string)
}
