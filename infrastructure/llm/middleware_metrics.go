package llm

import (
	"context"
	"errors"
	"time"

	"github.com/llmetrics/llmetrics/internal/ports"
)

// metricsLLM records latency, request counts, and token throughput per
// provider and model.
type metricsLLM struct {
	next      CoreLLM
	provider  string
	collector ports.MetricsCollector
}

// MetricsMiddleware creates middleware that reports request metrics to
// the given collector. The provider label is passed explicitly rather
// than sniffed from the model name.
func MetricsMiddleware(provider string, collector ports.MetricsCollector) Middleware {
	return func(next CoreLLM) CoreLLM {
		return &metricsLLM{next: next, provider: provider, collector: collector}
	}
}

// DoRequest executes the request while recording latency, status, and
// token counts.
func (m *metricsLLM) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	start := time.Now()
	response, tokensIn, tokensOut, err := m.next.DoRequest(ctx, prompt, opts)

	labels := map[string]string{
		"provider": m.provider,
		"model":    m.next.GetModel(),
		"status":   "success",
	}
	if err != nil {
		labels["status"] = "error"
		var provErr *ProviderError
		if errors.As(err, &provErr) && provErr.Type == ErrorTypeTimeout {
			labels["status"] = "timeout"
		}
	}

	if m.collector != nil {
		m.collector.RecordHistogram("llm_latency_seconds", time.Since(start).Seconds(), labels)
		m.collector.RecordCounter("llm_requests_total", 1, labels)

		if err == nil {
			labels["token_type"] = "input"
			m.collector.RecordCounter("llm_tokens_total", float64(tokensIn), labels)

			labels["token_type"] = "output"
			m.collector.RecordCounter("llm_tokens_total", float64(tokensOut), labels)
		}
	}

	return response, tokensIn, tokensOut, err
}

// GetModel returns the model name from the wrapped implementation.
func (m *metricsLLM) GetModel() string { return m.next.GetModel() }
