// Package metrics implements the MetricsCollector interface on
// Prometheus, exposing request throughput, latency, token usage, and
// evaluation cost for the dashboard and alerting.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/llmetrics/llmetrics/internal/ports"
)

// Compile-time verification that PrometheusCollector implements
// MetricsCollector.
var _ ports.MetricsCollector = (*PrometheusCollector)(nil)

// PrometheusCollector records LLM request and evaluation metrics in the
// global Prometheus registry.
type PrometheusCollector struct {
	requestsTotal    *prometheus.CounterVec
	tokensTotal      *prometheus.CounterVec
	requestLatency   *prometheus.HistogramVec
	operationLatency *prometheus.HistogramVec
	evaluationsTotal *prometheus.CounterVec
	experimentCost   *prometheus.GaugeVec
	genericCounter   *prometheus.CounterVec
	genericGauge     *prometheus.GaugeVec
}

// NewPrometheusCollector creates a collector and registers all metrics.
// It must be constructed at most once per process because registration
// in the default registry panics on duplicates.
func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		requestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_requests_total",
				Help: "Total number of LLM requests by provider, model, and outcome.",
			},
			[]string{"provider", "model", "status"},
		),
		tokensTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llm_tokens_total",
				Help: "Total tokens exchanged with LLM providers, split by direction.",
			},
			[]string{"provider", "model", "token_type"},
		),
		requestLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "llm_latency_seconds",
				Help:    "Wall-clock duration of individual LLM requests.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider", "model", "status"},
		),
		operationLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "operation_duration_seconds",
				Help:    "Execution time of named internal operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		evaluationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "evaluations_total",
				Help: "Total number of evaluation requests by outcome.",
			},
			[]string{"status"},
		),
		experimentCost: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "experiment_cost_usd",
				Help: "Estimated USD cost of the most recent experiment per model.",
			},
			[]string{"model"},
		),
		genericCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "llmetrics_events_total",
				Help: "Catch-all counter for events without a dedicated metric.",
			},
			[]string{"metric"},
		),
		genericGauge: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "llmetrics_state",
				Help: "Catch-all gauge for state values without a dedicated metric.",
			},
			[]string{"metric"},
		),
	}
}

// RecordLatency records the execution time of a named operation.
func (pc *PrometheusCollector) RecordLatency(
	operation string, duration time.Duration, labels map[string]string,
) {
	pc.operationLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCounter increments the counter matching the metric name,
// falling back to a generic event counter for unknown metrics.
func (pc *PrometheusCollector) RecordCounter(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case "llm_requests_total":
		pc.requestsTotal.WithLabelValues(
			labels["provider"], labels["model"], labels["status"],
		).Add(value)
	case "llm_tokens_total":
		pc.tokensTotal.WithLabelValues(
			labels["provider"], labels["model"], labels["token_type"],
		).Add(value)
	case "evaluations_total":
		pc.evaluationsTotal.WithLabelValues(labels["status"]).Add(value)
	default:
		pc.genericCounter.WithLabelValues(metric).Add(value)
	}
}

// RecordGauge sets the gauge matching the metric name.
func (pc *PrometheusCollector) RecordGauge(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case "experiment_cost_usd":
		pc.experimentCost.WithLabelValues(labels["model"]).Set(value)
	default:
		pc.genericGauge.WithLabelValues(metric).Set(value)
	}
}

// RecordHistogram records a value in the histogram matching the metric
// name. Request latency keeps its provider labels; everything else is
// routed to the operation histogram.
func (pc *PrometheusCollector) RecordHistogram(
	metric string, value float64, labels map[string]string,
) {
	switch metric {
	case "llm_latency_seconds":
		pc.requestLatency.WithLabelValues(
			labels["provider"], labels["model"], labels["status"],
		).Observe(value)
	default:
		pc.operationLatency.WithLabelValues(metric).Observe(value)
	}
}
