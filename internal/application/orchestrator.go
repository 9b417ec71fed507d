// Package application coordinates one evaluation run: fan the prompt
// out to every requested model, judge each response, derive costs, and
// persist the experiment.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/llmetrics/llmetrics/internal/domain"
	"github.com/llmetrics/llmetrics/internal/ports"
)

// AdapterRegistry resolves public model names to provider adapters.
type AdapterRegistry interface {
	// Get returns the adapter for modelName, or an error wrapping
	// domain.ErrUnknownModel.
	Get(modelName string) (ports.ProviderAdapter, error)

	// Models returns every registered model name in sorted order.
	Models() []string
}

// EvaluateRequest is one evaluation run: a prompt and the models to run
// it against. An empty Models slice selects every configured model.
type EvaluateRequest struct {
	Prompt string
	Models []string
}

// ModelOutcome is the per-model result of an evaluation. Exactly one of
// Result and Err is meaningful: a failed model carries its error and a
// zero Result.
type ModelOutcome struct {
	ModelName string
	Result    domain.ModelResult
	Err       error
}

// Evaluation is the outcome of a full run. Outcomes holds one entry per
// requested model in the order they settled. Experiment is the persisted
// record; it is zero when no model succeeded.
type Evaluation struct {
	Experiment domain.Experiment
	Outcomes   []ModelOutcome
}

// Orchestrator fans a prompt out to provider adapters, scores the
// responses with the judge, prices them, and persists the experiment.
// A slow or failing model never hides the others: every requested model
// settles with either a result or an error.
type Orchestrator struct {
	registry AdapterRegistry
	judge    ports.JudgeEvaluator
	rates    *domain.RateTable
	store    ports.ExperimentStore
	metrics  ports.MetricsCollector
	logger   *slog.Logger
}

// NewOrchestrator wires the evaluation pipeline together. The metrics
// collector may be nil; everything else is required.
func NewOrchestrator(
	registry AdapterRegistry,
	judge ports.JudgeEvaluator,
	rates *domain.RateTable,
	store ports.ExperimentStore,
	metrics ports.MetricsCollector,
	logger *slog.Logger,
) (*Orchestrator, error) {
	if registry == nil {
		return nil, fmt.Errorf("adapter registry cannot be nil")
	}
	if judge == nil {
		return nil, fmt.Errorf("judge evaluator cannot be nil")
	}
	if store == nil {
		return nil, fmt.Errorf("experiment store cannot be nil")
	}
	if rates == nil {
		rates = domain.DefaultRateTable()
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		registry: registry,
		judge:    judge,
		rates:    rates,
		store:    store,
		metrics:  metrics,
		logger:   logger,
	}, nil
}

// Evaluate runs the prompt against every requested model concurrently
// and waits for all of them to settle. Successful results are judged,
// priced, and persisted as one experiment; failed models are reported
// in their outcome slot without affecting the others.
//
// The returned Evaluation is valid even when err is non-nil: a
// persistence failure still hands back the in-memory outcomes.
func (o *Orchestrator) Evaluate(ctx context.Context, request EvaluateRequest) (Evaluation, error) {
	if request.Prompt == "" {
		return Evaluation{}, fmt.Errorf("%w: prompt cannot be empty", domain.ErrInvalidRequest)
	}

	models := dedupe(request.Models)
	if len(models) == 0 {
		models = o.registry.Models()
	}
	if len(models) == 0 {
		return Evaluation{}, fmt.Errorf("%w: no models configured", domain.ErrInvalidRequest)
	}

	start := time.Now()
	outcomes := o.fanOut(ctx, request.Prompt, models)

	var successes []domain.ModelResult
	for _, outcome := range outcomes {
		if outcome.Err == nil {
			successes = append(successes, outcome.Result)
		}
	}

	evaluation := Evaluation{Outcomes: outcomes}

	if len(successes) > 0 {
		experiment, err := o.store.CreateExperiment(ctx, request.Prompt, successes)
		if err != nil {
			o.logger.Error("failed to persist experiment",
				"models", len(successes),
				"error", err,
			)
			o.recordEvaluation("store_error", start)
			return evaluation, err
		}
		evaluation.Experiment = experiment
	}

	o.recordEvaluation("success", start)
	o.recordCosts(successes)
	return evaluation, nil
}

// fanOut runs every model concurrently and collects outcomes in the
// order they settle. Each goroutine owns its full pipeline (invoke,
// judge, price) so judge calls overlap across models too.
func (o *Orchestrator) fanOut(ctx context.Context, prompt string, models []string) []ModelOutcome {
	settled := make(chan ModelOutcome, len(models))

	var g errgroup.Group
	for _, modelName := range models {
		g.Go(func() error {
			settled <- o.evaluateModel(ctx, prompt, modelName)
			return nil
		})
	}
	g.Wait()
	close(settled)

	outcomes := make([]ModelOutcome, 0, len(models))
	for outcome := range settled {
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// evaluateModel runs the full pipeline for one model. Provider errors
// settle the slot; judge failures do not, because scoring degrades to
// the zero verdict.
func (o *Orchestrator) evaluateModel(ctx context.Context, prompt, modelName string) ModelOutcome {
	adapter, err := o.registry.Get(modelName)
	if err != nil {
		o.logger.Warn("model lookup failed", "model", modelName, "error", err)
		return ModelOutcome{ModelName: modelName, Err: err}
	}

	start := time.Now()
	result, err := adapter.Invoke(ctx, prompt)
	elapsed := time.Since(start)
	if err != nil {
		o.logger.Warn("provider call failed",
			"model", modelName,
			"duration", elapsed,
			"error", err,
		)
		return ModelOutcome{ModelName: modelName, Err: err}
	}

	verdict := o.judge.Score(ctx, prompt, result.Text)
	cost := o.rates.Cost(modelName, result.TotalTokens)

	o.logger.Info("model settled",
		"model", modelName,
		"duration", elapsed,
		"tokens", result.TotalTokens,
		"accuracy", verdict.Accuracy,
		"relevancy", verdict.Relevancy,
	)

	return ModelOutcome{
		ModelName: modelName,
		Result: domain.ModelResult{
			ModelName:        modelName,
			ResponseText:     result.Text,
			ResponseSeconds:  elapsed.Seconds(),
			TokenCount:       result.TotalTokens,
			PromptTokens:     result.PromptTokens,
			CompletionTokens: result.CompletionTokens,
			CostUSD:          cost,
			AccuracyPercent:  verdict.Accuracy,
			RelevancyPercent: verdict.Relevancy,
		},
	}
}

// dedupe removes repeated model names while preserving request order.
// Model names must be unique within one experiment, so a repeated entry
// would be the same work twice.
func dedupe(models []string) []string {
	if len(models) < 2 {
		return models
	}
	seen := make(map[string]struct{}, len(models))
	unique := models[:0:0]
	for _, name := range models {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		unique = append(unique, name)
	}
	return unique
}

func (o *Orchestrator) recordEvaluation(status string, start time.Time) {
	if o.metrics == nil {
		return
	}
	o.metrics.RecordLatency("evaluate", time.Since(start), nil)
	o.metrics.RecordCounter("evaluations_total", 1, map[string]string{"status": status})
}

func (o *Orchestrator) recordCosts(results []domain.ModelResult) {
	if o.metrics == nil {
		return
	}
	for _, result := range results {
		o.metrics.RecordGauge("experiment_cost_usd", result.CostUSD,
			map[string]string{"model": result.ModelName})
	}
}
