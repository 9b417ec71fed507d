package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/llmetrics/llmetrics/internal/application"
	"github.com/llmetrics/llmetrics/internal/domain"
)

const genericFailureMessage = "failed to process request"

// evaluateRequest is the submission body. Models selects a subset of
// the configured models; Model is a single-model alias kept for older
// clients. Empty selection means every configured model.
type evaluateRequest struct {
	Prompt string   `json:"prompt"`
	Models []string `json:"models"`
	Model  string   `json:"model"`
}

// modelMetrics mirrors the per-model metrics block of the API response.
type modelMetrics struct {
	TokenCount       int     `json:"tokenCount"`
	PromptTokens     int     `json:"promptTokens"`
	CompletionTokens int     `json:"completionTokens"`
	Cost             float64 `json:"cost"`
}

// modelResponse is one model's entry in the evaluation response.
type modelResponse struct {
	Response     string       `json:"response"`
	ResponseTime float64      `json:"responseTime"`
	Metrics      modelMetrics `json:"metrics"`
	Accuracy     float64      `json:"accuracy"`
	Relevancy    float64      `json:"relevancy"`
}

// modelFailure is the entry for a model that produced no response.
type modelFailure struct {
	Error string `json:"error"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	models := req.Models
	if len(models) == 0 && req.Model != "" {
		models = []string{req.Model}
	}

	evaluation, err := s.service.Evaluate(r.Context(), application.EvaluateRequest{
		Prompt: req.Prompt,
		Models: models,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		// Persistence and other internal failures stay internal.
		s.logger.Error("evaluation failed", "error", err)
		writeError(w, http.StatusInternalServerError, genericFailureMessage)
		return
	}

	response := make(map[string]any, len(evaluation.Outcomes))
	for _, outcome := range evaluation.Outcomes {
		if outcome.Err != nil {
			response[outcome.ModelName] = modelFailure{Error: publicError(outcome.Err)}
			continue
		}
		result := outcome.Result
		response[outcome.ModelName] = modelResponse{
			Response:     result.ResponseText,
			ResponseTime: result.ResponseSeconds,
			Metrics: modelMetrics{
				TokenCount:       result.TokenCount,
				PromptTokens:     result.PromptTokens,
				CompletionTokens: result.CompletionTokens,
				Cost:             result.CostUSD,
			},
			Accuracy:  result.AccuracyPercent,
			Relevancy: result.RelevancyPercent,
		}
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleListExperiments(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	experiments, err := s.store.ListExperiments(r.Context(), limit)
	if err != nil {
		s.logger.Error("failed to list experiments", "error", err)
		writeError(w, http.StatusInternalServerError, genericFailureMessage)
		return
	}
	if experiments == nil {
		experiments = []domain.Experiment{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"experiments": experiments})
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	aggregates, err := s.store.ModelAggregates(r.Context())
	if err != nil {
		s.logger.Error("failed to compute analytics", "error", err)
		writeError(w, http.StatusInternalServerError, genericFailureMessage)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"models": aggregates})
}

// publicError maps an internal per-model error to a message safe for
// clients. Provider payloads and credentials never leak through here.
func publicError(err error) string {
	if errors.Is(err, domain.ErrUnknownModel) {
		return "unknown model"
	}
	return "model request failed"
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
