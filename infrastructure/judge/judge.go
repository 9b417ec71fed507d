// Package judge implements the LLM-as-judge scoring pass. A secondary
// model receives the original prompt and one candidate response and
// returns a strict two-field JSON verdict with accuracy and relevancy
// percentages. Scoring is best-effort annotation: every internal
// failure degrades to the zero verdict instead of an error.
package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/go-playground/validator/v10"

	"github.com/llmetrics/llmetrics/internal/domain"
	"github.com/llmetrics/llmetrics/internal/ports"
)

var _ ports.JudgeEvaluator = (*Evaluator)(nil)

// Default request parameters for judge calls. Temperature stays at zero
// for repeatable verdicts.
const (
	DefaultTemperature = 0.0
	DefaultMaxTokens   = 256
)

// evaluationPrompt is the fixed instruction sent to the judge model.
// The original prompt and candidate response are embedded verbatim.
const evaluationPrompt = `You are a state-of-the-art AI evaluator tasked with analyzing the quality of responses based on the user's prompt. For each response, you must evaluate two key criteria: 1) Accuracy: how factually correct and precise the response is in addressing the user's query, and 2) Relevancy: how well the response aligns with the user's intent and provides meaningful, on-topic information. Provide a percentage for each criterion and assign a percentage anywhere between 0% to 100% (0 being the lowest and 100 being the highest).
Original Prompt: "{{.Prompt}}"
Response: "{{.Response}}"

Provide a comprehensive evaluation based on the following:

1. Accuracy: Assess the correctness of information provided, checking for factual errors, unsupported assumptions, or ambiguities. Consider the context of the prompt and the response's alignment with known facts.
2. Relevancy: Evaluate how well the response directly addresses the user's query. Consider whether it is on-topic, aligns with the intended purpose, and avoids irrelevant details or digressions. Additionally, assess if the response provides actionable insights or information.

Respond with ONLY a JSON object in the following exact format:
{
  "accuracy": <percentage anywhere between 0 to 100>,
  "relevancy": <percentage anywhere between 0 to 100>
}`

// verdictPayload is the JSON shape the judge must reply with. Pointer
// fields distinguish a present zero score from a missing field; both
// fields are mandatory.
type verdictPayload struct {
	Accuracy  *float64 `json:"accuracy" validate:"required"`
	Relevancy *float64 `json:"relevancy" validate:"required"`
}

// Config holds judge request parameters.
type Config struct {
	// Temperature for judge completions. Zero by default for consistent
	// scoring.
	Temperature float64 `yaml:"temperature" validate:"min=0,max=1"`

	// MaxTokens caps the verdict length.
	MaxTokens int `yaml:"max_tokens" validate:"min=50,max=2000"`
}

// DefaultConfig returns the standard judge parameters.
func DefaultConfig() Config {
	return Config{Temperature: DefaultTemperature, MaxTokens: DefaultMaxTokens}
}

// Evaluator scores provider responses with a judge model. It is
// stateless across calls and safe for concurrent use.
type Evaluator struct {
	client    ports.LLMClient
	config    Config
	validator *validator.Validate
	template  *template.Template
	logger    *slog.Logger
}

// New creates an Evaluator over the given judge-model client.
func New(client ports.LLMClient, config Config, logger *slog.Logger) (*Evaluator, error) {
	if client == nil {
		return nil, fmt.Errorf("judge client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	v := validator.New()
	if err := v.Struct(config); err != nil {
		return nil, fmt.Errorf("invalid judge configuration: %w", err)
	}

	tmpl, err := template.New("evaluation").Parse(evaluationPrompt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse evaluation template: %w", err)
	}

	return &Evaluator{
		client:    client,
		config:    config,
		validator: v,
		template:  tmpl,
		logger:    logger,
	}, nil
}

// Score submits the prompt and candidate response to the judge model
// and returns its verdict. Any failure along the way (judge call error,
// unparsable reply, missing field, out-of-range value) yields
// domain.ZeroVerdict; an error is never propagated. An empty response
// text is still submitted so the judge can score it low on its own.
func (e *Evaluator) Score(ctx context.Context, prompt, responseText string) domain.Verdict {
	var buf bytes.Buffer
	data := struct {
		Prompt   string
		Response string
	}{Prompt: prompt, Response: responseText}

	if err := e.template.Execute(&buf, data); err != nil {
		e.logger.Warn("judge template execution failed", "error", err)
		return domain.ZeroVerdict
	}

	options := map[string]any{
		"temperature":   e.config.Temperature,
		"max_tokens":    e.config.MaxTokens,
		"json_response": true,
	}

	reply, err := e.client.Complete(ctx, buf.String(), options)
	if err != nil {
		e.logger.Warn("judge call failed",
			"judge_model", e.client.GetModel(),
			"error", err,
		)
		return domain.ZeroVerdict
	}

	verdict, err := e.parseVerdict(reply)
	if err != nil {
		e.logger.Warn("judge verdict rejected",
			"judge_model", e.client.GetModel(),
			"reply_length", len(reply),
			"error", err,
		)
		return domain.ZeroVerdict
	}

	return verdict
}

// parseVerdict extracts and validates the two-field verdict. Values
// outside [0, 100] are rejected, never clamped or repaired.
func (e *Evaluator) parseVerdict(reply string) (domain.Verdict, error) {
	jsonStr := extractJSON(reply)
	if jsonStr == "" {
		return domain.Verdict{}, fmt.Errorf("no JSON object found in judge reply")
	}

	decoder := json.NewDecoder(strings.NewReader(jsonStr))
	decoder.DisallowUnknownFields()

	var payload verdictPayload
	if err := decoder.Decode(&payload); err != nil {
		return domain.Verdict{}, fmt.Errorf("failed to decode verdict: %w", err)
	}

	if err := e.validator.Struct(payload); err != nil {
		return domain.Verdict{}, fmt.Errorf("incomplete verdict: %w", err)
	}

	verdict := domain.Verdict{Accuracy: *payload.Accuracy, Relevancy: *payload.Relevancy}
	if !verdict.InRange() {
		return domain.Verdict{}, fmt.Errorf("verdict out of range: accuracy=%.2f relevancy=%.2f",
			verdict.Accuracy, verdict.Relevancy)
	}

	return verdict, nil
}

// extractJSON pulls a JSON object out of a reply that may wrap it in
// markdown fences or surrounding prose.
func extractJSON(reply string) string {
	reply = strings.TrimSpace(reply)

	if idx := strings.Index(reply, "```json"); idx != -1 {
		rest := reply[idx+7:]
		if end := strings.Index(rest, "```"); end != -1 {
			return strings.TrimSpace(rest[:end])
		}
	}

	start := strings.Index(reply, "{")
	if start == -1 {
		return ""
	}

	// Walk to the matching closing brace, skipping braces inside strings.
	braceCount := 0
	inString := false
	escapeNext := false

	for i := start; i < len(reply); i++ {
		char := reply[i]

		if escapeNext {
			escapeNext = false
			continue
		}
		if char == '\\' {
			escapeNext = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch char {
		case '{':
			braceCount++
		case '}':
			braceCount--
			if braceCount == 0 {
				return reply[start : i+1]
			}
		}
	}

	return ""
}
