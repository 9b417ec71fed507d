package judge

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llmetrics/llmetrics/internal/domain"
)

// scriptedClient implements ports.LLMClient with a canned reply and
// records the prompt it was called with.
type scriptedClient struct {
	model      string
	reply      string
	err        error
	lastPrompt string
	calls      int
}

func (s *scriptedClient) Complete(ctx context.Context, prompt string, options map[string]any) (string, error) {
	s.calls++
	s.lastPrompt = prompt
	return s.reply, s.err
}

func (s *scriptedClient) CompleteWithUsage(ctx context.Context, prompt string, options map[string]any) (string, int, int, error) {
	reply, err := s.Complete(ctx, prompt, options)
	return reply, 0, 0, err
}

func (s *scriptedClient) GetModel() string { return s.model }

func newTestEvaluator(t *testing.T, client *scriptedClient) *Evaluator {
	t.Helper()
	evaluator, err := New(client, DefaultConfig(), slog.Default())
	require.NoError(t, err)
	return evaluator
}

func TestNew(t *testing.T) {
	t.Run("nil client rejected", func(t *testing.T) {
		_, err := New(nil, DefaultConfig(), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "client cannot be nil")
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		_, err := New(&scriptedClient{}, Config{Temperature: 5, MaxTokens: 256}, nil)
		assert.Error(t, err)
	})
}

func TestEvaluator_Score(t *testing.T) {
	tests := []struct {
		name   string
		client *scriptedClient
		want   domain.Verdict
	}{
		{
			name:   "clean verdict",
			client: &scriptedClient{reply: `{"accuracy": 92.5, "relevancy": 88}`},
			want:   domain.Verdict{Accuracy: 92.5, Relevancy: 88},
		},
		{
			name:   "verdict wrapped in markdown fences",
			client: &scriptedClient{reply: "```json\n{\"accuracy\": 70, \"relevancy\": 65}\n```"},
			want:   domain.Verdict{Accuracy: 70, Relevancy: 65},
		},
		{
			name:   "verdict with surrounding prose",
			client: &scriptedClient{reply: "Here is my evaluation: {\"accuracy\": 40, \"relevancy\": 55} as requested."},
			want:   domain.Verdict{Accuracy: 40, Relevancy: 55},
		},
		{
			name:   "legitimate zero scores are not a failure",
			client: &scriptedClient{reply: `{"accuracy": 0, "relevancy": 0}`},
			want:   domain.ZeroVerdict,
		},
		{
			name:   "judge call failure degrades to zero",
			client: &scriptedClient{err: errors.New("judge unavailable")},
			want:   domain.ZeroVerdict,
		},
		{
			name:   "non-JSON reply degrades to zero",
			client: &scriptedClient{reply: "I think the answer is pretty good overall."},
			want:   domain.ZeroVerdict,
		},
		{
			name:   "malformed JSON degrades to zero",
			client: &scriptedClient{reply: `{"accuracy": 92.5, "relevancy":`},
			want:   domain.ZeroVerdict,
		},
		{
			name:   "missing field degrades to zero",
			client: &scriptedClient{reply: `{"accuracy": 92.5}`},
			want:   domain.ZeroVerdict,
		},
		{
			name:   "out-of-range value is rejected, not clamped",
			client: &scriptedClient{reply: `{"accuracy": 150, "relevancy": 80}`},
			want:   domain.ZeroVerdict,
		},
		{
			name:   "negative value is rejected",
			client: &scriptedClient{reply: `{"accuracy": -10, "relevancy": 80}`},
			want:   domain.ZeroVerdict,
		},
		{
			name:   "extra fields violate the strict format",
			client: &scriptedClient{reply: `{"accuracy": 90, "relevancy": 80, "reasoning": "solid"}`},
			want:   domain.ZeroVerdict,
		},
		{
			name:   "non-numeric score degrades to zero",
			client: &scriptedClient{reply: `{"accuracy": "high", "relevancy": 80}`},
			want:   domain.ZeroVerdict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evaluator := newTestEvaluator(t, tt.client)

			got := evaluator.Score(context.Background(), "What is 2+2?", "4")

			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1, tt.client.calls, "Score must never retry")
		})
	}
}

func TestEvaluator_Score_EmbedsPromptAndResponseVerbatim(t *testing.T) {
	client := &scriptedClient{reply: `{"accuracy": 80, "relevancy": 90}`}
	evaluator := newTestEvaluator(t, client)

	evaluator.Score(context.Background(), "What is 2+2?", "The answer is 4.")

	assert.Contains(t, client.lastPrompt, `Original Prompt: "What is 2+2?"`)
	assert.Contains(t, client.lastPrompt, `Response: "The answer is 4."`)
}

func TestEvaluator_Score_EmptyResponseStillSubmitted(t *testing.T) {
	client := &scriptedClient{reply: `{"accuracy": 5, "relevancy": 5}`}
	evaluator := newTestEvaluator(t, client)

	got := evaluator.Score(context.Background(), "What is 2+2?", "")

	assert.Equal(t, 1, client.calls, "empty responses are judged, not special-cased")
	assert.Contains(t, client.lastPrompt, `Response: ""`)
	assert.Equal(t, domain.Verdict{Accuracy: 5, Relevancy: 5}, got)
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"nested object", `{"a": {"b": 2}}`, `{"a": {"b": 2}}`},
		{"brace inside string", `{"a": "}"}`, `{"a": "}"}`},
		{"no object", "nothing here", ""},
		{"unterminated object", `{"a": 1`, ""},
		{
			"generic prose around object",
			"Sure! {\"accuracy\": 1, \"relevancy\": 2} Hope that helps.",
			`{"accuracy": 1, "relevancy": 2}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.reply))
		})
	}
}

func TestEvaluationPromptShape(t *testing.T) {
	// The instruction must demand the exact two-field JSON format.
	assert.True(t, strings.Contains(evaluationPrompt, `"accuracy"`))
	assert.True(t, strings.Contains(evaluationPrompt, `"relevancy"`))
	assert.True(t, strings.Contains(evaluationPrompt, "ONLY a JSON object"))
}
