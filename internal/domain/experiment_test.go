package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExperiment(t *testing.T) {
	results := []ModelResult{
		{ModelName: "mixtral", ResponseText: "4", TokenCount: 12},
		{ModelName: "llama-70b", ResponseText: "four", TokenCount: 15},
	}

	exp := NewExperiment("What is 2+2?", results)

	assert.NotEmpty(t, exp.ID)
	assert.Equal(t, "What is 2+2?", exp.Prompt)
	assert.False(t, exp.CreatedAt.IsZero())
	assert.Equal(t, results, exp.Results)

	// Two submissions of the same prompt are distinct experiments.
	again := NewExperiment("What is 2+2?", results)
	assert.NotEqual(t, exp.ID, again.ID)
}

func TestExperiment_Validate(t *testing.T) {
	tests := []struct {
		name       string
		experiment Experiment
		wantError  bool
		errorMsg   string
	}{
		{
			name: "valid experiment",
			experiment: Experiment{
				ID:     "exp-1",
				Prompt: "What is 2+2?",
				Results: []ModelResult{
					{ModelName: "llama-70b"},
					{ModelName: "mixtral"},
				},
			},
			wantError: false,
		},
		{
			name: "empty prompt",
			experiment: Experiment{
				ID:      "exp-1",
				Results: []ModelResult{{ModelName: "mixtral"}},
			},
			wantError: true,
			errorMsg:  "prompt must not be empty",
		},
		{
			name: "duplicate model names",
			experiment: Experiment{
				ID:     "exp-1",
				Prompt: "hello",
				Results: []ModelResult{
					{ModelName: "mixtral"},
					{ModelName: "mixtral"},
				},
			},
			wantError: true,
			errorMsg:  "duplicate result for model mixtral",
		},
		{
			name: "missing id",
			experiment: Experiment{
				Prompt:  "hello",
				Results: []ModelResult{{ModelName: "mixtral"}},
			},
			wantError: true,
			errorMsg:  "id must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.experiment.Validate()
			if tt.wantError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVerdict_InRange(t *testing.T) {
	tests := []struct {
		name    string
		verdict Verdict
		want    bool
	}{
		{"zero verdict", ZeroVerdict, true},
		{"full marks", Verdict{Accuracy: 100, Relevancy: 100}, true},
		{"mid scale", Verdict{Accuracy: 85.5, Relevancy: 90}, true},
		{"accuracy above scale", Verdict{Accuracy: 100.1, Relevancy: 50}, false},
		{"negative relevancy", Verdict{Accuracy: 50, Relevancy: -1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.verdict.InRange())
		})
	}
}
