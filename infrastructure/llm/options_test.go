package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequestOptions(t *testing.T) {
	tests := []struct {
		name string
		opts map[string]any
		want RequestOptions
	}{
		{
			name: "nil options use defaults",
			opts: nil,
			want: RequestOptions{MaxTokens: DefaultMaxTokens, Model: "base-model"},
		},
		{
			name: "explicit options win",
			opts: map[string]any{"max_tokens": 256, "model": "other-model", "json_response": true},
			want: RequestOptions{MaxTokens: 256, Model: "other-model", JSONResponse: true},
		},
		{
			name: "invalid max tokens falls back",
			opts: map[string]any{"max_tokens": -5},
			want: RequestOptions{MaxTokens: DefaultMaxTokens, Model: "base-model"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRequestOptions(tt.opts, "base-model")
			assert.Equal(t, tt.want.MaxTokens, got.MaxTokens)
			assert.Equal(t, tt.want.Model, got.Model)
			assert.Equal(t, tt.want.JSONResponse, got.JSONResponse)
			assert.Nil(t, got.Temperature)
		})
	}

	t.Run("temperature accepted in range", func(t *testing.T) {
		got := ParseRequestOptions(map[string]any{"temperature": 0.3}, "m")
		require.NotNil(t, got.Temperature)
		assert.InDelta(t, 0.3, *got.Temperature, 1e-9)
	})

	t.Run("integer temperature converted", func(t *testing.T) {
		got := ParseRequestOptions(map[string]any{"temperature": 0}, "m")
		require.NotNil(t, got.Temperature)
		assert.Zero(t, *got.Temperature)
	})
}

func TestValidateBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{"empty means default", "", false},
		{"https accepted", "https://api.groq.com/openai/v1", false},
		{"http accepted", "http://localhost:8080", false},
		{"missing scheme rejected", "api.groq.com", true},
		{"ftp rejected", "ftp://example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateBaseURL(tt.baseURL)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTimeout(t *testing.T) {
	assert.Equal(t, time.Duration(0), ValidateTimeout(0))
	assert.Equal(t, MinTimeout, ValidateTimeout(time.Millisecond))
	assert.Equal(t, MaxTimeout, ValidateTimeout(time.Hour))
	assert.Equal(t, 30*time.Second, ValidateTimeout(30*time.Second))
}

func TestTokenCounter(t *testing.T) {
	tc := NewTokenCounter()

	assert.Zero(t, tc.EstimateTokens(""))
	assert.Equal(t, 3, tc.EstimateTokens("hello w orld")) // 12 chars / 4
	assert.Equal(t, 7, tc.GetTokenCount(7, "anything"))
	assert.Equal(t, tc.EstimateTokens("fallback text"), tc.GetTokenCount(0, "fallback text"))
}
