package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorClassifier_ClassifyHTTPError(t *testing.T) {
	classifier := &ErrorClassifier{Provider: "groq"}

	tests := []struct {
		name       string
		statusCode int
		wantType   ErrorType
	}{
		{"unauthorized", 401, ErrorTypeAuthentication},
		{"forbidden", 403, ErrorTypeAuthentication},
		{"rate limited", 429, ErrorTypeRateLimit},
		{"bad request", 400, ErrorTypeBadRequest},
		{"model not found", 404, ErrorTypeNotFound},
		{"server error", 500, ErrorTypeServerError},
		{"bad gateway", 502, ErrorTypeServerError},
		{"other 4xx", 418, ErrorTypeBadRequest},
		{"other 5xx", 599, ErrorTypeServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provErr := classifier.ClassifyHTTPError(tt.statusCode, "message", errors.New("underlying"))
			assert.Equal(t, tt.wantType, provErr.Type)
			assert.Equal(t, "groq", provErr.Provider)
			assert.Equal(t, tt.statusCode, provErr.StatusCode)
		})
	}
}

func TestErrorClassifier_ClassifyContextError(t *testing.T) {
	classifier := &ErrorClassifier{Provider: "google"}

	t.Run("deadline exceeded is a timeout", func(t *testing.T) {
		provErr := classifier.ClassifyContextError(fmt.Errorf("call: %w", context.DeadlineExceeded))
		assert.Equal(t, ErrorTypeTimeout, provErr.Type)
	})

	t.Run("cancellation is a network failure", func(t *testing.T) {
		provErr := classifier.ClassifyContextError(context.Canceled)
		assert.Equal(t, ErrorTypeNetwork, provErr.Type)
	})
}

func TestProviderError_ErrorAndUnwrap(t *testing.T) {
	underlying := errors.New("connection refused")
	provErr := NewProviderError("anthropic", ErrorTypeNetwork, 0, "request failed", underlying)

	assert.Contains(t, provErr.Error(), "anthropic error")
	assert.Contains(t, provErr.Error(), "[network]")
	assert.Contains(t, provErr.Error(), "request failed")

	require.ErrorIs(t, provErr, underlying)

	var target *ProviderError
	assert.True(t, errors.As(fmt.Errorf("wrapped: %w", provErr), &target))
	assert.Equal(t, ErrorTypeNetwork, target.Type)
}
