package llm

import (
	"fmt"
	"net/url"
	"time"
)

// Bounds for request parameters, shared by all providers.
const (
	// DefaultMaxTokens caps completion length when the caller does not
	// specify one.
	DefaultMaxTokens = 1024
	// MinTimeout is the smallest accepted per-request timeout.
	MinTimeout = 1 * time.Second
	// MaxTimeout is the largest accepted per-request timeout.
	MaxTimeout = 10 * time.Minute
)

// RequestOptions is the standardized set of per-request parameters
// understood by every provider.
type RequestOptions struct {
	// MaxTokens caps the number of generated tokens.
	MaxTokens int
	// Model overrides the client's configured model for this request.
	Model string
	// Temperature controls output randomness. Nil means the provider
	// default.
	Temperature *float64
	// JSONResponse asks the provider for a JSON-object response when the
	// backing API supports a structured output mode. The judge relies on
	// this to keep verdicts parseable.
	JSONResponse bool
}

// ParseRequestOptions extracts standardized parameters from an options
// map, falling back to defaults for missing or ill-typed entries.
func ParseRequestOptions(opts map[string]any, defaultModel string) RequestOptions {
	options := RequestOptions{
		MaxTokens:    extractInt(opts, "max_tokens", DefaultMaxTokens),
		Model:        extractString(opts, "model", defaultModel),
		JSONResponse: extractBool(opts, "json_response"),
	}

	if temp, ok := extractFloat64(opts, "temperature"); ok && temp >= 0 && temp <= 2 {
		options.Temperature = &temp
	}

	return options
}

func extractInt(opts map[string]any, key string, defaultVal int) int {
	if v, ok := opts[key].(int); ok && v > 0 {
		return v
	}
	return defaultVal
}

func extractString(opts map[string]any, key, defaultVal string) string {
	if v, ok := opts[key].(string); ok && v != "" {
		return v
	}
	return defaultVal
}

func extractFloat64(opts map[string]any, key string) (float64, bool) {
	switch v := opts[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	default:
		return 0, false
	}
}

func extractBool(opts map[string]any, key string) bool {
	v, ok := opts[key].(bool)
	return ok && v
}

// ValidateBaseURL validates and normalizes a base URL override. An empty
// string is valid and means the provider default.
func ValidateBaseURL(baseURL string) (string, error) {
	if baseURL == "" {
		return "", nil
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("URL scheme must be http or https, got: %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("URL must include a host")
	}

	return parsed.String(), nil
}

// ValidateTimeout clamps a per-request timeout into the accepted range.
// Zero or negative means the transport default and passes through as
// zero.
func ValidateTimeout(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return 0
	}
	if timeout < MinTimeout {
		return MinTimeout
	}
	if timeout > MaxTimeout {
		return MaxTimeout
	}
	return timeout
}

// ClampFloat64 clamps val into [min, max].
func ClampFloat64(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// TokenCounter estimates token counts when a provider omits usage data.
// The estimate keeps the cost calculation from silently reporting zero
// for providers that don't return usage blocks.
type TokenCounter struct {
	// CharactersPerToken is the average characters-per-token ratio used
	// for the estimate.
	CharactersPerToken float64
}

// NewTokenCounter returns a TokenCounter using the common approximation
// of four characters per token for English text.
func NewTokenCounter() *TokenCounter {
	return &TokenCounter{CharactersPerToken: 4.0}
}

// EstimateTokens estimates the token count for text.
func (tc *TokenCounter) EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return int(float64(len(text)) / tc.CharactersPerToken)
}

// GetTokenCount returns the provider-reported count when positive and
// falls back to an estimate otherwise.
func (tc *TokenCounter) GetTokenCount(actualCount int, text string) int {
	if actualCount > 0 {
		return actualCount
	}
	return tc.EstimateTokens(text)
}
