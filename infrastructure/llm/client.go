// Package llm provides a unified chat-completion client over the hosted
// model providers this service evaluates (Groq, OpenAI, Anthropic,
// Google). Provider implementations are abstracted behind the CoreLLM
// interface and composed with middleware for timeouts, rate limiting,
// metrics, and tracing, so the evaluation core never touches a provider
// SDK directly.
//
// Basic usage:
//
//	client, err := llm.NewClient("groq", llm.ClientConfig{
//	    APIKey: os.Getenv("GROQ_API_KEY"),
//	    Model:  "llama-3.3-70b-versatile",
//	    Middleware: []llm.Middleware{
//	        llm.TimeoutMiddleware(30 * time.Second),
//	    },
//	})
//	text, err := client.Complete(ctx, "Hello!", nil)
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/llmetrics/llmetrics/internal/ports"
)

// CoreLLM is the minimal surface a provider must implement. Middleware
// wraps any conforming implementation, so cross-cutting concerns stay
// out of provider code.
type CoreLLM interface {
	// DoRequest sends one prompt to the provider and returns the
	// generated text plus the prompt/completion token counts. Counts fall
	// back to an estimate when the provider omits usage data.
	DoRequest(ctx context.Context, prompt string, opts map[string]any) (response string, tokensIn, tokensOut int, err error)

	// GetModel returns the provider-side model identifier in use.
	GetModel() string
}

// Middleware wraps a CoreLLM to add cross-cutting functionality such as
// timeouts, rate limiting, or metrics without touching provider logic.
type Middleware func(CoreLLM) CoreLLM

// ClientConfig holds everything needed to construct a provider client.
type ClientConfig struct {
	// APIKey authenticates requests to the provider.
	APIKey string

	// Model is the provider-side model identifier for requests.
	Model string

	// BaseURL overrides the provider's default endpoint. The Groq
	// provider relies on this to reach its OpenAI-compatible API.
	BaseURL string

	// Timeout bounds individual requests at the HTTP transport level.
	// Zero means the transport default.
	Timeout time.Duration

	// Middleware is applied in order, first entry outermost.
	Middleware []Middleware
}

// Client implements ports.LLMClient by delegating to a middleware-wrapped
// CoreLLM.
type Client struct {
	core CoreLLM
}

// NewClient builds a client for the named provider type, assembling the
// middleware chain around the provider implementation.
func NewClient(providerType string, config ClientConfig) (ports.LLMClient, error) {
	if config.APIKey == "" {
		return nil, ErrEmptyAPIKey
	}
	if config.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	factory, ok := providerFactories[providerType]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", providerType)
	}

	core, err := factory(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s provider: %w", providerType, err)
	}

	// Apply middleware in reverse order so the first entry is outermost.
	for i := len(config.Middleware) - 1; i >= 0; i-- {
		core = config.Middleware[i](core)
	}

	return &Client{core: core}, nil
}

// Complete sends a prompt and returns the response text, discarding
// usage data for callers that don't track it.
func (c *Client) Complete(ctx context.Context, prompt string, options map[string]any) (string, error) {
	response, _, _, err := c.core.DoRequest(ctx, prompt, options)
	return response, err
}

// CompleteWithUsage sends a prompt and returns the response text along
// with prompt and completion token counts.
func (c *Client) CompleteWithUsage(ctx context.Context, prompt string, options map[string]any) (string, int, int, error) {
	return c.core.DoRequest(ctx, prompt, options)
}

// GetModel returns the configured model identifier.
func (c *Client) GetModel() string { return c.core.GetModel() }

// ProviderFactory creates a CoreLLM implementation from configuration.
type ProviderFactory func(ClientConfig) (CoreLLM, error)

var providerFactories = map[string]ProviderFactory{}

// RegisterProviderFactory registers a provider implementation under a
// type name. Providers self-register from init so that importing the
// package is enough to make them constructible.
func RegisterProviderFactory(providerType string, factory ProviderFactory) {
	providerFactories[providerType] = factory
}
