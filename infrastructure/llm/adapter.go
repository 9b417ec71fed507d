package llm

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/llmetrics/llmetrics/internal/domain"
	"github.com/llmetrics/llmetrics/internal/ports"
)

// ChatAdapter adapts a ports.LLMClient to the ports.ProviderAdapter
// contract under a public model name. The public name ("llama-70b") is
// what callers request and what results are keyed by; the client knows
// the provider-side identifier ("llama-3.3-70b-versatile").
type ChatAdapter struct {
	name   string
	client ports.LLMClient
}

// NewChatAdapter creates an adapter exposing client under the public
// model name.
func NewChatAdapter(name string, client ports.LLMClient) (*ChatAdapter, error) {
	if name == "" {
		return nil, fmt.Errorf("adapter model name cannot be empty")
	}
	if client == nil {
		return nil, fmt.Errorf("adapter client cannot be nil")
	}
	return &ChatAdapter{name: name, client: client}, nil
}

// ModelName returns the public identifier this adapter serves.
func (a *ChatAdapter) ModelName() string { return a.name }

// Invoke performs one provider call and normalizes the reply. The prompt
// is forwarded as-is; content validation and timing are the caller's
// concern.
func (a *ChatAdapter) Invoke(ctx context.Context, prompt string) (ports.ProviderResult, error) {
	text, tokensIn, tokensOut, err := a.client.CompleteWithUsage(ctx, prompt, nil)
	if err != nil {
		return ports.ProviderResult{}, err
	}

	return ports.ProviderResult{
		Text:             text,
		TotalTokens:      tokensIn + tokensOut,
		PromptTokens:     tokensIn,
		CompletionTokens: tokensOut,
	}, nil
}

// AdapterRegistry maps public model identifiers to their provider
// adapters. It replaces per-model branching with an enumerable lookup:
// adding a model is a registration, not a new switch arm. The registry
// is safe for concurrent use; registration normally completes at
// composition time.
type AdapterRegistry struct {
	mu       sync.RWMutex
	adapters map[string]ports.ProviderAdapter
}

// NewAdapterRegistry creates an empty registry.
func NewAdapterRegistry() *AdapterRegistry {
	return &AdapterRegistry{adapters: make(map[string]ports.ProviderAdapter)}
}

// Register adds an adapter under its model name, replacing any previous
// registration for that name.
func (r *AdapterRegistry) Register(adapter ports.ProviderAdapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[adapter.ModelName()] = adapter
}

// Get returns the adapter for a model identifier. A miss reports
// domain.ErrUnknownModel so callers can recover it per-model.
func (r *AdapterRegistry) Get(modelName string) (ports.ProviderAdapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, ok := r.adapters[modelName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownModel, modelName)
	}
	return adapter, nil
}

// Models returns every registered model identifier in sorted order.
func (r *AdapterRegistry) Models() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.adapters))
	for name := range r.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
