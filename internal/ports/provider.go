package ports

import "context"

// ProviderResult is the normalized shape of one provider's reply.
// Fields the underlying provider omits are reported as zero values
// rather than propagated as errors.
type ProviderResult struct {
	// Text is the generated completion text.
	Text string

	// TotalTokens, PromptTokens, and CompletionTokens carry the provider's
	// usage report, zero when unreported.
	TotalTokens      int
	PromptTokens     int
	CompletionTokens int
}

// ProviderAdapter translates a prompt into a provider-specific request
// and normalizes the raw response. One adapter instance exists per
// supported model; adapters are stateless across calls apart from a
// shared long-lived client handle.
//
// Adapters do not validate prompt content (an empty prompt is forwarded
// as-is) and do not measure timing; wall-clock duration is the
// orchestrator's concern.
type ProviderAdapter interface {
	// ModelName returns the public identifier this adapter serves.
	ModelName() string

	// Invoke performs one outbound call to the provider. Failures surface
	// as a *llm.ProviderError carrying the provider name and cause; the
	// orchestrator downgrades them to per-model error results.
	Invoke(ctx context.Context, prompt string) (ProviderResult, error)
}
