package llm

import (
	"context"
	"errors"
	"time"
)

// timeoutLLM enforces a per-call deadline so a hung provider or judge
// call cannot stall a submission indefinitely.
type timeoutLLM struct {
	next    CoreLLM
	timeout time.Duration
}

// TimeoutMiddleware creates middleware that bounds every request with a
// deadline. Expiry surfaces as a ProviderError of type ErrorTypeTimeout,
// which the orchestrator treats as that model's terminal failure and the
// judge converts into a zero-score verdict.
func TimeoutMiddleware(timeout time.Duration) Middleware {
	return func(next CoreLLM) CoreLLM {
		return &timeoutLLM{next: next, timeout: timeout}
	}
}

// DoRequest executes the request under a timeout context.
func (t *timeoutLLM) DoRequest(ctx context.Context, prompt string, opts map[string]any) (string, int, int, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	response, tokensIn, tokensOut, err := t.next.DoRequest(ctx, prompt, opts)
	if err != nil && errors.Is(err, context.DeadlineExceeded) {
		var provErr *ProviderError
		if !errors.As(err, &provErr) {
			// The provider returned the raw context error; classify it so
			// callers see a uniform timeout shape.
			err = NewProviderError(t.next.GetModel(), ErrorTypeTimeout, 0, "request deadline exceeded", err)
		}
	}
	return response, tokensIn, tokensOut, err
}

// GetModel returns the model name from the wrapped implementation.
func (t *timeoutLLM) GetModel() string { return t.next.GetModel() }
