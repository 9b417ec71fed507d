package ports

import (
	"context"

	"github.com/llmetrics/llmetrics/internal/domain"
)

// JudgeEvaluator scores one provider response against the original
// prompt using a secondary model. Score never fails outward: any
// internal error (judge call failure, malformed verdict, timeout) is
// converted to domain.ZeroVerdict so that a scoring failure cannot
// prevent the primary result from being surfaced or stored.
//
// An empty response text is still submitted; the judge is expected to
// score it low rather than be special-cased.
type JudgeEvaluator interface {
	Score(ctx context.Context, prompt, responseText string) domain.Verdict
}
