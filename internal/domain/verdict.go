package domain

// Verdict is the judge model's assessment of one provider response.
// Both dimensions are percentages in [0, 100].
type Verdict struct {
	// Accuracy measures how factually correct the response is with
	// respect to the original prompt.
	Accuracy float64 `json:"accuracy"`

	// Relevancy measures how well the response addresses the prompt's
	// intent.
	Relevancy float64 `json:"relevancy"`
}

// ZeroVerdict is returned whenever the scoring pass fails. Scoring is
// best-effort annotation, not a gate, so a failed judge call degrades to
// zero scores rather than an error.
var ZeroVerdict = Verdict{}

// InRange reports whether both dimensions fall inside the percentage
// scale. Out-of-range verdicts are treated as judge failures, never
// clamped or repaired.
func (v Verdict) InRange() bool {
	return v.Accuracy >= 0 && v.Accuracy <= 100 &&
		v.Relevancy >= 0 && v.Relevancy <= 100
}
