package domain

// RateTable maps model identifiers to their cost in USD per 1000 tokens.
// The table is process-wide and read-only after construction; cost is
// advisory, so a model with no entry contributes zero cost rather than
// blocking a result from being recorded.
type RateTable struct {
	perThousand map[string]float64
}

// NewRateTable builds an immutable rate table from per-1000-token USD
// rates. The input map is copied, so callers may reuse or mutate it.
func NewRateTable(ratesPerThousand map[string]float64) *RateTable {
	rates := make(map[string]float64, len(ratesPerThousand))
	for model, rate := range ratesPerThousand {
		rates[model] = rate
	}
	return &RateTable{perThousand: rates}
}

// DefaultRateTable returns the built-in pricing for the supported models.
// Rates are USD per 1000 tokens.
func DefaultRateTable() *RateTable {
	return NewRateTable(map[string]float64{
		"llama-70b": 0.0001,
		"mixtral":   0.0001,
	})
}

// Merge returns a new table with overrides applied on top of the
// receiver. The receiver is left untouched.
func (t *RateTable) Merge(overrides map[string]float64) *RateTable {
	merged := make(map[string]float64, len(t.perThousand)+len(overrides))
	for model, rate := range t.perThousand {
		merged[model] = rate
	}
	for model, rate := range overrides {
		merged[model] = rate
	}
	return &RateTable{perThousand: merged}
}

// Cost derives the USD cost of a call: (tokenCount / 1000) * rate.
// An unknown model yields zero. A negative token count is a programming
// error on the caller's side; behavior is undefined for it.
func (t *RateTable) Cost(modelName string, tokenCount int) float64 {
	rate, ok := t.perThousand[modelName]
	if !ok {
		return 0
	}
	return float64(tokenCount) / 1000 * rate
}

// Rate returns the per-1000-token rate for a model and whether the model
// is priced at all.
func (t *RateTable) Rate(modelName string) (float64, bool) {
	rate, ok := t.perThousand[modelName]
	return rate, ok
}
