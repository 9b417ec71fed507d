package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateTable_Cost(t *testing.T) {
	table := NewRateTable(map[string]float64{
		"llama-70b": 0.0001,
		"mixtral":   0.0001,
		"premium":   0.03,
	})

	tests := []struct {
		name       string
		model      string
		tokenCount int
		want       float64
	}{
		{
			name:       "priced model",
			model:      "llama-70b",
			tokenCount: 1000,
			want:       0.0001,
		},
		{
			name:       "partial thousand",
			model:      "premium",
			tokenCount: 500,
			want:       0.015,
		},
		{
			name:       "zero tokens costs nothing",
			model:      "mixtral",
			tokenCount: 0,
			want:       0,
		},
		{
			name:       "unknown model costs nothing",
			model:      "gpt-9",
			tokenCount: 123456,
			want:       0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, table.Cost(tt.model, tt.tokenCount), 1e-12)
		})
	}
}

func TestRateTable_CostIsLinear(t *testing.T) {
	table := DefaultRateTable()

	for _, model := range []string{"llama-70b", "mixtral"} {
		single := table.Cost(model, 1000)
		double := table.Cost(model, 2000)
		assert.InDelta(t, 2*single, double, 1e-12, "cost must scale linearly for %s", model)
	}
}

func TestRateTable_ZeroTokensForAllModels(t *testing.T) {
	table := DefaultRateTable()

	for _, model := range []string{"llama-70b", "mixtral", "not-configured"} {
		assert.Zero(t, table.Cost(model, 0))
	}
}

func TestRateTable_Merge(t *testing.T) {
	base := DefaultRateTable()

	merged := base.Merge(map[string]float64{
		"llama-70b": 0.0002,
		"claude":    0.003,
	})

	got, ok := merged.Rate("llama-70b")
	require.True(t, ok)
	assert.InDelta(t, 0.0002, got, 1e-12)

	got, ok = merged.Rate("claude")
	require.True(t, ok)
	assert.InDelta(t, 0.003, got, 1e-12)

	// Untouched entries survive; the base table is unchanged.
	_, ok = merged.Rate("mixtral")
	assert.True(t, ok)
	got, ok = base.Rate("llama-70b")
	require.True(t, ok)
	assert.InDelta(t, 0.0001, got, 1e-12)
}

func TestRateTable_Immutable(t *testing.T) {
	rates := map[string]float64{"llama-70b": 0.0001}
	table := NewRateTable(rates)

	rates["llama-70b"] = 99

	got, ok := table.Rate("llama-70b")
	require.True(t, ok)
	assert.InDelta(t, 0.0001, got, 1e-12)
}
