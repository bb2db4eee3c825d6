package research

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyon-research/equity-cli/pkg/alphavantage"
)

func reports(n int) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = map[string]any{"idx": float64(i)}
	}
	return out
}

func TestStrippedOverview(t *testing.T) {
	overview := alphavantage.Payload{
		"Symbol":               "AAPL",
		"Name":                 "Apple Inc",
		"Sector":               "TECHNOLOGY",
		"AnalystTargetPrice":   "250.00",
		"PERatio":              "30.5",
		"MarketCapitalization": "3000000000000",
	}

	stripped := strippedOverview(overview)
	assert.NotContains(t, stripped, "Symbol")
	assert.NotContains(t, stripped, "Name")
	assert.NotContains(t, stripped, "Sector")
	assert.NotContains(t, stripped, "AnalystTargetPrice")
	assert.Contains(t, stripped, "PERatio")
	assert.Contains(t, stripped, "MarketCapitalization")
}

func TestEarningsForHistory(t *testing.T) {
	earnings := alphavantage.Payload{
		"quarterlyEarnings": reports(14),
		"annualEarnings":    reports(8),
	}

	trimmed := earningsForHistory(earnings)
	assert.Len(t, trimmed.Objects("quarterlyEarnings"), 10)
	assert.Len(t, trimmed.Objects("annualEarnings"), 5)

	// Newest-first head retained.
	assert.Equal(t, float64(0), trimmed.Objects("quarterlyEarnings")[0]["idx"])
}

func TestEarningsForHistoryShortHistory(t *testing.T) {
	earnings := alphavantage.Payload{
		"quarterlyEarnings": reports(3),
		"annualEarnings":    reports(1),
	}

	trimmed := earningsForHistory(earnings)
	assert.Len(t, trimmed.Objects("quarterlyEarnings"), 3)
	assert.Len(t, trimmed.Objects("annualEarnings"), 1)
}

func TestStatementForAnalysis(t *testing.T) {
	trimmed := statementForAnalysis(alphavantage.Payload{"annualReports": reports(10)})
	assert.Len(t, trimmed.Objects("annualReports"), 3)
}

func TestStatementsForProjection(t *testing.T) {
	statement := alphavantage.Payload{
		"quarterlyReports": reports(12),
		"annualReports":    reports(6),
	}

	// Away from the fiscal year end: wide quarterly, narrow annual.
	trimmed := statementsForProjection(statement, "September", date(2026, time.February, 10))
	assert.Len(t, trimmed.Objects("quarterlyReports"), 8)
	assert.Len(t, trimmed.Objects("annualReports"), 3)

	// Near the fiscal year end the split flips.
	trimmed = statementsForProjection(statement, "September", date(2026, time.September, 20))
	assert.Len(t, trimmed.Objects("quarterlyReports"), 4)
	assert.Len(t, trimmed.Objects("annualReports"), 4)
}

func TestTrailingQuartersForValuation(t *testing.T) {
	statement := alphavantage.Payload{"quarterlyReports": reports(12)}

	assert.Len(t, trailingQuartersForValuation(statement, "September", date(2026, time.March, 1)), 4)
	assert.Len(t, trailingQuartersForValuation(statement, "September", date(2026, time.October, 1)), 9)
}

func TestConsensusEPS(t *testing.T) {
	t.Run("next_fiscal_quarter", func(t *testing.T) {
		estimates := alphavantage.Payload{
			"estimates": []any{
				map[string]any{"horizon": "current fiscal year", "eps_estimate_average": "6.10"},
				map[string]any{"horizon": "next fiscal quarter", "eps_estimate_average": "1.42"},
			},
		}
		assert.Equal(t, "1.42", consensusEPS(estimates))
	})

	t.Run("fallback_to_first_row", func(t *testing.T) {
		estimates := alphavantage.Payload{
			"estimates": []any{
				map[string]any{"horizon": "current fiscal year", "eps_estimate_average": "6.10"},
			},
		}
		assert.Equal(t, "6.10", consensusEPS(estimates))
	})

	t.Run("numeric_value", func(t *testing.T) {
		estimates := alphavantage.Payload{
			"estimates": []any{
				map[string]any{"horizon": "next fiscal quarter", "eps_estimate_average": 1.5},
			},
		}
		assert.Equal(t, "1.5", consensusEPS(estimates))
	})

	t.Run("no_estimates", func(t *testing.T) {
		assert.Equal(t, noConsensusSentinel, consensusEPS(alphavantage.Payload{}))
	})

	t.Run("empty_value", func(t *testing.T) {
		estimates := alphavantage.Payload{
			"estimates": []any{map[string]any{"horizon": "next fiscal quarter", "eps_estimate_average": ""}},
		}
		assert.Equal(t, noConsensusSentinel, consensusEPS(estimates))
	})
}

func TestMustJSON(t *testing.T) {
	require.JSONEq(t, `{"a":1}`, mustJSON(map[string]int{"a": 1}))
	assert.Equal(t, "{}", mustJSON(func() {}))
}

func TestFetchDegraded(t *testing.T) {
	rc := &runCtx{symbol: "AAPL", usage: NewUsageAccumulator(nil)}

	good := alphavantage.Payload{"k": "v"}
	assert.Equal(t, good, rc.fetchDegraded("earnings", good, nil))

	degraded := rc.fetchDegraded("earnings", nil, assert.AnError)
	require.NotNil(t, degraded)
	assert.Empty(t, degraded)

	// Both attempts count as market requests, the failed one included.
	assert.Equal(t, 2, rc.usage.Fetches())
}
