package cost

import "github.com/halcyon-research/equity-cli/pkg/anthropic"

// Rates holds per-provider pricing configuration.
type Rates struct {
	Anthropic    map[string]ModelRate `yaml:"anthropic" mapstructure:"anthropic"`
	AlphaVantage AlphaVantageRate     `yaml:"alphavantage" mapstructure:"alphavantage"`
}

// ModelRate holds per-model token pricing (per million tokens).
type ModelRate struct {
	Input         float64 `yaml:"input" mapstructure:"input"`
	Output        float64 `yaml:"output" mapstructure:"output"`
	CacheWriteMul float64 `yaml:"cache_write_mul" mapstructure:"cache_write_mul"`
	CacheReadMul  float64 `yaml:"cache_read_mul" mapstructure:"cache_read_mul"`
}

// AlphaVantageRate holds the market data plan pricing.
type AlphaVantageRate struct {
	PlanMonthly      float64 `yaml:"plan_monthly" mapstructure:"plan_monthly"`
	RequestsIncluded float64 `yaml:"requests_included" mapstructure:"requests_included"`
}

// Calculator computes costs for API usage.
type Calculator struct {
	rates Rates
}

// NewCalculator creates a Calculator with the given rates.
func NewCalculator(rates Rates) *Calculator {
	return &Calculator{rates: rates}
}

// Claude computes the cost in USD for a Claude API call. Unknown models
// cost zero rather than erroring, so accounting never blocks a run.
func (c *Calculator) Claude(model string, usage anthropic.TokenUsage) float64 {
	rate, ok := c.rates.Anthropic[model]
	if !ok {
		return 0
	}

	inCost := (float64(usage.InputTokens) / 1e6) * rate.Input
	outCost := (float64(usage.OutputTokens) / 1e6) * rate.Output
	cwCost := (float64(usage.CacheCreationInputTokens) / 1e6) * rate.Input * rate.CacheWriteMul
	crCost := (float64(usage.CacheReadInputTokens) / 1e6) * rate.Input * rate.CacheReadMul

	return inCost + outCost + cwCost + crCost
}

// AlphaVantageRequest returns the amortized cost of one market data request.
func (c *Calculator) AlphaVantageRequest() float64 {
	if c.rates.AlphaVantage.RequestsIncluded <= 0 {
		return 0
	}
	return c.rates.AlphaVantage.PlanMonthly / c.rates.AlphaVantage.RequestsIncluded
}

// DefaultRates returns the default pricing rates.
func DefaultRates() Rates {
	return Rates{
		Anthropic: map[string]ModelRate{
			"claude-haiku-4-5-20251001": {
				Input: 0.80, Output: 4.00,
				CacheWriteMul: 1.25, CacheReadMul: 0.1,
			},
			"claude-sonnet-4-5-20250929": {
				Input: 3.00, Output: 15.00,
				CacheWriteMul: 1.25, CacheReadMul: 0.1,
			},
			"claude-opus-4-6": {
				Input: 15.00, Output: 75.00,
				CacheWriteMul: 1.25, CacheReadMul: 0.1,
			},
		},
		AlphaVantage: AlphaVantageRate{PlanMonthly: 49.99, RequestsIncluded: 75 * 60 * 24 * 30},
	}
}
