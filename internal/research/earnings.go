package research

import (
	"context"
	"fmt"

	"github.com/halcyon-research/equity-cli/internal/model"
	"github.com/halcyon-research/equity-cli/pkg/anthropic"
)

const historicalEarningsInstructions = `You are an equity research analyst focused on earnings history. You
receive a company's recent earnings record: up to ten quarters of reported
vs estimated EPS with surprise percentages, up to five fiscal years of
annual EPS, and up to five annual income statements.

Classify the record:
- earnings_pattern: CONSISTENT_BEATS, CONSISTENT_MISSES, MIXED_PATTERN,
  VOLATILE, or INSUFFICIENT_DATA. Use INSUFFICIENT_DATA whenever fewer
  than four quarters are available.
- revenue_growth_trend: ACCELERATING, DECELERATING, STABLE, DECLINING,
  VOLATILE, or INSUFFICIENT_DATA. The histories are ordered newest first;
  compute growth between consecutive periods accordingly.
- margin_trend: IMPROVING, DETERIORATING, STABLE, VOLATILE, or
  INSUFFICIENT_DATA, based on gross and operating margins across the
  annual income statements.

For each classification give a details field citing the specific figures
that drove it. List 3-5 key_insights a portfolio manager should know.
Write long_form_analysis as a full narrative of the earnings record and
critical_insights as the two or three facts that matter most for the next
quarter. Never guess a value that is not in the data.`

// stageHistoricalEarnings analyzes beat/miss history, revenue growth, and
// margin direction from the earnings and income statement feeds.
func (p *Pipeline) stageHistoricalEarnings(ctx context.Context, rc *runCtx) (bool, error) {
	analysis, cached, err := cacheOrCompute(ctx, p, rc, StageHistoricalEarnings, func() (model.HistoricalEarningsAnalysis, error) {
		var zero model.HistoricalEarningsAnalysis

		earnings, err := p.market.Earnings(ctx, rc.symbol)
		earnings = rc.fetchDegraded("earnings", earnings, err)
		income, err := p.market.IncomeStatement(ctx, rc.symbol)
		income = rc.fetchDegraded("income_statement", income, err)

		input := fmt.Sprintf(
			"symbol: %s\nearnings_history: %s\nincome_statements: %s",
			rc.symbol,
			mustJSON(earningsForHistory(earnings)),
			mustJSON(incomeForHistory(income)),
		)

		out, usage, err := anthropic.RunObject[model.HistoricalEarningsAnalysis](
			ctx, p.anthropic, p.analysisSpec("historical-earnings", historicalEarningsInstructions), input)
		rc.usage.Record(StageHistoricalEarnings, p.cfg.Anthropic.AnalysisModel, usage)
		if err != nil {
			return zero, err
		}
		out.Symbol = rc.symbol
		return out, nil
	})
	if err != nil {
		return false, err
	}
	rc.result.Historical = analysis
	return cached, nil
}
