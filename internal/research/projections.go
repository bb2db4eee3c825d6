package research

import (
	"context"
	"fmt"

	"github.com/halcyon-research/equity-cli/internal/model"
	"github.com/halcyon-research/equity-cli/pkg/anthropic"
)

const earningsProjectionsInstructions = `You are an equity research analyst building an independent projection of
next quarter's income statement. You receive quarterly and annual income
statement history, the upstream historical earnings analysis, the upstream
financial statements analysis, and the street's consensus EPS estimate for
the next fiscal quarter (or the literal string "Not enough consensus").

Project every line item of next_quarter_projection: revenue, COGS, gross
profit and margin, SG&A, R&D, total opex, operating income and margin,
interest expense, tax expense and rate, net income, and EPS. Name the
methodology for revenue (HISTORICAL_TREND, SEASONAL_ADJUSTMENT,
GROWTH_RATE_EXTRAPOLATION, MIXED_METHODOLOGY) and for COGS (MARGIN_BASED,
PERCENTAGE_OF_REVENUE, HISTORICAL_TREND, MIXED_METHODOLOGY), with
reasoning for each major line.

Your projection must be independent: derive it from the statement history
first, then compare against consensus. When a numeric consensus is
supplied, fill consensus_eps_estimate, eps_vs_consensus_diff, and
eps_vs_consensus_percent, and write consensus_validation_summary
explaining the gap. When consensus is unavailable, omit those fields and
say so in the summary.

Score data_quality_score from 0 to 10. List key_assumptions, upside_risks,
and downside_risks. Write long_form_analysis and critical_insights as full
prose.`

// stageEarningsProjections builds the independent next-quarter projection
// from statement history, upstream analyses, and street consensus.
func (p *Pipeline) stageEarningsProjections(ctx context.Context, rc *runCtx) (bool, error) {
	analysis, cached, err := cacheOrCompute(ctx, p, rc, StageEarningsProjections, func() (model.EarningsProjectionAnalysis, error) {
		var zero model.EarningsProjectionAnalysis

		income, err := p.market.IncomeStatement(ctx, rc.symbol)
		income = rc.fetchDegraded("income_statement", income, err)
		estimates, err := p.market.EarningsEstimates(ctx, rc.symbol)
		estimates = rc.fetchDegraded("earnings_estimates", estimates, err)

		input := fmt.Sprintf(
			"symbol: %s\nincome_statements: %s\nconsensus_eps_next_quarter: %s\nhistorical_earnings_analysis: %s\nfinancial_statements_analysis: %s",
			rc.symbol,
			mustJSON(statementsForProjection(income, rc.fiscalYearEnd, rc.now)),
			consensusEPS(estimates),
			mustJSON(rc.result.Historical),
			mustJSON(rc.result.Financial),
		)

		out, usage, err := anthropic.RunObject[model.EarningsProjectionAnalysis](
			ctx, p.anthropic, p.analysisSpec("earnings-projections", earningsProjectionsInstructions), input)
		rc.usage.Record(StageEarningsProjections, p.cfg.Anthropic.AnalysisModel, usage)
		if err != nil {
			return zero, err
		}
		out.Symbol = rc.symbol
		return out, nil
	})
	if err != nil {
		return false, err
	}
	rc.result.Projections = analysis
	return cached, nil
}
