package research

import (
	"context"
	"fmt"

	"github.com/halcyon-research/equity-cli/internal/model"
	"github.com/halcyon-research/equity-cli/pkg/anthropic"
)

const forwardPeSanityCheckInstructions = `You are a skeptical equity research reviewer. You receive a company's
numeric fundamentals, trailing quarterly income statements, the street
consensus EPS for next quarter, the independent next-quarter projection,
and the current price. Analyst ratings and price targets are withheld on
purpose; judge from the figures alone.

Judge whether the forward earnings base is trustworthy enough to build a
forward P/E on:
- earnings_data_quality: HIGH_QUALITY, ADEQUATE_QUALITY,
  QUESTIONABLE_QUALITY, or POOR_QUALITY. Downgrade for one-offs,
  restatements, and wild quarter-to-quarter swings.
- consensus_reliability: HIGH, MEDIUM, LOW, or INSUFFICIENT_DATA. Use
  INSUFFICIENT_DATA when consensus is missing.
- is_realistic: REALISTIC, PLAUSIBLE, or NOT_REALISTIC, for the implied
  forward earnings as a whole.

Write long_form_analysis explaining the judgement and critical_insights
with the specific items that drove it.`

const forwardPeInstructions = `You are an equity research analyst producing a forward P/E valuation.
You receive the current price, the company's numeric fundamentals,
trailing quarterly income statements, the street consensus EPS, the
independent next-quarter projection, the management guidance analysis,
the peer group, and an upstream sanity check on the earnings base.
Analyst ratings and price targets are withheld on purpose.

Compute forward_pe_ratio from the current price and a forward EPS you
justify from projection plus consensus. Estimate sector_average_pe for
the peer group and describe historical_pe_range for the company.
Classify:
- valuation_attractiveness: UNDERVALUED, FAIRLY_VALUED, OVERVALUED, or
  EXTREME_VALUATION against peers and history.
- earnings_quality: HIGH_QUALITY, ADEQUATE_QUALITY, QUESTIONABLE_QUALITY,
  or POOR_QUALITY, deferring sharply to the sanity check.
- confidence: HIGH, MEDIUM, LOW, or INSUFFICIENT_DATA. A NOT_REALISTIC
  sanity verdict caps confidence at LOW.

Write long_form_analysis and critical_insights as full prose. current_price
must echo the supplied price.`

// stageForwardPeSanityCheck independently audits the forward earnings
// base before the valuation consumes it.
func (p *Pipeline) stageForwardPeSanityCheck(ctx context.Context, rc *runCtx) (bool, error) {
	check, cached, err := cacheOrCompute(ctx, p, rc, StageForwardPeSanityCheck, func() (model.ForwardPeSanityCheck, error) {
		var zero model.ForwardPeSanityCheck

		income, err := p.market.IncomeStatement(ctx, rc.symbol)
		income = rc.fetchDegraded("income_statement", income, err)
		estimates, err := p.market.EarningsEstimates(ctx, rc.symbol)
		estimates = rc.fetchDegraded("earnings_estimates", estimates, err)

		input := fmt.Sprintf(
			"symbol: %s\ncurrent_price: %s\noverview_fundamentals: %s\ntrailing_quarters: %s\nconsensus_eps_next_quarter: %s\nearnings_projection: %s",
			rc.symbol, rc.result.Quote.Price,
			mustJSON(strippedOverview(rc.overviewRaw)),
			mustJSON(trailingQuartersForValuation(income, rc.fiscalYearEnd, rc.now)),
			consensusEPS(estimates),
			mustJSON(rc.result.Projections),
		)

		out, usage, err := anthropic.RunObject[model.ForwardPeSanityCheck](
			ctx, p.anthropic, p.analysisSpec("forward-pe-sanity-check", forwardPeSanityCheckInstructions), input)
		rc.usage.Record(StageForwardPeSanityCheck, p.cfg.Anthropic.AnalysisModel, usage)
		if err != nil {
			return zero, err
		}
		out.Symbol = rc.symbol
		return out, nil
	})
	if err != nil {
		return false, err
	}
	rc.result.Sanity = check
	return cached, nil
}

// stageForwardPe produces the forward P/E valuation from the audited
// earnings base, peers, projection, and guidance.
func (p *Pipeline) stageForwardPe(ctx context.Context, rc *runCtx) (bool, error) {
	valuation, cached, err := cacheOrCompute(ctx, p, rc, StageForwardPe, func() (model.ForwardPeValuation, error) {
		var zero model.ForwardPeValuation

		income, err := p.market.IncomeStatement(ctx, rc.symbol)
		income = rc.fetchDegraded("income_statement", income, err)
		estimates, err := p.market.EarningsEstimates(ctx, rc.symbol)
		estimates = rc.fetchDegraded("earnings_estimates", estimates, err)

		input := fmt.Sprintf(
			"symbol: %s\ncurrent_price: %s\noverview_fundamentals: %s\ntrailing_quarters: %s\nconsensus_eps_next_quarter: %s\nearnings_projection: %s\nmanagement_guidance: %s\npeer_group: %s\nsanity_check: %s",
			rc.symbol, rc.result.Quote.Price,
			mustJSON(strippedOverview(rc.overviewRaw)),
			mustJSON(trailingQuartersForValuation(income, rc.fiscalYearEnd, rc.now)),
			consensusEPS(estimates),
			mustJSON(rc.result.Projections),
			mustJSON(rc.result.Guidance),
			mustJSON(rc.result.Peers),
			mustJSON(rc.result.Sanity),
		)

		out, usage, err := anthropic.RunObject[model.ForwardPeValuation](
			ctx, p.anthropic, p.analysisSpec("forward-pe", forwardPeInstructions), input)
		rc.usage.Record(StageForwardPe, p.cfg.Anthropic.AnalysisModel, usage)
		if err != nil {
			return zero, err
		}
		out.Symbol = rc.symbol
		return out, nil
	})
	if err != nil {
		return false, err
	}
	rc.result.ForwardPe = valuation
	return cached, nil
}
