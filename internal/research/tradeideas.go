package research

import (
	"context"
	"fmt"

	"github.com/halcyon-research/equity-cli/internal/model"
	"github.com/halcyon-research/equity-cli/pkg/anthropic"
)

const tradeIdeasInstructions = `You are a trade structuring analyst. From the cross-referenced research
and the current quote, construct one actionable trade idea for the
symbol.

Direction vocabulary:
- trade_direction: LONG, SHORT, NEUTRAL, or COMPLEX (multi-leg).
- time_horizon: SHORT_TERM (weeks), MEDIUM_TERM (one to two quarters),
  LONG_TERM (a year or more).
- risk_level: LOW, MEDIUM, HIGH, or VERY_HIGH.
- overall_confidence: HIGH, MEDIUM, LOW, or SPECULATIVE.

Give a high_level_trade_idea a desk could act on, the reasoning behind
it, key_catalysts that would confirm it, and risk_factors that would
break it. Spell out simple_equity_trade_specifics (shares, entries,
exits), an option_play expressing the same view with defined risk, and a
risk_hedge for the position. Price targets (entry_price_target,
upside_price_target, downside_stop_loss) must be anchored to the quoted
price, not invented levels. Weight major cross-reference adjustments
heavily; where the analyses disagreed, the reconciled view governs.
Finish with critical_insights: what matters most in one short paragraph.`

// stageTradeIdeas synthesizes a trade idea from the reconciled research.
func (p *Pipeline) stageTradeIdeas(ctx context.Context, rc *runCtx) (bool, error) {
	idea, cached, err := cacheOrCompute(ctx, p, rc, StageTradeIdeas, func() (model.TradeIdea, error) {
		var zero model.TradeIdea

		input := fmt.Sprintf(
			"symbol: %s\nanalysis_date: %s\nglobal_quote: %s\ncross_referenced_research: %s\n"+
				"historical_earnings: %s\nfinancial_statements: %s\nearnings_projections: %s\n"+
				"management_guidance: %s\nforward_pe_valuation: %s\nnews_sentiment: %s",
			rc.symbol, rc.result.Date,
			mustJSON(rc.result.Quote),
			mustJSON(rc.result.CrossReference),
			mustJSON(rc.result.Historical),
			mustJSON(rc.result.Financial),
			mustJSON(rc.result.Projections),
			mustJSON(rc.result.Guidance),
			mustJSON(rc.result.ForwardPe),
			mustJSON(rc.result.Sentiment),
		)

		idea, usage, err := anthropic.RunObject[model.TradeIdea](
			ctx, p.anthropic, p.analysisSpec("trade-ideas", tradeIdeasInstructions), input)
		rc.usage.Record(StageTradeIdeas, p.cfg.Anthropic.AnalysisModel, usage)
		if err != nil {
			return zero, err
		}
		idea.Symbol = rc.symbol
		return idea, nil
	})
	if err != nil {
		return false, err
	}
	rc.result.TradeIdea = idea
	return cached, nil
}
