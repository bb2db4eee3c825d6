package research

import (
	"context"
	"fmt"

	"github.com/halcyon-research/equity-cli/internal/model"
	"github.com/halcyon-research/equity-cli/pkg/alphavantage"
	"github.com/halcyon-research/equity-cli/pkg/anthropic"
)

const companyOverviewInstructions = `You are an equity research analyst preparing the business context section
of a research report. You receive the raw company overview for a publicly
traded company: identity, sector, valuation ratios, profitability metrics,
and growth indicators.

Produce a structured assessment with these fields:
- company_name, sector, industry: taken from the data.
- market_cap_category: one of mega-cap, large-cap, mid-cap, small-cap,
  micro-cap based on market capitalization.
- business_description: two or three sentences on what the company does.
- key_financials: the most decision-relevant fundamentals, with figures.
- valuation_metrics: P/E, price-to-book, EV ratios and what they imply.
- profitability_assessment: margins and returns on capital.
- growth_indicators: revenue and earnings growth signals in the data.
- risk_factors: the main risks visible from the fundamentals alone.
- competitive_position: how the fundamentals suggest the company sits
  against its sector.
- long_form_analysis: a thorough narrative tying the above together.

Ground every statement in the supplied data. Do not invent figures.`

// stageCompanyOverview produces the business context every later stage
// leans on. The raw payload rides along in the cached record because
// several downstream fetches need the fiscal year end and fundamentals; a
// cache hit must serve those without touching the API again.
func (p *Pipeline) stageCompanyOverview(ctx context.Context, rc *runCtx) (bool, error) {
	analysis, cached, err := cacheOrCompute(ctx, p, rc, StageCompanyOverview, func() (model.CompanyOverviewAnalysis, error) {
		overview, err := p.market.CompanyOverview(ctx, rc.symbol)
		overview = rc.fetchDegraded("company_overview", overview, err)

		input := fmt.Sprintf("symbol: %s\ncompany_overview: %s", rc.symbol, mustJSON(overview))
		out, usage, err := anthropic.RunObject[model.CompanyOverviewAnalysis](
			ctx, p.anthropic, p.analysisSpec("company-overview", companyOverviewInstructions), input)
		rc.usage.Record(StageCompanyOverview, p.cfg.Anthropic.AnalysisModel, usage)
		if err != nil {
			return out, err
		}
		out.Symbol = rc.symbol
		out.FiscalYearEnd = overview.String("FiscalYearEnd")
		out.RawOverview = overview
		return out, nil
	})
	if err != nil {
		return false, err
	}
	rc.result.Overview = analysis
	rc.overviewRaw = alphavantage.Payload(analysis.RawOverview)
	rc.fiscalYearEnd = analysis.FiscalYearEnd
	rc.companyName = analysis.CompanyName
	rc.sector = analysis.Sector
	rc.industry = analysis.Industry
	return cached, nil
}

// fetchGlobalQuote returns the current price snapshot. Quotes are always
// fetched fresh.
func (p *Pipeline) fetchGlobalQuote(ctx context.Context, rc *runCtx) model.GlobalQuoteData {
	payload, err := p.market.GlobalQuote(ctx, rc.symbol)
	payload = rc.fetchDegraded("global_quote", payload, err)

	quote := payload.Object("Global Quote")
	price := quote.String("05. price")
	if price == "" {
		price = quote.String("price")
	}
	return model.GlobalQuoteData{Symbol: rc.symbol, Price: price}
}
