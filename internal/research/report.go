package research

import (
	"context"
	"fmt"

	"github.com/halcyon-research/equity-cli/internal/model"
	"github.com/halcyon-research/equity-cli/pkg/anthropic"
)

const comprehensiveReportInstructions = `You are the lead analyst writing the final research report. You receive
every completed analysis for the symbol, the cross-reference
reconciliation, and the proposed trade idea.

Write comprehensive_analysis as a full institutional-style report in
markdown with exactly these sections, in this order:
1. Executive Summary: the investment thesis and key findings up front.
2. Investment Recommendations: specific buy/sell/hold guidance.
3. Company Overview: business context and market positioning.
4. Historical Earnings Analysis: trends, quality, beat/miss patterns.
5. Financial Statements Analysis: financial health and its trends.
6. Earnings Projections Analysis: forward expectations and drivers.
7. Management Guidance Analysis: guidance and management commentary.
8. Peer Group Analysis: competitive positioning and relative valuation.
9. Valuation Analysis (Forward PE): the forward P/E work and its
   sanity check.
10. News Sentiment Analysis: market sentiment and recent developments.
11. Cross-Reference Validation: the reconciled discrepancies and how
    they were resolved.
12. Trade Ideas: entry/exit criteria and position recommendations.

Where the cross-reference pass adjusted an analysis, present the
adjusted view and note the disagreement. Set report_date to the
analysis date you were given. Do not hedge every statement; commit to
the reconciled view.`

const keyInsightsInstructions = `You distill a finished research report into its decision-relevant core.
You receive only the comprehensive report; do not introduce facts or
views that are not in it.

Write critical_insights as a tight markdown brief an investor reads in
under a minute: the thesis, the two or three numbers that carry it, the
main risk, and the recommended action. Carry over symbol, company_name,
and report_date unchanged.`

// stageComprehensiveReport writes the long-form report from every
// upstream artifact.
func (p *Pipeline) stageComprehensiveReport(ctx context.Context, rc *runCtx) (bool, error) {
	report, cached, err := cacheOrCompute(ctx, p, rc, StageComprehensiveReport, func() (model.ComprehensiveReport, error) {
		var zero model.ComprehensiveReport

		input := fmt.Sprintf(
			"symbol: %s\ncompany_name: %s\nanalysis_date: %s\ncompany_overview: %s\nglobal_quote: %s\n"+
				"historical_earnings: %s\nfinancial_statements: %s\nearnings_projections: %s\n"+
				"management_guidance: %s\npeer_group: %s\nforward_pe_sanity_check: %s\n"+
				"forward_pe_valuation: %s\nnews_sentiment: %s\ncross_reference: %s\ntrade_idea: %s",
			rc.symbol, rc.companyName, rc.result.Date,
			mustJSON(rc.result.Overview),
			mustJSON(rc.result.Quote),
			mustJSON(rc.result.Historical),
			mustJSON(rc.result.Financial),
			mustJSON(rc.result.Projections),
			mustJSON(rc.result.Guidance),
			mustJSON(rc.result.Peers),
			mustJSON(rc.result.Sanity),
			mustJSON(rc.result.ForwardPe),
			mustJSON(rc.result.Sentiment),
			mustJSON(rc.result.CrossReference),
			mustJSON(rc.result.TradeIdea),
		)

		report, usage, err := anthropic.RunObject[model.ComprehensiveReport](
			ctx, p.anthropic, p.reportSpec("comprehensive-report", comprehensiveReportInstructions), input)
		rc.usage.Record(StageComprehensiveReport, p.cfg.Anthropic.ReportModel, usage)
		if err != nil {
			return zero, err
		}
		report.Symbol = rc.symbol
		report.ReportDate = rc.result.Date
		return report, nil
	})
	if err != nil {
		return false, err
	}
	rc.result.Report = report
	return cached, nil
}

// stageKeyInsights compresses the comprehensive report. It deliberately
// sees nothing but the report itself.
func (p *Pipeline) stageKeyInsights(ctx context.Context, rc *runCtx) (bool, error) {
	insights, cached, err := cacheOrCompute(ctx, p, rc, StageKeyInsights, func() (model.KeyInsights, error) {
		var zero model.KeyInsights

		input := fmt.Sprintf("comprehensive_report: %s", mustJSON(rc.result.Report))

		insights, usage, err := anthropic.RunObject[model.KeyInsights](
			ctx, p.anthropic, p.reportSpec("key-insights", keyInsightsInstructions), input)
		rc.usage.Record(StageKeyInsights, p.cfg.Anthropic.ReportModel, usage)
		if err != nil {
			return zero, err
		}
		insights.Symbol = rc.symbol
		insights.ReportDate = rc.result.Date
		return insights, nil
	})
	if err != nil {
		return false, err
	}
	rc.result.Insights = insights
	return cached, nil
}
