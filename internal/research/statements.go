package research

import (
	"context"
	"fmt"

	"github.com/halcyon-research/equity-cli/internal/model"
	"github.com/halcyon-research/equity-cli/pkg/anthropic"
)

const financialStatementsInstructions = `You are an equity research analyst focused on financial statement
quality. You receive three fiscal years of income statements, balance
sheets, and cash flow statements for one company, each ordered newest
first.

Classify the statements:
- revenue_driver_trend: STRENGTHENING, WEAKENING, STABLE, VOLATILE, or
  INSUFFICIENT_DATA.
- cost_structure_trend: IMPROVING_EFFICIENCY, DETERIORATING_EFFICIENCY,
  STABLE_STRUCTURE, VOLATILE_COSTS, or INSUFFICIENT_DATA.
- working_capital_trend: IMPROVING_MANAGEMENT, DETERIORATING_MANAGEMENT,
  STABLE_MANAGEMENT, CASH_FLOW_CONCERNS, or INSUFFICIENT_DATA. Flag
  CASH_FLOW_CONCERNS when operating cash flow diverges from net income or
  receivables outgrow revenue.

Give a details field for each classification citing the line items behind
it. List key_financial_changes (notable year-over-year moves) and
near_term_projection_risks (statement items that could break a naive next
quarter projection). Write long_form_analysis as a full narrative and
critical_insights as the short list of statement facts that matter most.
Use only the supplied figures.`

// stageFinancialStatements analyzes the three primary statements for
// revenue drivers, cost structure, and working capital quality.
func (p *Pipeline) stageFinancialStatements(ctx context.Context, rc *runCtx) (bool, error) {
	analysis, cached, err := cacheOrCompute(ctx, p, rc, StageFinancialStatements, func() (model.FinancialStatementsAnalysis, error) {
		var zero model.FinancialStatementsAnalysis

		income, err := p.market.IncomeStatement(ctx, rc.symbol)
		income = rc.fetchDegraded("income_statement", income, err)
		balance, err := p.market.BalanceSheet(ctx, rc.symbol)
		balance = rc.fetchDegraded("balance_sheet", balance, err)
		cashflow, err := p.market.CashFlow(ctx, rc.symbol)
		cashflow = rc.fetchDegraded("cash_flow", cashflow, err)

		input := fmt.Sprintf(
			"symbol: %s\nincome_statements: %s\nbalance_sheets: %s\ncash_flow_statements: %s",
			rc.symbol,
			mustJSON(statementForAnalysis(income)),
			mustJSON(statementForAnalysis(balance)),
			mustJSON(statementForAnalysis(cashflow)),
		)

		out, usage, err := anthropic.RunObject[model.FinancialStatementsAnalysis](
			ctx, p.anthropic, p.analysisSpec("financial-statements", financialStatementsInstructions), input)
		rc.usage.Record(StageFinancialStatements, p.cfg.Anthropic.AnalysisModel, usage)
		if err != nil {
			return zero, err
		}
		out.Symbol = rc.symbol
		return out, nil
	})
	if err != nil {
		return false, err
	}
	rc.result.Financial = analysis
	return cached, nil
}
