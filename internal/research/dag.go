package research

import "github.com/rotisserie/eris"

// Stage names one pipeline stage. The name doubles as the cache report
// type, so renaming a stage invalidates its cached reports.
type Stage string

const (
	StageCompanyOverview      Stage = "company_overview"
	StageGlobalQuote          Stage = "global_quote"
	StageHistoricalEarnings   Stage = "historical_earnings"
	StageFinancialStatements  Stage = "financial_statements"
	StageEarningsProjections  Stage = "earnings_projections"
	StageManagementGuidance   Stage = "management_guidance"
	StagePeerGroup            Stage = "peer_group"
	StageForwardPeSanityCheck Stage = "forward_pe_sanity_check"
	StageForwardPe            Stage = "forward_pe"
	StageNewsSentiment        Stage = "news_sentiment"
	StageCrossReference       Stage = "cross_reference"
	StageTradeIdeas           Stage = "trade_ideas"
	StageComprehensiveReport  Stage = "comprehensive_report"
	StageKeyInsights          Stage = "key_insights"
)

type stageNode struct {
	stage Stage
	deps  []Stage
}

// stageGraph declares every stage and its upstream dependencies. The
// execution order is derived from this graph, never hand-maintained.
var stageGraph = []stageNode{
	{StageCompanyOverview, nil},
	{StageGlobalQuote, nil},
	{StageHistoricalEarnings, []Stage{StageCompanyOverview}},
	{StageFinancialStatements, []Stage{StageCompanyOverview}},
	{StageEarningsProjections, []Stage{StageHistoricalEarnings, StageFinancialStatements}},
	{StageManagementGuidance, []Stage{StageHistoricalEarnings, StageFinancialStatements}},
	{StagePeerGroup, []Stage{StageCompanyOverview, StageFinancialStatements}},
	{StageForwardPeSanityCheck, []Stage{StageGlobalQuote, StageEarningsProjections}},
	{StageForwardPe, []Stage{StageGlobalQuote, StagePeerGroup, StageEarningsProjections, StageManagementGuidance, StageForwardPeSanityCheck}},
	{StageNewsSentiment, []Stage{StagePeerGroup, StageEarningsProjections, StageManagementGuidance}},
	{StageCrossReference, []Stage{StageHistoricalEarnings, StageFinancialStatements, StageEarningsProjections, StageManagementGuidance, StageForwardPe, StageNewsSentiment}},
	{StageTradeIdeas, []Stage{StageGlobalQuote, StageCrossReference}},
	{StageComprehensiveReport, []Stage{StageCompanyOverview, StageGlobalQuote, StageCrossReference, StageTradeIdeas}},
	{StageKeyInsights, []Stage{StageComprehensiveReport}},
}

// StageOrder returns the stages in dependency order. Ties resolve by
// declaration order so the schedule is identical on every run.
func StageOrder() ([]Stage, error) {
	known := make(map[Stage]bool, len(stageGraph))
	indegree := make(map[Stage]int, len(stageGraph))
	dependents := make(map[Stage][]Stage)

	for _, n := range stageGraph {
		known[n.stage] = true
	}
	for _, n := range stageGraph {
		for _, d := range n.deps {
			if !known[d] {
				return nil, eris.Errorf("research: stage %s depends on unknown stage %s", n.stage, d)
			}
			indegree[n.stage]++
			dependents[d] = append(dependents[d], n.stage)
		}
	}

	order := make([]Stage, 0, len(stageGraph))
	done := make(map[Stage]bool, len(stageGraph))
	for len(order) < len(stageGraph) {
		progressed := false
		for _, n := range stageGraph {
			if done[n.stage] || indegree[n.stage] > 0 {
				continue
			}
			done[n.stage] = true
			order = append(order, n.stage)
			for _, dep := range dependents[n.stage] {
				indegree[dep]--
			}
			progressed = true
		}
		if !progressed {
			return nil, eris.New("research: stage graph has a cycle")
		}
	}
	return order, nil
}

// stageDeps returns the declared dependencies of a stage.
func stageDeps(s Stage) []Stage {
	for _, n := range stageGraph {
		if n.stage == s {
			return n.deps
		}
	}
	return nil
}
