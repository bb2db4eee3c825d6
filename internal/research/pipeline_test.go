package research

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/halcyon-research/equity-cli/internal/config"
	"github.com/halcyon-research/equity-cli/internal/model"
	"github.com/halcyon-research/equity-cli/internal/store"
	"github.com/halcyon-research/equity-cli/pkg/alphavantage"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Anthropic: config.AnthropicConfig{
			AnalysisModel:   "claude-sonnet-4-5-20250929",
			ReportModel:     "claude-sonnet-4-5-20250929",
			MaxTokens:       8192,
			ReportMaxTokens: 16384,
		},
		Research: config.ResearchConfig{
			CacheTTLHours: 24,
			ReportsDir:    filepath.Join(t.TempDir(), "reports"),
		},
	}
}

func testStore(t *testing.T) store.Store {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "research.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func stubMarket(m *mockMarketClient) {
	m.On("CompanyOverview", mock.Anything, "AAPL").Return(alphavantage.Payload{
		"Symbol": "AAPL", "Name": "Apple Inc", "Sector": "TECHNOLOGY",
		"Industry": "Consumer Electronics", "FiscalYearEnd": "September",
		"MarketCapitalization": "3400000000000",
	}, nil)
	m.On("GlobalQuote", mock.Anything, "AAPL").Return(alphavantage.Payload{
		"Global Quote": map[string]any{"01. symbol": "AAPL", "05. price": "232.5000"},
	}, nil)
	m.On("Earnings", mock.Anything, "AAPL").Return(alphavantage.Payload{
		"quarterlyEarnings": []any{
			map[string]any{"fiscalDateEnding": "2026-06-30", "reportedEPS": "1.57", "estimatedEPS": "1.48", "surprisePercentage": "6.08"},
			map[string]any{"fiscalDateEnding": "2026-03-31", "reportedEPS": "1.65", "estimatedEPS": "1.62", "surprisePercentage": "1.85"},
		},
		"annualEarnings": []any{
			map[string]any{"fiscalDateEnding": "2025-09-30", "reportedEPS": "6.75"},
		},
	}, nil)
	m.On("IncomeStatement", mock.Anything, "AAPL").Return(alphavantage.Payload{
		"annualReports": []any{
			map[string]any{"fiscalDateEnding": "2025-09-30", "totalRevenue": "400000000000", "netIncome": "100000000000"},
		},
		"quarterlyReports": []any{
			map[string]any{"fiscalDateEnding": "2026-06-30", "totalRevenue": "90000000000", "netIncome": "23000000000"},
			map[string]any{"fiscalDateEnding": "2026-03-31", "totalRevenue": "95000000000", "netIncome": "25000000000"},
		},
	}, nil)
	m.On("BalanceSheet", mock.Anything, "AAPL").Return(alphavantage.Payload{
		"annualReports": []any{
			map[string]any{"fiscalDateEnding": "2025-09-30", "totalAssets": "360000000000"},
		},
	}, nil)
	m.On("CashFlow", mock.Anything, "AAPL").Return(alphavantage.Payload{
		"annualReports": []any{
			map[string]any{"fiscalDateEnding": "2025-09-30", "operatingCashflow": "115000000000"},
		},
	}, nil)
	m.On("EarningsEstimates", mock.Anything, "AAPL").Return(alphavantage.Payload{
		"estimates": []any{
			map[string]any{"horizon": "next fiscal quarter", "eps_estimate_average": "1.72"},
		},
	}, nil)
	m.On("EarningsCallTranscript", mock.Anything, "AAPL", mock.Anything).Return(alphavantage.Payload{
		"transcript": []any{
			map[string]any{"speaker": "CEO", "content": "We expect continued services growth next quarter."},
		},
	}, nil)
	m.On("NewsSentiment", mock.Anything, mock.Anything).Return(alphavantage.Payload{
		"feed": []any{
			map[string]any{"title": "Apple beats estimates", "overall_sentiment_label": "Bullish", "overall_sentiment_score": 0.42},
		},
	}, nil)
}

func stubModel(m *mockModelClient) {
	expectStage(m, companyOverviewInstructions,
		`{"symbol":"AAPL","company_name":"Apple Inc","sector":"TECHNOLOGY","industry":"Consumer Electronics","market_cap_category":"mega-cap","business_description":"Designs and sells consumer devices and services."}`)
	expectStage(m, historicalEarningsInstructions,
		`{"symbol":"AAPL","earnings_pattern":"CONSISTENT_BEATS","revenue_growth_trend":"STABLE","margin_trend":"IMPROVING","long_form_analysis":"Beats in eight of ten quarters."}`)
	expectStage(m, financialStatementsInstructions,
		`{"symbol":"AAPL","revenue_driver_trend":"STRENGTHENING","cost_structure_trend":"STABLE_STRUCTURE","working_capital_trend":"STABLE_MANAGEMENT"}`)
	expectStage(m, earningsProjectionsInstructions,
		`{"symbol":"AAPL","next_quarter_projection":{"projected_revenue":96500000000,"revenue_projection_method":"SEASONAL_ADJUSTMENT","projected_cogs":51000000000,"cogs_projection_method":"MARGIN_BASED","projected_eps":1.78},"data_quality_score":8}`)
	expectStage(m, managementGuidanceInstructions,
		`{"symbol":"AAPL","transcript_available":true,"guidance_indicators":[{"type":"revenue","direction":"POSITIVE","context":"services growth"}],"overall_guidance_tone":"OPTIMISTIC","consensus_validation_signal":"BULLISH","key_guidance_summary":"Management guided services up."}`)
	expectStage(m, peerGroupInstructions,
		`{"original_symbol":"AAPL","peer_group":["MSFT","GOOGL","DELL"],"selection_reasoning":"Large-cap hardware and platform peers."}`)
	expectStage(m, forwardPeSanityCheckInstructions,
		`{"symbol":"AAPL","earnings_data_quality":"HIGH_QUALITY","consensus_reliability":"HIGH","is_realistic":"REALISTIC"}`)
	expectStage(m, forwardPeInstructions,
		`{"symbol":"AAPL","forward_pe":28.4,"valuation_attractiveness":"FAIRLY_VALUED","earnings_quality":"HIGH_QUALITY","confidence":"HIGH"}`)
	expectStage(m, newsSentimentInstructions,
		`{"symbol":"AAPL","sentiment_trend":"IMPROVING","news_volume":"HIGH_VOLUME","sentiment_confidence":"HIGH"}`)
	expectStage(m, crossReferenceInstructions,
		`{"original_analysis_type":"historical_earnings","cross_referenced_analysis":{"major_adjustments":[],"minor_adjustments":[{"analysis_types_causing_discrepancy":["news_sentiment"],"adjustment_analysis":"Sentiment is hotter than the earnings record implies.","adjustment_reasoning":"News flow leads the reported numbers."}]}}`)
	expectStage(m, tradeIdeasInstructions,
		`{"symbol":"AAPL","trade_direction":"LONG","time_horizon":"MEDIUM_TERM","risk_level":"MEDIUM","overall_confidence":"MEDIUM","high_level_trade_idea":"Buy ahead of the next report.","entry_price_target":"230","upside_price_target":"255","downside_stop_loss":"215"}`)
	expectStage(m, comprehensiveReportInstructions,
		`{"symbol":"AAPL","company_name":"Apple Inc","report_date":"2026-08-30","comprehensive_analysis":"# Apple Inc\n\nFull report body."}`)
	expectStage(m, keyInsightsInstructions,
		`{"symbol":"AAPL","company_name":"Apple Inc","report_date":"2026-08-30","critical_insights":"Thesis intact; valuation full."}`)
}

func TestPipelineRunProducesAllArtifacts(t *testing.T) {
	market := new(mockMarketClient)
	ai := new(mockModelClient)
	stubMarket(market)
	stubModel(ai)
	st := testStore(t)

	p := New(testConfig(t), st, market, ai)
	res, err := p.Run(context.Background(), "AAPL", RunOptions{})
	require.NoError(t, err)

	require.Equal(t, "AAPL", res.Symbol)
	require.Equal(t, "232.5000", res.Quote.Price)
	require.Equal(t, model.EarningsPatternConsistentBeats, res.Historical.EarningsPattern)
	require.Equal(t, []string{"MSFT", "GOOGL", "DELL"}, res.Peers.PeerGroup)
	require.True(t, res.Guidance.TranscriptAvailable)
	require.Len(t, res.CrossReference.Completions, len(model.CrossRefOrder))
	require.Equal(t, model.TradeDirectionLong, res.TradeIdea.TradeDirection)
	require.NotEmpty(t, res.Report.ComprehensiveAnalysis)
	require.NotEmpty(t, res.Insights.CriticalInsights)
	require.Empty(t, res.CachedStages)
	require.Positive(t, res.TotalUsage.InputTokens)
	require.Positive(t, res.EstimatedCost)

	// Each pass keys its completion by the pass it ran, regardless of what
	// the reply echoed.
	for _, at := range model.CrossRefOrder {
		require.Equal(t, at, res.CrossReference.Completions[at].OriginalAnalysisType)
	}

	// The canned reply blames news_sentiment on every pass. On the
	// news_sentiment pass that is a self-citation and gets stripped; the
	// other passes keep the adjustment.
	require.Empty(t, res.CrossReference.Completions[model.AnalysisNewsSentiment].CrossReferencedAnalysis.MinorAdjustments)
	require.Len(t, res.CrossReference.Completions[model.AnalysisHistoricalEarnings].CrossReferencedAnalysis.MinorAdjustments, 1)

	require.Equal(t, "September", res.Overview.FiscalYearEnd)
	require.Positive(t, res.MarketRequests)

	job, err := st.GetJob(context.Background(), res.JobID)
	require.NoError(t, err)
	require.Equal(t, model.JobStatusCompleted, job.Status)
	order, err := StageOrder()
	require.NoError(t, err)
	require.Len(t, job.Steps, len(order))
}

func TestPipelineSecondRunServesFromCache(t *testing.T) {
	market := new(mockMarketClient)
	ai := new(mockModelClient)
	stubMarket(market)
	stubModel(ai)
	st := testStore(t)
	cfg := testConfig(t)

	p := New(cfg, st, market, ai)
	_, err := p.Run(context.Background(), "AAPL", RunOptions{})
	require.NoError(t, err)

	firstCalls := len(ai.Calls)

	res, err := p.Run(context.Background(), "AAPL", RunOptions{})
	require.NoError(t, err)

	// Every stage except the quote is served from cache; no new model calls.
	order, err := StageOrder()
	require.NoError(t, err)
	require.Len(t, res.CachedStages, len(order)-1)
	require.NotContains(t, res.CachedStages, StageGlobalQuote)
	require.Len(t, ai.Calls, firstCalls)

	// A cache hit serves the overview without refetching; the quote is the
	// only market request the second run makes.
	market.AssertNumberOfCalls(t, "CompanyOverview", 1)
	require.Equal(t, 1, res.MarketRequests)
	require.Equal(t, "September", res.Overview.FiscalYearEnd)
}

func TestPipelineForceRecomputeSkipsCacheReads(t *testing.T) {
	market := new(mockMarketClient)
	ai := new(mockModelClient)
	stubMarket(market)
	stubModel(ai)
	st := testStore(t)

	p := New(testConfig(t), st, market, ai)
	_, err := p.Run(context.Background(), "AAPL", RunOptions{})
	require.NoError(t, err)

	firstCalls := len(ai.Calls)

	res, err := p.Run(context.Background(), "AAPL", RunOptions{ForceRecompute: true})
	require.NoError(t, err)
	require.Empty(t, res.CachedStages)
	require.Len(t, ai.Calls, 2*firstCalls)
}

func TestPipelineAnalysisFailureMarksJobFailed(t *testing.T) {
	market := new(mockMarketClient)
	ai := new(mockModelClient)
	stubMarket(market)
	ai.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, eris.New("anthropic: overloaded"))
	st := testStore(t)

	p := New(testConfig(t), st, market, ai)
	_, err := p.Run(context.Background(), "AAPL", RunOptions{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "overloaded")

	// The first analysis stage aborts the run; nothing downstream runs.
	market.AssertNotCalled(t, "Earnings", mock.Anything, mock.Anything)

	jobs, err := st.ListJobs(context.Background(), store.JobFilter{Symbol: "AAPL"})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.Equal(t, model.JobStatusFailed, jobs[0].Status)
	require.Contains(t, jobs[0].Error, "overloaded")
}

func TestPipelineFetchFailureDegradesToEmptyData(t *testing.T) {
	market := new(mockMarketClient)
	ai := new(mockModelClient)
	market.On("Earnings", mock.Anything, "AAPL").
		Return(nil, eris.New("alphavantage: api error"))
	stubMarket(market)
	stubModel(ai)
	st := testStore(t)

	p := New(testConfig(t), st, market, ai)
	res, err := p.Run(context.Background(), "AAPL", RunOptions{})
	require.NoError(t, err)
	require.Equal(t, model.JobStatusCompleted, mustGetJob(t, st, res.JobID).Status)
}

func mustGetJob(t *testing.T, st store.Store, id string) *model.Job {
	t.Helper()
	job, err := st.GetJob(context.Background(), id)
	require.NoError(t, err)
	return job
}

func TestPipelineCancelledContextStopsRun(t *testing.T) {
	market := new(mockMarketClient)
	ai := new(mockModelClient)
	st := testStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(testConfig(t), st, market, ai)
	_, err := p.Run(ctx, "AAPL", RunOptions{})
	require.Error(t, err)
	market.AssertNotCalled(t, "CompanyOverview", mock.Anything, mock.Anything)
}

func TestPipelineMissingTranscriptDegradesGuidance(t *testing.T) {
	market := new(mockMarketClient)
	ai := new(mockModelClient)
	market.On("EarningsCallTranscript", mock.Anything, "AAPL", mock.Anything).
		Return(alphavantage.Payload{"transcript": []any{}}, nil)
	stubMarket(market)
	stubModel(ai)
	st := testStore(t)

	p := New(testConfig(t), st, market, ai)
	res, err := p.Run(context.Background(), "AAPL", RunOptions{})
	require.NoError(t, err)

	require.False(t, res.Guidance.TranscriptAvailable)
	require.Equal(t, model.GuidanceToneNeutral, res.Guidance.OverallGuidanceTone)
	require.Equal(t, model.ConsensusSignalNeutral, res.Guidance.ConsensusValidationSignal)
	require.Equal(t, "No earnings call transcript available for analysis", res.Guidance.KeyGuidanceSummary)
}

func TestPipelineGuidanceAnalysisFailureDegrades(t *testing.T) {
	market := new(mockMarketClient)
	ai := new(mockModelClient)
	expectStageError(ai, managementGuidanceInstructions, eris.New("anthropic: overloaded"))
	stubMarket(market)
	stubModel(ai)
	st := testStore(t)

	// The transcript exists; only the guidance analysis call fails. The
	// run continues with a neutral record instead of aborting.
	p := New(testConfig(t), st, market, ai)
	res, err := p.Run(context.Background(), "AAPL", RunOptions{})
	require.NoError(t, err)

	require.False(t, res.Guidance.TranscriptAvailable)
	require.Equal(t, model.GuidanceToneNeutral, res.Guidance.OverallGuidanceTone)
	require.Equal(t, model.ConsensusSignalNeutral, res.Guidance.ConsensusValidationSignal)
	require.Contains(t, res.Guidance.KeyGuidanceSummary, "overloaded")
	require.NotEmpty(t, res.Report.ComprehensiveAnalysis)
	require.Equal(t, model.JobStatusCompleted, mustGetJob(t, st, res.JobID).Status)
}
