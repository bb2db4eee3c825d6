package research

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/halcyon-research/equity-cli/internal/config"
	"github.com/halcyon-research/equity-cli/internal/cost"
	"github.com/halcyon-research/equity-cli/internal/jobs"
	"github.com/halcyon-research/equity-cli/internal/model"
	"github.com/halcyon-research/equity-cli/internal/store"
	"github.com/halcyon-research/equity-cli/pkg/alphavantage"
	"github.com/halcyon-research/equity-cli/pkg/anthropic"
)

// Pipeline orchestrates the research stages for a single symbol.
type Pipeline struct {
	cfg       *config.Config
	store     store.Store
	market    alphavantage.Client
	anthropic anthropic.Client
	tracker   *jobs.Tracker
	costCalc  *cost.Calculator
}

// New creates a Pipeline with all dependencies.
func New(
	cfg *config.Config,
	st store.Store,
	market alphavantage.Client,
	aiClient anthropic.Client,
) *Pipeline {
	return &Pipeline{
		cfg:       cfg,
		store:     st,
		market:    market,
		anthropic: aiClient,
		tracker:   jobs.NewTracker(st),
		costCalc:  cost.NewCalculator(pricingRates(cfg)),
	}
}

func pricingRates(cfg *config.Config) cost.Rates {
	if len(cfg.Pricing.Anthropic) == 0 {
		return cost.DefaultRates()
	}
	rates := cost.Rates{
		Anthropic: make(map[string]cost.ModelRate, len(cfg.Pricing.Anthropic)),
		AlphaVantage: cost.AlphaVantageRate{
			PlanMonthly:      cfg.Pricing.AlphaVantage.PlanMonthly,
			RequestsIncluded: cfg.Pricing.AlphaVantage.RequestsIncluded,
		},
	}
	for name, p := range cfg.Pricing.Anthropic {
		rates.Anthropic[name] = cost.ModelRate{
			Input: p.Input, Output: p.Output,
			CacheWriteMul: p.CacheWriteMul, CacheReadMul: p.CacheReadMul,
		}
	}
	return rates
}

// RunOptions alters how a single run executes.
type RunOptions struct {
	// ForceRecompute skips cache reads. Completed stages still write back
	// to the cache.
	ForceRecompute bool
}

// Result carries every artifact produced by a run.
type Result struct {
	Symbol   string                        `json:"symbol"`
	JobID    string                        `json:"job_id"`
	Date     string                        `json:"date"`
	Overview model.CompanyOverviewAnalysis `json:"company_overview"`
	Quote    model.GlobalQuoteData         `json:"global_quote"`

	Historical  model.HistoricalEarningsAnalysis  `json:"historical_earnings"`
	Financial   model.FinancialStatementsAnalysis `json:"financial_statements"`
	Projections model.EarningsProjectionAnalysis  `json:"earnings_projections"`
	Guidance    model.ManagementGuidanceAnalysis  `json:"management_guidance"`
	Peers       model.PeerGroup                   `json:"peer_group"`
	Sanity      model.ForwardPeSanityCheck        `json:"forward_pe_sanity_check"`
	ForwardPe   model.ForwardPeValuation          `json:"forward_pe"`
	Sentiment   model.NewsSentimentSummary        `json:"news_sentiment"`

	CrossReference model.CrossReferenceSet   `json:"cross_reference"`
	TradeIdea      model.TradeIdea           `json:"trade_ideas"`
	Report         model.ComprehensiveReport `json:"comprehensive_report"`
	Insights       model.KeyInsights         `json:"key_insights"`

	TotalUsage     anthropic.TokenUsage           `json:"total_usage"`
	StageUsage     map[Stage]anthropic.TokenUsage `json:"stage_usage,omitempty"`
	MarketRequests int                            `json:"market_requests"`
	EstimatedCost  float64                        `json:"estimated_cost_usd"`
	CachedStages   []Stage                        `json:"cached_stages,omitempty"`
}

// runCtx carries the per-run state threaded through the stages.
type runCtx struct {
	symbol string
	now    time.Time
	opts   RunOptions
	usage  *UsageAccumulator
	result *Result

	// Raw company facts shared by several stages.
	overviewRaw   alphavantage.Payload
	fiscalYearEnd string
	companyName   string
	sector        string
	industry      string
}

// Run executes the full research pipeline for one symbol.
func (p *Pipeline) Run(ctx context.Context, symbol string, opts RunOptions) (*Result, error) {
	log := zap.L().With(zap.String("symbol", symbol))
	log.Info("research: starting run")

	jobID := p.tracker.Start(ctx, symbol)

	rc := &runCtx{
		symbol: symbol,
		now:    time.Now().UTC(),
		opts:   opts,
		usage:  NewUsageAccumulator(p.costCalc),
		result: &Result{Symbol: symbol, JobID: jobID},
	}
	rc.result.Date = rc.now.Format("2006-01-02")

	order, err := StageOrder()
	if err != nil {
		p.tracker.Fail(ctx, jobID, err)
		return nil, err
	}

	for _, stage := range order {
		// Stages are suspension points: a cancelled run stops before the
		// next stage starts, never mid-write.
		if err := ctx.Err(); err != nil {
			p.tracker.Cancel(ctx, jobID)
			return nil, eris.Wrapf(err, "research: run cancelled before %s", stage)
		}

		start := time.Now()
		cached, err := p.runStage(ctx, rc, stage)
		if err != nil {
			log.Error("research: stage failed",
				zap.String("stage", string(stage)),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err),
			)
			p.tracker.Fail(ctx, jobID, err)
			return nil, eris.Wrapf(err, "research: stage %s", stage)
		}

		if cached {
			rc.result.CachedStages = append(rc.result.CachedStages, stage)
		}
		log.Info("research: stage complete",
			zap.String("stage", string(stage)),
			zap.Bool("from_cache", cached),
			zap.Duration("elapsed", time.Since(start)),
		)
		p.tracker.Step(ctx, jobID, string(stage), cached)
	}

	rc.result.TotalUsage = rc.usage.Total()
	rc.result.StageUsage = rc.usage.PerStage()
	rc.result.MarketRequests = rc.usage.Fetches()
	rc.result.EstimatedCost = rc.usage.EstimatedCost()
	p.tracker.Complete(ctx, jobID)

	log.Info("research: run complete",
		zap.Int64("input_tokens", rc.result.TotalUsage.InputTokens),
		zap.Int64("output_tokens", rc.result.TotalUsage.OutputTokens),
		zap.Int("market_requests", rc.result.MarketRequests),
		zap.Float64("estimated_cost_usd", rc.result.EstimatedCost),
		zap.Int("cached_stages", len(rc.result.CachedStages)),
	)
	return rc.result, nil
}

// runStage dispatches one stage. The quote stage is never cached; a day-old
// price would poison the valuation stages.
func (p *Pipeline) runStage(ctx context.Context, rc *runCtx, stage Stage) (bool, error) {
	switch stage {
	case StageCompanyOverview:
		return p.stageCompanyOverview(ctx, rc)
	case StageGlobalQuote:
		rc.result.Quote = p.fetchGlobalQuote(ctx, rc)
		return false, nil
	case StageHistoricalEarnings:
		return p.stageHistoricalEarnings(ctx, rc)
	case StageFinancialStatements:
		return p.stageFinancialStatements(ctx, rc)
	case StageEarningsProjections:
		return p.stageEarningsProjections(ctx, rc)
	case StageManagementGuidance:
		return p.stageManagementGuidance(ctx, rc)
	case StagePeerGroup:
		return p.stagePeerGroup(ctx, rc)
	case StageForwardPeSanityCheck:
		return p.stageForwardPeSanityCheck(ctx, rc)
	case StageForwardPe:
		return p.stageForwardPe(ctx, rc)
	case StageNewsSentiment:
		return p.stageNewsSentiment(ctx, rc)
	case StageCrossReference:
		return p.stageCrossReference(ctx, rc)
	case StageTradeIdeas:
		return p.stageTradeIdeas(ctx, rc)
	case StageComprehensiveReport:
		return p.stageComprehensiveReport(ctx, rc)
	case StageKeyInsights:
		return p.stageKeyInsights(ctx, rc)
	default:
		return false, eris.Errorf("research: no runner for stage %s", stage)
	}
}

// cacheOrCompute runs the standard per-stage flow: consult the cache
// unless the run forces recomputation, otherwise compute and persist. A
// forced run still writes its results back.
func cacheOrCompute[T any](ctx context.Context, p *Pipeline, rc *runCtx, stage Stage, compute func() (T, error)) (T, bool, error) {
	if !rc.opts.ForceRecompute {
		if cached, ok := getCached[T](ctx, p.store, stage, rc.symbol); ok {
			return cached, true, nil
		}
	}

	value, err := compute()
	if err != nil {
		var zero T
		return zero, false, err
	}

	outcome := persistReport(ctx, p.store, p.cfg.Research.ReportsDir, stage, rc.symbol, value, p.cfg.Research.CacheTTL())
	if outcome.SnapshotErr != nil {
		zap.L().Warn("research: report snapshot failed",
			zap.String("stage", string(stage)),
			zap.String("symbol", rc.symbol),
			zap.Error(outcome.SnapshotErr),
		)
	}
	return value, false, nil
}

// analysisSpec builds the AgentSpec for a structured analysis stage.
func (p *Pipeline) analysisSpec(name, instructions string) anthropic.AgentSpec {
	return anthropic.AgentSpec{
		Name:         name,
		Instructions: instructions,
		Model:        p.cfg.Anthropic.AnalysisModel,
		MaxTokens:    p.cfg.Anthropic.MaxTokens,
	}
}

// reportSpec builds the AgentSpec for the long-form synthesis stages.
func (p *Pipeline) reportSpec(name, instructions string) anthropic.AgentSpec {
	return anthropic.AgentSpec{
		Name:         name,
		Instructions: instructions,
		Model:        p.cfg.Anthropic.ReportModel,
		MaxTokens:    p.cfg.Anthropic.ReportMaxTokens,
	}
}
