package model

// EarningsPattern classifies historical beat/miss behavior.
type EarningsPattern string

const (
	EarningsPatternConsistentBeats  EarningsPattern = "CONSISTENT_BEATS"
	EarningsPatternConsistentMisses EarningsPattern = "CONSISTENT_MISSES"
	EarningsPatternMixed            EarningsPattern = "MIXED_PATTERN"
	EarningsPatternVolatile         EarningsPattern = "VOLATILE"
	EarningsPatternInsufficient     EarningsPattern = "INSUFFICIENT_DATA"
)

// RevenueGrowthTrend classifies the direction of revenue growth.
type RevenueGrowthTrend string

const (
	RevenueGrowthAccelerating RevenueGrowthTrend = "ACCELERATING"
	RevenueGrowthDecelerating RevenueGrowthTrend = "DECELERATING"
	RevenueGrowthStable       RevenueGrowthTrend = "STABLE"
	RevenueGrowthDeclining    RevenueGrowthTrend = "DECLINING"
	RevenueGrowthVolatile     RevenueGrowthTrend = "VOLATILE"
	RevenueGrowthInsufficient RevenueGrowthTrend = "INSUFFICIENT_DATA"
)

// MarginTrend classifies margin direction across reporting periods.
type MarginTrend string

const (
	MarginTrendImproving     MarginTrend = "IMPROVING"
	MarginTrendDeteriorating MarginTrend = "DETERIORATING"
	MarginTrendStable        MarginTrend = "STABLE"
	MarginTrendVolatile      MarginTrend = "VOLATILE"
	MarginTrendInsufficient  MarginTrend = "INSUFFICIENT_DATA"
)

// HistoricalEarningsAnalysis is the structured result of the historical
// earnings stage. Every enum field takes a value from its closed set;
// missing data maps to INSUFFICIENT_DATA rather than an empty string.
type HistoricalEarningsAnalysis struct {
	Symbol                 string             `json:"symbol" validate:"required"`
	EarningsPattern        EarningsPattern    `json:"earnings_pattern" validate:"required,oneof=CONSISTENT_BEATS CONSISTENT_MISSES MIXED_PATTERN VOLATILE INSUFFICIENT_DATA"`
	EarningsPatternDetails string             `json:"earnings_pattern_details"`
	RevenueGrowthTrend     RevenueGrowthTrend `json:"revenue_growth_trend" validate:"required,oneof=ACCELERATING DECELERATING STABLE DECLINING VOLATILE INSUFFICIENT_DATA"`
	RevenueGrowthDetails   string             `json:"revenue_growth_details"`
	MarginTrend            MarginTrend        `json:"margin_trend" validate:"required,oneof=IMPROVING DETERIORATING STABLE VOLATILE INSUFFICIENT_DATA"`
	MarginTrendDetails     string             `json:"margin_trend_details"`
	KeyInsights            []string           `json:"key_insights"`
	LongFormAnalysis       string             `json:"long_form_analysis"`
	CriticalInsights       string             `json:"critical_insights"`
}

// RevenueDriverTrend classifies the strength of revenue drivers.
type RevenueDriverTrend string

const (
	RevenueDriverStrengthening RevenueDriverTrend = "STRENGTHENING"
	RevenueDriverWeakening     RevenueDriverTrend = "WEAKENING"
	RevenueDriverStable        RevenueDriverTrend = "STABLE"
	RevenueDriverVolatile      RevenueDriverTrend = "VOLATILE"
	RevenueDriverInsufficient  RevenueDriverTrend = "INSUFFICIENT_DATA"
)

// CostStructureTrend classifies cost efficiency direction.
type CostStructureTrend string

const (
	CostStructureImproving     CostStructureTrend = "IMPROVING_EFFICIENCY"
	CostStructureDeteriorating CostStructureTrend = "DETERIORATING_EFFICIENCY"
	CostStructureStable        CostStructureTrend = "STABLE_STRUCTURE"
	CostStructureVolatile      CostStructureTrend = "VOLATILE_COSTS"
	CostStructureInsufficient  CostStructureTrend = "INSUFFICIENT_DATA"
)

// WorkingCapitalTrend classifies working capital management quality.
type WorkingCapitalTrend string

const (
	WorkingCapitalImproving     WorkingCapitalTrend = "IMPROVING_MANAGEMENT"
	WorkingCapitalDeteriorating WorkingCapitalTrend = "DETERIORATING_MANAGEMENT"
	WorkingCapitalStable        WorkingCapitalTrend = "STABLE_MANAGEMENT"
	WorkingCapitalConcerns      WorkingCapitalTrend = "CASH_FLOW_CONCERNS"
	WorkingCapitalInsufficient  WorkingCapitalTrend = "INSUFFICIENT_DATA"
)

// FinancialStatementsAnalysis is the structured result of the financial
// statements stage.
type FinancialStatementsAnalysis struct {
	Symbol                  string              `json:"symbol" validate:"required"`
	RevenueDriverTrend      RevenueDriverTrend  `json:"revenue_driver_trend" validate:"required,oneof=STRENGTHENING WEAKENING STABLE VOLATILE INSUFFICIENT_DATA"`
	RevenueDriverDetails    string              `json:"revenue_driver_details"`
	CostStructureTrend      CostStructureTrend  `json:"cost_structure_trend" validate:"required,oneof=IMPROVING_EFFICIENCY DETERIORATING_EFFICIENCY STABLE_STRUCTURE VOLATILE_COSTS INSUFFICIENT_DATA"`
	CostStructureDetails    string              `json:"cost_structure_details"`
	WorkingCapitalTrend     WorkingCapitalTrend `json:"working_capital_trend" validate:"required,oneof=IMPROVING_MANAGEMENT DETERIORATING_MANAGEMENT STABLE_MANAGEMENT CASH_FLOW_CONCERNS INSUFFICIENT_DATA"`
	WorkingCapitalDetails   string              `json:"working_capital_details"`
	KeyFinancialChanges     []string            `json:"key_financial_changes"`
	NearTermProjectionRisks []string            `json:"near_term_projection_risks"`
	LongFormAnalysis        string              `json:"long_form_analysis"`
	CriticalInsights        string              `json:"critical_insights"`
}

// RevenueProjectionMethod names the methodology behind a revenue projection.
type RevenueProjectionMethod string

const (
	RevenueProjectionHistoricalTrend RevenueProjectionMethod = "HISTORICAL_TREND"
	RevenueProjectionSeasonal        RevenueProjectionMethod = "SEASONAL_ADJUSTMENT"
	RevenueProjectionGrowthRate      RevenueProjectionMethod = "GROWTH_RATE_EXTRAPOLATION"
	RevenueProjectionMixed           RevenueProjectionMethod = "MIXED_METHODOLOGY"
)

// CostProjectionMethod names the methodology behind a cost projection.
type CostProjectionMethod string

const (
	CostProjectionMarginBased  CostProjectionMethod = "MARGIN_BASED"
	CostProjectionPctOfRevenue CostProjectionMethod = "PERCENTAGE_OF_REVENUE"
	CostProjectionHistorical   CostProjectionMethod = "HISTORICAL_TREND"
	CostProjectionMixed        CostProjectionMethod = "MIXED_METHODOLOGY"
)

// NextQuarterProjection is an independent projection of next quarter's key
// income statement line items.
type NextQuarterProjection struct {
	ProjectedRevenue        float64                 `json:"projected_revenue"`
	RevenueProjectionMethod RevenueProjectionMethod `json:"revenue_projection_method" validate:"required,oneof=HISTORICAL_TREND SEASONAL_ADJUSTMENT GROWTH_RATE_EXTRAPOLATION MIXED_METHODOLOGY"`
	RevenueReasoning        string                  `json:"revenue_reasoning"`

	ProjectedCOGS        float64              `json:"projected_cogs"`
	COGSProjectionMethod CostProjectionMethod `json:"cogs_projection_method" validate:"required,oneof=MARGIN_BASED PERCENTAGE_OF_REVENUE HISTORICAL_TREND MIXED_METHODOLOGY"`
	COGSReasoning        string               `json:"cogs_reasoning"`

	ProjectedGrossProfit float64 `json:"projected_gross_profit"`
	ProjectedGrossMargin float64 `json:"projected_gross_margin"`

	ProjectedSGA       float64 `json:"projected_sga"`
	SGAReasoning       string  `json:"sga_reasoning"`
	ProjectedRD        float64 `json:"projected_rd"`
	RDReasoning        string  `json:"rd_reasoning"`
	ProjectedTotalOpex float64 `json:"projected_total_opex"`

	ProjectedOperatingIncome float64 `json:"projected_operating_income"`
	ProjectedOperatingMargin float64 `json:"projected_operating_margin"`

	ProjectedInterestExpense float64 `json:"projected_interest_expense"`
	ProjectedTaxExpense      float64 `json:"projected_tax_expense"`
	ProjectedTaxRate         float64 `json:"projected_tax_rate"`

	ProjectedNetIncome float64 `json:"projected_net_income"`
	ProjectedEPS       float64 `json:"projected_eps"`

	ConsensusEPSEstimate  *float64 `json:"consensus_eps_estimate,omitempty"`
	EPSVsConsensusDiff    *float64 `json:"eps_vs_consensus_diff,omitempty"`
	EPSVsConsensusPercent *float64 `json:"eps_vs_consensus_percent,omitempty"`
}

// EarningsProjectionAnalysis is the structured result of the earnings
// projections stage.
type EarningsProjectionAnalysis struct {
	Symbol                     string                `json:"symbol" validate:"required"`
	NextQuarterProjection      NextQuarterProjection `json:"next_quarter_projection"`
	ProjectionMethodology      string                `json:"projection_methodology"`
	KeyAssumptions             []string              `json:"key_assumptions"`
	UpsideRisks                []string              `json:"upside_risks"`
	DownsideRisks              []string              `json:"downside_risks"`
	DataQualityScore           int                   `json:"data_quality_score" validate:"min=0,max=10"`
	ConsensusValidationSummary string                `json:"consensus_validation_summary"`
	LongFormAnalysis           string                `json:"long_form_analysis"`
	CriticalInsights           string                `json:"critical_insights"`
}

// GuidanceTone classifies overall management tone from an earnings call.
type GuidanceTone string

const (
	GuidanceToneOptimistic   GuidanceTone = "OPTIMISTIC"
	GuidanceToneCautious     GuidanceTone = "CAUTIOUS"
	GuidanceToneNeutral      GuidanceTone = "NEUTRAL"
	GuidanceTonePessimistic  GuidanceTone = "PESSIMISTIC"
	GuidanceToneMixedSignals GuidanceTone = "MIXED_SIGNALS"
)

// GuidanceDirection classifies a single forward-looking statement.
type GuidanceDirection string

const (
	GuidanceDirectionPositive GuidanceDirection = "POSITIVE"
	GuidanceDirectionNegative GuidanceDirection = "NEGATIVE"
	GuidanceDirectionNeutral  GuidanceDirection = "NEUTRAL"
	GuidanceDirectionUnclear  GuidanceDirection = "UNCLEAR"
)

// ConsensusValidationSignal summarizes guidance vs consensus estimates.
type ConsensusValidationSignal string

const (
	ConsensusSignalBullish ConsensusValidationSignal = "BULLISH"
	ConsensusSignalBearish ConsensusValidationSignal = "BEARISH"
	ConsensusSignalNeutral ConsensusValidationSignal = "NEUTRAL"
	ConsensusSignalMixed   ConsensusValidationSignal = "MIXED"
)

// GuidanceIndicator is a single guidance signal extracted from a transcript.
type GuidanceIndicator struct {
	Type             string            `json:"type"`
	Direction        GuidanceDirection `json:"direction" validate:"required,oneof=POSITIVE NEGATIVE NEUTRAL UNCLEAR"`
	Context          string            `json:"context"`
	ImpactAssessment string            `json:"impact_assessment"`
}

// ManagementGuidanceAnalysis is the structured result of the management
// guidance stage. When no transcript is available the stage still produces
// a valid record with TranscriptAvailable=false and NEUTRAL sentinels.
type ManagementGuidanceAnalysis struct {
	Symbol              string `json:"symbol" validate:"required"`
	QuarterAnalyzed     string `json:"quarter_analyzed,omitempty"`
	TranscriptAvailable bool   `json:"transcript_available"`

	GuidanceIndicators []GuidanceIndicator `json:"guidance_indicators"`

	OverallGuidanceTone    GuidanceTone `json:"overall_guidance_tone" validate:"required,oneof=OPTIMISTIC CAUTIOUS NEUTRAL PESSIMISTIC MIXED_SIGNALS"`
	RiskFactorsMentioned   []string     `json:"risk_factors_mentioned"`
	OpportunitiesMentioned []string     `json:"opportunities_mentioned"`

	RevenueGuidanceDirection GuidanceDirection `json:"revenue_guidance_direction,omitempty" validate:"omitempty,oneof=POSITIVE NEGATIVE NEUTRAL UNCLEAR"`
	MarginGuidanceDirection  GuidanceDirection `json:"margin_guidance_direction,omitempty" validate:"omitempty,oneof=POSITIVE NEGATIVE NEUTRAL UNCLEAR"`
	EPSGuidanceDirection     GuidanceDirection `json:"eps_guidance_direction,omitempty" validate:"omitempty,oneof=POSITIVE NEGATIVE NEUTRAL UNCLEAR"`

	ConsensusValidationSignal ConsensusValidationSignal `json:"consensus_validation_signal" validate:"required,oneof=BULLISH BEARISH NEUTRAL MIXED"`
	KeyGuidanceSummary        string                    `json:"key_guidance_summary"`

	LongFormAnalysis string `json:"long_form_analysis"`
	CriticalInsights string `json:"critical_insights"`
}

// ValuationConfidence grades confidence in a valuation conclusion.
type ValuationConfidence string

const (
	ValuationConfidenceHigh         ValuationConfidence = "HIGH"
	ValuationConfidenceMedium       ValuationConfidence = "MEDIUM"
	ValuationConfidenceLow          ValuationConfidence = "LOW"
	ValuationConfidenceInsufficient ValuationConfidence = "INSUFFICIENT_DATA"
)

// ValuationAttractiveness classifies relative valuation.
type ValuationAttractiveness string

const (
	ValuationUndervalued  ValuationAttractiveness = "UNDERVALUED"
	ValuationFairlyValued ValuationAttractiveness = "FAIRLY_VALUED"
	ValuationOvervalued   ValuationAttractiveness = "OVERVALUED"
	ValuationExtreme      ValuationAttractiveness = "EXTREME_VALUATION"
)

// EarningsQuality grades the reliability of reported earnings.
type EarningsQuality string

const (
	EarningsQualityHigh         EarningsQuality = "HIGH_QUALITY"
	EarningsQualityAdequate     EarningsQuality = "ADEQUATE_QUALITY"
	EarningsQualityQuestionable EarningsQuality = "QUESTIONABLE_QUALITY"
	EarningsQualityPoor         EarningsQuality = "POOR_QUALITY"
)

// SanityVerdict grades whether the forward PE inputs are realistic.
type SanityVerdict string

const (
	SanityVerdictRealistic    SanityVerdict = "REALISTIC"
	SanityVerdictPlausible    SanityVerdict = "PLAUSIBLE"
	SanityVerdictNotRealistic SanityVerdict = "NOT_REALISTIC"
)

// ForwardPeSanityCheck is an independent plausibility check on the forward
// PE inputs, run before the valuation itself.
type ForwardPeSanityCheck struct {
	Symbol               string              `json:"symbol" validate:"required"`
	EarningsDataQuality  EarningsQuality     `json:"earnings_data_quality" validate:"required,oneof=HIGH_QUALITY ADEQUATE_QUALITY QUESTIONABLE_QUALITY POOR_QUALITY"`
	ConsensusReliability ValuationConfidence `json:"consensus_reliability" validate:"required,oneof=HIGH MEDIUM LOW INSUFFICIENT_DATA"`
	LongFormAnalysis     string              `json:"long_form_analysis"`
	IsRealistic          SanityVerdict       `json:"is_realistic" validate:"required,oneof=REALISTIC PLAUSIBLE NOT_REALISTIC"`
	CriticalInsights     string              `json:"critical_insights"`
}

// ForwardPeValuation is the structured result of the forward PE stage.
type ForwardPeValuation struct {
	Symbol                  string                  `json:"symbol" validate:"required"`
	CurrentPrice            float64                 `json:"current_price"`
	ForwardPeRatio          float64                 `json:"forward_pe_ratio"`
	SectorAveragePe         float64                 `json:"sector_average_pe"`
	HistoricalPeRange       string                  `json:"historical_pe_range"`
	ValuationAttractiveness ValuationAttractiveness `json:"valuation_attractiveness" validate:"required,oneof=UNDERVALUED FAIRLY_VALUED OVERVALUED EXTREME_VALUATION"`
	EarningsQuality         EarningsQuality         `json:"earnings_quality" validate:"required,oneof=HIGH_QUALITY ADEQUATE_QUALITY QUESTIONABLE_QUALITY POOR_QUALITY"`
	Confidence              ValuationConfidence     `json:"confidence" validate:"required,oneof=HIGH MEDIUM LOW INSUFFICIENT_DATA"`
	LongFormAnalysis        string                  `json:"long_form_analysis"`
	CriticalInsights        string                  `json:"critical_insights"`
}

// SentimentTrend classifies the direction of news sentiment.
type SentimentTrend string

const (
	SentimentTrendImproving      SentimentTrend = "IMPROVING"
	SentimentTrendDeteriorating  SentimentTrend = "DETERIORATING"
	SentimentTrendStablePositive SentimentTrend = "STABLE_POSITIVE"
	SentimentTrendStableNegative SentimentTrend = "STABLE_NEGATIVE"
	SentimentTrendVolatile       SentimentTrend = "VOLATILE"
	SentimentTrendInsufficient   SentimentTrend = "INSUFFICIENT_DATA"
)

// SentimentConfidence grades confidence in a sentiment conclusion.
type SentimentConfidence string

const (
	SentimentConfidenceHigh         SentimentConfidence = "HIGH"
	SentimentConfidenceMedium       SentimentConfidence = "MEDIUM"
	SentimentConfidenceLow          SentimentConfidence = "LOW"
	SentimentConfidenceInsufficient SentimentConfidence = "INSUFFICIENT_DATA"
)

// NewsVolume buckets the amount of recent news coverage.
type NewsVolume string

const (
	NewsVolumeHigh     NewsVolume = "HIGH_VOLUME"
	NewsVolumeModerate NewsVolume = "MODERATE_VOLUME"
	NewsVolumeLow      NewsVolume = "LOW_VOLUME"
	NewsVolumeSparse   NewsVolume = "SPARSE_COVERAGE"
)

// NewsSentimentSummary is the structured result of the news sentiment stage.
type NewsSentimentSummary struct {
	Symbol                string              `json:"symbol" validate:"required"`
	SentimentTrend        SentimentTrend      `json:"sentiment_trend" validate:"required,oneof=IMPROVING DETERIORATING STABLE_POSITIVE STABLE_NEGATIVE VOLATILE INSUFFICIENT_DATA"`
	NewsVolume            NewsVolume          `json:"news_volume" validate:"required,oneof=HIGH_VOLUME MODERATE_VOLUME LOW_VOLUME SPARSE_COVERAGE"`
	SentimentConfidence   SentimentConfidence `json:"sentiment_confidence" validate:"required,oneof=HIGH MEDIUM LOW INSUFFICIENT_DATA"`
	KeyThemes             []string            `json:"key_themes"`
	PositiveCatalysts     []string            `json:"positive_catalysts"`
	NegativeConcerns      []string            `json:"negative_concerns"`
	NewsSentimentAnalysis string              `json:"news_sentiment_analysis"`
	LongFormAnalysis      string              `json:"long_form_analysis"`
	OverallSentimentLabel string              `json:"overall_sentiment_label"`
	CriticalInsights      string              `json:"critical_insights"`
}

// PeerGroup holds 2-4 comparable-company tickers for a symbol. The original
// symbol must not appear in the peer list.
type PeerGroup struct {
	OriginalSymbol string   `json:"original_symbol" validate:"required"`
	PeerGroup      []string `json:"peer_group" validate:"required,min=2,max=4"`
}

// TradeDirection is the recommended position direction.
type TradeDirection string

const (
	TradeDirectionLong    TradeDirection = "LONG"
	TradeDirectionShort   TradeDirection = "SHORT"
	TradeDirectionNeutral TradeDirection = "NEUTRAL"
	TradeDirectionComplex TradeDirection = "COMPLEX"
)

// RiskLevel grades the risk of a trade idea.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelMedium   RiskLevel = "MEDIUM"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelVeryHigh RiskLevel = "VERY_HIGH"
)

// TimeHorizon buckets the expected holding period.
type TimeHorizon string

const (
	TimeHorizonShort  TimeHorizon = "SHORT_TERM"  // < 3 months
	TimeHorizonMedium TimeHorizon = "MEDIUM_TERM" // 3-12 months
	TimeHorizonLong   TimeHorizon = "LONG_TERM"   // > 12 months
)

// TradeConfidence grades conviction in a trade idea.
type TradeConfidence string

const (
	TradeConfidenceHigh        TradeConfidence = "HIGH"
	TradeConfidenceMedium      TradeConfidence = "MEDIUM"
	TradeConfidenceLow         TradeConfidence = "LOW"
	TradeConfidenceSpeculative TradeConfidence = "SPECULATIVE"
)

// TradeIdea is the terminal trade synthesis. Price levels are free-text
// strings ("$150", "break above $182") rather than strict numerics.
// Position sizing is deliberately out of scope.
type TradeIdea struct {
	Symbol            string          `json:"symbol" validate:"required"`
	TradeDirection    TradeDirection  `json:"trade_direction" validate:"required,oneof=LONG SHORT NEUTRAL COMPLEX"`
	TimeHorizon       TimeHorizon     `json:"time_horizon" validate:"required,oneof=SHORT_TERM MEDIUM_TERM LONG_TERM"`
	RiskLevel         RiskLevel       `json:"risk_level" validate:"required,oneof=LOW MEDIUM HIGH VERY_HIGH"`
	OverallConfidence TradeConfidence `json:"overall_confidence" validate:"required,oneof=HIGH MEDIUM LOW SPECULATIVE"`

	HighLevelTradeIdea string   `json:"high_level_trade_idea"`
	Reasoning          string   `json:"reasoning"`
	KeyCatalysts       []string `json:"key_catalysts"`
	RiskFactors        []string `json:"risk_factors"`

	SimpleEquityTradeSpecifics string `json:"simple_equity_trade_specifics"`
	OptionPlay                 string `json:"option_play"`
	RiskHedge                  string `json:"risk_hedge"`

	EntryPriceTarget  string `json:"entry_price_target"`
	UpsidePriceTarget string `json:"upside_price_target"`
	DownsideStopLoss  string `json:"downside_stop_loss"`

	CriticalInsights string `json:"critical_insights"`
}

// CompanyOverviewAnalysis is the structured result of the company overview
// stage, establishing business context for every later stage.
type CompanyOverviewAnalysis struct {
	Symbol                  string `json:"symbol" validate:"required"`
	CompanyName             string `json:"company_name"`
	Sector                  string `json:"sector"`
	Industry                string `json:"industry"`
	MarketCapCategory       string `json:"market_cap_category"`
	BusinessDescription     string `json:"business_description"`
	KeyFinancials           string `json:"key_financials"`
	ValuationMetrics        string `json:"valuation_metrics"`
	ProfitabilityAssessment string `json:"profitability_assessment"`
	GrowthIndicators        string `json:"growth_indicators"`
	RiskFactors             string `json:"risk_factors"`
	CompetitivePosition     string `json:"competitive_position"`
	LongFormAnalysis        string `json:"long_form_analysis"`

	// Raw company facts several later stages need. Carried in the cached
	// record so a cache hit serves them without refetching the overview.
	FiscalYearEnd string         `json:"fiscal_year_end,omitempty"`
	RawOverview   map[string]any `json:"raw_overview,omitempty"`
}

// GlobalQuoteData carries the current price snapshot for a symbol.
type GlobalQuoteData struct {
	Symbol string `json:"symbol" validate:"required"`
	Price  string `json:"price,omitempty"`
}

// ComprehensiveReport is the single long-form narrative synthesized from
// every upstream analysis.
type ComprehensiveReport struct {
	Symbol                string `json:"symbol" validate:"required"`
	CompanyName           string `json:"company_name,omitempty"`
	ReportDate            string `json:"report_date"`
	ComprehensiveAnalysis string `json:"comprehensive_analysis"`
}

// KeyInsights distills the comprehensive report into a handful of
// decision-relevant takeaways. It is a second-pass compression of the
// report, never an independent synthesis from raw analyses.
type KeyInsights struct {
	Symbol           string `json:"symbol" validate:"required"`
	CompanyName      string `json:"company_name,omitempty"`
	ReportDate       string `json:"report_date"`
	CriticalInsights string `json:"critical_insights"`
}
