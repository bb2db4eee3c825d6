package model

// AnalysisType names one of the six analyses that participate in
// cross-reference reconciliation.
type AnalysisType string

const (
	AnalysisHistoricalEarnings  AnalysisType = "historical_earnings"
	AnalysisFinancialStatements AnalysisType = "financial_statements"
	AnalysisEarningsProjections AnalysisType = "earnings_projections"
	AnalysisManagementGuidance  AnalysisType = "management_guidance"
	AnalysisForwardPe           AnalysisType = "forward_pe"
	AnalysisNewsSentiment       AnalysisType = "news_sentiment"
)

// CrossRefOrder is the fixed order in which analyses are reconciled. Each
// entry takes one pass as the original with the other five as data points.
var CrossRefOrder = []AnalysisType{
	AnalysisHistoricalEarnings,
	AnalysisFinancialStatements,
	AnalysisEarningsProjections,
	AnalysisManagementGuidance,
	AnalysisForwardPe,
	AnalysisNewsSentiment,
}

// CrossRefAdjustment records one discrepancy found between the original
// analysis and the other analyses, with the revision it motivates.
type CrossRefAdjustment struct {
	AnalysisTypesCausingDiscrepancy []AnalysisType `json:"analysis_types_causing_discrepancy"`
	AdjustmentAnalysis              string         `json:"adjustment_analysis"`
	AdjustmentReasoning             string         `json:"adjustment_reasoning"`
}

// CrossReferencedAnalysis partitions adjustments by materiality. Trivial
// discrepancies are dropped entirely, so both lists may be empty.
type CrossReferencedAnalysis struct {
	MajorAdjustments []CrossRefAdjustment `json:"major_adjustments,omitempty"`
	MinorAdjustments []CrossRefAdjustment `json:"minor_adjustments,omitempty"`
}

// CrossReferencedAnalysisCompletion is the per-pass reconciliation result.
type CrossReferencedAnalysisCompletion struct {
	OriginalAnalysisType    AnalysisType            `json:"original_analysis_type" validate:"required,oneof=historical_earnings financial_statements earnings_projections management_guidance forward_pe news_sentiment"`
	CrossReferencedAnalysis CrossReferencedAnalysis `json:"cross_referenced_analysis"`
}

// CrossReferenceSet collects the reconciliation passes for a run, keyed by
// the analysis that served as the original.
type CrossReferenceSet struct {
	Symbol      string                                             `json:"symbol"`
	Completions map[AnalysisType]CrossReferencedAnalysisCompletion `json:"completions"`
}
