package research

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/halcyon-research/equity-cli/internal/model"
	"github.com/halcyon-research/equity-cli/pkg/anthropic"
)

const crossReferenceInstructions = `You are an equity research reviewer reconciling one analysis against the
others produced for the same company. You receive the original analysis
and the remaining analyses as data points.

Find statements in the original that the data points contradict or
undercut. Classify each finding:
- major: a discrepancy that changes an investment-relevant conclusion of
  the original analysis.
- minor: a discrepancy worth noting that does not change a conclusion.
- trivial: wording or rounding differences. Drop these entirely; never
  report them.

For every reported adjustment give analysis_types_causing_discrepancy
(which other analyses conflict, by their type names), adjustment_analysis
(what the original should say instead), and adjustment_reasoning (why the
other analyses win). Echo the original analysis type in
original_analysis_type. If nothing conflicts, return empty adjustment
lists; absence of adjustments is a valid result, not a failure.`

// analysisForType returns the completed analysis record for one of the
// six reconcilable analysis types.
func analysisForType(res *Result, at model.AnalysisType) any {
	switch at {
	case model.AnalysisHistoricalEarnings:
		return res.Historical
	case model.AnalysisFinancialStatements:
		return res.Financial
	case model.AnalysisEarningsProjections:
		return res.Projections
	case model.AnalysisManagementGuidance:
		return res.Guidance
	case model.AnalysisForwardPe:
		return res.ForwardPe
	case model.AnalysisNewsSentiment:
		return res.Sentiment
	default:
		return nil
	}
}

// stripSelfReferences removes the analysis under review from any
// adjustment's cause list. An analysis cannot be a discrepancy cause for
// itself; an adjustment left with no causes is dropped entirely.
func stripSelfReferences(original model.AnalysisType, a model.CrossReferencedAnalysis) model.CrossReferencedAnalysis {
	a.MajorAdjustments = stripSelfCitingAdjustments(original, a.MajorAdjustments)
	a.MinorAdjustments = stripSelfCitingAdjustments(original, a.MinorAdjustments)
	return a
}

func stripSelfCitingAdjustments(original model.AnalysisType, adjs []model.CrossRefAdjustment) []model.CrossRefAdjustment {
	kept := adjs[:0]
	for _, adj := range adjs {
		causes := adj.AnalysisTypesCausingDiscrepancy[:0]
		for _, cause := range adj.AnalysisTypesCausingDiscrepancy {
			if cause == original {
				zap.L().Warn("research: cross-reference cited the original analysis as its own cause",
					zap.String("original", string(original)))
				continue
			}
			causes = append(causes, cause)
		}
		if len(causes) == 0 {
			continue
		}
		adj.AnalysisTypesCausingDiscrepancy = causes
		kept = append(kept, adj)
	}
	return kept
}

// stageCrossReference reconciles each of the six analyses against the
// other five. Passes run in the fixed declaration order, one pass per
// analysis, and an analysis is never compared against itself.
func (p *Pipeline) stageCrossReference(ctx context.Context, rc *runCtx) (bool, error) {
	set, cached, err := cacheOrCompute(ctx, p, rc, StageCrossReference, func() (model.CrossReferenceSet, error) {
		var zero model.CrossReferenceSet

		set := model.CrossReferenceSet{
			Symbol:      rc.symbol,
			Completions: make(map[model.AnalysisType]model.CrossReferencedAnalysisCompletion, len(model.CrossRefOrder)),
		}

		for _, original := range model.CrossRefOrder {
			dataPoints := make(map[model.AnalysisType]any, len(model.CrossRefOrder)-1)
			for _, other := range model.CrossRefOrder {
				if other == original {
					continue
				}
				dataPoints[other] = analysisForType(rc.result, other)
			}

			input := fmt.Sprintf(
				"original_symbol: %s, original_analysis_type: %s, original_analysis: %s, data_points: %s",
				rc.symbol, original,
				mustJSON(analysisForType(rc.result, original)),
				mustJSON(dataPoints),
			)

			completion, usage, err := anthropic.RunObject[model.CrossReferencedAnalysisCompletion](
				ctx, p.anthropic, p.analysisSpec("cross-reference", crossReferenceInstructions), input)
			rc.usage.Record(StageCrossReference, p.cfg.Anthropic.AnalysisModel, usage)
			if err != nil {
				return zero, err
			}
			// Key by the pass we ran, not whatever the model echoed, and
			// drop any adjustment the reply blamed on the original itself.
			completion.CrossReferencedAnalysis = stripSelfReferences(original, completion.CrossReferencedAnalysis)
			completion.OriginalAnalysisType = original
			set.Completions[original] = completion
		}
		return set, nil
	})
	if err != nil {
		return false, err
	}
	rc.result.CrossReference = set
	return cached, nil
}
