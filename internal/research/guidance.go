package research

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/halcyon-research/equity-cli/internal/model"
	"github.com/halcyon-research/equity-cli/pkg/anthropic"
)

const managementGuidanceInstructions = `You are an equity research analyst reading an earnings call transcript
for forward guidance. You receive the transcript of the company's most
recent earnings call plus the upstream historical earnings and financial
statements analyses for context.

Extract every forward-looking guidance signal as a guidance_indicator:
its type (revenue, margin, eps, capex, product, macro, other), direction
(POSITIVE, NEGATIVE, NEUTRAL, UNCLEAR), the quoted context, and an
impact_assessment. Classify:
- overall_guidance_tone: OPTIMISTIC, CAUTIOUS, NEUTRAL, PESSIMISTIC, or
  MIXED_SIGNALS.
- revenue/margin/eps_guidance_direction where management spoke to them.
- consensus_validation_signal: BULLISH, BEARISH, NEUTRAL, or MIXED,
  judging management's guidance against the upstream analyses.

List risk_factors_mentioned and opportunities_mentioned from management's
own words. Set transcript_available to true and quarter_analyzed to the
quarter supplied. Write key_guidance_summary, long_form_analysis, and
critical_insights as prose grounded in the transcript only.`

// noTranscriptAnalysis is the degraded result when no earnings call
// transcript exists for either candidate quarter. The pipeline continues
// with neutral sentinels rather than failing the run.
func noTranscriptAnalysis(symbol string) model.ManagementGuidanceAnalysis {
	return model.ManagementGuidanceAnalysis{
		Symbol:                    symbol,
		TranscriptAvailable:       false,
		GuidanceIndicators:        []model.GuidanceIndicator{},
		OverallGuidanceTone:       model.GuidanceToneNeutral,
		RiskFactorsMentioned:      []string{},
		OpportunitiesMentioned:    []string{},
		ConsensusValidationSignal: model.ConsensusSignalNeutral,
		KeyGuidanceSummary:        "No earnings call transcript available for analysis",
		LongFormAnalysis: "No earnings call transcript could be retrieved for this company, " +
			"so no management guidance assessment was performed. All guidance fields are neutral placeholders.",
		CriticalInsights: "Management guidance is unavailable for this period; weight the quantitative analyses accordingly.",
	}
}

// failedGuidanceAnalysis is the degraded result when a transcript exists
// but the analysis call itself fails. Guidance is the one qualitative
// stage; a neutral record keeps the quantitative pipeline moving.
func failedGuidanceAnalysis(symbol string, cause error) model.ManagementGuidanceAnalysis {
	out := noTranscriptAnalysis(symbol)
	out.KeyGuidanceSummary = "Management guidance analysis failed: " + cause.Error()
	out.LongFormAnalysis = "The management guidance analysis could not be completed, " +
		"so all guidance fields are neutral placeholders. Cause: " + cause.Error()
	out.CriticalInsights = "Management guidance is unavailable for this run; weight the quantitative analyses accordingly."
	return out
}

// stageManagementGuidance fetches the latest earnings call transcript and
// extracts guidance signals. A missing transcript or a failed analysis
// degrades to a neutral result instead of an error.
func (p *Pipeline) stageManagementGuidance(ctx context.Context, rc *runCtx) (bool, error) {
	analysis, cached, err := cacheOrCompute(ctx, p, rc, StageManagementGuidance, func() (model.ManagementGuidanceAnalysis, error) {
		quarter := latestTranscriptQuarter(rc.now)
		transcript, ok := p.fetchTranscript(ctx, rc, quarter)
		if !ok {
			// Reporting calendars vary; try one quarter back before
			// giving up.
			quarter = previousQuarter(quarter)
			transcript, ok = p.fetchTranscript(ctx, rc, quarter)
		}
		if !ok {
			zap.L().Info("research: no transcript available",
				zap.String("symbol", rc.symbol), zap.String("quarter", quarter))
			return noTranscriptAnalysis(rc.symbol), nil
		}

		input := fmt.Sprintf(
			"symbol: %s\nquarter: %s\ntranscript: %s\nhistorical_earnings_analysis: %s\nfinancial_statements_analysis: %s",
			rc.symbol, quarter, transcript,
			mustJSON(rc.result.Historical),
			mustJSON(rc.result.Financial),
		)

		out, usage, err := anthropic.RunObject[model.ManagementGuidanceAnalysis](
			ctx, p.anthropic, p.analysisSpec("management-guidance", managementGuidanceInstructions), input)
		rc.usage.Record(StageManagementGuidance, p.cfg.Anthropic.AnalysisModel, usage)
		if err != nil {
			zap.L().Warn("research: guidance analysis degraded to neutral result",
				zap.String("symbol", rc.symbol), zap.Error(err))
			return failedGuidanceAnalysis(rc.symbol, err), nil
		}
		out.Symbol = rc.symbol
		out.QuarterAnalyzed = quarter
		out.TranscriptAvailable = true
		return out, nil
	})
	if err != nil {
		return false, err
	}
	rc.result.Guidance = analysis
	return cached, nil
}

// fetchTranscript returns the transcript JSON for a quarter, or ok=false
// when the API has nothing for it. Fetch errors also report false; the
// guidance stage treats any unavailability the same way.
func (p *Pipeline) fetchTranscript(ctx context.Context, rc *runCtx, quarter string) (string, bool) {
	payload, err := p.market.EarningsCallTranscript(ctx, rc.symbol, quarter)
	rc.usage.RecordFetch()
	if err != nil {
		zap.L().Warn("research: transcript fetch failed",
			zap.String("symbol", rc.symbol), zap.String("quarter", quarter), zap.Error(err))
		return "", false
	}
	entries := payload.Objects("transcript")
	if len(entries) == 0 {
		return "", false
	}
	return mustJSON(payload), true
}
