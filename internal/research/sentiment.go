package research

import (
	"context"
	"fmt"

	"github.com/halcyon-research/equity-cli/internal/model"
	"github.com/halcyon-research/equity-cli/pkg/anthropic"
)

const newsSentimentInstructions = `You are an equity research analyst reading recent news flow. You receive
scored news sentiment feed entries for a company and its peer group, plus
the upstream earnings projection and management guidance analyses for
context. The subject company is identified by symbol; the remaining
tickers are its peers.

Classify the subject company's coverage:
- sentiment_trend: IMPROVING, DETERIORATING, STABLE_POSITIVE,
  STABLE_NEGATIVE, VOLATILE, or INSUFFICIENT_DATA.
- news_volume: HIGH_VOLUME, MODERATE_VOLUME, LOW_VOLUME, or
  SPARSE_COVERAGE.
- sentiment_confidence: HIGH, MEDIUM, LOW, or INSUFFICIENT_DATA. Sparse
  coverage caps confidence at LOW.

Extract key_themes, positive_catalysts, and negative_concerns from the
articles. Use the peer coverage to judge whether sentiment is company
specific or sector wide; say which in news_sentiment_analysis. Write
long_form_analysis as prose, set overall_sentiment_label to a short
human-readable label, and critical_insights to the news facts most likely
to move the stock.`

// stageNewsSentiment fetches the sentiment feed for the symbol together
// with its peers, so sector-wide mood is separable from company news.
func (p *Pipeline) stageNewsSentiment(ctx context.Context, rc *runCtx) (bool, error) {
	summary, cached, err := cacheOrCompute(ctx, p, rc, StageNewsSentiment, func() (model.NewsSentimentSummary, error) {
		var zero model.NewsSentimentSummary

		tickers := append([]string{}, rc.result.Peers.PeerGroup...)
		tickers = append(tickers, rc.symbol)
		feed, err := p.market.NewsSentiment(ctx, tickers)
		feed = rc.fetchDegraded("news_sentiment", feed, err)

		input := fmt.Sprintf(
			"symbol: %s\npeer_group: %s\nnews_feed: %s\nearnings_projection: %s\nmanagement_guidance: %s",
			rc.symbol,
			mustJSON(rc.result.Peers),
			mustJSON(feed),
			mustJSON(rc.result.Projections),
			mustJSON(rc.result.Guidance),
		)

		out, usage, err := anthropic.RunObject[model.NewsSentimentSummary](
			ctx, p.anthropic, p.analysisSpec("news-sentiment", newsSentimentInstructions), input)
		rc.usage.Record(StageNewsSentiment, p.cfg.Anthropic.AnalysisModel, usage)
		if err != nil {
			return zero, err
		}
		out.Symbol = rc.symbol
		return out, nil
	})
	if err != nil {
		return false, err
	}
	rc.result.Sentiment = summary
	return cached, nil
}
