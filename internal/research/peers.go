package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/halcyon-research/equity-cli/internal/model"
	"github.com/halcyon-research/equity-cli/pkg/anthropic"
)

const peerGroupInstructions = `You are an equity research analyst selecting a comparable-company set.
You receive a company's symbol, sector, industry, and its financial
statements analysis.

Pick the 2 to 4 publicly traded companies that are the truest peers:
same industry economics, comparable scale, traded on US exchanges under
their common tickers. Never include the subject company itself, never
include more than 4 peers, and prefer direct competitors over
conglomerates that merely touch the industry.

Return original_symbol and peer_group (the list of peer tickers).`

// stagePeerGroup selects 2-4 comparable tickers. The subject symbol is
// stripped from the reply before validation.
func (p *Pipeline) stagePeerGroup(ctx context.Context, rc *runCtx) (bool, error) {
	peers, cached, err := cacheOrCompute(ctx, p, rc, StagePeerGroup, func() (model.PeerGroup, error) {
		var zero model.PeerGroup

		input := fmt.Sprintf(
			"symbol: %s\nsector: %s\nindustry: %s\nfinancial_statements_analysis: %s",
			rc.symbol, rc.sector, rc.industry,
			mustJSON(rc.result.Financial),
		)

		out, usage, err := anthropic.RunObject[model.PeerGroup](
			ctx, p.anthropic, p.analysisSpec("peer-group", peerGroupInstructions), input)
		rc.usage.Record(StagePeerGroup, p.cfg.Anthropic.AnalysisModel, usage)
		if err != nil {
			return zero, err
		}

		out.OriginalSymbol = rc.symbol
		filtered := out.PeerGroup[:0]
		for _, peer := range out.PeerGroup {
			if !strings.EqualFold(strings.TrimSpace(peer), rc.symbol) {
				filtered = append(filtered, strings.ToUpper(strings.TrimSpace(peer)))
			}
		}
		out.PeerGroup = filtered
		if len(out.PeerGroup) < 2 {
			return zero, eris.Errorf("peer group for %s has %d usable peers", rc.symbol, len(out.PeerGroup))
		}
		return out, nil
	})
	if err != nil {
		return false, err
	}
	rc.result.Peers = peers
	return cached, nil
}
