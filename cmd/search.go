package main

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/halcyon-research/equity-cli/pkg/alphavantage"
)

var searchCmd = &cobra.Command{
	Use:   "search KEYWORDS",
	Short: "Look up candidate ticker symbols for a company name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		marketOpts := []alphavantage.Option{
			alphavantage.WithRateLimit(cfg.AlphaVantage.RequestsPerMinute, cfg.AlphaVantage.Burst),
		}
		if cfg.AlphaVantage.BaseURL != "" {
			marketOpts = append(marketOpts, alphavantage.WithBaseURL(cfg.AlphaVantage.BaseURL))
		}
		market := alphavantage.NewClient(cfg.AlphaVantage.Key, marketOpts...)

		payload, err := market.SymbolSearch(ctx, strings.Join(args, " "))
		if err != nil {
			return eris.Wrap(err, "symbol search")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(payload.Objects("bestMatches"))
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
