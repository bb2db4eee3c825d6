package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/halcyon-research/equity-cli/internal/research"
)

var batchForce bool

// batchOutcome is one symbol's result in the batch summary.
type batchOutcome struct {
	Symbol           string  `json:"symbol"`
	JobID            string  `json:"job_id,omitempty"`
	EstimatedCostUSD float64 `json:"estimated_cost_usd,omitempty"`
	CachedStages     int     `json:"cached_stages,omitempty"`
	Error            string  `json:"error,omitempty"`
}

var batchCmd = &cobra.Command{
	Use:   "batch SYMBOL...",
	Short: "Run the research pipeline for several symbols concurrently",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		symbols := make([]string, 0, len(args))
		seen := make(map[string]bool, len(args))
		for _, a := range args {
			s := strings.ToUpper(strings.TrimSpace(a))
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			symbols = append(symbols, s)
		}
		if len(symbols) == 0 {
			return eris.New("no symbols to process")
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		limit := cfg.Batch.MaxConcurrentSymbols
		if limit <= 0 {
			limit = 1
		}

		var mu sync.Mutex
		outcomes := make([]batchOutcome, 0, len(symbols))
		failed := 0

		// One failed symbol does not stop the rest; errors are collected
		// into the summary instead of cancelling the group.
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(limit)
		for _, symbol := range symbols {
			g.Go(func() error {
				result, err := env.Pipeline.Run(gctx, symbol, research.RunOptions{ForceRecompute: batchForce})

				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					failed++
					outcomes = append(outcomes, batchOutcome{Symbol: symbol, Error: err.Error()})
					zap.L().Error("batch symbol failed", zap.String("symbol", symbol), zap.Error(err))
					return nil
				}
				outcomes = append(outcomes, batchOutcome{
					Symbol:           symbol,
					JobID:            result.JobID,
					EstimatedCostUSD: result.EstimatedCost,
					CachedStages:     len(result.CachedStages),
				})
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		zap.L().Info("batch complete",
			zap.Int("symbols", len(symbols)),
			zap.Int("failed", failed),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(outcomes); err != nil {
			return err
		}
		if failed > 0 {
			return eris.Errorf("%d of %d symbols failed", failed, len(symbols))
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().BoolVar(&batchForce, "force", false, "skip cache reads and recompute every stage")
	rootCmd.AddCommand(batchCmd)
}
