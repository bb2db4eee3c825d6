package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/halcyon-research/equity-cli/internal/research"
)

var (
	researchForce bool
	researchModel string
)

var researchCmd = &cobra.Command{
	Use:   "research SYMBOL",
	Short: "Run the full research pipeline for a single symbol",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		symbol := strings.ToUpper(strings.TrimSpace(args[0]))
		if symbol == "" {
			return eris.New("symbol is required")
		}

		if researchModel != "" {
			cfg.Anthropic.AnalysisModel = researchModel
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		result, err := env.Pipeline.Run(ctx, symbol, research.RunOptions{ForceRecompute: researchForce})
		if err != nil {
			return eris.Wrap(err, "research run")
		}

		zap.L().Info("research complete",
			zap.String("symbol", symbol),
			zap.String("job_id", result.JobID),
			zap.Int64("input_tokens", result.TotalUsage.InputTokens),
			zap.Int64("output_tokens", result.TotalUsage.OutputTokens),
			zap.Float64("estimated_cost_usd", result.EstimatedCost),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	researchCmd.Flags().BoolVar(&researchForce, "force", false, "skip cache reads and recompute every stage")
	researchCmd.Flags().StringVar(&researchModel, "model", "", "override the analysis model for this run")
	rootCmd.AddCommand(researchCmd)
}
