package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/halcyon-research/equity-cli/internal/research"
	"github.com/halcyon-research/equity-cli/internal/store"
	"github.com/halcyon-research/equity-cli/pkg/alphavantage"
	"github.com/halcyon-research/equity-cli/pkg/anthropic"
)

// pipelineEnv bundles the pipeline with everything that needs closing.
type pipelineEnv struct {
	Pipeline *research.Pipeline
	Store    store.Store
}

func (e *pipelineEnv) Close() {
	_ = e.Store.Close()
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "equity.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initPipeline(ctx context.Context) (*pipelineEnv, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}

	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	marketOpts := []alphavantage.Option{
		alphavantage.WithRateLimit(cfg.AlphaVantage.RequestsPerMinute, cfg.AlphaVantage.Burst),
	}
	if cfg.AlphaVantage.BaseURL != "" {
		marketOpts = append(marketOpts, alphavantage.WithBaseURL(cfg.AlphaVantage.BaseURL))
	}
	market := alphavantage.NewClient(cfg.AlphaVantage.Key, marketOpts...)
	aiClient := anthropic.NewClient(cfg.Anthropic.Key)

	return &pipelineEnv{
		Pipeline: research.New(cfg, st, market, aiClient),
		Store:    st,
	}, nil
}
