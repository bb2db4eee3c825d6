package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store        StoreConfig        `yaml:"store" mapstructure:"store"`
	Anthropic    AnthropicConfig    `yaml:"anthropic" mapstructure:"anthropic"`
	AlphaVantage AlphaVantageConfig `yaml:"alphavantage" mapstructure:"alphavantage"`
	Research     ResearchConfig     `yaml:"research" mapstructure:"research"`
	Pricing      PricingConfig      `yaml:"pricing" mapstructure:"pricing"`
	Batch        BatchConfig        `yaml:"batch" mapstructure:"batch"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// AnthropicConfig holds Anthropic API settings. Each stage family gets an
// explicit model so a run's model selection is visible in one place.
type AnthropicConfig struct {
	Key             string `yaml:"key" mapstructure:"key"`
	AnalysisModel   string `yaml:"analysis_model" mapstructure:"analysis_model"`
	ReportModel     string `yaml:"report_model" mapstructure:"report_model"`
	MaxTokens       int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
	ReportMaxTokens int64  `yaml:"report_max_tokens" mapstructure:"report_max_tokens"`
}

// AlphaVantageConfig holds market data API settings.
type AlphaVantageConfig struct {
	Key               string  `yaml:"key" mapstructure:"key"`
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	RequestsPerMinute float64 `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// ResearchConfig configures pipeline behavior.
type ResearchConfig struct {
	CacheTTLHours int    `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
	ReportsDir    string `yaml:"reports_dir" mapstructure:"reports_dir"`
}

// CacheTTL returns the report cache TTL as a duration.
func (c ResearchConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLHours) * time.Hour
}

// PricingConfig holds per-provider pricing rates.
type PricingConfig struct {
	Anthropic    map[string]ModelPricing `yaml:"anthropic" mapstructure:"anthropic"`
	AlphaVantage AlphaVantagePricing     `yaml:"alphavantage" mapstructure:"alphavantage"`
}

// ModelPricing holds per-model token pricing (USD per million tokens).
type ModelPricing struct {
	Input         float64 `yaml:"input" mapstructure:"input"`
	Output        float64 `yaml:"output" mapstructure:"output"`
	CacheWriteMul float64 `yaml:"cache_write_mul" mapstructure:"cache_write_mul"`
	CacheReadMul  float64 `yaml:"cache_read_mul" mapstructure:"cache_read_mul"`
}

// AlphaVantagePricing holds the market data plan pricing.
type AlphaVantagePricing struct {
	PlanMonthly      float64 `yaml:"plan_monthly" mapstructure:"plan_monthly"`
	RequestsIncluded float64 `yaml:"requests_included" mapstructure:"requests_included"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxConcurrentSymbols int `yaml:"max_concurrent_symbols" mapstructure:"max_concurrent_symbols"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("EQUITY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "equity.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("batch.max_concurrent_symbols", 3)
	v.SetDefault("research.cache_ttl_hours", 24)
	v.SetDefault("research.reports_dir", "reports")
	v.SetDefault("alphavantage.base_url", "https://www.alphavantage.co")
	v.SetDefault("alphavantage.requests_per_minute", 75)
	v.SetDefault("alphavantage.burst", 5)
	v.SetDefault("anthropic.analysis_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.report_model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 8192)
	v.SetDefault("anthropic.report_max_tokens", 16384)
	v.SetDefault("pricing.alphavantage.plan_monthly", 49.99)
	v.SetDefault("pricing.alphavantage.requests_included", 3240000)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
