// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Fetch  FetchConfig  `yaml:"fetch" mapstructure:"fetch"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Batch  BatchConfig  `yaml:"batch" mapstructure:"batch"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
	Scorer ScorerConfig `yaml:"scorer" mapstructure:"scorer"`
	// WorkDir holds per-run scratch output, e.g. the raw-bytes dump written
	// when a download is not a ZIP.
	WorkDir string `yaml:"work_dir" mapstructure:"work_dir"`
}

// StoreConfig configures the persistence backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// FetchConfig configures archive retrieval.
type FetchConfig struct {
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	MaxConcurrentRuns int `yaml:"max_concurrent_runs" mapstructure:"max_concurrent_runs"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ScorerConfig holds the composite-index weight tables and scoring
// thresholds. Defaults live in the scorer package.
type ScorerConfig struct {
	GSCClicksWeight    float64 `yaml:"gsc_clicks_weight" mapstructure:"gsc_clicks_weight"`
	KeywordTop10Weight float64 `yaml:"keyword_top10_weight" mapstructure:"keyword_top10_weight"`
	SiteHealthWeight   float64 `yaml:"site_health_weight" mapstructure:"site_health_weight"`
	CWVPassWeight      float64 `yaml:"cwv_pass_weight" mapstructure:"cwv_pass_weight"`
	IndexedValidWeight float64 `yaml:"indexed_valid_weight" mapstructure:"indexed_valid_weight"`

	AvgLocalRankWeight float64 `yaml:"avg_local_rank_weight" mapstructure:"avg_local_rank_weight"`
	PctTop3Weight      float64 `yaml:"pct_top3_weight" mapstructure:"pct_top3_weight"`
	CitationsWeight    float64 `yaml:"citations_weight" mapstructure:"citations_weight"`
	ReviewsWeight      float64 `yaml:"reviews_weight" mapstructure:"reviews_weight"`
	GBPActionsWeight   float64 `yaml:"gbp_actions_weight" mapstructure:"gbp_actions_weight"`

	BadErrorsPerPage  float64 `yaml:"bad_errors_per_page" mapstructure:"bad_errors_per_page"`
	DefaultPagesTotal int     `yaml:"default_pages_total" mapstructure:"default_pages_total"`
	WorstCaseAvgPos   float64 `yaml:"worst_case_avg_pos" mapstructure:"worst_case_avg_pos"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SEOAUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "seo_audit.db")
	v.SetDefault("fetch.timeout_secs", 60)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.user_agent", "seo-audit-etl/1.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("batch.max_concurrent_runs", 4)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("work_dir", "/tmp/seo-audit-etl")

	v.SetDefault("scorer.gsc_clicks_weight", 30)
	v.SetDefault("scorer.keyword_top10_weight", 20)
	v.SetDefault("scorer.site_health_weight", 20)
	v.SetDefault("scorer.cwv_pass_weight", 15)
	v.SetDefault("scorer.indexed_valid_weight", 15)
	v.SetDefault("scorer.avg_local_rank_weight", 40)
	v.SetDefault("scorer.pct_top3_weight", 25)
	v.SetDefault("scorer.citations_weight", 15)
	v.SetDefault("scorer.reviews_weight", 10)
	v.SetDefault("scorer.gbp_actions_weight", 10)
	v.SetDefault("scorer.bad_errors_per_page", 0.5)
	v.SetDefault("scorer.default_pages_total", 100)
	v.SetDefault("scorer.worst_case_avg_pos", 20)

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
