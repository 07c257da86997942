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
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Scoring  ScoringConfig  `yaml:"scoring" mapstructure:"scoring"`
	TaxYear  TaxYearConfig  `yaml:"tax_year" mapstructure:"tax_year"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the run-history backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // "sqlite", "postgres", or "none"
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	RatePerSecond  float64  `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst      int      `yaml:"rate_burst" mapstructure:"rate_burst"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// PipelineConfig configures pipeline behavior.
type PipelineConfig struct {
	MaxConcurrentDocuments int `yaml:"max_concurrent_documents" mapstructure:"max_concurrent_documents"`
}

// ScoringConfig configures the confidence model weights. Zero values mean
// "use the calibrated defaults".
type ScoringConfig struct {
	OCRQuality            float64 `yaml:"ocr_quality" mapstructure:"ocr_quality"`
	FormatMatch           float64 `yaml:"format_match" mapstructure:"format_match"`
	PatternStrength       float64 `yaml:"pattern_strength" mapstructure:"pattern_strength"`
	CrossFieldConsistency float64 `yaml:"cross_field_consistency" mapstructure:"cross_field_consistency"`
	PositionalAccuracy    float64 `yaml:"positional_accuracy" mapstructure:"positional_accuracy"`
	ValuePlausibility     float64 `yaml:"value_plausibility" mapstructure:"value_plausibility"`
}

// IsZero reports whether no weights were configured.
func (s ScoringConfig) IsZero() bool {
	return s.OCRQuality == 0 && s.FormatMatch == 0 && s.PatternStrength == 0 &&
		s.CrossFieldConsistency == 0 && s.PositionalAccuracy == 0 && s.ValuePlausibility == 0
}

// TaxYearConfig configures tax-year constant overrides.
type TaxYearConfig struct {
	DefaultYear   int      `yaml:"default_year" mapstructure:"default_year"`
	OverrideFiles []string `yaml:"override_files" mapstructure:"override_files"`
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
	v.SetEnvPrefix("DOCINTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.sqlite_path", "docintel.db")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_per_second", 20)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("pipeline.max_concurrent_documents", 4)
	v.SetDefault("tax_year.default_year", 2025)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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
