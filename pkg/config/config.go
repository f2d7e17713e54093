// Package config loads commitlens settings from defaults, an optional YAML
// file and COMMITLENS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Sumatoshi-tech/commitlens/pkg/aggregate"
	"github.com/Sumatoshi-tech/commitlens/pkg/cache"
	"github.com/Sumatoshi-tech/commitlens/pkg/observability"
	"github.com/Sumatoshi-tech/commitlens/pkg/traversal"
)

// Sentinel validation errors.
var (
	ErrInvalidWorkers     = errors.New("traversal workers must be positive")
	ErrInvalidTopN        = errors.New("top n must be positive")
	ErrInvalidCacheTTL    = errors.New("cache ttl must not be negative")
	ErrInvalidLogFormat   = errors.New("log format must be text or json")
	ErrInvalidSampleRatio = errors.New("sample ratio must be within [0, 1]")
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config holds all commitlens configuration.
type Config struct {
	Traversal     TraversalConfig     `mapstructure:"traversal"`
	Aggregate     AggregateConfig     `mapstructure:"aggregate"`
	Cache         CacheConfig         `mapstructure:"cache"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// TraversalConfig configures history extraction.
type TraversalConfig struct {
	Workers       int           `mapstructure:"workers"`
	LanguageStats bool          `mapstructure:"language_stats"`
	CloneDir      string        `mapstructure:"clone_dir"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// AggregateConfig holds ranking defaults.
type AggregateConfig struct {
	TopN           int `mapstructure:"top_n"`
	CumulativeTopN int `mapstructure:"cumulative_top_n"`
}

// CacheConfig configures the extraction cache of the MCP server.
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// LoggingConfig configures slog output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ObservabilityConfig configures OpenTelemetry export.
type ObservabilityConfig struct {
	Environment  string  `mapstructure:"environment"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Traversal: TraversalConfig{Workers: traversal.DefaultWorkers},
		Aggregate: AggregateConfig{
			TopN:           aggregate.DefaultTopN,
			CumulativeTopN: aggregate.DefaultCumulativeTopN,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             cache.DefaultTTL,
			CleanupInterval: cache.DefaultCleanupInterval,
		},
		Logging: LoggingConfig{Level: "info", Format: LogFormatText},
	}
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Traversal.Workers <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Traversal.Workers)
	}

	if c.Aggregate.TopN <= 0 {
		return fmt.Errorf("%w: top_n=%d", ErrInvalidTopN, c.Aggregate.TopN)
	}

	if c.Aggregate.CumulativeTopN <= 0 {
		return fmt.Errorf("%w: cumulative_top_n=%d", ErrInvalidTopN, c.Aggregate.CumulativeTopN)
	}

	if c.Cache.TTL < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCacheTTL, c.Cache.TTL)
	}

	if c.Logging.Format != LogFormatText && c.Logging.Format != LogFormatJSON {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Logging.Format)
	}

	if c.Observability.SampleRatio < 0 || c.Observability.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, c.Observability.SampleRatio)
	}

	return nil
}

// TraversalOptions maps the traversal section onto engine options.
func (c *Config) TraversalOptions() traversal.Options {
	return traversal.Options{
		Workers:       c.Traversal.Workers,
		LanguageStats: c.Traversal.LanguageStats,
		CloneDir:      c.Traversal.CloneDir,
	}
}

// ObservabilityConfig maps logging and observability onto the telemetry
// setup for the given mode and version.
func (c *Config) ObservabilityConfig(mode observability.AppMode, version string) observability.Config {
	cfg := observability.DefaultConfig()
	cfg.Mode = mode
	cfg.ServiceVersion = version
	cfg.Environment = c.Observability.Environment
	cfg.OTLPEndpoint = c.Observability.OTLPEndpoint
	cfg.OTLPHeaders = observability.ParseOTLPHeaders(c.Observability.OTLPHeaders)
	cfg.OTLPInsecure = c.Observability.OTLPInsecure
	cfg.SampleRatio = c.Observability.SampleRatio
	cfg.LogLevel = observability.ParseLogLevel(c.Logging.Level)
	cfg.LogJSON = c.Logging.Format == LogFormatJSON

	return cfg
}
