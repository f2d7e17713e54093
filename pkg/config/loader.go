package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// File lookup.
const (
	ConfigName = ".commitlens"
	EnvPrefix  = "COMMITLENS"
)

// LoadConfig reads configuration. An explicit configPath must exist; without
// one, .commitlens.yaml is looked up in the working directory and then in
// $HOME, and a missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	readErr := v.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key so environment overrides bind.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("traversal.workers", d.Traversal.Workers)
	v.SetDefault("traversal.language_stats", d.Traversal.LanguageStats)
	v.SetDefault("traversal.clone_dir", d.Traversal.CloneDir)
	v.SetDefault("traversal.timeout", d.Traversal.Timeout)

	v.SetDefault("aggregate.top_n", d.Aggregate.TopN)
	v.SetDefault("aggregate.cumulative_top_n", d.Aggregate.CumulativeTopN)

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.cleanup_interval", d.Cache.CleanupInterval)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)

	v.SetDefault("observability.environment", d.Observability.Environment)
	v.SetDefault("observability.otlp_endpoint", d.Observability.OTLPEndpoint)
	v.SetDefault("observability.otlp_headers", d.Observability.OTLPHeaders)
	v.SetDefault("observability.otlp_insecure", d.Observability.OTLPInsecure)
	v.SetDefault("observability.sample_ratio", d.Observability.SampleRatio)
}
