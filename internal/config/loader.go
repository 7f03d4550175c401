// Package config provides configuration management for the Gridiron prediction engine.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))

	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	v.SetEnvPrefix("GRIDIRON")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields.
// Missing config file is not an error; defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v.SetConfigType("yaml")
	v.SetEnvPrefix("GRIDIRON")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "gridiron")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("features.momentum_window", 5)
	v.SetDefault("features.min_games_played", 1)
	v.SetDefault("features.min_situational_samples", 5)
	v.SetDefault("features.head_to_head_seasons", 3)
	v.SetDefault("features.stats_cache_ttl_seconds", 300)

	v.SetDefault("ensemble.forest_weight", 0.40)
	v.SetDefault("ensemble.boost_weight", 0.35)
	v.SetDefault("ensemble.logit_weight", 0.25)
	v.SetDefault("ensemble.forest_trees", 100)
	v.SetDefault("ensemble.forest_depth", 6)
	v.SetDefault("ensemble.boost_rounds", 150)
	v.SetDefault("ensemble.boost_shrinkage", 0.1)
	v.SetDefault("ensemble.logit_l2", 0.01)
	v.SetDefault("ensemble.logit_epochs", 500)
	v.SetDefault("ensemble.seed", 42)

	v.SetDefault("training.cross_validation_folds", 5)
	v.SetDefault("training.min_games_played", 1)
	v.SetDefault("training.model_name", "gridiron_ensemble")
	v.SetDefault("training.parallel_folds", true)

	v.SetDefault("drift.window_size", 50)
	v.SetDefault("drift.accuracy_threshold", 0.05)
	v.SetDefault("drift.check_schedule", "0 6 * * 2")

	v.SetDefault("value.kelly_multiplier", 0.5)
	v.SetDefault("value.max_stake_fraction", 0.05)
	v.SetDefault("value.min_edge", 0.0)

	v.SetDefault("snapshot.dir", "snapshots")

	v.SetDefault("market_feed.timeout_seconds", 10)
	v.SetDefault("market_feed.retry_max", 3)
	v.SetDefault("market_feed.requests_per_second", 2)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")
}
