// Package config provides configuration management for the Gridiron prediction engine.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Features   FeaturesConfig   `mapstructure:"features" validate:"required"`
	Ensemble   EnsembleConfig   `mapstructure:"ensemble" validate:"required"`
	Training   TrainingConfig   `mapstructure:"training" validate:"required"`
	Drift      DriftConfig      `mapstructure:"drift" validate:"required"`
	Value      ValueConfig      `mapstructure:"value" validate:"required"`
	Snapshot   SnapshotConfig   `mapstructure:"snapshot" validate:"required"`
	MarketFeed MarketFeedConfig `mapstructure:"market_feed" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// FeaturesConfig tunes feature engineering
type FeaturesConfig struct {
	MomentumWindow     int `mapstructure:"momentum_window" validate:"required,gte=2"`
	MinGamesPlayed     int `mapstructure:"min_games_played" validate:"required,gte=1"`
	MinSituationalSamples int `mapstructure:"min_situational_samples" validate:"required,gte=1"`
	HeadToHeadSeasons  int `mapstructure:"head_to_head_seasons" validate:"required,gte=1"`
	StatsCacheTTLSeconds int `mapstructure:"stats_cache_ttl_seconds" validate:"required,gt=0"`
}

// EnsembleConfig configures the sub-models and their combination weights.
// Weights must sum to 1.0; they are configuration, re-tunable only by retraining.
type EnsembleConfig struct {
	ForestWeight float64 `mapstructure:"forest_weight" validate:"gte=0,lte=1"`
	BoostWeight  float64 `mapstructure:"boost_weight" validate:"gte=0,lte=1"`
	LogitWeight  float64 `mapstructure:"logit_weight" validate:"gte=0,lte=1"`
	ForestTrees  int     `mapstructure:"forest_trees" validate:"required,gt=0"`
	ForestDepth  int     `mapstructure:"forest_depth" validate:"required,gt=0"`
	BoostRounds  int     `mapstructure:"boost_rounds" validate:"required,gt=0"`
	BoostShrinkage float64 `mapstructure:"boost_shrinkage" validate:"required,gt=0,lte=1"`
	LogitL2      float64 `mapstructure:"logit_l2" validate:"gte=0"`
	LogitEpochs  int     `mapstructure:"logit_epochs" validate:"required,gt=0"`
	Seed         int64   `mapstructure:"seed"`
}

// TrainingConfig configures the training pipeline
type TrainingConfig struct {
	CrossValidationFolds int    `mapstructure:"cross_validation_folds" validate:"required,gte=2"`
	MinGamesPlayed       int    `mapstructure:"min_games_played" validate:"required,gte=1"`
	ModelName            string `mapstructure:"model_name" validate:"required"`
	ParallelFolds        bool   `mapstructure:"parallel_folds"`
}

// DriftConfig configures drift monitoring
type DriftConfig struct {
	WindowSize        int     `mapstructure:"window_size" validate:"required,gt=0"`
	AccuracyThreshold float64 `mapstructure:"accuracy_threshold" validate:"required,gt=0,lt=1"`
	CheckSchedule     string  `mapstructure:"check_schedule" validate:"required"`
}

// ValueConfig configures Kelly-based value analysis
type ValueConfig struct {
	KellyMultiplier  float64 `mapstructure:"kelly_multiplier" validate:"required,gt=0,lte=1"`
	MaxStakeFraction float64 `mapstructure:"max_stake_fraction" validate:"required,gt=0,lte=1"`
	MinEdge          float64 `mapstructure:"min_edge" validate:"gte=0"`
}

// SnapshotConfig configures snapshot persistence
type SnapshotConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
}

// MarketFeedConfig configures the market-line collaborator client
type MarketFeedConfig struct {
	BaseURL           string  `mapstructure:"base_url" validate:"required,url"`
	APIKey            string  `mapstructure:"api_key"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryMax          int     `mapstructure:"retry_max" validate:"gte=0"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// EnsembleWeights returns the configured sub-model weights in model order.
func (c *EnsembleConfig) EnsembleWeights() []float64 {
	return []float64{c.ForestWeight, c.BoostWeight, c.LogitWeight}
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
