package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App: AppConfig{Name: "gridiron", Environment: "development", LogLevel: "info"},
		Database: DatabaseConfig{
			Host: "localhost", Port: 5432, Name: "gridiron", User: "app",
			Password: "secret", SSLMode: "disable", MaxConnections: 10, MaxIdleConnections: 5,
		},
		Features: FeaturesConfig{
			MomentumWindow: 5, MinGamesPlayed: 1, MinSituationalSamples: 5,
			HeadToHeadSeasons: 3, StatsCacheTTLSeconds: 300,
		},
		Ensemble: EnsembleConfig{
			ForestWeight: 0.40, BoostWeight: 0.35, LogitWeight: 0.25,
			ForestTrees: 100, ForestDepth: 6, BoostRounds: 150, BoostShrinkage: 0.1,
			LogitL2: 0.01, LogitEpochs: 500, Seed: 42,
		},
		Training: TrainingConfig{CrossValidationFolds: 5, MinGamesPlayed: 1, ModelName: "gridiron_ensemble"},
		Drift:    DriftConfig{WindowSize: 50, AccuracyThreshold: 0.05, CheckSchedule: "0 6 * * 2"},
		Value:    ValueConfig{KellyMultiplier: 0.5, MaxStakeFraction: 0.05},
		Snapshot: SnapshotConfig{Dir: "snapshots"},
		MarketFeed: MarketFeedConfig{
			BaseURL: "https://lines.example.com", TimeoutSeconds: 10,
			RetryMax: 3, RequestsPerSecond: 2,
		},
		Metrics: MetricsConfig{Enabled: true, Port: 9090, Path: "/metrics"},
	}
}

func TestValidateAcceptsValidConfig(t *testing.T) {
	require.NoError(t, Validate(validConfig()))
}

func TestValidateRejectsWeightsNotSummingToOne(t *testing.T) {
	cfg := validConfig()
	cfg.Ensemble.ForestWeight = 0.5

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must sum to 1.0")
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.App.LogLevel = "verbose"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LogLevel")
}

func TestValidateRejectsBadCronSchedule(t *testing.T) {
	cfg := validConfig()
	cfg.Drift.CheckSchedule = "not a schedule"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check_schedule")
}

func TestValidateRejectsProductionWithoutSSL(t *testing.T) {
	cfg := validConfig()
	cfg.App.Environment = "production"
	cfg.Database.SSLMode = "disable"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SSL")
}

func TestLoadExpandsEnvironmentVariables(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
app:
  name: gridiron
  environment: development
  log_level: info
database:
  host: localhost
  port: 5432
  name: gridiron
  user: app
  password: ${GRIDIRON_TEST_DB_PASSWORD}
  ssl_mode: disable
  max_connections: 10
  max_idle_connections: 5
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv("GRIDIRON_TEST_DB_PASSWORD", "hunter2")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", cfg.Database.Password)
}

func TestLoadWithDefaultsAppliesEngineDefaults(t *testing.T) {
	cfg, err := LoadWithDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Features.MomentumWindow)
	assert.InDelta(t, 0.40, cfg.Ensemble.ForestWeight, 1e-9)
	assert.InDelta(t, 0.5, cfg.Value.KellyMultiplier, 1e-9)
	assert.InDelta(t, 0.05, cfg.Value.MaxStakeFraction, 1e-9)
	assert.InDelta(t, 0.05, cfg.Drift.AccuracyThreshold, 1e-9)
}
