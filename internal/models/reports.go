package models

import (
	"encoding/json"
	"time"
)

// MetricSummary holds the mean and standard deviation of one evaluation
// metric across cross-validation folds.
type MetricSummary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// ClassifierMetrics holds the standard binary-classification metrics for a
// single evaluation split.
type ClassifierMetrics struct {
	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	ROCAUC    float64 `json:"roc_auc"`
	Samples   int     `json:"samples"`
}

// CrossValidationReport aggregates classifier metrics across k folds.
// Advisory only: random folds can leak future-season patterns backward, so
// the season backtest is the authoritative estimate.
type CrossValidationReport struct {
	Folds     int           `json:"folds"`
	Accuracy  MetricSummary `json:"accuracy"`
	Precision MetricSummary `json:"precision"`
	Recall    MetricSummary `json:"recall"`
	F1        MetricSummary `json:"f1"`
	ROCAUC    MetricSummary `json:"roc_auc"`
}

// SeasonResult is the held-out evaluation of one backtest season.
type SeasonResult struct {
	Season         int               `json:"season"`
	TrainedSeasons []int             `json:"trained_seasons"`
	TrainSamples   int               `json:"train_samples"`
	Metrics        ClassifierMetrics `json:"metrics"`
}

// BacktestReport is the chronological season-by-season evaluation. Its
// aggregate accuracy is what a snapshot reports as its accuracy.
type BacktestReport struct {
	Seasons  []SeasonResult    `json:"seasons"`
	Overall  ClassifierMetrics `json:"overall"`
	Partial  bool              `json:"partial"`
}

// FeatureImportance is one feature's share of the fitted ensemble's splits.
type FeatureImportance struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// TrainingReport is returned by a completed (or cancelled) training run.
type TrainingReport struct {
	SnapshotVersion   string                `json:"snapshot_version"`
	Seasons           []int                 `json:"seasons"`
	Samples           int                   `json:"samples"`
	SkippedGames      []string              `json:"skipped_games,omitempty"`
	CrossValidation   CrossValidationReport `json:"cross_validation"`
	Backtest          BacktestReport        `json:"backtest"`
	FeatureImportance map[string]float64    `json:"feature_importance,omitempty"`
	Duration          time.Duration         `json:"duration"`
	CompletedAt       time.Time             `json:"completed_at"`
}

// MetricsJSON renders the report's headline metrics for the model registry.
func (r *TrainingReport) MetricsJSON() json.RawMessage {
	payload := map[string]float64{
		"backtest_accuracy": r.Backtest.Overall.Accuracy,
		"backtest_roc_auc":  r.Backtest.Overall.ROCAUC,
		"cv_accuracy_mean":  r.CrossValidation.Accuracy.Mean,
		"cv_accuracy_std":   r.CrossValidation.Accuracy.StdDev,
	}
	data, _ := json.Marshal(payload)
	return data
}

// DriftReport is the result of comparing realized accuracy over a recent
// window against the active snapshot's recorded backtest accuracy. "No
// drift" is a normal zero-valued outcome, not an error. Degradation is
// advisory and never triggers automatic retraining.
type DriftReport struct {
	WindowSize       int       `json:"window_size"`
	Settled          int       `json:"settled"`
	RealizedAccuracy float64   `json:"realized_accuracy"`
	BaselineAccuracy float64   `json:"baseline_accuracy"`
	Gap              float64   `json:"gap"`
	Threshold        float64   `json:"threshold"`
	Degraded         bool      `json:"degraded"`
	AvgConfidence    float64   `json:"avg_confidence"`
	CalibrationError float64   `json:"calibration_error"`
	SnapshotVersion  string    `json:"snapshot_version"`
	CheckedAt        time.Time `json:"checked_at"`
}
