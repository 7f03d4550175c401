// Package metrics provides the centralized Prometheus metrics registry for
// the prediction engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron",
		Name:      "predictions_total",
		Help:      "Total number of predictions served",
	})
	TrainingRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridiron",
		Name:      "training_runs_total",
		Help:      "Total number of training runs by outcome",
	}, []string{"outcome"})
	SkippedGamesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron",
		Name:      "skipped_games_total",
		Help:      "Total games excluded from training for lack of history",
	})
	DriftChecksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron",
		Name:      "drift_checks_total",
		Help:      "Total number of drift checks executed",
	})
	DriftDegradationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron",
		Name:      "drift_degradations_total",
		Help:      "Total number of drift checks that flagged degradation",
	})
	ValueRecommendationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridiron",
		Name:      "value_recommendations_total",
		Help:      "Total value analyses by whether an edge was found",
	}, []string{"edge"})
	SnapshotSwapsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron",
		Name:      "snapshot_swaps_total",
		Help:      "Total number of active snapshot replacements",
	})
)

// Gauge metrics
var (
	BacktestAccuracy = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridiron",
		Name:      "backtest_accuracy",
		Help:      "Backtest accuracy of the active snapshot",
	})
	RealizedAccuracy = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridiron",
		Name:      "realized_accuracy",
		Help:      "Realized accuracy over the most recent drift window",
	})
	AccuracyGap = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridiron",
		Name:      "accuracy_gap",
		Help:      "Baseline minus realized accuracy from the last drift check",
	})
)

// Histogram metrics
var (
	PredictionLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gridiron",
		Name:      "prediction_latency_seconds",
		Help:      "Latency of single-matchup inference in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	TrainingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gridiron",
		Name:      "training_duration_seconds",
		Help:      "Duration of training runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
	StakeFraction = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gridiron",
		Name:      "stake_fraction",
		Help:      "Recommended stake fractions from value analysis",
		Buckets:   []float64{0.005, 0.01, 0.02, 0.03, 0.04, 0.05},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(TrainingRunsTotal)
		registry.MustRegister(SkippedGamesTotal)
		registry.MustRegister(DriftChecksTotal)
		registry.MustRegister(DriftDegradationsTotal)
		registry.MustRegister(ValueRecommendationsTotal)
		registry.MustRegister(SnapshotSwapsTotal)

		registry.MustRegister(BacktestAccuracy)
		registry.MustRegister(RealizedAccuracy)
		registry.MustRegister(AccuracyGap)

		registry.MustRegister(PredictionLatency)
		registry.MustRegister(TrainingDuration)
		registry.MustRegister(StakeFraction)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPrediction records a served prediction and its latency.
func RecordPrediction(latencySeconds float64) {
	PredictionsTotal.Inc()
	PredictionLatency.Observe(latencySeconds)
}

// RecordTrainingRun records a training run outcome and duration.
func RecordTrainingRun(outcome string, durationSeconds float64) {
	TrainingRunsTotal.WithLabelValues(outcome).Inc()
	TrainingDuration.Observe(durationSeconds)
}

// RecordDriftCheck records a drift check and updates the accuracy gauges.
func RecordDriftCheck(realized, gap float64, degraded bool) {
	DriftChecksTotal.Inc()
	RealizedAccuracy.Set(realized)
	AccuracyGap.Set(gap)
	if degraded {
		DriftDegradationsTotal.Inc()
	}
}

// RecordValueAnalysis records a value analysis outcome.
func RecordValueAnalysis(stakeFraction float64) {
	if stakeFraction > 0 {
		ValueRecommendationsTotal.WithLabelValues("yes").Inc()
		StakeFraction.Observe(stakeFraction)
		return
	}
	ValueRecommendationsTotal.WithLabelValues("no").Inc()
}

// RecordSnapshotSwap records an active snapshot replacement.
func RecordSnapshotSwap(backtestAccuracy float64) {
	SnapshotSwapsTotal.Inc()
	BacktestAccuracy.Set(backtestAccuracy)
}
