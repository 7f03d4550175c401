// Package logger provides prediction-engine specific logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// EngineLogger provides dedicated logging for prediction-engine operations.
type EngineLogger struct {
	*logrus.Entry
}

// NewEngineLogger creates a new engine logger.
func NewEngineLogger(baseLogger *logrus.Logger) *EngineLogger {
	return &EngineLogger{
		Entry: baseLogger.WithField("component", "engine"),
	}
}

// LogPrediction logs a completed inference call.
func (el *EngineLogger) LogPrediction(homeTeam, awayTeam string, gameDate time.Time, homeWinProb, confidence float64, snapshotVersion string, latencyMs float64) {
	el.WithFields(logrus.Fields{
		"home_team":        homeTeam,
		"away_team":        awayTeam,
		"game_date":        gameDate.Format("2006-01-02"),
		"home_win_prob":    homeWinProb,
		"confidence":       confidence,
		"snapshot_version": snapshotVersion,
		"latency_ms":       latencyMs,
	}).Info("Prediction completed")
}

// LogTrainingRun logs a completed training run.
func (el *EngineLogger) LogTrainingRun(snapshotVersion string, seasons []int, samples, skipped int, backtestAccuracy float64, duration time.Duration) {
	el.WithFields(logrus.Fields{
		"snapshot_version":  snapshotVersion,
		"seasons":           seasons,
		"samples":           samples,
		"skipped_games":     skipped,
		"backtest_accuracy": backtestAccuracy,
		"duration_seconds":  duration.Seconds(),
	}).Info("Training run completed")
}

// LogSkippedGame logs a game excluded from training for lack of history.
func (el *EngineLogger) LogSkippedGame(gameID, reason string) {
	el.WithFields(logrus.Fields{
		"game_id": gameID,
		"reason":  reason,
	}).Debug("Game skipped during training data assembly")
}

// LogDriftCheck logs the outcome of a drift evaluation.
func (el *EngineLogger) LogDriftCheck(realized, baseline, gap float64, degraded bool, window int) {
	fields := logrus.Fields{
		"realized_accuracy": realized,
		"baseline_accuracy": baseline,
		"gap":               gap,
		"window":            window,
	}
	if degraded {
		el.WithFields(fields).Warn("Model accuracy degradation detected")
		return
	}
	el.WithFields(fields).Info("Drift check completed, no degradation")
}

// LogValueDecision logs a value-analysis decision.
func (el *EngineLogger) LogValueDecision(homeTeam, awayTeam string, modelProb, marketProb, edge, stakeFraction float64, capped bool) {
	el.WithFields(logrus.Fields{
		"home_team":      homeTeam,
		"away_team":      awayTeam,
		"model_prob":     modelProb,
		"market_prob":    marketProb,
		"edge":           edge,
		"stake_fraction": stakeFraction,
		"capped":         capped,
	}).Info("Value analysis completed")
}

// LogSnapshotSwap logs an active-snapshot replacement.
func (el *EngineLogger) LogSnapshotSwap(oldVersion, newVersion string) {
	el.WithFields(logrus.Fields{
		"old_version": oldVersion,
		"new_version": newVersion,
	}).Info("Active snapshot swapped")
}
