// Package drift compares realized prediction accuracy against the active
// snapshot's backtest accuracy and flags degradation.
package drift

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/yourusername/gridiron/internal/config"
	"github.com/yourusername/gridiron/internal/logger"
	"github.com/yourusername/gridiron/internal/models"
	"github.com/yourusername/gridiron/internal/repository"
)

// Monitor evaluates a rolling window of settled predictions. A degradation
// signal is advisory and surfaced to the operator; retraining stays an
// explicit operator action.
type Monitor struct {
	predictions repository.PredictionRepository
	cfg         config.DriftConfig
	log         *logger.EngineLogger
}

// New creates a drift monitor.
func New(predictions repository.PredictionRepository, cfg config.DriftConfig, log *logger.EngineLogger) *Monitor {
	return &Monitor{predictions: predictions, cfg: cfg, log: log}
}

// Check joins the snapshot's recent predictions with known outcomes and
// reports the realized-versus-baseline accuracy gap. An empty window or a
// small gap is a normal zero-valued outcome, not an error.
func (m *Monitor) Check(ctx context.Context, snapshotVersion string, baselineAccuracy float64) (*models.DriftReport, error) {
	settled, err := m.predictions.GetRecentSettled(ctx, snapshotVersion, m.cfg.WindowSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load settled predictions: %w", err)
	}

	report := &models.DriftReport{
		WindowSize:       m.cfg.WindowSize,
		Settled:          len(settled),
		BaselineAccuracy: baselineAccuracy,
		Threshold:        m.cfg.AccuracyThreshold,
		SnapshotVersion:  snapshotVersion,
		CheckedAt:        time.Now().UTC(),
	}
	if len(settled) == 0 {
		return report, nil
	}

	var correct int
	var confidenceSum, winnerProbSum float64
	for _, s := range settled {
		if s.Correct() {
			correct++
		}
		confidenceSum += s.Confidence
		winnerProbSum += math.Max(s.HomeWinProb, s.AwayWinProb)
	}

	n := float64(len(settled))
	report.RealizedAccuracy = float64(correct) / n
	report.AvgConfidence = confidenceSum / n
	report.Gap = baselineAccuracy - report.RealizedAccuracy
	report.Degraded = report.Gap > m.cfg.AccuracyThreshold
	report.CalibrationError = math.Abs(winnerProbSum/n - report.RealizedAccuracy)

	m.log.LogDriftCheck(report.RealizedAccuracy, baselineAccuracy, report.Gap,
		report.Degraded, m.cfg.WindowSize)

	return report, nil
}
