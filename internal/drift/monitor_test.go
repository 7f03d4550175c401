package drift

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/gridiron/internal/config"
	"github.com/yourusername/gridiron/internal/logger"
	"github.com/yourusername/gridiron/internal/models"
)

type fakePredictionRepo struct {
	settled []*models.SettledPrediction
}

func (f *fakePredictionRepo) Insert(ctx context.Context, prediction *models.Prediction) error {
	return nil
}

func (f *fakePredictionRepo) GetByMatchup(ctx context.Context, home, away string, date time.Time) (*models.Prediction, error) {
	return nil, models.ErrNotFound
}

func (f *fakePredictionRepo) GetRecentSettled(ctx context.Context, snapshotVersion string, limit int) ([]*models.SettledPrediction, error) {
	if len(f.settled) > limit {
		return f.settled[:limit], nil
	}
	return f.settled, nil
}

// settledBatch builds n settled predictions of which correct were right. All
// favor the home side at the given probability.
func settledBatch(n, correct int, homeWinProb float64) []*models.SettledPrediction {
	out := make([]*models.SettledPrediction, n)
	for i := range out {
		out[i] = &models.SettledPrediction{
			Prediction: models.Prediction{
				ID:              uuid.New(),
				HomeTeam:        "KC",
				AwayTeam:        "BUF",
				HomeWinProb:     homeWinProb,
				AwayWinProb:     1 - homeWinProb,
				Confidence:      2*homeWinProb - 1,
				SnapshotVersion: "v1",
			},
			HomeWon: i < correct,
		}
	}
	return out
}

func newTestMonitor(repo *fakePredictionRepo) *Monitor {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	cfg := config.DriftConfig{WindowSize: 50, AccuracyThreshold: 0.05}
	return New(repo, cfg, logger.NewEngineLogger(log))
}

func TestCheckFlagsDegradation(t *testing.T) {
	// realized 0.68 against a 0.75 baseline is a 7 point gap
	repo := &fakePredictionRepo{settled: settledBatch(50, 34, 0.62)}
	m := newTestMonitor(repo)

	report, err := m.Check(context.Background(), "v1", 0.75)
	require.NoError(t, err)

	assert.Equal(t, 50, report.Settled)
	assert.InDelta(t, 0.68, report.RealizedAccuracy, 1e-9)
	assert.InDelta(t, 0.07, report.Gap, 1e-9)
	assert.True(t, report.Degraded)
	assert.Equal(t, "v1", report.SnapshotVersion)
}

func TestCheckWithinThresholdIsNotDegraded(t *testing.T) {
	repo := &fakePredictionRepo{settled: settledBatch(50, 36, 0.62)}
	m := newTestMonitor(repo)

	report, err := m.Check(context.Background(), "v1", 0.75)
	require.NoError(t, err)

	assert.InDelta(t, 0.72, report.RealizedAccuracy, 1e-9)
	assert.InDelta(t, 0.03, report.Gap, 1e-9)
	assert.False(t, report.Degraded)
}

func TestCheckEmptyWindow(t *testing.T) {
	m := newTestMonitor(&fakePredictionRepo{})

	report, err := m.Check(context.Background(), "v1", 0.75)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Settled)
	assert.False(t, report.Degraded)
	assert.Zero(t, report.RealizedAccuracy)
}

func TestCheckReportsCalibration(t *testing.T) {
	// favored side at 0.62 winning 62% of the time is perfectly calibrated
	repo := &fakePredictionRepo{settled: settledBatch(50, 31, 0.62)}
	m := newTestMonitor(repo)

	report, err := m.Check(context.Background(), "v1", 0.64)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, report.CalibrationError, 1e-9)
	assert.InDelta(t, 0.24, report.AvgConfidence, 1e-9)
}
