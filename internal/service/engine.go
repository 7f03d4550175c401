// Package service wires the engine's components behind the operations
// callers use: train, predict, value analysis and drift checks.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/gridiron/internal/config"
	"github.com/yourusername/gridiron/internal/drift"
	"github.com/yourusername/gridiron/internal/features"
	"github.com/yourusername/gridiron/internal/logger"
	"github.com/yourusername/gridiron/internal/metrics"
	"github.com/yourusername/gridiron/internal/models"
	"github.com/yourusername/gridiron/internal/pipeline"
	"github.com/yourusername/gridiron/internal/repository"
	"github.com/yourusername/gridiron/internal/snapshot"
	"github.com/yourusername/gridiron/internal/value"
)

const probTolerance = 1e-6

// LineFetcher retrieves current market lines from the odds collaborator.
type LineFetcher interface {
	FetchLine(ctx context.Context, home, away string, date time.Time) (*models.MarketLine, error)
}

// PredictionService is the engine facade. Inference always runs against the
// published immutable snapshot; training builds a new snapshot off to the
// side and swaps it in atomically on success.
type PredictionService struct {
	repos       *repository.Repositories
	engineer    *features.Engineer
	pipeline    *pipeline.Pipeline
	store       snapshot.Store
	active      *snapshot.Active
	analyzer    *value.Analyzer
	monitor     *drift.Monitor
	feed        LineFetcher
	ensembleCfg config.EnsembleConfig
	modelName   string
	log         *logger.EngineLogger
}

// NewPredictionService creates the engine facade. feed may be nil when no
// market feed is configured; value analysis then relies on stored lines.
func NewPredictionService(
	repos *repository.Repositories,
	engineer *features.Engineer,
	trainingPipeline *pipeline.Pipeline,
	store snapshot.Store,
	analyzer *value.Analyzer,
	monitor *drift.Monitor,
	feed LineFetcher,
	cfg *config.Config,
	log *logger.EngineLogger,
) *PredictionService {
	return &PredictionService{
		repos:       repos,
		engineer:    engineer,
		pipeline:    trainingPipeline,
		store:       store,
		active:      &snapshot.Active{},
		analyzer:    analyzer,
		monitor:     monitor,
		feed:        feed,
		ensembleCfg: cfg.Ensemble,
		modelName:   cfg.Training.ModelName,
		log:         log,
	}
}

// ActiveSnapshots exposes the published snapshot holder for health checks.
func (s *PredictionService) ActiveSnapshots() *snapshot.Active {
	return s.active
}

// Train runs the full training pipeline on the given seasons, registers the
// resulting snapshot and publishes it. A failed or cancelled run leaves the
// currently active snapshot untouched.
func (s *PredictionService) Train(ctx context.Context, seasons []int) (*models.TrainingReport, error) {
	report, snap, err := s.pipeline.Run(ctx, seasons)
	if err != nil {
		if report != nil {
			metrics.RecordTrainingRun("failed", report.Duration.Seconds())
		}
		return report, err
	}

	if err := s.publish(ctx, snap); err != nil {
		metrics.RecordTrainingRun("failed", report.Duration.Seconds())
		return report, err
	}
	metrics.RecordTrainingRun("success", report.Duration.Seconds())

	return report, nil
}

// publish registers a snapshot in the model registry, activates it and swaps
// it in for serving.
func (s *PredictionService) publish(ctx context.Context, snap *snapshot.ModelSnapshot) error {
	loaded, err := snapshot.Materialize(snap, s.ensembleCfg)
	if err != nil {
		return err
	}

	version := &models.ModelVersion{
		ID:        uuid.New(),
		Name:      snap.Name,
		Version:   snap.Version,
		Metrics:   snapshotMetricsJSON(snap),
		TrainedAt: snap.CreatedAt,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repos.ModelVersion.Create(ctx, version); err != nil {
		return fmt.Errorf("failed to register model version: %w", err)
	}
	if err := s.repos.ModelVersion.SetActive(ctx, version.ID); err != nil {
		return fmt.Errorf("failed to activate model version: %w", err)
	}

	oldVersion := s.active.Version()
	s.active.Swap(loaded)
	s.log.LogSnapshotSwap(oldVersion, snap.Version)
	metrics.RecordSnapshotSwap(snap.Metadata.BacktestAccuracy)

	return nil
}

// LoadActive restores the registry's active snapshot from the store and
// publishes it for serving. Called on startup so a restarted engine serves
// without retraining.
func (s *PredictionService) LoadActive(ctx context.Context) error {
	version, err := s.repos.ModelVersion.GetActive(ctx, s.modelName)
	if err != nil {
		return err
	}

	snap, err := s.store.Load(ctx, version.Version)
	if err != nil {
		return err
	}
	loaded, err := snapshot.Materialize(snap, s.ensembleCfg)
	if err != nil {
		return err
	}

	s.active.Swap(loaded)
	s.log.LogSnapshotSwap("", snap.Version)
	metrics.RecordSnapshotSwap(snap.Metadata.BacktestAccuracy)

	return nil
}

// Predict scores one matchup against the active snapshot and persists the
// prediction for later drift evaluation.
func (s *PredictionService) Predict(ctx context.Context, game *models.Game) (*models.Prediction, error) {
	start := time.Now()

	loaded, err := s.active.Get()
	if err != nil {
		return nil, err
	}

	fv, err := s.engineer.BuildFeatures(ctx, game)
	if err != nil {
		return nil, fmt.Errorf("matchup %s vs %s: %w", game.HomeTeam, game.AwayTeam, err)
	}
	row, err := fv.Vectorize(loaded.Snapshot.Schema)
	if err != nil {
		return nil, fmt.Errorf("matchup %s vs %s: %w", game.HomeTeam, game.AwayTeam, err)
	}

	scaled, err := loaded.Scaler.Transform([][]float64{row})
	if err != nil {
		return nil, err
	}
	pairs, err := loaded.Model.PredictProba(scaled)
	if err != nil {
		return nil, err
	}

	awayProb, homeProb := pairs[0][0], pairs[0][1]
	if math.Abs(homeProb+awayProb-1) > probTolerance {
		return nil, &models.ValidationError{
			Component: "service",
			Detail:    fmt.Sprintf("probability pair sums to %v", homeProb+awayProb),
		}
	}

	prediction := &models.Prediction{
		ID:              uuid.New(),
		HomeTeam:        game.HomeTeam,
		AwayTeam:        game.AwayTeam,
		GameDate:        game.GameDate,
		Season:          game.Season,
		HomeWinProb:     homeProb,
		AwayWinProb:     awayProb,
		Confidence:      math.Abs(homeProb - awayProb),
		SnapshotVersion: loaded.Snapshot.Version,
		PredictedAt:     time.Now().UTC(),
	}
	if err := s.repos.Prediction.Insert(ctx, prediction); err != nil {
		return nil, err
	}

	latency := time.Since(start)
	s.log.LogPrediction(game.HomeTeam, game.AwayTeam, game.GameDate,
		homeProb, prediction.Confidence, loaded.Snapshot.Version,
		float64(latency.Microseconds())/1000)
	metrics.RecordPrediction(latency.Seconds())

	return prediction, nil
}

// EvaluateValue predicts a matchup, resolves its market line and returns a
// stake recommendation. A missing line is an error; no edge is not.
func (s *PredictionService) EvaluateValue(ctx context.Context, game *models.Game) (*models.BetRecommendation, error) {
	prediction, err := s.Predict(ctx, game)
	if err != nil {
		return nil, err
	}

	line, err := s.resolveLine(ctx, game)
	if err != nil {
		return nil, fmt.Errorf("no market line for %s vs %s: %w", game.HomeTeam, game.AwayTeam, err)
	}

	rec := s.analyzer.Analyze(prediction, line)
	metrics.RecordValueAnalysis(rec.StakeFraction)

	return rec, nil
}

// FindValueBets evaluates every not-yet-played game in a season week and
// returns the recommendations with a positive stake. Matchups the engine
// cannot serve (insufficient history, missing line) are skipped.
func (s *PredictionService) FindValueBets(ctx context.Context, season, week int) ([]*models.BetRecommendation, error) {
	games, err := s.repos.Game.GetBySeason(ctx, season)
	if err != nil {
		return nil, err
	}

	var recs []*models.BetRecommendation
	for _, game := range games {
		if game.Week != week || game.Completed() {
			continue
		}

		rec, err := s.EvaluateValue(ctx, game)
		if err != nil {
			var insufficientErr *models.InsufficientDataError
			if errors.As(err, &insufficientErr) || errors.Is(err, models.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if rec.HasEdge() {
			recs = append(recs, rec)
		}
	}

	return recs, nil
}

// CheckDrift compares the active snapshot's realized accuracy against its
// backtest accuracy.
func (s *PredictionService) CheckDrift(ctx context.Context) (*models.DriftReport, error) {
	loaded, err := s.active.Get()
	if err != nil {
		return nil, err
	}

	report, err := s.monitor.Check(ctx, loaded.Snapshot.Version,
		loaded.Snapshot.Metadata.BacktestAccuracy)
	if err != nil {
		return nil, err
	}
	metrics.RecordDriftCheck(report.RealizedAccuracy, report.Gap, report.Degraded)

	return report, nil
}

// resolveLine prefers a stored line and falls back to the live feed, storing
// whatever it fetches.
func (s *PredictionService) resolveLine(ctx context.Context, game *models.Game) (*models.MarketLine, error) {
	line, err := s.repos.MarketLine.GetByMatchup(ctx, game.HomeTeam, game.AwayTeam, game.GameDate)
	if err == nil {
		return line, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if s.feed == nil {
		return nil, models.ErrNotFound
	}

	line, err = s.feed.FetchLine(ctx, game.HomeTeam, game.AwayTeam, game.GameDate)
	if err != nil {
		return nil, err
	}
	if err := s.repos.MarketLine.Insert(ctx, line); err != nil {
		return nil, err
	}

	return line, nil
}

func snapshotMetricsJSON(snap *snapshot.ModelSnapshot) []byte {
	report := &models.TrainingReport{
		Backtest: models.BacktestReport{
			Overall: models.ClassifierMetrics{
				Accuracy: snap.Metadata.BacktestAccuracy,
				ROCAUC:   snap.Metadata.BacktestROCAUC,
			},
		},
	}
	return report.MetricsJSON()
}
