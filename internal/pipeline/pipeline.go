// Package pipeline turns historical seasons into validated model snapshots:
// dataset assembly, stratified cross-validation, chronological backtesting
// and final snapshot persistence.
package pipeline

import (
	"context"
	"time"

	"github.com/yourusername/gridiron/internal/config"
	"github.com/yourusername/gridiron/internal/ensemble"
	"github.com/yourusername/gridiron/internal/features"
	"github.com/yourusername/gridiron/internal/logger"
	"github.com/yourusername/gridiron/internal/models"
	"github.com/yourusername/gridiron/internal/repository"
	"github.com/yourusername/gridiron/internal/snapshot"
)

// Pipeline produces validated model snapshots from historical seasons.
type Pipeline struct {
	games       repository.GameRepository
	engineer    *features.Engineer
	store       snapshot.Store
	ensembleCfg config.EnsembleConfig
	training    config.TrainingConfig
	log         *logger.EngineLogger
}

// New creates a training pipeline.
func New(games repository.GameRepository, engineer *features.Engineer, store snapshot.Store,
	ensembleCfg config.EnsembleConfig, training config.TrainingConfig, log *logger.EngineLogger) *Pipeline {
	return &Pipeline{
		games:       games,
		engineer:    engineer,
		store:       store,
		ensembleCfg: ensembleCfg,
		training:    training,
		log:         log,
	}
}

// Run trains on the given seasons and persists the resulting snapshot. A
// cancelled run returns whatever metrics completed and never writes a
// snapshot, so the currently active model is untouched. The returned report
// is non-nil whenever assembly succeeded.
func (p *Pipeline) Run(ctx context.Context, seasons []int) (*models.TrainingReport, *snapshot.ModelSnapshot, error) {
	start := time.Now()

	unique := dedupe(seasons)
	if len(unique) < 2 {
		return nil, nil, &models.InsufficientDataError{
			Subject:  "training seasons",
			Have:     len(unique),
			Required: 2,
		}
	}

	d, err := p.assemble(ctx, unique)
	if err != nil {
		return nil, nil, err
	}
	if d.size() == 0 {
		return nil, nil, &models.ValidationError{
			Component: "pipeline",
			Detail:    "no usable training examples after assembly",
		}
	}

	schema := features.Schema()
	report := &models.TrainingReport{
		Seasons:      d.seasons,
		Samples:      d.size(),
		SkippedGames: d.skipped,
	}

	foldMetrics, cvErr := p.crossValidate(ctx, d.all(), schema)
	report.CrossValidation = summarizeFolds(foldMetrics)
	if cvErr != nil {
		report.Duration = time.Since(start)
		return report, nil, cvErr
	}

	backtestReport, btErr := p.backtest(ctx, d, schema)
	report.Backtest = backtestReport
	if btErr != nil {
		report.Duration = time.Since(start)
		return report, nil, btErr
	}

	snap, importance, err := p.finalFit(d, schema, backtestReport)
	if err != nil {
		report.Duration = time.Since(start)
		return report, nil, err
	}
	if err := p.store.Save(ctx, snap); err != nil {
		report.Duration = time.Since(start)
		return report, nil, err
	}

	report.SnapshotVersion = snap.Version
	report.FeatureImportance = importance
	report.Duration = time.Since(start)
	report.CompletedAt = time.Now().UTC()

	p.log.LogTrainingRun(snap.Version, d.seasons, d.size(), len(d.skipped),
		backtestReport.Overall.Accuracy, report.Duration)

	return report, snap, nil
}

// finalFit trains the shipping model on all requested seasons and packages it
// as a snapshot tagged with the backtest metrics.
func (p *Pipeline) finalFit(d *dataset, schema []string, backtestReport models.BacktestReport) (*snapshot.ModelSnapshot, map[string]float64, error) {
	X, y, err := vectorize(d.all(), schema)
	if err != nil {
		return nil, nil, err
	}

	scaler := &ensemble.Scaler{}
	if err := scaler.Fit(X); err != nil {
		return nil, nil, err
	}
	scaled, err := scaler.Transform(X)
	if err != nil {
		return nil, nil, err
	}

	model, err := ensemble.New(p.ensembleCfg, schema)
	if err != nil {
		return nil, nil, err
	}
	if err := model.Fit(scaled, y); err != nil {
		return nil, nil, err
	}

	params, err := model.Params()
	if err != nil {
		return nil, nil, err
	}

	ranked, err := model.FeatureImportance()
	if err != nil {
		return nil, nil, err
	}
	importance := make(map[string]float64, len(ranked))
	for _, fi := range ranked {
		importance[fi.Name] = fi.Score
	}

	snap := &snapshot.ModelSnapshot{
		FormatVersion: snapshot.FormatVersion,
		Name:          p.training.ModelName,
		Version:       time.Now().UTC().Format("20060102-150405"),
		Schema:        schema,
		Scaler:        scaler,
		Params:        params,
		Metadata: snapshot.Metadata{
			Seasons:          d.seasons,
			Samples:          d.size(),
			SkippedGames:     len(d.skipped),
			BacktestAccuracy: backtestReport.Overall.Accuracy,
			BacktestROCAUC:   backtestReport.Overall.ROCAUC,
		},
		CreatedAt: time.Now().UTC(),
	}

	return snap, importance, nil
}

// trainEval fits a fresh ensemble on the train split and returns held-out
// positive-class probabilities. The scaler is fitted on the train split only
// and applied unchanged to the test split.
func (p *Pipeline) trainEval(train, test []TrainingExample, schema []string) ([]float64, []int, error) {
	XTrain, yTrain, err := vectorize(train, schema)
	if err != nil {
		return nil, nil, err
	}
	XTest, yTest, err := vectorize(test, schema)
	if err != nil {
		return nil, nil, err
	}

	scaler := &ensemble.Scaler{}
	if err := scaler.Fit(XTrain); err != nil {
		return nil, nil, err
	}
	trainScaled, err := scaler.Transform(XTrain)
	if err != nil {
		return nil, nil, err
	}
	testScaled, err := scaler.Transform(XTest)
	if err != nil {
		return nil, nil, err
	}

	model, err := ensemble.New(p.ensembleCfg, schema)
	if err != nil {
		return nil, nil, err
	}
	if err := model.Fit(trainScaled, yTrain); err != nil {
		return nil, nil, err
	}

	pairs, err := model.PredictProba(testScaled)
	if err != nil {
		return nil, nil, err
	}
	probs := make([]float64, len(pairs))
	for i, pair := range pairs {
		probs[i] = pair[1]
	}

	return probs, yTest, nil
}

func dedupe(seasons []int) []int {
	seen := make(map[int]bool, len(seasons))
	var out []int
	for _, s := range seasons {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
