package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/gridiron/internal/config"
	"github.com/yourusername/gridiron/internal/drift"
	"github.com/yourusername/gridiron/internal/features"
	"github.com/yourusername/gridiron/internal/logger"
	"github.com/yourusername/gridiron/internal/models"
	"github.com/yourusername/gridiron/internal/pipeline"
	"github.com/yourusername/gridiron/internal/repository"
	"github.com/yourusername/gridiron/internal/snapshot"
	"github.com/yourusername/gridiron/internal/value"
)

type fakeGameRepo struct {
	games []*models.Game
}

func (f *fakeGameRepo) GetByID(ctx context.Context, gameID string) (*models.Game, error) {
	return nil, models.ErrNotFound
}

func (f *fakeGameRepo) GetBySeason(ctx context.Context, season int) ([]*models.Game, error) {
	var out []*models.Game
	for _, g := range f.games {
		if g.Season == season {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGameRepo) GetCompletedBySeason(ctx context.Context, season int) ([]*models.Game, error) {
	var out []*models.Game
	for _, g := range f.games {
		if g.Season == season && g.Completed() {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGameRepo) GetTeamGamesBefore(ctx context.Context, team string, season int, before time.Time) ([]*models.Game, error) {
	var out []*models.Game
	for i := len(f.games) - 1; i >= 0; i-- {
		g := f.games[i]
		if g.Season == season && g.Involves(team) && g.GameDate.Before(before) && g.Completed() {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGameRepo) GetMeetingsBefore(ctx context.Context, team1, team2 string, fromSeason int, before time.Time) ([]*models.Game, error) {
	var out []*models.Game
	for i := len(f.games) - 1; i >= 0; i-- {
		g := f.games[i]
		if g.Season >= fromSeason && g.Involves(team1) && g.Involves(team2) &&
			g.GameDate.Before(before) && g.Completed() {
			out = append(out, g)
		}
	}
	return out, nil
}

type fakeStatsRepo struct{}

func (f *fakeStatsRepo) GetTeamStatsBefore(ctx context.Context, team string, season int, before time.Time) ([]*models.TeamGameStats, error) {
	return nil, nil
}

type fakeTeamRepo struct{}

func (f *fakeTeamRepo) GetByAbbr(ctx context.Context, abbr string) (*models.TeamInfo, error) {
	return nil, models.ErrNotFound
}

type fakePredictionRepo struct {
	inserted []*models.Prediction
	settled  []*models.SettledPrediction
}

func (f *fakePredictionRepo) Insert(ctx context.Context, prediction *models.Prediction) error {
	f.inserted = append(f.inserted, prediction)
	return nil
}

func (f *fakePredictionRepo) GetByMatchup(ctx context.Context, home, away string, date time.Time) (*models.Prediction, error) {
	return nil, models.ErrNotFound
}

func (f *fakePredictionRepo) GetRecentSettled(ctx context.Context, snapshotVersion string, limit int) ([]*models.SettledPrediction, error) {
	return f.settled, nil
}

type fakeMarketLineRepo struct {
	lines    []*models.MarketLine
	inserted []*models.MarketLine
}

func (f *fakeMarketLineRepo) GetByMatchup(ctx context.Context, home, away string, date time.Time) (*models.MarketLine, error) {
	for _, l := range f.lines {
		if l.HomeTeam == home && l.AwayTeam == away {
			return l, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeMarketLineRepo) Insert(ctx context.Context, line *models.MarketLine) error {
	f.inserted = append(f.inserted, line)
	f.lines = append(f.lines, line)
	return nil
}

type fakeModelVersionRepo struct {
	versions []*models.ModelVersion
	activeID uuid.UUID
}

func (f *fakeModelVersionRepo) Create(ctx context.Context, version *models.ModelVersion) error {
	f.versions = append(f.versions, version)
	return nil
}

func (f *fakeModelVersionRepo) GetByVersion(ctx context.Context, name, version string) (*models.ModelVersion, error) {
	for _, v := range f.versions {
		if v.Name == name && v.Version == version {
			return v, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeModelVersionRepo) GetActive(ctx context.Context, name string) (*models.ModelVersion, error) {
	for _, v := range f.versions {
		if v.Name == name && v.ID == f.activeID {
			return v, nil
		}
	}
	return nil, models.ErrNoActiveModel
}

func (f *fakeModelVersionRepo) SetActive(ctx context.Context, id uuid.UUID) error {
	f.activeID = id
	return nil
}

type fakeFeed struct {
	line    *models.MarketLine
	fetched int
}

func (f *fakeFeed) FetchLine(ctx context.Context, home, away string, date time.Time) (*models.MarketLine, error) {
	f.fetched++
	if f.line == nil {
		return nil, models.ErrNotFound
	}
	return f.line, nil
}

// seededLeague builds deterministic seasons where stronger teams usually win.
func seededLeague(seasons ...int) *fakeGameRepo {
	strength := map[string]int{"AAA": 30, "BBB": 27, "CCC": 24, "DDD": 20}
	pairings := [][2]string{
		{"AAA", "BBB"}, {"CCC", "DDD"},
		{"BBB", "CCC"}, {"DDD", "AAA"},
		{"AAA", "CCC"}, {"BBB", "DDD"},
		{"DDD", "BBB"}, {"CCC", "AAA"},
	}

	repo := &fakeGameRepo{}
	id := 0
	for _, season := range seasons {
		opening := time.Date(season, time.September, 10, 0, 0, 0, 0, time.UTC)
		for week := 1; week <= 8; week++ {
			for p := 0; p < 2; p++ {
				pair := pairings[((week-1)*2+p)%len(pairings)]
				home, away := pair[0], pair[1]
				homeScore := strength[home] + 3 + (week+p)%3
				awayScore := strength[away] + (week+p)%2
				id++
				repo.games = append(repo.games, &models.Game{
					GameID:    fmt.Sprintf("%d-%03d", season, id),
					Season:    season,
					Week:      week,
					GameDate:  opening.AddDate(0, 0, (week-1)*7),
					HomeTeam:  home,
					AwayTeam:  away,
					HomeScore: &homeScore,
					AwayScore: &awayScore,
				})
			}
		}
	}
	return repo
}

type serviceFixture struct {
	svc         *PredictionService
	games       *fakeGameRepo
	predictions *fakePredictionRepo
	lines       *fakeMarketLineRepo
	registry    *fakeModelVersionRepo
	feed        *fakeFeed
}

func newFixture(t *testing.T, seasons ...int) *serviceFixture {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	engineLog := logger.NewEngineLogger(log)

	games := seededLeague(seasons...)
	predictions := &fakePredictionRepo{}
	lines := &fakeMarketLineRepo{}
	registry := &fakeModelVersionRepo{}
	feed := &fakeFeed{}

	repos := &repository.Repositories{
		Game:         games,
		TeamStats:    &fakeStatsRepo{},
		Team:         &fakeTeamRepo{},
		Prediction:   predictions,
		MarketLine:   lines,
		ModelVersion: registry,
	}

	cfg := &config.Config{
		Features: config.FeaturesConfig{
			MomentumWindow:        5,
			MinGamesPlayed:        1,
			MinSituationalSamples: 1,
			HeadToHeadSeasons:     3,
			StatsCacheTTLSeconds:  60,
		},
		Ensemble: config.EnsembleConfig{
			ForestWeight: 0.40, BoostWeight: 0.35, LogitWeight: 0.25,
			ForestTrees: 5, ForestDepth: 2,
			BoostRounds: 10, BoostShrinkage: 0.1,
			LogitL2: 0.01, LogitEpochs: 50,
			Seed: 11,
		},
		Training: config.TrainingConfig{
			CrossValidationFolds: 3,
			MinGamesPlayed:       1,
			ModelName:            "gridiron",
			ParallelFolds:        false,
		},
		Drift: config.DriftConfig{WindowSize: 50, AccuracyThreshold: 0.05},
		Value: config.ValueConfig{KellyMultiplier: 0.5, MaxStakeFraction: 0.05},
	}

	engineer := features.NewEngineer(repos, cfg.Features, log)
	store, err := snapshot.NewFileStore(t.TempDir())
	require.NoError(t, err)
	trainingPipeline := pipeline.New(games, engineer, store, cfg.Ensemble, cfg.Training, engineLog)
	analyzer := value.New(cfg.Value, engineLog)
	monitor := drift.New(predictions, cfg.Drift, engineLog)

	svc := NewPredictionService(repos, engineer, trainingPipeline, store,
		analyzer, monitor, feed, cfg, engineLog)

	return &serviceFixture{
		svc:         svc,
		games:       games,
		predictions: predictions,
		lines:       lines,
		registry:    registry,
		feed:        feed,
	}
}

func upcomingGame(season int) *models.Game {
	opening := time.Date(season, time.September, 10, 0, 0, 0, 0, time.UTC)
	return &models.Game{
		GameID:   "upcoming",
		Season:   season,
		Week:     9,
		GameDate: opening.AddDate(0, 0, 8*7),
		HomeTeam: "AAA",
		AwayTeam: "DDD",
	}
}

func TestPredictBeforeTrainingFails(t *testing.T) {
	f := newFixture(t, 2022, 2023)

	_, err := f.svc.Predict(context.Background(), upcomingGame(2023))

	assert.ErrorIs(t, err, models.ErrModelNotTrained)
}

func TestTrainPublishesAndPredicts(t *testing.T) {
	f := newFixture(t, 2022, 2023)
	ctx := context.Background()

	report, err := f.svc.Train(ctx, []int{2022, 2023})
	require.NoError(t, err)
	require.NotEmpty(t, report.SnapshotVersion)

	// training registered and activated exactly one model version
	require.Len(t, f.registry.versions, 1)
	assert.Equal(t, f.registry.versions[0].ID, f.registry.activeID)
	assert.Equal(t, report.SnapshotVersion, f.svc.ActiveSnapshots().Version())

	prediction, err := f.svc.Predict(ctx, upcomingGame(2023))
	require.NoError(t, err)

	assert.InDelta(t, 1.0, prediction.HomeWinProb+prediction.AwayWinProb, 1e-6)
	assert.InDelta(t, prediction.HomeWinProb-prediction.AwayWinProb, prediction.Confidence, 1e-6)
	assert.Equal(t, report.SnapshotVersion, prediction.SnapshotVersion)

	// the strongest team at home against the weakest should be favored
	assert.Greater(t, prediction.HomeWinProb, 0.5)

	require.Len(t, f.predictions.inserted, 1)
	assert.Equal(t, prediction.ID, f.predictions.inserted[0].ID)
}

func TestLoadActiveRestoresFromStore(t *testing.T) {
	f := newFixture(t, 2022, 2023)
	ctx := context.Background()

	report, err := f.svc.Train(ctx, []int{2022, 2023})
	require.NoError(t, err)

	// a second fixture sharing the registry and store simulates a restart
	restarted := newFixture(t, 2022, 2023)
	restarted.svc.repos.ModelVersion = f.registry
	restarted.svc.store = f.svc.store

	require.NoError(t, restarted.svc.LoadActive(ctx))
	assert.Equal(t, report.SnapshotVersion, restarted.svc.ActiveSnapshots().Version())
}

func TestLoadActiveWithoutRegistryEntry(t *testing.T) {
	f := newFixture(t, 2022, 2023)

	err := f.svc.LoadActive(context.Background())

	assert.ErrorIs(t, err, models.ErrNoActiveModel)
}

func TestEvaluateValueUsesStoredLine(t *testing.T) {
	f := newFixture(t, 2022, 2023)
	ctx := context.Background()

	_, err := f.svc.Train(ctx, []int{2022, 2023})
	require.NoError(t, err)

	game := upcomingGame(2023)
	f.lines.lines = append(f.lines.lines, &models.MarketLine{
		HomeTeam: game.HomeTeam, AwayTeam: game.AwayTeam, GameDate: game.GameDate,
		HomeMoneyline: -110, AwayMoneyline: -110,
	})

	rec, err := f.svc.EvaluateValue(ctx, game)
	require.NoError(t, err)

	assert.Equal(t, 0, f.feed.fetched)
	// -110/-110 normalizes to a fair coin for whichever side is recommended
	assert.InDelta(t, 0.5, rec.MarketProb, 1e-9)
	assert.GreaterOrEqual(t, rec.StakeFraction, 0.0)
	assert.LessOrEqual(t, rec.StakeFraction, 0.05)
}

func TestEvaluateValueFallsBackToFeed(t *testing.T) {
	f := newFixture(t, 2022, 2023)
	ctx := context.Background()

	_, err := f.svc.Train(ctx, []int{2022, 2023})
	require.NoError(t, err)

	game := upcomingGame(2023)
	f.feed.line = &models.MarketLine{
		HomeTeam: game.HomeTeam, AwayTeam: game.AwayTeam, GameDate: game.GameDate,
		HomeMoneyline: 120, AwayMoneyline: -140,
	}

	_, err = f.svc.EvaluateValue(ctx, game)
	require.NoError(t, err)

	assert.Equal(t, 1, f.feed.fetched)
	// the fetched line is stored for reuse
	require.Len(t, f.lines.inserted, 1)

	_, err = f.svc.EvaluateValue(ctx, game)
	require.NoError(t, err)
	assert.Equal(t, 1, f.feed.fetched)
}

func TestEvaluateValueWithoutLine(t *testing.T) {
	f := newFixture(t, 2022, 2023)
	ctx := context.Background()

	_, err := f.svc.Train(ctx, []int{2022, 2023})
	require.NoError(t, err)

	_, err = f.svc.EvaluateValue(ctx, upcomingGame(2023))

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCheckDriftUsesSnapshotBaseline(t *testing.T) {
	f := newFixture(t, 2022, 2023)
	ctx := context.Background()

	report, err := f.svc.Train(ctx, []int{2022, 2023})
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		f.predictions.settled = append(f.predictions.settled, &models.SettledPrediction{
			Prediction: models.Prediction{
				HomeWinProb: 0.6, AwayWinProb: 0.4,
				SnapshotVersion: report.SnapshotVersion,
			},
			HomeWon: i < 6,
		})
	}

	driftReport, err := f.svc.CheckDrift(ctx)
	require.NoError(t, err)

	assert.Equal(t, report.Backtest.Overall.Accuracy, driftReport.BaselineAccuracy)
	assert.InDelta(t, 0.6, driftReport.RealizedAccuracy, 1e-9)
	assert.Equal(t, report.SnapshotVersion, driftReport.SnapshotVersion)
}

func TestCheckDriftBeforeTraining(t *testing.T) {
	f := newFixture(t, 2022, 2023)

	_, err := f.svc.CheckDrift(context.Background())

	assert.ErrorIs(t, err, models.ErrModelNotTrained)
}

func TestFindValueBetsSkipsUnservableGames(t *testing.T) {
	f := newFixture(t, 2022, 2023)
	ctx := context.Background()

	_, err := f.svc.Train(ctx, []int{2022, 2023})
	require.NoError(t, err)

	opening := time.Date(2023, time.September, 10, 0, 0, 0, 0, time.UTC)
	week9 := opening.AddDate(0, 0, 8*7)
	f.games.games = append(f.games.games,
		&models.Game{GameID: "u1", Season: 2023, Week: 9, GameDate: week9,
			HomeTeam: "AAA", AwayTeam: "DDD"},
		// no history for the visitor, must be skipped
		&models.Game{GameID: "u2", Season: 2023, Week: 9, GameDate: week9,
			HomeTeam: "BBB", AwayTeam: "ZZZ"},
	)
	f.lines.lines = append(f.lines.lines, &models.MarketLine{
		HomeTeam: "AAA", AwayTeam: "DDD", GameDate: week9,
		HomeMoneyline: 200, AwayMoneyline: -250,
	})

	recs, err := f.svc.FindValueBets(ctx, 2023, 9)
	require.NoError(t, err)

	// AAA at home against DDD priced as a heavy underdog is a clear edge
	require.Len(t, recs, 1)
	assert.Equal(t, "AAA", recs[0].Side)
	assert.True(t, recs[0].HasEdge())
}
