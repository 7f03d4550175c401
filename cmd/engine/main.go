// Package main provides the entry point for the prediction engine CLI.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/gridiron/internal/config"
	"github.com/yourusername/gridiron/internal/database"
	"github.com/yourusername/gridiron/internal/drift"
	"github.com/yourusername/gridiron/internal/features"
	"github.com/yourusername/gridiron/internal/health"
	applogger "github.com/yourusername/gridiron/internal/logger"
	"github.com/yourusername/gridiron/internal/marketfeed"
	"github.com/yourusername/gridiron/internal/metrics"
	"github.com/yourusername/gridiron/internal/models"
	"github.com/yourusername/gridiron/internal/pipeline"
	"github.com/yourusername/gridiron/internal/repository"
	"github.com/yourusername/gridiron/internal/scheduler"
	"github.com/yourusername/gridiron/internal/service"
	"github.com/yourusername/gridiron/internal/snapshot"
	"github.com/yourusername/gridiron/internal/value"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	seasonList string
	homeTeam   string
	awayTeam   string
	gameDate   string
	season     int
	week       int

	log       *logrus.Logger
	engineLog *applogger.EngineLogger
	cfg       *config.Config
	db        *database.DB
	svc       *service.PredictionService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")

	trainCmd.Flags().StringVar(&seasonList, "seasons", "", "Comma-separated seasons to train on (e.g. 2021,2022,2023)")
	trainCmd.MarkFlagRequired("seasons")

	predictCmd.Flags().StringVar(&homeTeam, "home", "", "Home team abbreviation")
	predictCmd.Flags().StringVar(&awayTeam, "away", "", "Away team abbreviation")
	predictCmd.Flags().StringVar(&gameDate, "date", "", "Game date (YYYY-MM-DD)")
	predictCmd.Flags().IntVar(&season, "season", 0, "Season")
	predictCmd.Flags().IntVar(&week, "week", 0, "Week of season")
	predictCmd.MarkFlagRequired("home")
	predictCmd.MarkFlagRequired("away")
	predictCmd.MarkFlagRequired("date")
	predictCmd.MarkFlagRequired("season")

	valueCmd.Flags().IntVar(&season, "season", 0, "Season")
	valueCmd.Flags().IntVar(&week, "week", 0, "Week of season")
	valueCmd.MarkFlagRequired("season")
	valueCmd.MarkFlagRequired("week")
}

var rootCmd = &cobra.Command{
	Use:   "engine",
	Short: "Team-vs-team prediction and value-betting engine",
	Long:  `Train calibrated win-probability models, score matchups and size value bets against market odds.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return setupDependencies(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
}

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train a new model snapshot on historical seasons",
	RunE: func(cmd *cobra.Command, args []string) error {
		seasons, err := parseSeasons(seasonList)
		if err != nil {
			return err
		}

		report, err := svc.Train(cmd.Context(), seasons)
		if err != nil {
			return fmt.Errorf("training failed: %w", err)
		}

		log.WithFields(logrus.Fields{
			"snapshot_version":  report.SnapshotVersion,
			"samples":           report.Samples,
			"skipped_games":     len(report.SkippedGames),
			"cv_accuracy":       report.CrossValidation.Accuracy.Mean,
			"backtest_accuracy": report.Backtest.Overall.Accuracy,
			"backtest_roc_auc":  report.Backtest.Overall.ROCAUC,
		}).Info("Training completed")
		return nil
	},
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict one matchup against the active snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.LoadActive(cmd.Context()); err != nil {
			return fmt.Errorf("no active model: %w", err)
		}

		game, err := buildMatchup()
		if err != nil {
			return err
		}

		prediction, err := svc.Predict(cmd.Context(), game)
		if err != nil {
			return fmt.Errorf("prediction failed: %w", err)
		}

		log.WithFields(logrus.Fields{
			"winner":        prediction.PredictedWinner(),
			"home_win_prob": prediction.HomeWinProb,
			"confidence":    prediction.Confidence,
		}).Info("Prediction")
		return nil
	},
}

var valueCmd = &cobra.Command{
	Use:   "value",
	Short: "Scan a season week for value bets",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.LoadActive(cmd.Context()); err != nil {
			return fmt.Errorf("no active model: %w", err)
		}

		recs, err := svc.FindValueBets(cmd.Context(), season, week)
		if err != nil {
			return fmt.Errorf("value scan failed: %w", err)
		}

		if len(recs) == 0 {
			log.Info("No value bets found")
			return nil
		}
		for _, rec := range recs {
			log.WithFields(logrus.Fields{
				"matchup":        rec.HomeTeam + " vs " + rec.AwayTeam,
				"side":           rec.Side,
				"edge":           rec.Edge,
				"stake_fraction": rec.StakeFraction,
				"capped":         rec.Capped,
			}).Info("Value bet")
		}
		return nil
	},
}

var driftCmd = &cobra.Command{
	Use:   "drift",
	Short: "Run one drift check against the active snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := svc.LoadActive(cmd.Context()); err != nil {
			return fmt.Errorf("no active model: %w", err)
		}

		report, err := svc.CheckDrift(cmd.Context())
		if err != nil {
			return fmt.Errorf("drift check failed: %w", err)
		}

		entry := log.WithFields(logrus.Fields{
			"settled":           report.Settled,
			"realized_accuracy": report.RealizedAccuracy,
			"baseline_accuracy": report.BaselineAccuracy,
			"gap":               report.Gap,
		})
		if report.Degraded {
			entry.Warn("Model degraded, consider retraining")
			return nil
		}
		entry.Info("No degradation detected")
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the engine with scheduled drift checks and health endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := svc.LoadActive(ctx); err != nil {
			log.WithError(err).Warn("No active snapshot, serving will start once one is trained")
		}

		healthServer := health.NewServer(health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Commit:      GitCommit,
			Logger:      log,
			DB:          db,
			Snapshots:   svc.ActiveSnapshots(),
		})
		if err := healthServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start health server: %w", err)
		}
		healthServer.SetReady(true)

		if cfg.Metrics.Enabled {
			go serveMetrics()
		}

		sched := scheduler.NewScheduler(svc, log)
		if err := sched.ScheduleDriftCheck(cfg.Drift.CheckSchedule); err != nil {
			return fmt.Errorf("failed to schedule drift check: %w", err)
		}
		if err := sched.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer sched.Stop()

		log.WithField("next_drift_check", sched.GetNextRun().Format(time.RFC3339)).Info("Engine running")
		<-ctx.Done()
		log.Info("Shutting down")
		return nil
	},
}

func main() {
	rootCmd.AddCommand(trainCmd, predictCmd, valueCmd, driftCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() error {
	loaded, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(loaded, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}
	if err := config.Validate(loaded); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	cfg = loaded
	return nil
}

func setupDependencies(ctx context.Context) error {
	log = applogger.NewLogger(cfg.App.LogLevel)
	engineLog = applogger.NewEngineLogger(log)
	metrics.InitRegistry()

	var err error
	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err := repository.NewRepositories(db)
	if err != nil {
		return err
	}

	store, err := snapshot.NewFileStore(cfg.Snapshot.Dir)
	if err != nil {
		return err
	}

	engineer := features.NewEngineer(repos, cfg.Features, log)
	trainingPipeline := pipeline.New(repos.Game, engineer, store, cfg.Ensemble, cfg.Training, engineLog)
	analyzer := value.New(cfg.Value, engineLog)
	monitor := drift.New(repos.Prediction, cfg.Drift, engineLog)

	var feed service.LineFetcher
	if cfg.MarketFeed.BaseURL != "" {
		feed = marketfeed.NewClient(cfg.MarketFeed, log)
	}

	svc = service.NewPredictionService(repos, engineer, trainingPipeline, store,
		analyzer, monitor, feed, cfg, engineLog)
	return nil
}

func serveMetrics() {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())
	addr := ":" + strconv.Itoa(cfg.Metrics.Port)
	log.WithField("addr", addr).Info("Metrics server starting")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.WithError(err).Error("Metrics server error")
	}
}

func parseSeasons(list string) ([]int, error) {
	parts := strings.Split(list, ",")
	seasons := make([]int, 0, len(parts))
	for _, part := range parts {
		s, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid season %q", part)
		}
		seasons = append(seasons, s)
	}
	return seasons, nil
}

func buildMatchup() (*models.Game, error) {
	date, err := time.Parse("2006-01-02", gameDate)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", gameDate, err)
	}
	return &models.Game{
		GameID:   fmt.Sprintf("%s-%s-%s", homeTeam, awayTeam, gameDate),
		Season:   season,
		Week:     week,
		GameDate: date,
		HomeTeam: homeTeam,
		AwayTeam: awayTeam,
	}, nil
}
