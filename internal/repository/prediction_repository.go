package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/gridiron/internal/database"
	"github.com/yourusername/gridiron/internal/models"
)

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// Insert persists a prediction. Predictions are immutable once written.
func (r *PostgresPredictionRepository) Insert(ctx context.Context, prediction *models.Prediction) error {
	query := `
		INSERT INTO predictions (id, home_team, away_team, game_date, season,
		                         home_win_prob, away_win_prob, confidence,
		                         snapshot_version, predicted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		prediction.ID, prediction.HomeTeam, prediction.AwayTeam, prediction.GameDate,
		prediction.Season, prediction.HomeWinProb, prediction.AwayWinProb,
		prediction.Confidence, prediction.SnapshotVersion, prediction.PredictedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert prediction for %s vs %s: %w",
			prediction.HomeTeam, prediction.AwayTeam, err)
	}

	return nil
}

// GetByMatchup retrieves the latest prediction for a matchup
func (r *PostgresPredictionRepository) GetByMatchup(ctx context.Context, home, away string, date time.Time) (*models.Prediction, error) {
	query := `
		SELECT id, home_team, away_team, game_date, season, home_win_prob,
		       away_win_prob, confidence, snapshot_version, predicted_at
		FROM predictions
		WHERE home_team = $1 AND away_team = $2 AND game_date = $3
		ORDER BY predicted_at DESC
		LIMIT 1
	`

	p := &models.Prediction{}
	err := r.db.Pool().QueryRow(ctx, query, home, away, date).Scan(
		&p.ID, &p.HomeTeam, &p.AwayTeam, &p.GameDate, &p.Season, &p.HomeWinProb,
		&p.AwayWinProb, &p.Confidence, &p.SnapshotVersion, &p.PredictedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction for %s vs %s: %w", home, away, err)
	}

	return p, nil
}

// GetRecentSettled joins predictions from the given snapshot with completed
// games and returns the most recent ones, newest first
func (r *PostgresPredictionRepository) GetRecentSettled(ctx context.Context, snapshotVersion string, limit int) ([]*models.SettledPrediction, error) {
	query := `
		SELECT p.id, p.home_team, p.away_team, p.game_date, p.season,
		       p.home_win_prob, p.away_win_prob, p.confidence,
		       p.snapshot_version, p.predicted_at,
		       g.home_score > g.away_score AS home_won, g.game_date AS settled_at
		FROM predictions p
		JOIN games g
		  ON g.home_team = p.home_team
		 AND g.away_team = p.away_team
		 AND g.game_date = p.game_date
		WHERE p.snapshot_version = $1
		  AND g.home_score IS NOT NULL AND g.away_score IS NOT NULL
		  AND g.home_score <> g.away_score
		ORDER BY g.game_date DESC
		LIMIT $2
	`

	rows, err := r.db.Pool().Query(ctx, query, snapshotVersion, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query settled predictions: %w", err)
	}
	defer rows.Close()

	var settled []*models.SettledPrediction
	for rows.Next() {
		s := &models.SettledPrediction{}
		err := rows.Scan(
			&s.ID, &s.HomeTeam, &s.AwayTeam, &s.GameDate, &s.Season,
			&s.HomeWinProb, &s.AwayWinProb, &s.Confidence,
			&s.SnapshotVersion, &s.PredictedAt, &s.HomeWon, &s.SettledAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settled prediction: %w", err)
		}
		settled = append(settled, s)
	}

	return settled, rows.Err()
}
