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

// PostgresMarketLineRepository implements MarketLineRepository for PostgreSQL
type PostgresMarketLineRepository struct {
	db *database.DB
}

// NewPostgresMarketLineRepository creates a new market line repository
func NewPostgresMarketLineRepository(db *database.DB) MarketLineRepository {
	return &PostgresMarketLineRepository{db: db}
}

// GetByMatchup retrieves the most recently fetched line for a matchup
func (r *PostgresMarketLineRepository) GetByMatchup(ctx context.Context, home, away string, date time.Time) (*models.MarketLine, error) {
	query := `
		SELECT home_team, away_team, game_date, home_moneyline, away_moneyline,
		       spread, bookmaker, fetched_at
		FROM market_lines
		WHERE home_team = $1 AND away_team = $2 AND game_date = $3
		ORDER BY fetched_at DESC
		LIMIT 1
	`

	line := &models.MarketLine{}
	err := r.db.Pool().QueryRow(ctx, query, home, away, date).Scan(
		&line.HomeTeam, &line.AwayTeam, &line.GameDate,
		&line.HomeMoneyline, &line.AwayMoneyline,
		&line.Spread, &line.Bookmaker, &line.FetchedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get market line for %s vs %s: %w", home, away, err)
	}

	return line, nil
}

// Insert stores a fetched market line
func (r *PostgresMarketLineRepository) Insert(ctx context.Context, line *models.MarketLine) error {
	query := `
		INSERT INTO market_lines (home_team, away_team, game_date, home_moneyline,
		                          away_moneyline, spread, bookmaker, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		line.HomeTeam, line.AwayTeam, line.GameDate,
		line.HomeMoneyline, line.AwayMoneyline,
		line.Spread, line.Bookmaker, line.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert market line for %s vs %s: %w",
			line.HomeTeam, line.AwayTeam, err)
	}

	return nil
}
