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

const errScanGame = "failed to scan game: %w"

const gameColumns = `game_id, season, week, game_date, kickoff, home_team, away_team, home_score, away_score`

// PostgresGameRepository implements GameRepository for PostgreSQL
type PostgresGameRepository struct {
	db *database.DB
}

// NewPostgresGameRepository creates a new game repository
func NewPostgresGameRepository(db *database.DB) GameRepository {
	return &PostgresGameRepository{db: db}
}

// GetByID retrieves a game by its identifier
func (r *PostgresGameRepository) GetByID(ctx context.Context, gameID string) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE game_id = $1`

	game := &models.Game{}
	err := r.db.Pool().QueryRow(ctx, query, gameID).Scan(
		&game.GameID, &game.Season, &game.Week, &game.GameDate, &game.Kickoff,
		&game.HomeTeam, &game.AwayTeam, &game.HomeScore, &game.AwayScore,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game %s: %w", gameID, err)
	}

	return game, nil
}

// GetBySeason retrieves all games for a season ordered by date
func (r *PostgresGameRepository) GetBySeason(ctx context.Context, season int) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE season = $1 ORDER BY game_date ASC`
	return r.queryGames(ctx, query, season)
}

// GetCompletedBySeason retrieves all games for a season with final scores
func (r *PostgresGameRepository) GetCompletedBySeason(ctx context.Context, season int) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE season = $1 AND home_score IS NOT NULL AND away_score IS NOT NULL
		ORDER BY game_date ASC
	`
	return r.queryGames(ctx, query, season)
}

// GetTeamGamesBefore retrieves a team's completed games in a season strictly
// before the given date, most recent first
func (r *PostgresGameRepository) GetTeamGamesBefore(ctx context.Context, team string, season int, before time.Time) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE season = $1
		  AND (home_team = $2 OR away_team = $2)
		  AND game_date < $3
		  AND home_score IS NOT NULL AND away_score IS NOT NULL
		ORDER BY game_date DESC
	`
	return r.queryGames(ctx, query, season, team, before)
}

// GetMeetingsBefore retrieves completed head-to-head games between two teams
// from the given season onward, strictly before the given date
func (r *PostgresGameRepository) GetMeetingsBefore(ctx context.Context, team1, team2 string, fromSeason int, before time.Time) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE season >= $1
		  AND game_date < $2
		  AND home_score IS NOT NULL AND away_score IS NOT NULL
		  AND ((home_team = $3 AND away_team = $4) OR (home_team = $4 AND away_team = $3))
		ORDER BY game_date DESC
	`
	return r.queryGames(ctx, query, fromSeason, before, team1, team2)
}

func (r *PostgresGameRepository) queryGames(ctx context.Context, query string, args ...interface{}) ([]*models.Game, error) {
	rows, err := r.db.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game := &models.Game{}
		err := rows.Scan(
			&game.GameID, &game.Season, &game.Week, &game.GameDate, &game.Kickoff,
			&game.HomeTeam, &game.AwayTeam, &game.HomeScore, &game.AwayScore,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanGame, err)
		}
		games = append(games, game)
	}

	return games, rows.Err()
}
