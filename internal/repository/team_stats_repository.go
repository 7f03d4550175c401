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

// PostgresTeamStatsRepository implements TeamStatsRepository for PostgreSQL
type PostgresTeamStatsRepository struct {
	db *database.DB
}

// NewPostgresTeamStatsRepository creates a new team stats repository
func NewPostgresTeamStatsRepository(db *database.DB) TeamStatsRepository {
	return &PostgresTeamStatsRepository{db: db}
}

// GetTeamStatsBefore retrieves a team's per-game aggregates in a season
// strictly before the given date, most recent first
func (r *PostgresTeamStatsRepository) GetTeamStatsBefore(ctx context.Context, team string, season int, before time.Time) ([]*models.TeamGameStats, error) {
	query := `
		SELECT game_id, team, season, week, game_date,
		       points_for, points_against, offensive_plays, defensive_plays, possessions,
		       yards_for, yards_against, turnovers, takeaways,
		       third_down_att, third_down_conv, fourth_down_att, fourth_down_conv,
		       red_zone_trips, red_zone_scores, explosive_plays, sacks_for, pressures_for
		FROM team_game_stats
		WHERE team = $1 AND season = $2 AND game_date < $3
		ORDER BY game_date DESC
	`

	rows, err := r.db.Pool().Query(ctx, query, team, season, before)
	if err != nil {
		return nil, fmt.Errorf("failed to query team stats for %s: %w", team, err)
	}
	defer rows.Close()

	var stats []*models.TeamGameStats
	for rows.Next() {
		s := &models.TeamGameStats{}
		err := rows.Scan(
			&s.GameID, &s.Team, &s.Season, &s.Week, &s.GameDate,
			&s.PointsFor, &s.PointsAgainst, &s.OffensivePlays, &s.DefensivePlays, &s.Possessions,
			&s.YardsFor, &s.YardsAgainst, &s.Turnovers, &s.Takeaways,
			&s.ThirdDownAtt, &s.ThirdDownConv, &s.FourthDownAtt, &s.FourthDownConv,
			&s.RedZoneTrips, &s.RedZoneScores, &s.ExplosivePlays, &s.SacksFor, &s.PressuresFor,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team stats: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// PostgresTeamRepository implements TeamRepository for PostgreSQL
type PostgresTeamRepository struct {
	db *database.DB
}

// NewPostgresTeamRepository creates a new team repository
func NewPostgresTeamRepository(db *database.DB) TeamRepository {
	return &PostgresTeamRepository{db: db}
}

// GetByAbbr retrieves team info by abbreviation
func (r *PostgresTeamRepository) GetByAbbr(ctx context.Context, abbr string) (*models.TeamInfo, error) {
	query := `SELECT abbr, name, conference, division, latitude, longitude FROM teams WHERE abbr = $1`

	team := &models.TeamInfo{}
	err := r.db.Pool().QueryRow(ctx, query, abbr).Scan(
		&team.Abbr, &team.Name, &team.Conference, &team.Division, &team.Latitude, &team.Longitude,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team %s: %w", abbr, err)
	}

	return team, nil
}
