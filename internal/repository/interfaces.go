package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/gridiron/internal/models"
)

// GameRepository defines read access to the validated historical game table.
// Records are assumed deduplicated and range-checked by the data collaborator.
type GameRepository interface {
	GetByID(ctx context.Context, gameID string) (*models.Game, error)
	GetBySeason(ctx context.Context, season int) ([]*models.Game, error)
	GetCompletedBySeason(ctx context.Context, season int) ([]*models.Game, error)
	GetTeamGamesBefore(ctx context.Context, team string, season int, before time.Time) ([]*models.Game, error)
	GetMeetingsBefore(ctx context.Context, team1, team2 string, fromSeason int, before time.Time) ([]*models.Game, error)
}

// TeamStatsRepository defines read access to per-team, per-game aggregates.
type TeamStatsRepository interface {
	GetTeamStatsBefore(ctx context.Context, team string, season int, before time.Time) ([]*models.TeamGameStats, error)
}

// TeamRepository defines read access to league-structure attributes.
type TeamRepository interface {
	GetByAbbr(ctx context.Context, abbr string) (*models.TeamInfo, error)
}

// PredictionRepository persists predictions and joins them with outcomes.
type PredictionRepository interface {
	Insert(ctx context.Context, prediction *models.Prediction) error
	GetByMatchup(ctx context.Context, home, away string, date time.Time) (*models.Prediction, error)
	GetRecentSettled(ctx context.Context, snapshotVersion string, limit int) ([]*models.SettledPrediction, error)
}

// MarketLineRepository defines read access to stored market lines.
type MarketLineRepository interface {
	GetByMatchup(ctx context.Context, home, away string, date time.Time) (*models.MarketLine, error)
	Insert(ctx context.Context, line *models.MarketLine) error
}

// ModelVersionRepository is the registry for trained snapshots. Exactly one
// version is active at a time; activation retires the previous one.
type ModelVersionRepository interface {
	Create(ctx context.Context, version *models.ModelVersion) error
	GetByVersion(ctx context.Context, name, version string) (*models.ModelVersion, error)
	GetActive(ctx context.Context, name string) (*models.ModelVersion, error)
	SetActive(ctx context.Context, id uuid.UUID) error
}
