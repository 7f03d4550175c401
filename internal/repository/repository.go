package repository

import (
	"fmt"

	"github.com/yourusername/gridiron/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Game         GameRepository
	TeamStats    TeamStatsRepository
	Team         TeamRepository
	Prediction   PredictionRepository
	MarketLine   MarketLineRepository
	ModelVersion ModelVersionRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Game:         NewPostgresGameRepository(db),
		TeamStats:    NewPostgresTeamStatsRepository(db),
		Team:         NewPostgresTeamRepository(db),
		Prediction:   NewPostgresPredictionRepository(db),
		MarketLine:   NewPostgresMarketLineRepository(db),
		ModelVersion: NewPostgresModelVersionRepository(db),
	}, nil
}
