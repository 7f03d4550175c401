package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/gridiron/internal/database"
	"github.com/yourusername/gridiron/internal/models"
)

const modelVersionColumns = `id, name, version, metrics, trained_at, active, created_at`

// PostgresModelVersionRepository implements ModelVersionRepository for PostgreSQL
type PostgresModelVersionRepository struct {
	db *database.DB
}

// NewPostgresModelVersionRepository creates a new model version repository
func NewPostgresModelVersionRepository(db *database.DB) ModelVersionRepository {
	return &PostgresModelVersionRepository{db: db}
}

// Create registers a trained model version
func (r *PostgresModelVersionRepository) Create(ctx context.Context, version *models.ModelVersion) error {
	query := `
		INSERT INTO model_versions (id, name, version, metrics, trained_at, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Pool().Exec(ctx, query,
		version.ID, version.Name, version.Version, version.Metrics,
		version.TrainedAt, version.Active, version.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create model version %s/%s: %w", version.Name, version.Version, err)
	}

	return nil
}

// GetByVersion retrieves a registered model version by name and version tag
func (r *PostgresModelVersionRepository) GetByVersion(ctx context.Context, name, version string) (*models.ModelVersion, error) {
	query := `SELECT ` + modelVersionColumns + ` FROM model_versions WHERE name = $1 AND version = $2`
	return r.queryOne(ctx, query, name, version)
}

// GetActive retrieves the active model version for a model name
func (r *PostgresModelVersionRepository) GetActive(ctx context.Context, name string) (*models.ModelVersion, error) {
	query := `SELECT ` + modelVersionColumns + ` FROM model_versions WHERE name = $1 AND active = true`

	mv, err := r.queryOne(ctx, query, name)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrNoActiveModel
	}
	return mv, err
}

// SetActive activates a model version and retires the previously active one
// for the same name in a single transaction
func (r *PostgresModelVersionRepository) SetActive(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var name string
	err = tx.QueryRow(ctx, `SELECT name FROM model_versions WHERE id = $1`, id).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up model version %s: %w", id, err)
	}

	if _, err := tx.Exec(ctx, `UPDATE model_versions SET active = false WHERE name = $1 AND active = true`, name); err != nil {
		return fmt.Errorf("failed to retire active version for %s: %w", name, err)
	}

	if _, err := tx.Exec(ctx, `UPDATE model_versions SET active = true WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to activate model version %s: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit activation: %w", err)
	}

	return nil
}

func (r *PostgresModelVersionRepository) queryOne(ctx context.Context, query string, args ...interface{}) (*models.ModelVersion, error) {
	mv := &models.ModelVersion{}
	err := r.db.Pool().QueryRow(ctx, query, args...).Scan(
		&mv.ID, &mv.Name, &mv.Version, &mv.Metrics, &mv.TrainedAt, &mv.Active, &mv.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get model version: %w", err)
	}

	return mv, nil
}
