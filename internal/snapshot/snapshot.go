// Package snapshot persists trained model artifacts and publishes the active
// one for serving.
package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/gridiron/internal/config"
	"github.com/yourusername/gridiron/internal/ensemble"
	"github.com/yourusername/gridiron/internal/models"
)

// FormatVersion is bumped when the serialized layout changes incompatibly.
const FormatVersion = 1

// Metadata records what a snapshot was trained on and how it performed in the
// season backtest, which is its authoritative accuracy.
type Metadata struct {
	Seasons          []int   `json:"seasons"`
	Samples          int     `json:"samples"`
	SkippedGames     int     `json:"skipped_games"`
	BacktestAccuracy float64 `json:"backtest_accuracy"`
	BacktestROCAUC   float64 `json:"backtest_roc_auc"`
}

// ModelSnapshot is a versioned, immutable training artifact: the fitted
// sub-models, their weights, the fitted scaler, the feature schema and the
// training metadata. Created once by a training run, read-only thereafter,
// retired rather than deleted when superseded.
type ModelSnapshot struct {
	FormatVersion int               `json:"format_version"`
	Name          string            `json:"name"`
	Version       string            `json:"version"`
	Schema        []string          `json:"schema"`
	Scaler        *ensemble.Scaler  `json:"scaler"`
	Params        *ensemble.Params  `json:"params"`
	Metadata      Metadata          `json:"metadata"`
	CreatedAt     time.Time         `json:"created_at"`
}

// Validate checks that a snapshot carries everything inference needs.
func (s *ModelSnapshot) Validate() error {
	switch {
	case s.FormatVersion != FormatVersion:
		return &models.ValidationError{
			Component: "snapshot",
			Detail:    fmt.Sprintf("unsupported format version %d", s.FormatVersion),
		}
	case s.Version == "":
		return &models.ValidationError{Component: "snapshot", Detail: "missing version"}
	case len(s.Schema) == 0:
		return &models.ValidationError{Component: "snapshot", Detail: "missing feature schema"}
	case s.Scaler == nil || !s.Scaler.Fitted():
		return &models.ValidationError{Component: "snapshot", Detail: "missing fitted scaler"}
	case s.Params == nil:
		return &models.ValidationError{Component: "snapshot", Detail: "missing fitted sub-models"}
	}
	return nil
}

// Store is the persistence collaborator. The engine treats it as an opaque
// key-value interface; the snapshot must round-trip exactly.
type Store interface {
	Save(ctx context.Context, snap *ModelSnapshot) error
	Load(ctx context.Context, version string) (*ModelSnapshot, error)
}

// Loaded is a snapshot materialized for serving: the restored ensemble plus
// its scaler. Immutable; safe for unlimited concurrent readers.
type Loaded struct {
	Snapshot *ModelSnapshot
	Model    *ensemble.Ensemble
	Scaler   *ensemble.Scaler
}

// Materialize restores a serving-ready model from a snapshot.
func Materialize(snap *ModelSnapshot, cfg config.EnsembleConfig) (*Loaded, error) {
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	model, err := ensemble.New(cfg, snap.Schema)
	if err != nil {
		return nil, err
	}
	if err := model.LoadParams(snap.Params); err != nil {
		return nil, err
	}

	return &Loaded{Snapshot: snap, Model: model, Scaler: snap.Scaler}, nil
}
