package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/gridiron/internal/config"
	"github.com/yourusername/gridiron/internal/ensemble"
	"github.com/yourusername/gridiron/internal/models"
)

func fittedSnapshot(t *testing.T) (*ModelSnapshot, config.EnsembleConfig) {
	t.Helper()

	cfg := config.EnsembleConfig{
		ForestWeight: 0.40, BoostWeight: 0.35, LogitWeight: 0.25,
		ForestTrees: 5, ForestDepth: 2,
		BoostRounds: 10, BoostShrinkage: 0.1,
		LogitL2: 0.01, LogitEpochs: 100,
		Seed: 7,
	}

	var X [][]float64
	var y []int
	for i := -10; i <= 10; i++ {
		X = append(X, []float64{float64(i) / 10, float64(-i) / 20})
		label := 0
		if i > 0 {
			label = 1
		}
		y = append(y, label)
	}

	scaler := &ensemble.Scaler{}
	require.NoError(t, scaler.Fit(X))
	scaled, err := scaler.Transform(X)
	require.NoError(t, err)

	model, err := ensemble.New(cfg, []string{"a", "b"})
	require.NoError(t, err)
	require.NoError(t, model.Fit(scaled, y))

	params, err := model.Params()
	require.NoError(t, err)

	return &ModelSnapshot{
		FormatVersion: FormatVersion,
		Name:          "gridiron",
		Version:       "20240901-120000",
		Schema:        []string{"a", "b"},
		Scaler:        scaler,
		Params:        params,
		Metadata: Metadata{
			Seasons:          []int{2022, 2023},
			Samples:          len(X),
			BacktestAccuracy: 0.64,
		},
		CreatedAt: time.Now().UTC(),
	}, cfg
}

func TestFileStoreRoundTrip(t *testing.T) {
	snap, cfg := fittedSnapshot(t)

	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, snap))

	restored, err := store.Load(ctx, snap.Version)
	require.NoError(t, err)

	assert.Equal(t, snap.Schema, restored.Schema)
	assert.Equal(t, snap.Metadata, restored.Metadata)
	assert.Equal(t, snap.Scaler.Mean, restored.Scaler.Mean)

	// the restored model must predict identically to the one that was saved
	original, err := Materialize(snap, cfg)
	require.NoError(t, err)
	reloaded, err := Materialize(restored, cfg)
	require.NoError(t, err)

	probe := [][]float64{{0.5, -0.2}, {-0.8, 0.4}}
	want, err := original.Model.PredictProba(probe)
	require.NoError(t, err)
	got, err := reloaded.Model.PredictProba(probe)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileStoreLoadMissingVersion(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "nope")

	var ioErr *models.SnapshotIOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "load", ioErr.Op)
	assert.Equal(t, "nope", ioErr.Key)
}

func TestSaveRejectsInvalidSnapshot(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	err = store.Save(context.Background(), &ModelSnapshot{FormatVersion: FormatVersion})

	var validationErr *models.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestValidateRejectsWrongFormatVersion(t *testing.T) {
	snap, _ := fittedSnapshot(t)
	snap.FormatVersion = 99

	var validationErr *models.ValidationError
	require.ErrorAs(t, snap.Validate(), &validationErr)
	assert.Contains(t, validationErr.Detail, "format version")
}

func TestActiveSwapAndGet(t *testing.T) {
	var active Active

	_, err := active.Get()
	assert.ErrorIs(t, err, models.ErrModelNotTrained)
	assert.Empty(t, active.Version())

	snap, cfg := fittedSnapshot(t)
	loaded, err := Materialize(snap, cfg)
	require.NoError(t, err)

	retired := active.Swap(loaded)
	assert.Nil(t, retired)
	assert.Equal(t, snap.Version, active.Version())

	got, err := active.Get()
	require.NoError(t, err)
	assert.Same(t, loaded, got)

	newer := *loaded
	retired = active.Swap(&newer)
	assert.Same(t, loaded, retired)
}
