package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourusername/gridiron/internal/models"
)

// FileStore persists snapshots as JSON files under a directory, one file per
// version. Writes go through a temp file and rename so a crashed save never
// leaves a half-written artifact behind.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed snapshot store.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &models.SnapshotIOError{Op: "init", Key: dir, Err: err}
	}
	return &FileStore{dir: dir}, nil
}

// Save writes the snapshot under its version key.
func (f *FileStore) Save(ctx context.Context, snap *ModelSnapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return &models.SnapshotIOError{Op: "save", Key: snap.Version, Err: err}
	}

	final := f.path(snap.Version)
	tmp, err := os.CreateTemp(f.dir, snap.Version+".*.tmp")
	if err != nil {
		return &models.SnapshotIOError{Op: "save", Key: snap.Version, Err: err}
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return &models.SnapshotIOError{Op: "save", Key: snap.Version, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return &models.SnapshotIOError{Op: "save", Key: snap.Version, Err: err}
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		os.Remove(tmp.Name())
		return &models.SnapshotIOError{Op: "save", Key: snap.Version, Err: err}
	}

	return nil
}

// Load reads and validates the snapshot stored under a version key.
func (f *FileStore) Load(ctx context.Context, version string) (*ModelSnapshot, error) {
	data, err := os.ReadFile(f.path(version))
	if err != nil {
		return nil, &models.SnapshotIOError{Op: "load", Key: version, Err: err}
	}

	snap := &ModelSnapshot{}
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, &models.SnapshotIOError{
			Op: "load", Key: version,
			Err: fmt.Errorf("corrupt snapshot: %w", err),
		}
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}

	return snap, nil
}

func (f *FileStore) path(version string) string {
	return filepath.Join(f.dir, version+".json")
}
