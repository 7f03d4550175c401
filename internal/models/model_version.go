package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ModelVersion is the registry row for a trained snapshot. The snapshot
// payload itself lives in the snapshot store; this row carries the metadata
// and the active flag. Superseded versions are retired, not deleted.
type ModelVersion struct {
	ID        uuid.UUID       `db:"id" json:"id" validate:"required,uuid4"`
	Name      string          `db:"name" json:"name" validate:"required"`
	Version   string          `db:"version" json:"version" validate:"required"`
	Metrics   json.RawMessage `db:"metrics" json:"metrics"`
	TrainedAt time.Time       `db:"trained_at" json:"trained_at" validate:"required"`
	Active    bool            `db:"active" json:"active"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// GetMetric retrieves a metric value from the Metrics JSON.
func (m *ModelVersion) GetMetric(name string) (float64, bool) {
	if m.Metrics == nil {
		return 0, false
	}
	var metrics map[string]float64
	if err := json.Unmarshal(m.Metrics, &metrics); err != nil {
		return 0, false
	}
	v, ok := metrics[name]
	return v, ok
}
