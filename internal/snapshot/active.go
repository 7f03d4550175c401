package snapshot

import (
	"sync/atomic"

	"github.com/yourusername/gridiron/internal/models"
)

// Active publishes the serving snapshot. Swapping is a single atomic pointer
// replacement: readers see the old snapshot in full or the new one in full,
// never a partial update.
type Active struct {
	ptr atomic.Pointer[Loaded]
}

// Get returns the currently published snapshot, or ErrModelNotTrained when
// nothing has been published yet.
func (a *Active) Get() (*Loaded, error) {
	loaded := a.ptr.Load()
	if loaded == nil {
		return nil, models.ErrModelNotTrained
	}
	return loaded, nil
}

// Swap publishes a new snapshot and returns the retired one, if any.
func (a *Active) Swap(loaded *Loaded) *Loaded {
	return a.ptr.Swap(loaded)
}

// Version returns the published snapshot version, empty when none is active.
func (a *Active) Version() string {
	loaded := a.ptr.Load()
	if loaded == nil {
		return ""
	}
	return loaded.Snapshot.Version
}
