package lifecycle

import (
	"context"
	"fmt"
	"time"

	"IdeaOasis/internal/ports"
)

// DefaultThreshold is the age after which a published idea is archived.
const DefaultThreshold = 24 * time.Hour

// Manager transitions published ideas from active to archived once they
// outlive the threshold. It never un-archives and never deletes.
type Manager struct {
	store ports.IdeaStore
	now   func() time.Time
}

// NewManager builds a manager over the given store.
func NewManager(store ports.IdeaStore) *Manager {
	return &Manager{store: store, now: time.Now}
}

// NewManagerAt pins the manager's clock, for tests.
func NewManagerAt(store ports.IdeaStore, now func() time.Time) *Manager {
	manager := NewManager(store)
	if now != nil {
		manager.now = now
	}
	return manager
}

// ArchiveStale flips the archived flag on every unarchived idea created
// before now-threshold and returns how many were updated. Re-running with no
// newly stale ideas archives zero. threshold <= 0 falls back to
// DefaultThreshold.
func (m *Manager) ArchiveStale(ctx context.Context, threshold time.Duration) (int, error) {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	cutoff := m.now().Add(-threshold)
	stale, err := m.store.FindStale(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("find stale ideas: %w", err)
	}
	if len(stale) == 0 {
		return 0, nil
	}

	ids := make([]int64, 0, len(stale))
	for _, idea := range stale {
		ids = append(ids, idea.ID)
	}

	if err := m.store.UpdateArchivedFlag(ctx, ids); err != nil {
		return 0, fmt.Errorf("archive ideas: %w", err)
	}

	return len(ids), nil
}
