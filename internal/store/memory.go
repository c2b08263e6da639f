package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/walksync/walksync/internal/model"
)

// MemoryStore is a mutex-guarded Store used by tests and local development.
type MemoryStore struct {
	mu     sync.RWMutex
	walks  map[string]model.WalkRecord
	status *model.RunStatus
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		walks: make(map[string]model.WalkRecord),
	}
}

func (m *MemoryStore) UpsertWalk(ctx context.Context, walk model.WalkRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	walk.LastSeen = time.Now().UTC()
	m.walks[walk.ID] = walk
	return nil
}

func (m *MemoryStore) ListWalks(ctx context.Context) ([]model.WalkRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	walks := make([]model.WalkRecord, 0, len(m.walks))
	for _, w := range m.walks {
		walks = append(walks, w)
	}

	// Ascending walk date, dateless records first, matching the Postgres
	// NULLS FIRST ordering. Ties break on id so the order is stable.
	sort.Slice(walks, func(i, j int) bool {
		a, b := walks[i].WalkDate, walks[j].WalkDate
		switch {
		case a == nil && b == nil:
			return walks[i].ID < walks[j].ID
		case a == nil:
			return true
		case b == nil:
			return false
		case a.Equal(*b):
			return walks[i].ID < walks[j].ID
		default:
			return a.Before(*b)
		}
	})
	return walks, nil
}

func (m *MemoryStore) UpdateRunStatus(ctx context.Context, status model.RunStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if status.LastSuccessfulRun == nil && m.status != nil {
		status.LastSuccessfulRun = m.status.LastSuccessfulRun
	}
	m.status = &status
	return nil
}

func (m *MemoryStore) GetRunStatus(ctx context.Context) (*model.RunStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.status == nil {
		return nil, nil
	}
	copied := *m.status
	return &copied, nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
