// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Used when no database path is configured, and by tests.
//
// Characteristics:
//   - Snapshots are keyed by ID; Latest returns the most recently saved one.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process exits.

package store

import (
	"context"
	"sort"
	"sync"
)

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu      sync.RWMutex
	saves   map[string]*Snapshot // keyed by Snapshot.ID
	order   []string             // save order, oldest first
	results []Result
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{saves: make(map[string]*Snapshot)}
}

// Save adds or replaces the snapshot, assigning ID and time when missing.
func (m *memory) Save(ctx context.Context, s *Snapshot) error {
	if err := s.prepare(); err != nil {
		return err
	}
	cp := s.clone()
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.saves[cp.ID]; ok {
		m.removeOrder(cp.ID)
	}
	m.saves[cp.ID] = cp
	m.order = append(m.order, cp.ID)
	return nil
}

func (m *memory) removeOrder(id string) {
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			return
		}
	}
}

// Get looks up a snapshot by ID.
func (m *memory) Get(ctx context.Context, id string) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.saves[id]; ok {
		return s.clone(), nil
	}
	return nil, ErrNotFound
}

// Latest returns the most recently saved snapshot.
func (m *memory) Latest(ctx context.Context) (*Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.order) == 0 {
		return nil, ErrNotFound
	}
	return m.saves[m.order[len(m.order)-1]].clone(), nil
}

// Delete removes a snapshot; unknown IDs are ignored.
func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.saves, id)
	m.removeOrder(id)
	return nil
}

// RecordResult appends a finished game.
func (m *memory) RecordResult(ctx context.Context, r Result) error {
	r.prepare()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, r)
	return nil
}

// Leaderboard orders results by score desc, rounds asc, time asc.
func (m *memory) Leaderboard(ctx context.Context, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	m.mu.RLock()
	out := make([]Result, len(m.results))
	copy(out, m.results)
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].Rounds != out[j].Rounds {
			return out[i].Rounds < out[j].Rounds
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memory) Close() error { return nil }
