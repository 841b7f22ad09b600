package store

import (
	"sort"
	"sync"
	"time"

	"FundSnap/internal/model"
)

// MemoryStore is the fallback when SQLite cannot open; data lives for the
// process lifetime only.
type MemoryStore struct {
	mu       sync.Mutex
	holdings map[string]model.Holding
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{holdings: make(map[string]model.Holding)}
}

func (m *MemoryStore) Upsert(h *model.Holding) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.holdings[h.FundCode]
	if !ok && len(m.holdings) >= MaxHoldings {
		return ErrFull
	}
	now := time.Now()
	stored := *h
	stored.UpdatedAt = now
	if ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	m.holdings[h.FundCode] = stored
	return nil
}

func (m *MemoryStore) List() ([]model.Holding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]model.Holding, 0, len(m.holdings))
	for _, h := range m.holdings {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].FundCode < out[j].FundCode
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *MemoryStore) Remove(fundCode string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.holdings[fundCode]; !ok {
		return ErrNotFound
	}
	delete(m.holdings, fundCode)
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.holdings = make(map[string]model.Holding)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
