package offline

import (
	"context"
	"slices"
	"sync"

	"github.com/claude/pplog/internal/models"
)

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]map[string]models.Asset
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{buckets: make(map[string]map[string]models.Asset)}
}

func (m *MemoryStore) PutBucket(_ context.Context, bucket string, assets []models.Asset) error {
	b := make(map[string]models.Asset, len(assets))
	for _, a := range assets {
		b[a.Path] = a
	}
	m.mu.Lock()
	m.buckets[bucket] = b
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Match(_ context.Context, bucket, p string) (models.Asset, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.buckets[bucket][p]
	return a, ok, nil
}

func (m *MemoryStore) Buckets(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.buckets))
	for name := range m.buckets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

func (m *MemoryStore) DeleteBucket(_ context.Context, bucket string) error {
	m.mu.Lock()
	delete(m.buckets, bucket)
	m.mu.Unlock()
	return nil
}
