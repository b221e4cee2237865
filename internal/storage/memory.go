package storage

import (
	"context"
	"sync"

	"github.com/claude/pplog/internal/models"
)

// Memory is a Gateway that keeps state in process. Used by tests.
type Memory struct {
	mu    sync.Mutex
	state models.State
	saved bool

	// SaveErr, when set, is returned by Save without storing anything.
	SaveErr error
}

var _ Gateway = (*Memory)(nil)

// NewMemory returns a Memory gateway holding st.
func NewMemory(st models.State) *Memory {
	return &Memory{state: st.Clone(), saved: true}
}

// Load returns the stored state, or the initial state if nothing was saved.
func (m *Memory) Load(_ context.Context) (models.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.saved {
		return models.InitialState(), nil
	}
	return m.state.Clone(), nil
}

// Save stores a copy of st.
func (m *Memory) Save(_ context.Context, st models.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.state = st.Clone()
	m.saved = true
	return nil
}

// Update applies fn to the stored state under the lock. SaveErr, when set,
// is returned after fn succeeds.
func (m *Memory) Update(_ context.Context, fn func(models.State) (models.State, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur := models.InitialState()
	if m.saved {
		cur = m.state.Clone()
	}
	next, err := fn(cur)
	if err != nil {
		return err
	}
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.state = next.Clone()
	m.saved = true
	return nil
}
