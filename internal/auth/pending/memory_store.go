package pending

import (
	"context"
	"sync"
	"time"
)

type MemoryStore struct {
	mu      sync.Mutex
	pending map[string]Authorization
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		pending: make(map[string]Authorization),
		now:     time.Now,
	}
}

func (m *MemoryStore) Save(_ context.Context, a Authorization) error {
	if err := validate(a); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep()
	m.pending[a.State] = a
	return nil
}

func (m *MemoryStore) Consume(_ context.Context, state string) (*Authorization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.pending[state]
	if !ok {
		return nil, ErrNotFound
	}
	delete(m.pending, state)

	if !m.now().Before(a.ExpiresAt) {
		return nil, ErrExpired
	}
	return &a, nil
}

// sweep drops expired entries so abandoned logins do not accumulate.
// Callers hold mu.
func (m *MemoryStore) sweep() {
	now := m.now()
	for state, a := range m.pending {
		if !now.Before(a.ExpiresAt) {
			delete(m.pending, state)
		}
	}
}
