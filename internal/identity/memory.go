package identity

import (
	"context"
	"sync"
	"time"

	"github.com/josephfleury/technical-challenge/internal/auth"
)

type MemoryStore struct {
	mu         sync.RWMutex
	identities map[string]auth.Identity
	now        func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		identities: make(map[string]auth.Identity),
		now:        time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*auth.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	identity, ok := s.identities[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &identity, nil
}

func (s *MemoryStore) Create(_ context.Context, identity auth.Identity) (*auth.Identity, error) {
	if err := validate(identity); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.identities[identity.ID]; exists {
		return nil, ErrConflict
	}

	identity.CreatedAt = s.now().UTC()
	s.identities[identity.ID] = identity
	return &identity, nil
}

func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Len reports how many identities are stored.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.identities)
}
