package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/josephfleury/technical-challenge/internal/auth"
	"github.com/josephfleury/technical-challenge/internal/identity"
	"github.com/josephfleury/technical-challenge/internal/logger"
)

// IdentityCounter is notified once per identity created.
type IdentityCounter interface {
	IdentityCreated()
}

// StoreResolver creates an identity the first time its id is seen and
// never touches it afterwards, even if the provider now reports
// different attributes.
type StoreResolver struct {
	store   identity.Store
	counter IdentityCounter
}

func NewStoreResolver(store identity.Store, counter IdentityCounter) *StoreResolver {
	return &StoreResolver{store: store, counter: counter}
}

func (r *StoreResolver) Resolve(
	ctx context.Context,
	verified *auth.Identity,
) (string, error) {

	if verified == nil {
		return "", errors.New("identity is nil")
	}

	// 1. Known identity: stored attributes win
	existing, err := r.store.Get(ctx, verified.ID)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, identity.ErrNotFound) {
		return "", fmt.Errorf("resolve identity: %w", err)
	}

	// 2. First login
	created, err := r.store.Create(ctx, *verified)
	if errors.Is(err, identity.ErrConflict) {
		// a concurrent callback for the same id got there first
		logger.Info("identity created concurrently", map[string]any{
			"identity_id": verified.ID,
		})
		return verified.ID, nil
	}
	if err != nil {
		return "", fmt.Errorf("create identity: %w", err)
	}

	if r.counter != nil {
		r.counter.IdentityCreated()
	}
	logger.Info("identity created", map[string]any{
		"identity_id": created.ID,
	})

	return created.ID, nil
}
