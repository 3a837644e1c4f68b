package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/josephfleury/technical-challenge/internal/auth"
	"github.com/josephfleury/technical-challenge/internal/logger"
)

// Manager tracks which identity, if any, a client's session is attached
// to. The session id travels in a cookie; everything else stays in the
// Store.
type Manager struct {
	store  Store
	ttl    time.Duration
	cookie CookieOptions
	now    func() time.Time
}

func NewManager(store Store, ttl time.Duration, cookie CookieOptions) *Manager {
	return &Manager{
		store:  store,
		ttl:    ttl,
		cookie: cookie.normalize(),
		now:    time.Now,
	}
}

// Attach starts a new session for identityID and sets its cookie. Any
// session already presented by r is dropped first so ids are never
// reused across logins.
func (m *Manager) Attach(ctx context.Context, w http.ResponseWriter, r *http.Request, identityID string) error {
	if identityID == "" {
		return errors.New("session: identity id is required")
	}

	if old := ReadCookie(r, m.cookie); old != "" {
		if err := m.store.Delete(ctx, old); err != nil {
			logger.Warn("failed to drop previous session", map[string]any{
				"error": err.Error(),
			})
		}
	}

	id, err := GenerateID()
	if err != nil {
		return err
	}

	now := m.now()
	s := Session{
		ID:         id,
		IdentityID: identityID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(m.ttl),
	}
	if err := m.store.Create(ctx, s); err != nil {
		return fmt.Errorf("session: persist: %w", err)
	}

	SetCookie(w, s.ID, s.ExpiresAt, m.cookie)
	return nil
}

// Detach ends the session presented by r and clears its cookie.
func (m *Manager) Detach(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	defer ClearCookie(w, m.cookie)

	id := ReadCookie(r, m.cookie)
	if id == "" {
		return nil
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("session: delete: %w", err)
	}
	return nil
}

// Current resolves the principal for r. A missing, unknown or expired
// session is anonymous; only store failures return an error.
func (m *Manager) Current(r *http.Request) (auth.Principal, error) {
	id := ReadCookie(r, m.cookie)
	if id == "" {
		return auth.Anonymous(), nil
	}

	ctx := r.Context()
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return auth.Anonymous(), err
	}
	if s == nil {
		return auth.Anonymous(), nil
	}

	if s.Expired(m.now()) {
		_ = m.store.Delete(ctx, id)
		return auth.Anonymous(), nil
	}

	return auth.Authenticated(s.IdentityID), nil
}
