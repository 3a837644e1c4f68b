package identity

import (
	"context"
	"errors"

	"github.com/josephfleury/technical-challenge/internal/auth"
)

var (
	ErrNotFound = errors.New("identity not found")

	// ErrConflict is returned by Create when the id is already stored.
	// The stored record is left untouched.
	ErrConflict = errors.New("identity already exists")
)

// Store is append-only storage of verified identities.
//
// Create does not offer atomic create-if-absent across callers: two
// concurrent first logins for one id both see ErrNotFound from Get, and
// exactly one Create succeeds while the other gets ErrConflict.
type Store interface {
	Get(ctx context.Context, id string) (*auth.Identity, error)
	Create(ctx context.Context, identity auth.Identity) (*auth.Identity, error)
	Ping(ctx context.Context) error
}

func validate(identity auth.Identity) error {
	if identity.ID == "" {
		return errors.New("identity: id is required")
	}
	if identity.Email == "" {
		return errors.New("identity: email is required")
	}
	return nil
}
