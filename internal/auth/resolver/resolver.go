package resolver

import (
	"context"

	"github.com/josephfleury/technical-challenge/internal/auth"
)

// Resolver maps a verified provider identity to the stored identity id.
// It is the only place where first-login creation happens.
type Resolver interface {
	Resolve(
		ctx context.Context,
		identity *auth.Identity,
	) (identityID string, err error)
}
