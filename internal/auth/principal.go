package auth

import "context"

// Principal is who a request acts as: either anonymous or an
// authenticated identity. The zero value is anonymous.
type Principal struct {
	identityID string
}

func Anonymous() Principal {
	return Principal{}
}

func Authenticated(identityID string) Principal {
	return Principal{identityID: identityID}
}

func (p Principal) IsAuthenticated() bool {
	return p.identityID != ""
}

// IdentityID returns the attached identity and whether there is one.
func (p Principal) IdentityID() (string, bool) {
	return p.identityID, p.identityID != ""
}

func (p Principal) String() string {
	if !p.IsAuthenticated() {
		return "anonymous"
	}
	return "identity:" + p.identityID
}

type principalContextKeyType struct{}

var principalKey = principalContextKeyType{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the principal on ctx, or Anonymous when
// none was set.
func PrincipalFromContext(ctx context.Context) Principal {
	p, _ := ctx.Value(principalKey).(Principal)
	return p
}
