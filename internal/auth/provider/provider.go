package provider

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/josephfleury/technical-challenge/internal/auth"
)

// AuthorizationRequest carries what the caller decided for one login
// attempt. The gateway derives the PKCE challenge from CodeVerifier.
type AuthorizationRequest struct {
	CallbackURL  string
	Scopes       []string
	State        string
	CodeVerifier string
}

// Gateway performs the three-leg authorization-code exchange with an
// external identity provider. Implementations return identity facts
// only and must not create identities or sessions.
type Gateway interface {
	// AuthorizationRedirect returns the provider URL the browser is sent
	// to. Fails with auth.ErrProviderDiscovery when the provider's
	// endpoints cannot be resolved.
	AuthorizationRedirect(ctx context.Context, req AuthorizationRequest) (string, error)

	// ExchangeCode redeems an authorization code at the token endpoint
	// using this service's client credentials. Fails with
	// auth.ErrProviderExchange.
	ExchangeCode(ctx context.Context, code, redirectURL, codeVerifier string) (*oauth2.Token, error)

	// VerifiedIdentity fetches userinfo with token. Fails with
	// auth.ErrUnverifiedEmail unless the provider asserts
	// email_verified.
	VerifiedIdentity(ctx context.Context, token *oauth2.Token) (*auth.Identity, error)
}
