package auth

import "errors"

var (
	// ErrProviderDiscovery means the provider's metadata document could
	// not be fetched or was unusable.
	ErrProviderDiscovery = errors.New("identity provider discovery failed")

	// ErrProviderExchange covers token exchange and userinfo failures,
	// including timeouts and malformed payloads.
	ErrProviderExchange = errors.New("identity provider exchange failed")

	ErrUnverifiedEmail = errors.New("email not verified by identity provider")
	ErrAccessDenied    = errors.New("access denied")
	ErrInvalidState    = errors.New("invalid or expired login state")
)
