// Package pending keeps the server side of an in-flight authorization
// code flow: the state value handed to the provider and the PKCE
// verifier needed to redeem the code it returns.
//
// Each record is single use. Consume removes it whether or not it has
// expired, so a replayed callback never finds it again.
package pending

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("pending authorization not found")
	ErrExpired  = errors.New("pending authorization expired")
)

type Authorization struct {
	State        string    `json:"state"`
	CodeVerifier string    `json:"code_verifier"`
	RedirectURL  string    `json:"redirect_url"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type Store interface {
	Save(ctx context.Context, a Authorization) error
	Consume(ctx context.Context, state string) (*Authorization, error)
}

func validate(a Authorization) error {
	if a.State == "" || a.CodeVerifier == "" {
		return errors.New("pending: state and code verifier are required")
	}
	if a.ExpiresAt.IsZero() {
		return errors.New("pending: expires_at is required")
	}
	return nil
}
