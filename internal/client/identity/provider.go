package identity

import (
	"context"
	"errors"
)

var (
	ErrNoPassphrase      = errors.New("keystore passphrase unavailable")
	ErrInvalidDelegation = errors.New("invalid delegation")
)

// Provider is a client of the identity provider.
//
// Contract:
//   - IsAuthenticated: whether a still-valid delegation is held.
//   - Identity: the current identity, or nil when not authenticated.
//   - Login: obtain a delegation from the provider at providerURL.
//   - Logout: drop the delegation.
type Provider interface {
	IsAuthenticated(ctx context.Context) bool
	Identity() *Identity
	Login(ctx context.Context, providerURL string) (*Identity, error)
	Logout(ctx context.Context) error
}

// Factory constructs a Provider. Any error sends the session into the mock
// identity fallback.
type Factory func(ctx context.Context) (Provider, error)
