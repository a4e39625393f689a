package provider

import (
	"context"

	"learner-portal/internal/auth"
)

// OAuthProvider is an external login provider. Implementations return
// identity facts only; users and sessions are handled by the caller.
type OAuthProvider interface {
	Name() string

	// AuthCodeURL returns the authorization URL for the given state and
	// PKCE challenge.
	AuthCodeURL(state string, codeChallenge string) string

	// ExchangeCode trades the authorization code for a verified identity.
	ExchangeCode(ctx context.Context, code string, codeVerifier string) (*auth.Identity, error)
}
