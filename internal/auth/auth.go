// Package auth defines what the rest of the portal needs from an
// authentication backend: who is signed in, and how to sign in or out.
package auth

import (
	"context"
	"errors"
	"net/http"
	"time"
)

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAlreadyRegistered    = errors.New("credentials already exist")
	ErrConfirmationRequired = errors.New("account created, email confirmation required")
	ErrProviderUnavailable  = errors.New("identity provider unavailable")
)

// User is the authenticated principal behind a request.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// SessionProvider resolves the user for the current request.
// It returns (nil, nil) when the request carries no valid session.
type SessionProvider interface {
	CurrentUser(ctx context.Context, r *http.Request) (*User, error)
}

// Grant is the cookie a backend wants issued after a successful sign-in.
type Grant struct {
	CookieName string
	Value      string
	ExpiresAt  time.Time
}

// Backend is a complete authentication backend.
type Backend interface {
	SessionProvider

	SignIn(ctx context.Context, email, password string) (*Grant, error)
	SignUp(ctx context.Context, email, password string) (*Grant, error)
	SignOut(ctx context.Context, r *http.Request) error

	// CookieNames lists the cookies the backend issues, for clearing on sign out.
	CookieNames() []string
}
