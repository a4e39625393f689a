// Package supabase authenticates through Supabase Auth (GoTrue). The access
// token travels in the sb-access-token cookie or an Authorization header.
package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"learner-portal/internal/auth"
	"learner-portal/internal/cookie"
	"learner-portal/internal/logger"

	"github.com/golang-jwt/jwt/v5"
)

const (
	CookieName = "sb-access-token"

	// audience Supabase stamps on tokens of signed-in users.
	audience = "authenticated"
)

var errInvalidToken = errors.New("supabase: invalid access token")

// API is the subset of GoTrue the backend uses.
type API interface {
	User(ctx context.Context, accessToken string) (*auth.User, error)
	SignIn(ctx context.Context, email, password string) (accessToken string, expiresIn time.Duration, err error)
	SignUp(ctx context.Context, email, password string) error
	SignOut(ctx context.Context, accessToken string) error
}

type Backend struct {
	api       API
	jwtSecret []byte
	now       func() time.Time
}

// NewBackend builds the backend. With a non-empty jwtSecret tokens are
// verified locally; otherwise every lookup asks GoTrue.
func NewBackend(api API, jwtSecret string) *Backend {
	b := &Backend{api: api, now: time.Now}
	if jwtSecret != "" {
		b.jwtSecret = []byte(jwtSecret)
	}
	return b
}

func accessToken(r *http.Request) string {
	if v := cookie.Value(r, CookieName); v != "" {
		return v
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

func (b *Backend) CurrentUser(ctx context.Context, r *http.Request) (*auth.User, error) {
	token := accessToken(r)
	if token == "" {
		return nil, nil
	}

	if b.jwtSecret != nil {
		user, err := b.verify(token)
		if err != nil {
			logger.Debug("supabase token rejected", map[string]any{"error": err.Error()})
			return nil, nil
		}
		return user, nil
	}

	user, err := b.api.User(ctx, token)
	if errors.Is(err, errInvalidToken) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", auth.ErrProviderUnavailable, err)
	}
	return user, nil
}

type claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func (b *Backend) verify(raw string) (*auth.User, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c,
		func(*jwt.Token) (any, error) { return b.jwtSecret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(b.now),
	)
	if err != nil {
		return nil, err
	}
	if c.Subject == "" {
		return nil, errors.New("supabase: token has no subject")
	}
	return &auth.User{ID: c.Subject, Email: c.Email}, nil
}

func (b *Backend) SignIn(ctx context.Context, email, password string) (*auth.Grant, error) {
	token, expiresIn, err := b.api.SignIn(ctx, email, password)
	if errors.Is(err, errInvalidToken) {
		return nil, auth.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", auth.ErrProviderUnavailable, err)
	}

	return &auth.Grant{
		CookieName: CookieName,
		Value:      token,
		ExpiresAt:  b.now().Add(expiresIn),
	}, nil
}

// SignUp registers the account and signs it in. Projects that require
// email confirmation refuse the sign-in until the link is followed.
func (b *Backend) SignUp(ctx context.Context, email, password string) (*auth.Grant, error) {
	if err := b.api.SignUp(ctx, email, password); err != nil {
		if errors.Is(err, errInvalidToken) {
			return nil, auth.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("%w: %w", auth.ErrProviderUnavailable, err)
	}

	grant, err := b.SignIn(ctx, email, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		return nil, auth.ErrConfirmationRequired
	}
	return grant, err
}

func (b *Backend) SignOut(ctx context.Context, r *http.Request) error {
	token := accessToken(r)
	if token == "" {
		return nil
	}
	return b.api.SignOut(ctx, token)
}

func (b *Backend) CookieNames() []string {
	return []string{CookieName}
}
