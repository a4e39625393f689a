// Package local authenticates against the portal's own Postgres
// credentials and keeps sessions in Redis behind an opaque cookie.
package local

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"learner-portal/internal/auth"
	"learner-portal/internal/cookie"
	"learner-portal/internal/session"
)

const CookieName = "__Host-session"

// Credentials is the password check the backend delegates to.
type Credentials interface {
	Register(ctx context.Context, email, password string) (*auth.User, error)
	Authenticate(ctx context.Context, email, password string) (*auth.User, error)
}

type Backend struct {
	credentials Credentials
	store       session.Store
	ttl         time.Duration
	now         func() time.Time
}

func NewBackend(credentials Credentials, store session.Store, ttl time.Duration) *Backend {
	return &Backend{
		credentials: credentials,
		store:       store,
		ttl:         ttl,
		now:         time.Now,
	}
}

// CurrentUser loads the session named by the session cookie. Expired
// sessions are removed and reported as absent.
func (b *Backend) CurrentUser(ctx context.Context, r *http.Request) (*auth.User, error) {
	sessionID := cookie.Value(r, CookieName)
	if sessionID == "" {
		return nil, nil
	}

	sess, err := b.store.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", auth.ErrProviderUnavailable, err)
	}
	if sess == nil {
		return nil, nil
	}

	if sess.Expired(b.now()) {
		_ = b.store.Delete(ctx, sessionID)
		return nil, nil
	}

	return &auth.User{ID: sess.UserID, Email: sess.Email}, nil
}

func (b *Backend) SignIn(ctx context.Context, email, password string) (*auth.Grant, error) {
	user, err := b.credentials.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return b.IssueFor(ctx, user)
}

func (b *Backend) SignUp(ctx context.Context, email, password string) (*auth.Grant, error) {
	user, err := b.credentials.Register(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return b.IssueFor(ctx, user)
}

// IssueFor starts a session for a user that has already been authenticated,
// e.g. by an OIDC callback.
func (b *Backend) IssueFor(ctx context.Context, user *auth.User) (*auth.Grant, error) {
	sessionID, err := session.GenerateID()
	if err != nil {
		return nil, err
	}

	now := b.now()
	sess := session.Session{
		SessionID: sessionID,
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(b.ttl),
	}

	if err := b.store.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("local: persist session: %w", err)
	}

	return &auth.Grant{
		CookieName: CookieName,
		Value:      sessionID,
		ExpiresAt:  sess.ExpiresAt,
	}, nil
}

// SignOut deletes the stored session, if any.
func (b *Backend) SignOut(ctx context.Context, r *http.Request) error {
	sessionID := cookie.Value(r, CookieName)
	if sessionID == "" {
		return nil
	}
	return b.store.Delete(ctx, sessionID)
}

func (b *Backend) CookieNames() []string {
	return []string{CookieName}
}
