package resolver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"learner-portal/internal/auth"
	"learner-portal/internal/db"
)

var ErrNilIdentity = errors.New("identity is nil")

// DBResolver links identities to users in Postgres: an existing link wins,
// then a user with the same verified email, otherwise a new user is created.
type DBResolver struct {
	db *db.DB
}

func NewDBResolver(db *db.DB) *DBResolver {
	return &DBResolver{db: db}
}

func (r *DBResolver) Resolve(ctx context.Context, identity *auth.Identity) (*auth.User, error) {
	if identity == nil {
		return nil, ErrNilIdentity
	}

	user := &auth.User{Email: identity.Email}

	err := r.db.QueryRowContext(ctx, `
		SELECT user_id
		FROM identities
		WHERE provider = $1
		  AND provider_user_id = $2
	`, identity.Provider, identity.ProviderUserID).Scan(&user.ID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("resolver: identity lookup: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("resolver: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Unverified emails are never linked to an existing account.
	err = sql.ErrNoRows
	if identity.EmailVerified {
		err = tx.QueryRowContext(ctx, `
			SELECT id
			FROM users
			WHERE LOWER(email) = LOWER($1)
		`, identity.Email).Scan(&user.ID)
	}

	if errors.Is(err, sql.ErrNoRows) {
		err = tx.QueryRowContext(ctx, `
			INSERT INTO users (email, email_verified)
			VALUES ($1, $2)
			RETURNING id
		`, identity.Email, identity.EmailVerified).Scan(&user.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("resolver: resolve user: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO identities (user_id, provider, provider_user_id)
		VALUES ($1, $2, $3)
	`, user.ID, identity.Provider, identity.ProviderUserID)
	if err != nil {
		return nil, fmt.Errorf("resolver: link identity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("resolver: commit: %w", err)
	}

	return user, nil
}
