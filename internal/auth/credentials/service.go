package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"learner-portal/internal/auth"
	"learner-portal/internal/db"
)

var (
	ErrInvalidCredentials = auth.ErrInvalidCredentials
	ErrAlreadyRegistered  = auth.ErrAlreadyRegistered
)

type Service struct {
	db *db.DB
}

func NewService(db *db.DB) *Service {
	return &Service{db: db}
}

// Register creates (or reuses) the user row for email and attaches a
// password credential to it.
func (s *Service) Register(ctx context.Context, email, password string) (*auth.User, error) {
	hash, version, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("credentials: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var userID string
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email).Scan(&userID)

	if errors.Is(err, sql.ErrNoRows) {
		err = tx.QueryRowContext(ctx, `
			INSERT INTO users (email, email_verified)
			VALUES ($1, false)
			RETURNING id
		`, email).Scan(&userID)
	}
	if err != nil {
		return nil, fmt.Errorf("credentials: resolve user: %w", err)
	}

	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM credentials WHERE user_id = $1
		)
	`, userID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("credentials: check existing: %w", err)
	}
	if exists {
		return nil, ErrAlreadyRegistered
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO credentials (user_id, password_hash, hash_version)
		VALUES ($1, $2, $3)
	`, userID, hash, version)
	if err != nil {
		return nil, fmt.Errorf("credentials: insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("credentials: commit: %w", err)
	}

	return &auth.User{ID: userID, Email: email}, nil
}

// Authenticate verifies email and password. Unknown users and wrong
// passwords both return ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*auth.User, error) {
	var c Credential
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.email, c.password_hash, c.hash_version
		FROM users u
		JOIN credentials c ON c.user_id = u.id
		WHERE LOWER(u.email) = LOWER($1)
	`, email).Scan(&c.UserID, &c.Email, &c.PasswordHash, &c.HashVersion)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("credentials: lookup: %w", err)
	}

	if c.HashVersion != HashVersionBcrypt {
		return nil, fmt.Errorf("credentials: unsupported hash version %q", c.HashVersion)
	}

	if err := VerifyPassword(c.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &auth.User{ID: c.UserID, Email: c.Email}, nil
}
