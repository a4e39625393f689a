package learner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"learner-portal/internal/db"

	"github.com/google/uuid"
)

type Repository struct {
	db *db.DB
}

func NewRepository(db *db.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Learner, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, display_name, created_at
		FROM learners
		WHERE user_id = $1
		ORDER BY created_at, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("learner: list: %w", err)
	}
	defer rows.Close()

	learners := []Learner{}
	for rows.Next() {
		var l Learner
		if err := rows.Scan(&l.ID, &l.UserID, &l.DisplayName, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("learner: scan: %w", err)
		}
		learners = append(learners, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("learner: list: %w", err)
	}

	return learners, nil
}

// Get returns the learner only if it belongs to userID.
func (r *Repository) Get(ctx context.Context, userID, learnerID string) (*Learner, error) {
	if _, err := uuid.Parse(learnerID); err != nil {
		return nil, ErrNotFound
	}

	var l Learner
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, display_name, created_at
		FROM learners
		WHERE id = $1
		  AND user_id = $2
	`, learnerID, userID).Scan(&l.ID, &l.UserID, &l.DisplayName, &l.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("learner: get: %w", err)
	}

	return &l, nil
}

func (r *Repository) Create(ctx context.Context, userID, displayName string) (*Learner, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" || utf8.RuneCountInString(displayName) > MaxDisplayNameLength {
		return nil, ErrInvalidDisplayName
	}

	l := Learner{
		ID:          uuid.NewString(),
		UserID:      userID,
		DisplayName: displayName,
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO learners (id, user_id, display_name)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, l.ID, l.UserID, l.DisplayName).Scan(&l.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("learner: create: %w", err)
	}

	return &l, nil
}
