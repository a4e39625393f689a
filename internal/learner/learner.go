// Package learner manages learner profiles: the per-user profiles a
// signed-in account chooses between, and the cookie naming the active one.
package learner

import (
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("learner not found")
	ErrInvalidDisplayName = errors.New("display name must be 1 to 64 characters")
)

const MaxDisplayNameLength = 64

type Learner struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}
