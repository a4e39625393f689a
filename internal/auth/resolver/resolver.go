package resolver

import (
	"context"

	"learner-portal/internal/auth"
)

// Resolver decides which internal user an external identity belongs to.
type Resolver interface {
	Resolve(ctx context.Context, identity *auth.Identity) (*auth.User, error)
}
