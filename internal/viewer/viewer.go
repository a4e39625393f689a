// Package viewer carries the outcome of the per-request session lookup.
// The lookup runs once in middleware; everything downstream reads the
// Viewer from the request context instead of asking the provider again.
package viewer

import (
	"context"

	"learner-portal/internal/auth"
)

type Viewer struct {
	User *auth.User
	// LookupErr is the provider failure, if the lookup failed.
	LookupErr error
}

func (v *Viewer) Authenticated() bool {
	return v.User != nil
}

// CurrentUser returns the already resolved user.
func (v *Viewer) CurrentUser(context.Context) (*auth.User, error) {
	return v.User, v.LookupErr
}

type contextKey struct{}

func With(ctx context.Context, v *Viewer) context.Context {
	return context.WithValue(ctx, contextKey{}, v)
}

// From returns the request's Viewer, or an anonymous one when the
// middleware did not run.
func From(ctx context.Context) *Viewer {
	if v, ok := ctx.Value(contextKey{}).(*Viewer); ok && v != nil {
		return v
	}
	return &Viewer{}
}
