// Package landing decides where a request to "/" goes.
package landing

import (
	"context"
	"net/http"

	"learner-portal/internal/auth"
	"learner-portal/internal/cookie"
	"learner-portal/internal/learner"
	"learner-portal/internal/viewer"

	"github.com/gin-gonic/gin"
)

type Destination string

const (
	Login         Destination = "/login"
	Dashboard     Destination = "/dashboard"
	SelectProfile Destination = "/select-profile"
)

// SessionLookup reports the authenticated user of the current request.
type SessionLookup interface {
	CurrentUser(ctx context.Context) (*auth.User, error)
}

// Resolve picks the destination. Authentication is checked first and the
// learner cookie is read only for authenticated callers. A failed lookup
// counts as signed out.
func Resolve(ctx context.Context, sessions SessionLookup, cookies cookie.Reader) Destination {
	user, err := sessions.CurrentUser(ctx)
	if err != nil || user == nil {
		return Login
	}

	if cookie.Value(cookies, learner.CookieName) != "" {
		return Dashboard
	}

	return SelectProfile
}

// Handler serves GET / using the Viewer resolved by the session middleware.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		dest := Resolve(ctx, viewer.From(ctx), c.Request)
		c.Redirect(http.StatusFound, string(dest))
	}
}
