package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"learner-portal/internal/auth"
	"learner-portal/internal/auth/provider"
	"learner-portal/internal/auth/resolver"
	"learner-portal/internal/cookie"
	"learner-portal/internal/learner"
	"learner-portal/internal/logger"
)

// SessionIssuer starts a session for a user resolved outside the backend's
// own sign-in, i.e. after an OIDC callback.
type SessionIssuer interface {
	IssueFor(ctx context.Context, user *auth.User) (*auth.Grant, error)
}

type Handler struct {
	backend auth.Backend
	cookies cookie.Options

	providers *provider.Registry
	resolver  resolver.Resolver
	issuer    SessionIssuer
}

func NewHandler(backend auth.Backend, cookies cookie.Options) *Handler {
	return &Handler{
		backend:   backend,
		cookies:   cookies,
		providers: provider.NewRegistry(),
	}
}

// WithOAuth enables the /oauth routes.
func (h *Handler) WithOAuth(registry *provider.Registry, resolver resolver.Resolver, issuer SessionIssuer) *Handler {
	h.providers = registry
	h.resolver = resolver
	h.issuer = issuer
	return h
}

func (h *Handler) oauthEnabled() bool {
	return h.issuer != nil && h.resolver != nil && len(h.providers.Names()) > 0
}

// RegisterRoutes mounts the login page and the /auth and /oauth groups.
// guards run in front of every credential-accepting route.
func (h *Handler) RegisterRoutes(r gin.IRouter, guards ...gin.HandlerFunc) {
	r.GET("/login", h.loginOptions)

	g := r.Group("/auth", guards...)
	g.POST("/login", h.Login)
	g.POST("/register", h.Register)
	g.POST("/logout", h.Logout)

	if h.oauthEnabled() {
		o := r.Group("/oauth", guards...)
		o.GET("/login/:provider", h.oauthLogin)
		o.GET("/callback/:provider", h.oauthCallback)
	}
}

func (h *Handler) loginOptions(c *gin.Context) {
	providers := []string{}
	if h.oauthEnabled() {
		providers = h.providers.Names()
	}

	c.JSON(http.StatusOK, gin.H{
		"login":     "/auth/login",
		"register":  "/auth/register",
		"providers": providers,
	})
}

func (h *Handler) setGrant(c *gin.Context, g *auth.Grant) {
	cookie.Set(c.Writer, g.CookieName, g.Value, g.ExpiresAt, h.cookies)
}

// Logout ends the backend session and drops every portal cookie. It always
// answers 204.
func (h *Handler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.backend.SignOut(ctx, c.Request); err != nil {
		logger.WarnContext(ctx, "sign out failed", map[string]any{
			"error": err.Error(),
			"ip":    c.ClientIP(),
		})
	}

	for _, name := range h.backend.CookieNames() {
		cookie.Clear(c.Writer, name, h.cookies)
	}
	learner.ClearCookie(c.Writer, h.cookies)

	c.Status(http.StatusNoContent)
}
