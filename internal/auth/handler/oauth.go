package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"learner-portal/internal/cookie"
	"learner-portal/internal/logger"
)

func (h *Handler) oauthLogin(c *gin.Context) {
	p, err := h.providers.Get(c.Param("provider"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown oauth provider"})
		return
	}

	state, err := h.generateState(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start login"})
		return
	}
	_, challenge, err := h.generatePKCE(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start login"})
		return
	}

	c.Redirect(http.StatusFound, p.AuthCodeURL(state, challenge))
}

func (h *Handler) oauthCallback(c *gin.Context) {
	providerName := c.Param("provider")
	ctx := c.Request.Context()

	p, err := h.providers.Get(providerName)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown oauth provider"})
		return
	}

	if !validateState(c) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid state"})
		return
	}

	// The provider reports cancelled or failed logins as an error parameter.
	if errParam := c.Query("error"); errParam != "" {
		logger.WarnContext(ctx, "oidc callback returned error", map[string]any{
			"provider": providerName,
			"error":    errParam,
			"desc":     c.Query("error_description"),
		})
		c.Redirect(http.StatusFound, "/login")
		return
	}

	code := c.Query("code")
	if code == "" {
		logger.Error("oidc callback missing code and error", map[string]any{"provider": providerName})
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	verifier := getPKCEVerifier(c)
	if verifier == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing pkce verifier"})
		return
	}

	identity, err := p.ExchangeCode(ctx, code, verifier)
	if err != nil {
		logger.WarnContext(ctx, "oidc code exchange failed", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
		return
	}

	user, err := h.resolver.Resolve(ctx, identity)
	if err != nil {
		logger.Error("resolve identity failed", map[string]any{
			"provider": providerName,
			"error":    err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve user"})
		return
	}

	grant, err := h.issuer.IssueFor(ctx, user)
	if err != nil {
		logger.Error("issue session failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist session"})
		return
	}

	cookie.Clear(c.Writer, stateCookieName, h.cookies)
	cookie.Clear(c.Writer, pkceCookieName, h.cookies)
	h.setGrant(c, grant)

	logger.InfoContext(ctx, "login success", map[string]any{
		"user_id":  user.ID,
		"provider": providerName,
		"ip":       c.ClientIP(),
	})

	c.Redirect(http.StatusFound, "/")
}
