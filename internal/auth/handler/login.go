package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"learner-portal/internal/auth"
	"learner-portal/internal/logger"
)

func (h *Handler) Login(c *gin.Context) {
	form, ok := bindCredentials(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	grant, err := h.backend.SignIn(ctx, form.Email, form.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		case errors.Is(err, auth.ErrProviderUnavailable):
			logger.WarnContext(ctx, "sign in failed", map[string]any{"error": err.Error()})
			c.JSON(http.StatusBadGateway, gin.H{"error": "identity provider unavailable"})
		default:
			logger.Error("sign in failed", map[string]any{"error": err.Error()})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "session error"})
		}
		return
	}

	h.setGrant(c, grant)

	c.JSON(http.StatusOK, gin.H{"status": "logged_in", "redirect": "/"})
}
