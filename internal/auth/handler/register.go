package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"learner-portal/internal/auth"
	"learner-portal/internal/auth/credentials"
	"learner-portal/internal/logger"
)

func (h *Handler) Register(c *gin.Context) {
	form, ok := bindCredentials(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	grant, err := h.backend.SignUp(ctx, form.Email, form.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrAlreadyRegistered):
			c.JSON(http.StatusConflict, gin.H{"error": "account already exists"})
		case errors.Is(err, auth.ErrConfirmationRequired):
			c.JSON(http.StatusAccepted, gin.H{"status": "confirmation_required"})
		case errors.Is(err, credentials.ErrPasswordTooShort), errors.Is(err, credentials.ErrPasswordTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, auth.ErrProviderUnavailable):
			logger.WarnContext(ctx, "sign up failed", map[string]any{"error": err.Error()})
			c.JSON(http.StatusBadGateway, gin.H{"error": "identity provider unavailable"})
		default:
			logger.Error("sign up failed", map[string]any{"error": err.Error()})
			c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		}
		return
	}

	h.setGrant(c, grant)

	c.JSON(http.StatusCreated, gin.H{"status": "registered", "redirect": "/"})
}
