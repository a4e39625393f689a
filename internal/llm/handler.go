package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"learner-portal/internal/learner"
	"learner-portal/internal/logger"
	"learner-portal/internal/viewer"
)

type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// LearnerLookup resolves the active learner of a user.
type LearnerLookup interface {
	Get(ctx context.Context, userID, learnerID string) (*learner.Learner, error)
}

type Handler struct {
	llm      Completer
	learners LearnerLookup
}

func NewHandler(llm Completer, learners LearnerLookup) *Handler {
	return &Handler{llm: llm, learners: learners}
}

func (h *Handler) RegisterRoutes(r gin.IRouter, guards ...gin.HandlerFunc) {
	r.POST("/api/assist", append(guards, h.assist)...)
}

type assistRequest struct {
	Prompt string `json:"prompt" binding:"required,max=4000"`
}

func (h *Handler) assist(c *gin.Context) {
	ctx := c.Request.Context()

	user := viewer.From(ctx).User
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	learnerID := learner.ReadCookie(c.Request)
	if learnerID == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "no learner selected"})
		return
	}
	l, err := h.learners.Get(ctx, user.ID, learnerID)
	if err != nil {
		if errors.Is(err, learner.ErrNotFound) {
			c.JSON(http.StatusConflict, gin.H{"error": "no learner selected"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load learner"})
		return
	}

	var req assistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	system := fmt.Sprintf("You are a patient tutor helping a learner named %s. Keep answers short and encouraging.", l.DisplayName)

	completion, err := h.llm.Complete(ctx, system, req.Prompt)
	if err != nil {
		if errors.Is(err, ErrEmptyPrompt) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is empty"})
			return
		}
		logger.WarnContext(ctx, "assist completion failed", map[string]any{
			"learner_id": l.ID,
			"error":      err.Error(),
		})
		c.JSON(http.StatusBadGateway, gin.H{"error": "assistant unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"completion": completion})
}
