// Package handler serves the learner profile pages: listing and selecting
// profiles, creating them, and the dashboard of the active one.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"learner-portal/internal/auth"
	"learner-portal/internal/cookie"
	"learner-portal/internal/landing"
	"learner-portal/internal/learner"
	"learner-portal/internal/logger"
	"learner-portal/internal/viewer"
)

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]learner.Learner, error)
	Get(ctx context.Context, userID, learnerID string) (*learner.Learner, error)
	Create(ctx context.Context, userID, displayName string) (*learner.Learner, error)
}

type Handler struct {
	learners Repository
	cookies  cookie.Options
}

func NewHandler(learners Repository, cookies cookie.Options) *Handler {
	return &Handler{learners: learners, cookies: cookies}
}

// RegisterRoutes mounts the GET pages behind page and the POST endpoints
// behind api.
func (h *Handler) RegisterRoutes(r gin.IRouter, page, api gin.HandlerFunc) {
	r.GET(string(landing.SelectProfile), page, h.listProfiles)
	r.GET(string(landing.Dashboard), page, h.dashboard)

	r.POST(string(landing.SelectProfile), api, h.selectProfile)
	r.POST("/learners", api, h.createLearner)
}

func currentUser(c *gin.Context) *auth.User {
	u := viewer.From(c.Request.Context()).User
	if u == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	}
	return u
}

func (h *Handler) listProfiles(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	list, err := h.learners.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		logger.Error("list learners failed", map[string]any{"user_id": user.ID, "error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profiles"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"learners": list,
		"active":   learner.ReadCookie(c.Request),
	})
}

type selectRequest struct {
	LearnerID string `json:"learner_id" binding:"required"`
}

func (h *Handler) selectProfile(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req selectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	l, err := h.learners.Get(c.Request.Context(), user.ID, req.LearnerID)
	if err != nil {
		if errors.Is(err, learner.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "learner not found"})
			return
		}
		logger.Error("get learner failed", map[string]any{"user_id": user.ID, "error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to select profile"})
		return
	}

	learner.SetCookie(c.Writer, l.ID, h.cookies)
	c.Redirect(http.StatusSeeOther, string(landing.Dashboard))
}

type createRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
}

func (h *Handler) createLearner(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	l, err := h.learners.Create(c.Request.Context(), user.ID, req.DisplayName)
	if err != nil {
		if errors.Is(err, learner.ErrInvalidDisplayName) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("create learner failed", map[string]any{"user_id": user.ID, "error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create profile"})
		return
	}

	c.JSON(http.StatusCreated, l)
}

func (h *Handler) dashboard(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		return
	}

	id := learner.ReadCookie(c.Request)
	if id == "" {
		c.Redirect(http.StatusFound, string(landing.SelectProfile))
		return
	}

	l, err := h.learners.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, learner.ErrNotFound) {
			learner.ClearCookie(c.Writer, h.cookies)
			c.Redirect(http.StatusFound, string(landing.SelectProfile))
			return
		}
		logger.Error("load dashboard failed", map[string]any{"user_id": user.ID, "error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load dashboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "learner": l})
}
