package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"learner-portal/internal/cookie"
	"learner-portal/internal/utils"
)

const (
	stateCookieName = "__oauth_state"
	stateTTL        = 5 * time.Minute
)

func (h *Handler) generateState(c *gin.Context) (string, error) {
	state, err := utils.RandomString(32)
	if err != nil {
		return "", err
	}

	cookie.Set(c.Writer, stateCookieName, state, time.Now().Add(stateTTL), h.cookies)
	return state, nil
}

func validateState(c *gin.Context) bool {
	stateQuery := c.Query("state")
	if stateQuery == "" {
		return false
	}

	return cookie.Value(c.Request, stateCookieName) == stateQuery
}
