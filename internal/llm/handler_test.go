package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"learner-portal/internal/auth"
	"learner-portal/internal/learner"
	"learner-portal/internal/viewer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubCompleter struct {
	system, prompt string
	out            string
	err            error
}

func (s *stubCompleter) Complete(_ context.Context, system, prompt string) (string, error) {
	s.system, s.prompt = system, prompt
	return s.out, s.err
}

type stubLearners map[string]learner.Learner

func (s stubLearners) Get(_ context.Context, userID, learnerID string) (*learner.Learner, error) {
	l, ok := s[learnerID]
	if !ok || l.UserID != userID {
		return nil, learner.ErrNotFound
	}
	return &l, nil
}

var learners = stubLearners{"l-1": {ID: "l-1", UserID: "u-1", DisplayName: "Mia"}}

func assist(h *Handler, user *auth.User, learnerID, body string) *httptest.ResponseRecorder {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(viewer.With(c.Request.Context(), &viewer.Viewer{User: user}))
		c.Next()
	})
	h.RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodPost, "/api/assist", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if learnerID != "" {
		req.AddCookie(&http.Cookie{Name: learner.CookieName, Value: learnerID})
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAssist(t *testing.T) {
	c := &stubCompleter{out: "Count on your fingers."}
	rec := assist(NewHandler(c, learners), &auth.User{ID: "u-1"}, "l-1", `{"prompt":"what is 3+4?"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"completion":"Count on your fingers."}`, rec.Body.String())
	assert.Equal(t, "what is 3+4?", c.prompt)
	assert.Contains(t, c.system, "Mia")
}

func TestAssist_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		user     *auth.User
		learner  string
		body     string
		err      error
		wantCode int
	}{
		{name: "anonymous", learner: "l-1", body: `{"prompt":"hi"}`, wantCode: http.StatusUnauthorized},
		{name: "no learner", user: &auth.User{ID: "u-1"}, body: `{"prompt":"hi"}`, wantCode: http.StatusConflict},
		{name: "foreign learner", user: &auth.User{ID: "u-2"}, learner: "l-1", body: `{"prompt":"hi"}`, wantCode: http.StatusConflict},
		{name: "missing prompt", user: &auth.User{ID: "u-1"}, learner: "l-1", body: `{}`, wantCode: http.StatusBadRequest},
		{name: "blank prompt", user: &auth.User{ID: "u-1"}, learner: "l-1", body: `{"prompt":"  "}`, err: ErrEmptyPrompt, wantCode: http.StatusBadRequest},
		{name: "upstream down", user: &auth.User{ID: "u-1"}, learner: "l-1", body: `{"prompt":"hi"}`, err: errors.New("timeout"), wantCode: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := assist(NewHandler(&stubCompleter{err: tt.err}, learners), tt.user, tt.learner, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}
