package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learner-portal/internal/auth"
	"learner-portal/internal/cookie"
	"learner-portal/internal/learner"
	"learner-portal/internal/viewer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type memRepo struct {
	learners []learner.Learner
	err      error
}

func (m *memRepo) ListByUser(_ context.Context, userID string) ([]learner.Learner, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := []learner.Learner{}
	for _, l := range m.learners {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memRepo) Get(_ context.Context, userID, learnerID string) (*learner.Learner, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, l := range m.learners {
		if l.ID == learnerID && l.UserID == userID {
			return &l, nil
		}
	}
	return nil, learner.ErrNotFound
}

func (m *memRepo) Create(_ context.Context, userID, displayName string) (*learner.Learner, error) {
	if strings.TrimSpace(displayName) == "" {
		return nil, learner.ErrInvalidDisplayName
	}
	l := learner.Learner{ID: "new-id", UserID: userID, DisplayName: displayName, CreatedAt: time.Now()}
	m.learners = append(m.learners, l)
	return &l, nil
}

var ada = &auth.User{ID: "user-ada", Email: "ada@example.com"}

func seeded() *memRepo {
	return &memRepo{learners: []learner.Learner{
		{ID: "l-ada", UserID: "user-ada", DisplayName: "Ada Jr"},
		{ID: "l-bob", UserID: "user-bob", DisplayName: "Bobby"},
	}}
}

func newRouter(repo Repository, user *auth.User) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		ctx := viewer.With(c.Request.Context(), &viewer.Viewer{User: user})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	pass := func(c *gin.Context) { c.Next() }
	NewHandler(repo, cookie.Options{}).RegisterRoutes(r, pass, pass)
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func withLearnerCookie(req *http.Request, id string) *http.Request {
	req.AddCookie(&http.Cookie{Name: learner.CookieName, Value: id})
	return req
}

func TestListProfiles_OnlyOwn(t *testing.T) {
	rec := serve(newRouter(seeded(), ada), httptest.NewRequest(http.MethodGet, "/select-profile", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "l-ada")
	assert.NotContains(t, rec.Body.String(), "l-bob")
}

func TestListProfiles_Anonymous(t *testing.T) {
	rec := serve(newRouter(seeded(), nil), httptest.NewRequest(http.MethodGet, "/select-profile", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSelectProfile(t *testing.T) {
	r := newRouter(seeded(), ada)

	req := httptest.NewRequest(http.MethodPost, "/select-profile", strings.NewReader(`{"learner_id":"l-ada"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(r, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, learner.CookieName, cookies[0].Name)
	assert.Equal(t, "l-ada", cookies[0].Value)
	assert.Equal(t, "/", cookies[0].Path)
	assert.True(t, cookies[0].HttpOnly)
}

func TestSelectProfile_ForeignLearner(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/select-profile", strings.NewReader(`{"learner_id":"l-bob"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(newRouter(seeded(), ada), req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestSelectProfile_MissingID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/select-profile", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(newRouter(seeded(), ada), req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateLearner(t *testing.T) {
	repo := seeded()
	r := newRouter(repo, ada)

	req := httptest.NewRequest(http.MethodPost, "/learners", strings.NewReader(`{"display_name":"Grace"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(r, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"display_name":"Grace"`)
	assert.Len(t, repo.learners, 3)

	req = httptest.NewRequest(http.MethodPost, "/learners", strings.NewReader(`{"display_name":"   "}`))
	req.Header.Set("Content-Type", "application/json")
	rec = serve(r, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDashboard(t *testing.T) {
	tests := []struct {
		name         string
		cookie       string
		wantCode     int
		wantLocation string
		wantCleared  bool
	}{
		{name: "no learner selected", wantCode: http.StatusFound, wantLocation: "/select-profile"},
		{name: "own learner", cookie: "l-ada", wantCode: http.StatusOK},
		{name: "foreign learner", cookie: "l-bob", wantCode: http.StatusFound, wantLocation: "/select-profile", wantCleared: true},
		{name: "deleted learner", cookie: "l-gone", wantCode: http.StatusFound, wantLocation: "/select-profile", wantCleared: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			if tt.cookie != "" {
				req = withLearnerCookie(req, tt.cookie)
			}
			rec := serve(newRouter(seeded(), ada), req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))

			cleared := false
			for _, c := range rec.Result().Cookies() {
				if c.Name == learner.CookieName && c.MaxAge < 0 {
					cleared = true
				}
			}
			assert.Equal(t, tt.wantCleared, cleared)

			if tt.wantCode == http.StatusOK {
				assert.Contains(t, rec.Body.String(), `"email":"ada@example.com"`)
				assert.Contains(t, rec.Body.String(), `"display_name":"Ada Jr"`)
			}
		})
	}
}

func TestDashboard_RepositoryFailure(t *testing.T) {
	req := withLearnerCookie(httptest.NewRequest(http.MethodGet, "/dashboard", nil), "l-ada")
	rec := serve(newRouter(&memRepo{err: errors.New("db down")}, ada), req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}
