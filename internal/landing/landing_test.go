package landing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"learner-portal/internal/auth"
	"learner-portal/internal/learner"
	"learner-portal/internal/viewer"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type stubSessions struct {
	user *auth.User
	err  error
}

func (s stubSessions) CurrentUser(context.Context) (*auth.User, error) {
	return s.user, s.err
}

// countingCookies records how often the learner cookie is consulted.
type countingCookies struct {
	value string
	reads int
}

func (c *countingCookies) Cookie(name string) (*http.Cookie, error) {
	c.reads++
	if c.value == "" || name != learner.CookieName {
		return nil, http.ErrNoCookie
	}
	return &http.Cookie{Name: name, Value: c.value}, nil
}

var user1 = &auth.User{ID: "user-1"}

func TestResolveScenarios(t *testing.T) {
	tests := []struct {
		name     string
		sessions stubSessions
		cookie   string
		want     Destination
	}{
		{name: "A no session no cookie", want: Login},
		{name: "B no session with cookie", cookie: "learner-42", want: Login},
		{name: "C session no cookie", sessions: stubSessions{user: user1}, want: SelectProfile},
		{name: "D session with cookie", sessions: stubSessions{user: user1}, cookie: "learner-42", want: Dashboard},
		{name: "provider error", sessions: stubSessions{err: errors.New("timeout")}, cookie: "learner-42", want: Login},
		{name: "provider error with user", sessions: stubSessions{user: user1, err: errors.New("timeout")}, want: Login},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cookies := &countingCookies{value: tt.cookie}
			assert.Equal(t, tt.want, Resolve(context.Background(), tt.sessions, cookies))
		})
	}
}

func TestResolveSkipsCookieWhenUnauthenticated(t *testing.T) {
	cookies := &countingCookies{value: "learner-42"}

	Resolve(context.Background(), stubSessions{}, cookies)
	Resolve(context.Background(), stubSessions{err: errors.New("down")}, cookies)

	assert.Zero(t, cookies.reads)
}

func TestResolveIsIdempotent(t *testing.T) {
	cookies := &countingCookies{value: "learner-42"}
	sessions := stubSessions{user: user1}

	first := Resolve(context.Background(), sessions, cookies)
	second := Resolve(context.Background(), sessions, cookies)

	assert.Equal(t, first, second)
	assert.Equal(t, Dashboard, second)
}

func TestResolveEmptyCookieIsAbsent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: learner.CookieName, Value: ""})

	assert.Equal(t, SelectProfile, Resolve(context.Background(), stubSessions{user: user1}, req))
}

func serve(v *viewer.Viewer, cookieValue string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if v != nil {
			c.Request = c.Request.WithContext(viewer.With(c.Request.Context(), v))
		}
		c.Next()
	})
	r.GET("/", Handler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookieValue != "" {
		req.AddCookie(&http.Cookie{Name: learner.CookieName, Value: cookieValue})
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandlerRedirects(t *testing.T) {
	tests := []struct {
		name   string
		viewer *viewer.Viewer
		cookie string
		want   string
	}{
		{name: "no viewer", want: "/login"},
		{name: "anonymous with cookie", viewer: &viewer.Viewer{}, cookie: "learner-42", want: "/login"},
		{name: "signed in", viewer: &viewer.Viewer{User: user1}, want: "/select-profile"},
		{name: "signed in with learner", viewer: &viewer.Viewer{User: user1}, cookie: "learner-42", want: "/dashboard"},
		{name: "lookup failed", viewer: &viewer.Viewer{LookupErr: auth.ErrProviderUnavailable}, cookie: "learner-42", want: "/login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(tt.viewer, tt.cookie)
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Location"))
		})
	}
}
