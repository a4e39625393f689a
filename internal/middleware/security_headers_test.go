package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestContentSecurityPolicy(t *testing.T) {
	assert.Equal(t,
		"default-src 'none'; img-src 'self' data:; frame-ancestors 'none'",
		ContentSecurityPolicy(nil))

	assert.Equal(t,
		"default-src 'none'; img-src 'self' data: https://images.example.com http://localhost:9000; frame-ancestors 'none'",
		ContentSecurityPolicy([]string{" images.example.com", "", "http://localhost:9000"}))
}

func TestSecurityHeaders_SetsAllHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders([]string{"cdn.example.com"}))
	r.GET("/test", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "https://cdn.example.com")
}

func TestSecurityHeaders_DoesNotBlockRequest(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders(nil))
	r.POST("/test", func(c *gin.Context) { c.String(http.StatusCreated, "created") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/test", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "created", rec.Body.String())
}
