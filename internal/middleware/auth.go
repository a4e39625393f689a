package middleware

import (
	"net/http"

	"learner-portal/internal/auth"
	"learner-portal/internal/logger"
	"learner-portal/internal/viewer"
)

// LoadViewer resolves the session once per request and stores the result
// as a viewer.Viewer in the request context. Provider failures are logged
// and recorded; the request continues as anonymous.
func LoadViewer(provider auth.SessionProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := provider.CurrentUser(r.Context(), r)
			if err != nil {
				logger.WarnContext(r.Context(), "session lookup failed", map[string]any{
					"error": err.Error(),
					"path":  r.URL.Path,
				})
				user = nil
			}

			v := &viewer.Viewer{User: user, LookupErr: err}
			next.ServeHTTP(w, r.WithContext(viewer.With(r.Context(), v)))
		})
	}
}

// RequireAuth answers 401 for API calls without an authenticated viewer.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !viewer.From(r.Context()).Authenticated() {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"authentication required"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RedirectAnonymous sends page requests without an authenticated viewer
// to loginPath.
func RedirectAnonymous(loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !viewer.From(r.Context()).Authenticated() {
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
