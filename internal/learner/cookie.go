package learner

import (
	"net/http"
	"time"

	"learner-portal/internal/cookie"
)

const (
	CookieName = "learner_id"
	CookieTTL  = 30 * 24 * time.Hour
)

// ReadCookie returns the active learner id, or "" when none is selected.
func ReadCookie(r cookie.Reader) string {
	return cookie.Value(r, CookieName)
}

func SetCookie(w http.ResponseWriter, learnerID string, opts cookie.Options) {
	cookie.Set(w, CookieName, learnerID, time.Now().Add(CookieTTL), opts)
}

func ClearCookie(w http.ResponseWriter, opts cookie.Options) {
	cookie.Clear(w, CookieName, opts)
}
