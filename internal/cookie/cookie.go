// Package cookie issues and clears the first-party cookies the portal owns:
// the session cookie, the supabase access token and the active learner.
package cookie

import (
	"net/http"
	"strings"
	"time"
)

// Options defines how a cookie is issued.
type Options struct {
	Path     string
	Domain   string // must stay empty for __Host- cookies
	Secure   bool
	SameSite http.SameSite
}

// normalize applies the defaults every portal cookie shares.
func (o Options) normalize(name string) Options {
	if o.Path == "" || strings.HasPrefix(name, "__Host-") {
		o.Path = "/"
	}
	if strings.HasPrefix(name, "__Host-") {
		o.Domain = ""
		o.Secure = true
	}
	if o.SameSite == 0 {
		o.SameSite = http.SameSiteLaxMode
	}
	return o
}

// Set issues an HttpOnly cookie that expires at expiresAt.
func Set(w http.ResponseWriter, name, value string, expiresAt time.Time, opts Options) {
	opts = opts.normalize(name)

	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     opts.Path,
		Domain:   opts.Domain,
		Expires:  expiresAt,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

// Clear tells the client to drop the cookie.
func Clear(w http.ResponseWriter, name string, opts Options) {
	opts = opts.normalize(name)

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     opts.Path,
		Domain:   opts.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	})
}

// Reader is the read side of a request's cookie jar. *http.Request satisfies it.
type Reader interface {
	Cookie(name string) (*http.Cookie, error)
}

// Value returns the cookie value, or "" when the cookie is absent.
func Value(r Reader, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
