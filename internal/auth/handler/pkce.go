package handler

import (
	"crypto/sha256"
	"encoding/base64"
	"time"

	"github.com/gin-gonic/gin"

	"learner-portal/internal/cookie"
	"learner-portal/internal/utils"
)

const (
	pkceCookieName = "__oauth_pkce"
	pkceTTL        = 5 * time.Minute
)

// S256 challenge for verifier.
func pkceChallenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

func (h *Handler) generatePKCE(c *gin.Context) (verifier string, challenge string, err error) {
	verifier, err = utils.RandomString(32)
	if err != nil {
		return "", "", err
	}

	cookie.Set(c.Writer, pkceCookieName, verifier, time.Now().Add(pkceTTL), h.cookies)
	return verifier, pkceChallenge(verifier), nil
}

func getPKCEVerifier(c *gin.Context) string {
	return cookie.Value(c.Request, pkceCookieName)
}
