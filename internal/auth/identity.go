package auth

// Identity is a normalized external identity returned by an OIDC provider.
// It contains facts only, no decisions.
type Identity struct {
	Provider       string // e.g. "google", "keycloak"
	ProviderUserID string // provider-scoped subject
	Email          string
	EmailVerified  bool
}
