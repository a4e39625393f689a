package credentials

// Credential is a password credential joined with its owning user.
type Credential struct {
	UserID       string
	Email        string
	PasswordHash string
	HashVersion  string
}
