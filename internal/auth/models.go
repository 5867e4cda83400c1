package auth

import "time"

// Identity is what a verified request resolves to.
type Identity struct {
	Email   string `json:"email"`
	Company string `json:"company"`
}

// Session bundles everything a successful login produces: the identity, the
// signed marker and the CSRF pair in transport (base64) form.
type Session struct {
	Identity   Identity
	Token      string
	ExpiresAt  time.Time
	CSRFToken  string
	CSRFCookie string
}
