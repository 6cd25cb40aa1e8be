// Package session keeps the authenticated identity and pending notices in
// signed cookies.
package session

import (
	"net/http"
	"time"
)

const (
	SessionCookie = "session"
	FlashCookie   = "flash"

	flashTTL = 10 * time.Minute
)

// Manager issues and reads the session and flash cookies.
type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewManager signs cookies with secret. secure marks them HTTPS-only.
func NewManager(secret string, ttl time.Duration, secure bool) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, secure: secure}
}

// Establish binds the client to credentialID, replacing any previous session.
func (m *Manager) Establish(w http.ResponseWriter, credentialID int64) error {
	token, err := sign(Claims{RegisteredClaims: registered(audienceLogin, m.ttl), UserID: credentialID}, m.secret)
	if err != nil {
		return err
	}
	m.setCookie(w, SessionCookie, token, int(m.ttl.Seconds()))
	return nil
}

// Destroy expires the session cookie. It is safe to call without a session.
func (m *Manager) Destroy(w http.ResponseWriter) {
	m.setCookie(w, SessionCookie, "", -1)
}

// CredentialID returns the credential bound to the request, if the session
// cookie is present and valid.
func (m *Manager) CredentialID(r *http.Request) (int64, bool) {
	c, err := r.Cookie(SessionCookie)
	if err != nil || c.Value == "" {
		return 0, false
	}

	var claims Claims
	if err := parse(c.Value, &claims, audienceLogin, m.secret); err != nil {
		return 0, false
	}
	return claims.UserID, claims.UserID > 0
}

func (m *Manager) setCookie(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
