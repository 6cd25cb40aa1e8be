package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

// carry copies cookies set on rec into a new request, like a browser would.
func carry(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 && c.Value != "" {
			req.AddCookie(c)
		}
	}
	return req
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestEstablish_RoundTrip(t *testing.T) {
	m := NewManager(testSecret, time.Hour, false)
	rec := httptest.NewRecorder()

	require.NoError(t, m.Establish(rec, 42))

	c := cookieNamed(rec, SessionCookie)
	require.NotNil(t, c)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, "/", c.Path)

	id, ok := m.CredentialID(carry(t, rec))
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestCredentialID_NoCookie(t *testing.T) {
	m := NewManager(testSecret, time.Hour, false)
	_, ok := m.CredentialID(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
}

func TestCredentialID_WrongSecret(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, NewManager("other-secret", time.Hour, false).Establish(rec, 42))

	_, ok := NewManager(testSecret, time.Hour, false).CredentialID(carry(t, rec))
	assert.False(t, ok)
}

func TestCredentialID_Expired(t *testing.T) {
	m := NewManager(testSecret, time.Hour, false)
	token, err := sign(Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audienceLogin},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		UserID: 42,
	}, []byte(testSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})

	_, ok := m.CredentialID(req)
	assert.False(t, ok)
}

func TestCredentialID_RejectsFlashToken(t *testing.T) {
	m := NewManager(testSecret, time.Hour, false)
	rec := httptest.NewRecorder()
	f := m.LoadFlash(httptest.NewRequest(http.MethodGet, "/", nil))
	f.Add("info", "hola")
	require.NoError(t, f.Commit(rec))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: cookieNamed(rec, FlashCookie).Value})

	_, ok := m.CredentialID(req)
	assert.False(t, ok, "a flash token must not authenticate")
}

func TestDestroy_ExpiresCookie(t *testing.T) {
	m := NewManager(testSecret, time.Hour, true)
	rec := httptest.NewRecorder()

	m.Destroy(rec)
	m.Destroy(rec)

	c := cookieNamed(rec, SessionCookie)
	require.NotNil(t, c)
	assert.Equal(t, "", c.Value)
	assert.Less(t, c.MaxAge, 0)
	assert.True(t, c.Secure)
}
