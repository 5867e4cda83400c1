package auth

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mehmetcc/stockroom/internal/config"
	"github.com/mehmetcc/stockroom/internal/csrf"
	"github.com/mehmetcc/stockroom/internal/session"
	"github.com/mehmetcc/stockroom/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMiddleware(t *testing.T, tokenTTL time.Duration) (*Middleware, token.TokenService) {
	t.Helper()
	tokens := token.NewTokenService(zap.NewNop(), &config.TokenConfig{
		Secret: []byte("test-secret"),
		TTL:    tokenTTL,
	})
	return NewMiddleware(tokens, testCSRFConfig, zap.NewNop()), tokens
}

// authedRequest builds a request carrying a full set of valid artifacts.
func authedRequest(t *testing.T, tokens token.TokenService) *http.Request {
	t.Helper()

	signed, _, err := tokens.Issue("jane@example.com", "acme")
	require.NoError(t, err)

	csrfToken, csrfCookie, err := csrf.GeneratePair(testCSRFConfig.Key, testCSRFConfig.TTL)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/products", nil)
	req.Header.Set(CSRFTokenHeader, base64.StdEncoding.EncodeToString(csrfToken))
	req.Header.Set(CSRFCookieHeader, base64.StdEncoding.EncodeToString(csrfCookie))
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: signed})
	return req
}

func serveWithIdentityProbe(m *Middleware, req *http.Request) (*httptest.ResponseRecorder, *Identity) {
	var captured *Identity
	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity, ok := IdentityFromContext(r.Context()); ok {
			captured = &identity
		}
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, captured
}

func TestRequireAuth_Success(t *testing.T) {
	t.Parallel()

	m, tokens := newTestMiddleware(t, time.Hour)
	rec, identity := serveWithIdentityProbe(m, authedRequest(t, tokens))

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, identity)
	assert.Equal(t, "jane@example.com", identity.Email)
	assert.Equal(t, "acme", identity.Company)
}

func TestRequireAuth_MissingCSRFToken(t *testing.T) {
	t.Parallel()

	m, tokens := newTestMiddleware(t, time.Hour)
	req := authedRequest(t, tokens)
	req.Header.Del(CSRFTokenHeader)

	rec, identity := serveWithIdentityProbe(m, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, identity)
}

func TestRequireAuth_MissingCSRFCookie(t *testing.T) {
	t.Parallel()

	m, tokens := newTestMiddleware(t, time.Hour)
	req := authedRequest(t, tokens)
	req.Header.Del(CSRFCookieHeader)

	rec, identity := serveWithIdentityProbe(m, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, identity)
}

func TestRequireAuth_BadCSRFEncoding(t *testing.T) {
	t.Parallel()

	m, tokens := newTestMiddleware(t, time.Hour)
	req := authedRequest(t, tokens)
	req.Header.Set(CSRFTokenHeader, "%%% not base64 %%%")

	rec, _ := serveWithIdentityProbe(m, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// A token and cookie from two different logins must not verify as a pair.
func TestRequireAuth_SwappedPair(t *testing.T) {
	t.Parallel()

	m, tokens := newTestMiddleware(t, time.Hour)
	req := authedRequest(t, tokens)

	otherToken, _, err := csrf.GeneratePair(testCSRFConfig.Key, testCSRFConfig.TTL)
	require.NoError(t, err)
	req.Header.Set(CSRFTokenHeader, base64.StdEncoding.EncodeToString(otherToken))

	rec, identity := serveWithIdentityProbe(m, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, identity)
}

func TestRequireAuth_NoSessionCookie(t *testing.T) {
	t.Parallel()

	m, _ := newTestMiddleware(t, time.Hour)

	csrfToken, csrfCookie, err := csrf.GeneratePair(testCSRFConfig.Key, testCSRFConfig.TTL)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/products", nil)
	req.Header.Set(CSRFTokenHeader, base64.StdEncoding.EncodeToString(csrfToken))
	req.Header.Set(CSRFCookieHeader, base64.StdEncoding.EncodeToString(csrfCookie))

	rec, _ := serveWithIdentityProbe(m, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_ExpiredSessionToken(t *testing.T) {
	t.Parallel()

	m, tokens := newTestMiddleware(t, -1*time.Minute)
	rec, identity := serveWithIdentityProbe(m, authedRequest(t, tokens))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, identity)
}

func TestRequireAuth_ForgedSessionToken(t *testing.T) {
	t.Parallel()

	m, tokens := newTestMiddleware(t, time.Hour)

	forger := token.NewTokenService(zap.NewNop(), &config.TokenConfig{
		Secret: []byte("attacker-secret"),
		TTL:    time.Hour,
	})
	forged, _, err := forger.Issue("jane@example.com", "acme")
	require.NoError(t, err)

	req := authedRequest(t, tokens)
	req.Header.Del("Cookie")
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: forged})

	rec, identity := serveWithIdentityProbe(m, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, identity)
}
