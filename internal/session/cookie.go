// Package session carries the session marker: the encoded identity token held
// by the client in a cookie. The marker itself is server-signed, so this layer
// only handles transport; it keeps no server-side state.
package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/mehmetcc/stockroom/internal/config"
)

const CookieName = "stockroom_session"

var ErrNoSession = errors.New("no session")

type Writer interface {
	Write(w http.ResponseWriter, marker string, ttl time.Duration)
	Clear(w http.ResponseWriter)
}

type cookieWriter struct {
	cfg *config.CookieConfig
}

func NewCookieWriter(cfg *config.CookieConfig) Writer {
	return &cookieWriter{cfg: cfg}
}

func (c *cookieWriter) Write(w http.ResponseWriter, marker string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    marker,
		Path:     "/",
		Domain:   c.cfg.CookieDomain,
		MaxAge:   int(ttl.Seconds()),
		Secure:   c.cfg.CookieSecure,
		HttpOnly: true,
		SameSite: parseSameSite(c.cfg.CookieSamesite),
	})
}

func (c *cookieWriter) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Domain:   c.cfg.CookieDomain,
		MaxAge:   -1,
		Secure:   c.cfg.CookieSecure,
		HttpOnly: true,
		SameSite: parseSameSite(c.cfg.CookieSamesite),
	})
}

// Read recovers the marker from the request. Absence is ErrNoSession; decoding
// and verification of the marker itself belong to the token layer.
func Read(r *http.Request) (string, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", ErrNoSession
	}
	return cookie.Value, nil
}

func parseSameSite(raw string) http.SameSite {
	switch raw {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
