package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/mehmetcc/stockroom/internal/config"
	"github.com/mehmetcc/stockroom/internal/csrf"
	"github.com/mehmetcc/stockroom/internal/httpx"
	"github.com/mehmetcc/stockroom/internal/session"
	"github.com/mehmetcc/stockroom/internal/token"
	"go.uber.org/zap"
)

const (
	CSRFTokenHeader  = "x-csrf-token"
	CSRFCookieHeader = "x-csrf-token-cookie"
)

type identityContextKey struct{}

// IdentityFromContext extracts the caller identity placed by RequireAuth.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityContextKey{}).(Identity)
	return identity, ok
}

type Middleware struct {
	logger  *zap.Logger
	tokens  token.TokenService
	csrfCfg *config.CSRFConfig
}

func NewMiddleware(tokens token.TokenService, csrfCfg *config.CSRFConfig, logger *zap.Logger) *Middleware {
	return &Middleware{
		logger:  logger,
		tokens:  tokens,
		csrfCfg: csrfCfg,
	}
}

// RequireAuth recovers the caller's identity from the CSRF pair plus the
// session marker. The checks form a strict AND-chain: the first failure short
// circuits, and every failure is the same 401 to the outside while the actual
// cause is logged.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		csrfToken := r.Header.Get(CSRFTokenHeader)
		if csrfToken == "" {
			m.logger.Warn("missing csrf token", zap.String("path", r.URL.Path))
			httpx.WriteUnauthorized(w)
			return
		}
		csrfCookie := r.Header.Get(CSRFCookieHeader)
		if csrfCookie == "" {
			m.logger.Warn("missing csrf cookie", zap.String("path", r.URL.Path))
			httpx.WriteUnauthorized(w)
			return
		}

		tokenBytes, err := base64.StdEncoding.DecodeString(csrfToken)
		if err != nil {
			m.logger.Warn("invalid csrf token encoding", zap.String("path", r.URL.Path))
			httpx.WriteUnauthorized(w)
			return
		}
		cookieBytes, err := base64.StdEncoding.DecodeString(csrfCookie)
		if err != nil {
			m.logger.Warn("invalid csrf cookie encoding", zap.String("path", r.URL.Path))
			httpx.WriteUnauthorized(w)
			return
		}

		if !csrf.VerifyPair(m.csrfCfg.Key, tokenBytes, cookieBytes) {
			m.logger.Warn("invalid csrf pair", zap.String("path", r.URL.Path))
			httpx.WriteUnauthorized(w)
			return
		}

		marker, err := session.Read(r)
		if err != nil {
			m.logger.Warn("no session", zap.String("path", r.URL.Path))
			httpx.WriteUnauthorized(w)
			return
		}

		claims, err := m.tokens.Validate(marker)
		if err != nil {
			switch {
			case errors.Is(err, token.ErrExpired):
				m.logger.Warn("session token expired", zap.String("path", r.URL.Path))
			case errors.Is(err, token.ErrSignatureInvalid):
				m.logger.Warn("session token signature invalid", zap.String("path", r.URL.Path))
			default:
				m.logger.Warn("session token malformed", zap.String("path", r.URL.Path))
			}
			httpx.WriteUnauthorized(w)
			return
		}

		identity := Identity{Email: claims.Sub, Company: claims.Company}
		ctx := context.WithValue(r.Context(), identityContextKey{}, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
