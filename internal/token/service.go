package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mehmetcc/stockroom/internal/config"
	"go.uber.org/zap"
)

type TokenService interface {
	Issue(email, company string) (string, time.Time, error)
	Validate(tokenString string) (*Claims, error)
}

type tokenService struct {
	logger     *zap.Logger
	cfg        *config.TokenConfig
	signingAlg jwt.SigningMethod
}

func NewTokenService(logger *zap.Logger, cfg *config.TokenConfig) TokenService {
	return &tokenService{
		logger:     logger,
		cfg:        cfg,
		signingAlg: jwt.SigningMethodHS256,
	}
}

func (s *tokenService) Issue(email, company string) (string, time.Time, error) {
	issuedAt := time.Now().UTC()
	expiresAt := issuedAt.Add(s.cfg.TTL)
	claims := &Claims{
		Sub:     email,
		Company: company,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
		},
	}

	signed, err := jwt.NewWithClaims(s.signingAlg, claims).SignedString(s.cfg.Secret)
	if err != nil {
		s.logger.Error("failed to sign token", zap.Error(err))
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Validate re-parses the opaque string and recomputes the signature. Malformed
// input, a bad signature and an elapsed expiry come back as distinct errors so
// the caller can log them apart before collapsing all three into a 401.
func (s *tokenService) Validate(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{s.signingAlg.Alg()}),
		jwt.WithExpirationRequired(),
	)

	var claims Claims
	tkn, err := parser.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.cfg.Secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformedToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrSignatureInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		default:
			return nil, ErrMalformedToken
		}
	}
	if !tkn.Valid {
		return nil, ErrSignatureInvalid
	}
	return &claims, nil
}
