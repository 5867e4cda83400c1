package auth

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/mehmetcc/stockroom/internal/config"
	"github.com/mehmetcc/stockroom/internal/csrf"
	"github.com/mehmetcc/stockroom/internal/password"
	"github.com/mehmetcc/stockroom/internal/token"
	"github.com/mehmetcc/stockroom/internal/user"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, email, company, plain, confirmation string) (*user.User, error)
	Login(ctx context.Context, email, plain string) (*Session, error)
}

type authService struct {
	userRepo user.UserRepo
	tokens   token.TokenService
	csrfCfg  *config.CSRFConfig
	logger   *zap.Logger
}

func NewAuthenticationService(userRepo user.UserRepo, tokens token.TokenService, csrfCfg *config.CSRFConfig, logger *zap.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		csrfCfg:  csrfCfg,
		logger:   logger,
	}
}

func (a *authService) Register(ctx context.Context, email, company, plain, confirmation string) (*user.User, error) {
	if plain != confirmation {
		return nil, ErrPasswordMismatch
	}

	hashed, err := password.Hash(plain)
	if err != nil {
		a.logger.Error("failed to hash password", zap.Error(err))
		return nil, err
	}

	return a.userRepo.Create(ctx, &user.UserDTO{
		Email:    email,
		Company:  company,
		Password: hashed,
	})
}

// Login verifies the credentials, issues the signed marker and derives the CSRF
// pair. The steps are strictly sequential; a failure at any point leaves no
// session behind.
func (a *authService) Login(ctx context.Context, email, plain string) (*Session, error) {
	usr, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// same error as a bad password
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := password.Verify(plain, usr.Password)
	if err != nil {
		a.logger.Error("stored hash rejected by verifier", zap.Error(err))
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	signed, expiresAt, err := a.tokens.Issue(usr.Email, usr.Company)
	if err != nil {
		return nil, err
	}

	csrfToken, csrfCookie, err := csrf.GeneratePair(a.csrfCfg.Key, a.csrfCfg.TTL)
	if err != nil {
		a.logger.Error("failed to generate csrf pair", zap.Error(err))
		return nil, err
	}

	return &Session{
		Identity:   Identity{Email: usr.Email, Company: usr.Company},
		Token:      signed,
		ExpiresAt:  expiresAt,
		CSRFToken:  base64.StdEncoding.EncodeToString(csrfToken),
		CSRFCookie: base64.StdEncoding.EncodeToString(csrfCookie),
	}, nil
}
