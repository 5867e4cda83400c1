package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/mehmetcc/stockroom/internal/httpx"
	"github.com/mehmetcc/stockroom/internal/session"
	"github.com/mehmetcc/stockroom/internal/user"
	"go.uber.org/zap"
)

type AuthenticationHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Routes() chi.Router
}

type authenticationHandler struct {
	logger      *zap.Logger
	authService AuthService
	sessions    session.Writer
	validator   *validator.Validate
}

func NewAuthenticationHandler(authService AuthService, sessions session.Writer, l *zap.Logger) AuthenticationHandler {
	v := validator.New(validator.WithRequiredStructEnabled())
	return &authenticationHandler{
		logger:      l,
		authService: authService,
		sessions:    sessions,
		validator:   v,
	}
}

func (a *authenticationHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/register", a.Register)
	r.Post("/login", a.Login)
	r.Delete("/logout", a.Logout)
	return r
}

func (a *authenticationHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var req registerUserRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		a.logger.Warn("failed to read register request body", zap.Error(err))
		return
	}

	if err := a.validator.Struct(req); err != nil {
		a.logger.Warn("register validation failed", zap.Error(err))
		fields := httpx.ValidationDetails(err)
		httpx.WriteError(w, http.StatusUnprocessableEntity, httpx.ErrorResponse[[]httpx.FieldError]{
			Code:    httpx.ErrValidationFailed,
			Message: "validation failed",
			Details: fields,
		})
		return
	}

	usr, err := a.authService.Register(ctx, req.Email, req.Company, req.Password, req.PasswordConfirmation)
	if err != nil {
		switch {
		case errors.Is(err, ErrPasswordMismatch):
			httpx.WriteError(w, http.StatusBadRequest, httpx.ErrorResponse[any]{
				Code:    httpx.ErrBadRequest,
				Message: ErrPasswordMismatch.Error(),
			})
		case errors.Is(err, user.ErrDuplicateEmail):
			a.logger.Debug("duplicate email", zap.String("email", req.Email))
			httpx.WriteError(w, http.StatusConflict, httpx.ErrorResponse[any]{
				Code:    httpx.ErrConflict,
				Message: "email already exists",
			})
		default:
			a.logger.Error("failed to register user", zap.Error(err))
			httpx.WriteError(w, http.StatusInternalServerError, httpx.ErrorResponse[any]{
				Code:    httpx.ErrInternal,
				Message: "internal server error",
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, usr)
}

func (a *authenticationHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	var req loginRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		a.logger.Warn("failed to read login request body", zap.Error(err))
		return
	}

	if err := a.validator.Struct(req); err != nil {
		a.logger.Warn("login validation failed", zap.Error(err))
		fields := httpx.ValidationDetails(err)
		httpx.WriteError(w, http.StatusUnprocessableEntity, httpx.ErrorResponse[[]httpx.FieldError]{
			Code:    httpx.ErrValidationFailed,
			Message: "validation failed",
			Details: fields,
		})
		return
	}

	sess, err := a.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			a.logger.Debug("login rejected", zap.String("email", req.Email))
			httpx.WriteError(w, http.StatusUnauthorized, httpx.ErrorResponse[any]{
				Code:    httpx.ErrUnauthorized,
				Message: ErrInvalidCredentials.Error(),
			})
			return
		}
		a.logger.Error("login failed", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, httpx.ErrorResponse[any]{
			Code:    httpx.ErrInternal,
			Message: "internal server error",
		})
		return
	}

	// marker cookie plus the csrf pair; the pair travels in headers both ways
	a.sessions.Write(w, sess.Token, time.Until(sess.ExpiresAt))
	w.Header().Set(CSRFTokenHeader, sess.CSRFToken)
	w.Header().Set(CSRFCookieHeader, sess.CSRFCookie)

	httpx.WriteJSON(w, http.StatusOK, sess.Identity)
}

// Logout clears the marker cookie. The signed token itself stays valid until
// its natural expiry; there is no revocation list.
func (a *authenticationHandler) Logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Clear(w)
	httpx.WriteJSON(w, http.StatusOK, nil)
}

type registerUserRequest struct {
	Email                string `json:"email"                 validate:"required,email"`
	Company              string `json:"company"               validate:"required,min=1,max=128"`
	Password             string `json:"password"              validate:"required,min=8,max=72"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
