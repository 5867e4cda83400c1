package product

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/mehmetcc/stockroom/internal/auth"
	"github.com/mehmetcc/stockroom/internal/httpx"
	"go.uber.org/zap"
)

type ProductHandler interface {
	Routes() chi.Router
}

type productHandler struct {
	logger     *zap.Logger
	repo       ProductRepo
	middleware *auth.Middleware
	validator  *validator.Validate
}

func NewProductHandler(repo ProductRepo, middleware *auth.Middleware, l *zap.Logger) ProductHandler {
	v := validator.New(validator.WithRequiredStructEnabled())
	return &productHandler{
		logger:     l,
		repo:       repo,
		middleware: middleware,
		validator:  v,
	}
}

// Routes keeps reads public; every state-changing route sits behind the full
// csrf + session chain.
func (p *productHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", p.List)
	r.Get("/{id}", p.Get)
	r.Group(func(r chi.Router) {
		r.Use(p.middleware.RequireAuth)
		r.Post("/", p.Create)
		r.Put("/{id}", p.Update)
		r.Delete("/{id}", p.Delete)
	})
	return r
}

func (p *productHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	products, err := p.repo.List(ctx)
	if err != nil {
		p.logger.Error("failed to list products", zap.Error(err))
		httpx.WriteError(w, http.StatusInternalServerError, httpx.ErrorResponse[any]{
			Code:    httpx.ErrInternal,
			Message: "internal server error",
		})
		return
	}
	httpx.WriteJSON(w, http.StatusOK, products)
}

func (p *productHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	id, ok := p.pathID(w, r)
	if !ok {
		return
	}

	prd, err := p.repo.Find(ctx, id)
	if err != nil {
		p.writeRepoError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, prd)
}

func (p *productHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	dto, ok := p.readBody(w, r)
	if !ok {
		return
	}

	prd, err := p.repo.Create(ctx, dto)
	if err != nil {
		p.writeRepoError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, prd)
}

func (p *productHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	id, ok := p.pathID(w, r)
	if !ok {
		return
	}
	dto, ok := p.readBody(w, r)
	if !ok {
		return
	}

	prd, err := p.repo.Update(ctx, id, dto)
	if err != nil {
		p.writeRepoError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, prd)
}

func (p *productHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	id, ok := p.pathID(w, r)
	if !ok {
		return
	}

	if err := p.repo.Delete(ctx, id); err != nil {
		p.writeRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (p *productHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, httpx.ErrorResponse[any]{
			Code:    httpx.ErrBadRequest,
			Message: "id must be an integer",
		})
		return 0, false
	}
	return id, true
}

func (p *productHandler) readBody(w http.ResponseWriter, r *http.Request) (*ProductDTO, bool) {
	var req productRequest
	if err := httpx.ReadJSON(w, r, &req); err != nil {
		p.logger.Warn("failed to read product request body", zap.Error(err))
		return nil, false
	}

	if err := p.validator.Struct(req); err != nil {
		p.logger.Warn("product validation failed", zap.Error(err))
		fields := httpx.ValidationDetails(err)
		httpx.WriteError(w, http.StatusUnprocessableEntity, httpx.ErrorResponse[[]httpx.FieldError]{
			Code:    httpx.ErrValidationFailed,
			Message: "validation failed",
			Details: fields,
		})
		return nil, false
	}

	return &ProductDTO{Name: req.Name, Stock: req.Stock, Price: req.Price}, true
}

func (p *productHandler) writeRepoError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		httpx.WriteError(w, http.StatusNotFound, httpx.ErrorResponse[any]{
			Code:    httpx.ErrNotFound,
			Message: "product not found",
		})
		return
	}
	p.logger.Error("product store failure", zap.Error(err))
	httpx.WriteError(w, http.StatusInternalServerError, httpx.ErrorResponse[any]{
		Code:    httpx.ErrInternal,
		Message: "internal server error",
	})
}

type productRequest struct {
	Name  string  `json:"name"  validate:"required,min=1,max=128"`
	Stock float64 `json:"stock" validate:"gte=0"`
	Price *int32  `json:"price" validate:"omitempty,gte=0"`
}
