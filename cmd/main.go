package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/mehmetcc/stockroom/internal/auth"
	"github.com/mehmetcc/stockroom/internal/config"
	"github.com/mehmetcc/stockroom/internal/database"
	"github.com/mehmetcc/stockroom/internal/product"
	"github.com/mehmetcc/stockroom/internal/session"
	"github.com/mehmetcc/stockroom/internal/token"
	"github.com/mehmetcc/stockroom/internal/user"
	"go.uber.org/zap"
	"moul.io/chizap"
)

func main() {
	// init logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	// load dotenv file
	err = godotenv.Load("../.env")
	if err != nil {
		logger.Error("failed to load .env file", zap.Error(err))
	}

	// load config; missing secret or csrf key is fatal here, never per-request
	cfg, err := config.LoadConfig(logger)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// load database
	db, err := database.Init(cfg.DbConfig)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	// run migrations
	database.SetMigrationLogger(logger)
	err = database.Migrate(context.Background(), db)
	if err != nil {
		logger.Error("failed to migrate database", zap.Error(err))
	}

	// wire everything together
	userRepo := user.NewUserRepo(db, logger)
	productRepo := product.NewProductRepo(db, logger)
	tokenService := token.NewTokenService(logger, cfg.TokenConfig)
	sessions := session.NewCookieWriter(cfg.CookieConfig)
	authService := auth.NewAuthenticationService(userRepo, tokenService, cfg.CSRFConfig, logger)
	authMiddleware := auth.NewMiddleware(tokenService, cfg.CSRFConfig, logger)
	authHandler := auth.NewAuthenticationHandler(authService, sessions, logger)
	productHandler := product.NewProductHandler(productRepo, authMiddleware, logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(chizap.New(logger, &chizap.Opts{
		WithReferer:   true,
		WithUserAgent: true,
	}))
	r.Use(cors.Handler(cors.Options{
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Accept", auth.CSRFTokenHeader, auth.CSRFCookieHeader},
		ExposedHeaders: []string{auth.CSRFTokenHeader, auth.CSRFCookieHeader},
		MaxAge:         3600,
	}))
	r.Mount("/auth", authHandler.Routes())
	r.Mount("/products", productHandler.Routes())

	server := &http.Server{
		Addr:         ":" + cfg.AppConfig.Port,
		Handler:      r,
		ReadTimeout:  cfg.AppConfig.ReadTimeout,
		WriteTimeout: cfg.AppConfig.WriteTimeout,
		IdleTimeout:  cfg.AppConfig.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("application started", zap.String("port", cfg.AppConfig.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	logger.Info("application stopped")
}
