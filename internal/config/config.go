package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"go.uber.org/zap"
)

type AppConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DbConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
}

type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
}

type CSRFConfig struct {
	Key []byte
	TTL time.Duration
}

type CookieConfig struct {
	CookieDomain   string
	CookieSecure   bool
	CookieSamesite string
}

type Config struct {
	AppConfig    *AppConfig
	DbConfig     *DbConfig
	TokenConfig  *TokenConfig
	CSRFConfig   *CSRFConfig
	CookieConfig *CookieConfig
}

var (
	ErrMissingSecret = errors.New("SECRET is not set")
	ErrBadCSRFKey    = errors.New("CSRF_KEY must be exactly 32 bytes")
)

func LoadConfig(logger *zap.Logger) (*Config, error) {
	/** db config */
	dsn := os.Getenv("POSTGRES_DSN")

	mocs := os.Getenv("DB_MAX_OPEN_CONNS")
	mics := os.Getenv("DB_MAX_IDLE_CONNS")
	mcls := os.Getenv("DB_CONN_MAX_LIFETIME")

	maxOpenConns, err := strconv.Atoi(mocs)
	if err != nil {
		return nil, err
	}
	maxIdleConns, err := strconv.Atoi(mics)
	if err != nil {
		return nil, err
	}
	maxConnLifetimeDuration, err := time.ParseDuration(mcls)
	if err != nil {
		return nil, err
	}

	dbConfig := &DbConfig{
		DSN:             dsn,
		MaxOpenConns:    maxOpenConns,
		MaxIdleConns:    maxIdleConns,
		MaxConnLifetime: maxConnLifetimeDuration,
	}

	/** app config */
	port := os.Getenv("APP_PORT")

	rts := os.Getenv("APP_READ_TIMEOUT")
	wts := os.Getenv("APP_WRITE_TIMEOUT")
	its := os.Getenv("APP_IDLE_TIMEOUT")

	readTimeoutDuration, err := time.ParseDuration(rts)
	if err != nil {
		return nil, err
	}
	writeTimeoutDuration, err := time.ParseDuration(wts)
	if err != nil {
		return nil, err
	}
	idleTimeoutDuration, err := time.ParseDuration(its)
	if err != nil {
		return nil, err
	}

	appConfig := &AppConfig{
		Port:         port,
		ReadTimeout:  readTimeoutDuration,
		WriteTimeout: writeTimeoutDuration,
		IdleTimeout:  idleTimeoutDuration,
	}

	/** token config */
	secret := os.Getenv("SECRET")
	if secret == "" {
		logger.Error("SECRET is not set")
		return nil, ErrMissingSecret
	}
	tokenTTL, err := durationOrDefault("TOKEN_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	tokenConfig := &TokenConfig{
		Secret: []byte(secret),
		TTL:    tokenTTL,
	}

	/** csrf config */
	csrfKey := os.Getenv("CSRF_KEY")
	if len(csrfKey) != 32 {
		logger.Error("CSRF_KEY has wrong length", zap.Int("length", len(csrfKey)))
		return nil, ErrBadCSRFKey
	}
	csrfTTL, err := durationOrDefault("CSRF_TTL", 300*time.Second)
	if err != nil {
		return nil, err
	}
	csrfConfig := &CSRFConfig{
		Key: []byte(csrfKey),
		TTL: csrfTTL,
	}

	/** cookie config */
	cookieConfig := &CookieConfig{
		CookieDomain:   os.Getenv("COOKIE_DOMAIN"),
		CookieSecure:   os.Getenv("COOKIE_SECURE") == "true",
		CookieSamesite: os.Getenv("COOKIE_SAMESITE"),
	}

	return &Config{
		DbConfig:     dbConfig,
		AppConfig:    appConfig,
		TokenConfig:  tokenConfig,
		CSRFConfig:   csrfConfig,
		CookieConfig: cookieConfig,
	}, nil
}

func durationOrDefault(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	return time.ParseDuration(raw)
}
