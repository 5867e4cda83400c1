package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type UserDTO struct {
	Email    string
	Company  string
	Password string // already hashed by the caller
}

type UserRepo interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, dto *UserDTO) (*User, error)
}

type userRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewUserRepo(db *sql.DB, logger *zap.Logger) UserRepo {
	return &userRepo{
		db:     db,
		logger: logger,
	}
}

const (
	insertUserQuery = `
					INSERT INTO users (email, company, password)
					VALUES ($1, $2, $3)
					RETURNING id, email, company, password, created_at
					`
	findUserByEmailQuery = `
					SELECT id, email, company, password, created_at
					FROM users
					WHERE email = $1
					`
)

func (u *userRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	row := u.db.QueryRowContext(ctx, findUserByEmailQuery, email)

	var usr User
	if err := row.Scan(&usr.ID, &usr.Email, &usr.Company, &usr.Password, &usr.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		u.logger.Error("failed to find user by email", zap.Error(err))
		return nil, err
	}
	return &usr, nil
}

func (u *userRepo) Create(ctx context.Context, dto *UserDTO) (*User, error) {
	row := u.db.QueryRowContext(ctx,
		insertUserQuery,
		strings.TrimSpace(dto.Email),
		strings.TrimSpace(dto.Company),
		dto.Password,
	)

	var usr User
	if err := row.Scan(&usr.ID, &usr.Email, &usr.Company, &usr.Password, &usr.CreatedAt); err != nil {
		// context canceled/deadline
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			u.logger.Warn("create user canceled/timed out", zap.Error(err))
			return nil, err
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == pgerrcode.UniqueViolation {
				u.logger.Debug("duplicate email", zap.String("email", dto.Email))
				return nil, ErrDuplicateEmail
			}
			u.logger.Error("postgres error",
				zap.String("code", pgErr.Code),
				zap.String("msg", pgErr.Message),
				zap.String("detail", pgErr.Detail),
			)
			return nil, err
		}

		u.logger.Error("driver/scan error", zap.Error(err))
		return nil, err
	}

	u.logger.Debug("user created", zap.Int64("id", usr.ID), zap.String("email", usr.Email))
	return &usr, nil
}
