package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gerenciadoc/gerenciadoc/internal/common"
)

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Company      string
	CreatedAt    time.Time
}

type UserRepository interface {
	Create(ctx context.Context, name, email, passwordHash, company string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
}

type userRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewUserRepository(pool *pgxpool.Pool, logger *slog.Logger) UserRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &userRepository{pool: pool, logger: logger}
}

func (r *userRepository) Create(ctx context.Context, name, email, passwordHash, company string) (*User, error) {
	u := &User{ID: uuid.New(), Name: name, Email: email, PasswordHash: passwordHash, Company: company}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (id, name, email, password_hash, company)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		u.ID, u.Name, u.Email, u.PasswordHash, nullable(u.Company),
	).Scan(&u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, common.NewAppError("USER_EXISTS", "email already registered", common.ErrConflict)
		}
		r.logger.Error("create user failed", "email", email, "error", err)
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getOne(ctx,
		`SELECT id, name, email, password_hash, COALESCE(company, ''), created_at
		 FROM users WHERE email = $1`, email)
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.getOne(ctx,
		`SELECT id, name, email, password_hash, COALESCE(company, ''), created_at
		 FROM users WHERE id = $1`, id)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*User, error) {
	var u User
	err := r.pool.QueryRow(ctx, query, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Company, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// nullable maps "" to SQL NULL for optional text columns.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
