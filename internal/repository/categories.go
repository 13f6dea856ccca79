package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gerenciadoc/gerenciadoc/constants"
	"github.com/gerenciadoc/gerenciadoc/internal/common"
)

type Category struct {
	Slug string
	Name string
}

type CategoryRepository interface {
	EnsureDefaults(ctx context.Context) error
	List(ctx context.Context) ([]Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)
}

type categoryRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewCategoryRepository(pool *pgxpool.Pool, logger *slog.Logger) CategoryRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &categoryRepository{pool: pool, logger: logger}
}

// EnsureDefaults seeds the fixed category taxonomy. Idempotent.
func (r *categoryRepository) EnsureDefaults(ctx context.Context) error {
	for _, c := range constants.DefaultCategories {
		if _, err := r.pool.Exec(ctx,
			`INSERT INTO categories (slug, name) VALUES ($1, $2)
			 ON CONFLICT (slug) DO NOTHING`,
			c.Slug, c.Name,
		); err != nil {
			return common.WrapError(err, "seed category "+c.Slug)
		}
	}
	return nil
}

func (r *categoryRepository) List(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT slug, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.Slug, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	var c Category
	err := r.pool.QueryRow(ctx, `SELECT slug, name FROM categories WHERE slug = $1`, slug).
		Scan(&c.Slug, &c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
