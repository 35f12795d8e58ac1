package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog-backend/internal/domains/category"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresCategoryRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresCategoryRepository(pool *pgxpool.Pool) category.Repository {
	return &postgresCategoryRepository{pool: pool}
}

const categoryColumns = `id, name, slug, description, created_at`

func scanCategory(row pgx.Row) (*category.Category, error) {
	c := &category.Category{}
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Slug,
		&c.Description,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func collectCategories(rows pgx.Rows) ([]*category.Category, error) {
	defer rows.Close()

	categories := make([]*category.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return categories, nil
}

// List returns every category ordered by name
func (r *postgresCategoryRepository) List(ctx context.Context) ([]*category.Category, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM categories
		ORDER BY name ASC`, categoryColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return collectCategories(rows)
}

func (r *postgresCategoryRepository) GetBySlug(ctx context.Context, slug string) (*category.Category, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM categories
		WHERE slug = $1`, categoryColumns)

	c, err := scanCategory(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category by slug: %w", err)
	}

	return c, nil
}

// ListForPost returns the categories attached to one post
func (r *postgresCategoryRepository) ListForPost(ctx context.Context, postID uuid.UUID) ([]*category.Category, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM categories c
		INNER JOIN post_categories pc ON pc.category_id = c.id
		WHERE pc.post_id = $1
		ORDER BY c.name ASC`, prefixedCategoryColumns)

	rows, err := r.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("list categories for post: %w", err)
	}

	return collectCategories(rows)
}

const prefixedCategoryColumns = `c.id, c.name, c.slug, c.description, c.created_at`
