package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"blog-backend/internal/domains/post/model"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresPostRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresPostRepository(pool *pgxpool.Pool) PostRepository {
	return &postgresPostRepository{pool: pool}
}

// postColumns is the joined row shape shared by every read intent.
// The author comes back in the same round trip via LEFT JOIN, so a
// page of posts costs one query no matter how many authors it spans,
// and a deleted profile yields NULL author columns instead of
// dropping the post.
const postColumns = `
	p.id, p.title, p.slug, p.content, p.excerpt, p.featured_image,
	p.published, p.author_id, p.created_at, p.updated_at,
	u.id, u.full_name, u.avatar_url
`

func scanPost(row pgx.Row) (*model.Post, error) {
	post := &model.Post{}
	var (
		authorID  *uuid.UUID
		fullName  *string
		avatarURL *string
	)

	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Slug,
		&post.Content,
		&post.Excerpt,
		&post.FeaturedImage,
		&post.Published,
		&post.AuthorID,
		&post.CreatedAt,
		&post.UpdatedAt,
		&authorID,
		&fullName,
		&avatarURL,
	)
	if err != nil {
		return nil, err
	}

	if authorID != nil {
		post.Author = &model.Author{
			ID:        *authorID,
			FullName:  fullName,
			AvatarURL: avatarURL,
		}
	}
	return post, nil
}

// =====================================================
// READ INTENTS
// =====================================================

func (r *postgresPostRepository) ListPublished(ctx context.Context) ([]*model.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		LEFT JOIN users u ON u.id = p.author_id
		WHERE p.published = TRUE
		ORDER BY p.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list published posts: %w", err)
	}
	defer rows.Close()

	posts := []*model.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read posts: %w", err)
	}

	return posts, nil
}

func (r *postgresPostRepository) GetBySlug(ctx context.Context, slug string) (*model.Post, error) {
	// Unpublished posts are filtered here, not in the service:
	// through this path they must be indistinguishable from absent.
	query := `
		SELECT ` + postColumns + `,
			COALESCE(ARRAY(
				SELECT c.name
				FROM categories c
				JOIN post_categories pc ON pc.category_id = c.id
				WHERE pc.post_id = p.id
				ORDER BY c.name
			), '{}')
		FROM posts p
		LEFT JOIN users u ON u.id = p.author_id
		WHERE p.slug = $1 AND p.published = TRUE
	`

	post := &model.Post{}
	var (
		authorID   *uuid.UUID
		fullName   *string
		avatarURL  *string
		categories []string
	)

	err := r.pool.QueryRow(ctx, query, slug).Scan(
		&post.ID,
		&post.Title,
		&post.Slug,
		&post.Content,
		&post.Excerpt,
		&post.FeaturedImage,
		&post.Published,
		&post.AuthorID,
		&post.CreatedAt,
		&post.UpdatedAt,
		&authorID,
		&fullName,
		&avatarURL,
		pq.Array(&categories),
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post by slug: %w", err)
	}

	if authorID != nil {
		post.Author = &model.Author{
			ID:        *authorID,
			FullName:  fullName,
			AvatarURL: avatarURL,
		}
	}
	post.Categories = categories
	return post, nil
}

func (r *postgresPostRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*model.Post, error) {
	// No published filter: this is the author's own dashboard view
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		LEFT JOIN users u ON u.id = p.author_id
		WHERE p.author_id = $1
		ORDER BY p.created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts by author: %w", err)
	}
	defer rows.Close()

	posts := []*model.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read posts: %w", err)
	}

	return posts, nil
}

func (r *postgresPostRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		LEFT JOIN users u ON u.id = p.author_id
		WHERE p.id = $1
	`

	post, err := scanPost(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// =====================================================
// WRITE INTENTS
// =====================================================

func (r *postgresPostRepository) Create(ctx context.Context, post *model.Post) error {
	query := `
		INSERT INTO posts (
			id, title, slug, content, excerpt, featured_image,
			published, author_id, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		post.ID,
		post.Title,
		post.Slug,
		post.Content,
		post.Excerpt,
		post.FeaturedImage,
		post.Published,
		post.AuthorID,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// unique_violation on idx_posts_slug
			return model.ErrSlugTaken
		}
		return fmt.Errorf("failed to create post: %w", err)
	}

	return nil
}

func (r *postgresPostRepository) Update(ctx context.Context, post *model.Post, requesterID uuid.UUID) error {
	// The AND author_id predicate IS the authorization boundary:
	// a request for a foreign post matches zero rows, whatever the
	// caller claimed upstream.
	query := `
		UPDATE posts
		SET
			title = $3,
			slug = $4,
			content = $5,
			excerpt = $6,
			featured_image = $7,
			published = $8,
			updated_at = NOW()
		WHERE id = $1 AND author_id = $2
	`

	result, err := r.pool.Exec(ctx, query,
		post.ID,
		requesterID,
		post.Title,
		post.Slug,
		post.Content,
		post.Excerpt,
		post.FeaturedImage,
		post.Published,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrSlugTaken
		}
		return fmt.Errorf("failed to update post: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrPostNotFound
	}

	return nil
}

func (r *postgresPostRepository) Delete(ctx context.Context, id, requesterID uuid.UUID) error {
	// Hard delete, same ownership predicate as Update
	query := `DELETE FROM posts WHERE id = $1 AND author_id = $2`

	result, err := r.pool.Exec(ctx, query, id, requesterID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrPostNotFound
	}

	return nil
}

func (r *postgresPostRepository) SetCategories(ctx context.Context, postID uuid.UUID, categoryIDs []uuid.UUID) error {
	// Replace-all semantics: clear then insert the new set
	if _, err := r.pool.Exec(ctx,
		`DELETE FROM post_categories WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("failed to clear post categories: %w", err)
	}

	for _, categoryID := range categoryIDs {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO post_categories (post_id, category_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			postID, categoryID,
		)
		if err != nil {
			return fmt.Errorf("failed to attach category %s: %w", categoryID, err)
		}
	}

	return nil
}
