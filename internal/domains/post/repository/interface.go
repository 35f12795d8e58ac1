package repository

import (
	"context"

	"github.com/google/uuid"

	"blog-backend/internal/domains/post/model"
)

// PostRepository translates the fixed set of read and write intents
// into store operations. Each method compiles to exactly one query
// shape - there is no runtime query assembly.
type PostRepository interface {
	// ========================================
	// READ intents
	// ========================================

	// ListPublished returns published posts, newest first, with the
	// author profile attached in the same round trip.
	ListPublished(ctx context.Context) ([]*model.Post, error)

	// GetBySlug returns the unique published post with this slug.
	// An unpublished slug resolves exactly like a missing one.
	// Returns: model.ErrPostNotFound when absent
	GetBySlug(ctx context.Context, slug string) (*model.Post, error)

	// ListByAuthor returns ALL posts of one author, drafts included,
	// newest first. Dashboard path only.
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*model.Post, error)

	// GetByID returns a post regardless of published state.
	// Used by the service to verify ownership before mutations.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Post, error)

	// ========================================
	// WRITE intents
	// ========================================

	// Create inserts a post.
	// Returns: model.ErrSlugTaken on the slug unique constraint
	Create(ctx context.Context, post *model.Post) error

	// Update applies the post's fields, advancing updated_at.
	// The ownership rule is part of the statement itself:
	// rows where author_id != requesterID are never touched.
	// Returns: model.ErrPostNotFound when no row matched
	Update(ctx context.Context, post *model.Post, requesterID uuid.UUID) error

	// Delete removes the row permanently, same ownership predicate.
	// Returns: model.ErrPostNotFound when no row matched
	Delete(ctx context.Context, id, requesterID uuid.UUID) error

	// SetCategories replaces the post's category associations
	SetCategories(ctx context.Context, postID uuid.UUID, categoryIDs []uuid.UUID) error
}
