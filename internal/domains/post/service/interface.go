package service

import (
	"context"

	"github.com/google/uuid"

	"blog-backend/internal/domains/post/model"
)

// =====================================================
// POST SERVICE INTERFACE
// =====================================================

type ServiceInterface interface {
	// ========================================
	// PUBLIC READS
	// ========================================

	// ListPublished returns the home listing. Store failures are
	// logged and collapse to an empty list - never an error.
	ListPublished(ctx context.Context) []*model.PostResponse

	// GetBySlug returns one published post. Unpublished, missing
	// and store-failure cases all resolve to PostNotFound.
	GetBySlug(ctx context.Context, slug string) (*model.PostResponse, error)

	// ========================================
	// AUTHOR OPERATIONS
	// ========================================

	// ListMyPosts returns the caller's own posts, drafts included.
	// Same read failure policy as the public reads.
	ListMyPosts(ctx context.Context, userID uuid.UUID) []*model.PostResponse

	// CreatePost creates a post owned by authorID
	CreatePost(ctx context.Context, authorID uuid.UUID, req model.CreatePostRequest) (*model.PostResponse, error)

	// UpdatePost updates the caller's own post
	UpdatePost(ctx context.Context, userID, postID uuid.UUID, req model.UpdatePostRequest) (*model.PostResponse, error)

	// DeletePost permanently deletes the caller's own post
	DeletePost(ctx context.Context, userID, postID uuid.UUID) error
}
