package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/domains/post/repository"
	"blog-backend/internal/shared/utils"
	"blog-backend/pkg/logger"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type postService struct {
	postRepo repository.PostRepository
}

func NewPostService(postRepo repository.PostRepository) ServiceInterface {
	return &postService{
		postRepo: postRepo,
	}
}

// =====================================================
// PUBLIC READS
// =====================================================

func (s *postService) ListPublished(ctx context.Context) []*model.PostResponse {
	posts, err := s.postRepo.ListPublished(ctx)
	if err != nil {
		// Read failure policy: log and render an empty page.
		// The visitor never sees a store error.
		logger.Error("ListPublished: store read failed", err)
		return []*model.PostResponse{}
	}

	return toResponses(posts)
}

func (s *postService) GetBySlug(ctx context.Context, slug string) (*model.PostResponse, error) {
	post, err := s.postRepo.GetBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, model.ErrPostNotFound) {
			logger.Error("GetBySlug: store read failed", err)
		}
		// Missing, unpublished and infrastructure failure are all
		// the same absent result on this path
		return nil, model.NewPostNotFoundError()
	}

	return post.ToResponse(), nil
}

// =====================================================
// AUTHOR OPERATIONS
// =====================================================

func (s *postService) ListMyPosts(ctx context.Context, userID uuid.UUID) []*model.PostResponse {
	posts, err := s.postRepo.ListByAuthor(ctx, userID)
	if err != nil {
		logger.Error("ListMyPosts: store read failed", err)
		return []*model.PostResponse{}
	}

	return toResponses(posts)
}

func (s *postService) CreatePost(
	ctx context.Context,
	authorID uuid.UUID,
	req model.CreatePostRequest,
) (*model.PostResponse, error) {
	// Step 1: validate the author-supplied fields
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err.Error())
	}

	// Step 2: derive the slug from the title when none was given,
	// the same auto-slug behavior the post form has
	slug := req.Slug
	if slug == "" {
		slug = utils.GenerateSlug(req.Title)
	}
	if slug == "" {
		return nil, model.NewValidationError("slug is required and could not be derived from the title")
	}

	// Step 3: build the entity. The author id comes from the
	// session, never from the request body, and is fixed for the
	// lifetime of the post.
	now := time.Now()
	post := &model.Post{
		ID:            uuid.New(),
		Title:         req.Title,
		Slug:          slug,
		Content:       req.Content,
		Excerpt:       req.Excerpt,
		FeaturedImage: req.FeaturedImage,
		Published:     req.Published,
		AuthorID:      authorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// Step 4: persist
	if err := s.postRepo.Create(ctx, post); err != nil {
		if errors.Is(err, model.ErrSlugTaken) {
			return nil, model.NewSlugConflictError(slug)
		}
		logger.Error("CreatePost: store write failed", err)
		return nil, model.NewStoreError(err)
	}

	// Step 5: attach categories, if any
	if len(req.CategoryIDs) > 0 {
		if err := s.postRepo.SetCategories(ctx, post.ID, req.CategoryIDs); err != nil {
			// The post itself exists; a failed category attach is
			// reported, not rolled back
			logger.Error("CreatePost: set categories failed", err)
			return nil, model.NewStoreError(err)
		}
	}

	return post.ToResponse(), nil
}

func (s *postService) UpdatePost(
	ctx context.Context,
	userID, postID uuid.UUID,
	req model.UpdatePostRequest,
) (*model.PostResponse, error) {
	// Step 1: validate
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err.Error())
	}

	// Step 2: load the current row to tell "not found" apart from
	// "not yours" in the response
	existing, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			return nil, model.NewPostNotFoundError()
		}
		logger.Error("UpdatePost: store read failed", err)
		return nil, model.NewStoreError(err)
	}

	// Step 3: advisory ownership check; the repository re-applies
	// the same rule as the row predicate, which is the boundary
	// that actually holds
	if !existing.IsOwnedBy(userID) {
		return nil, model.NewNotAuthorError()
	}

	// Step 4: apply fields. Changing the slug silently breaks
	// previously shared links; accepted behavior.
	existing.Title = req.Title
	existing.Slug = req.Slug
	existing.Content = req.Content
	existing.Excerpt = req.Excerpt
	existing.FeaturedImage = req.FeaturedImage
	existing.Published = req.Published

	if err := s.postRepo.Update(ctx, existing, userID); err != nil {
		switch {
		case errors.Is(err, model.ErrSlugTaken):
			return nil, model.NewSlugConflictError(req.Slug)
		case errors.Is(err, model.ErrPostNotFound):
			// The row predicate rejected the write after the advisory
			// check passed - ownership changed or the row vanished
			return nil, model.NewNotAuthorError()
		default:
			logger.Error("UpdatePost: store write failed", err)
			return nil, model.NewStoreError(err)
		}
	}

	// Step 5: replace categories when the request carries them
	if req.CategoryIDs != nil {
		if err := s.postRepo.SetCategories(ctx, postID, req.CategoryIDs); err != nil {
			logger.Error("UpdatePost: set categories failed", err)
			return nil, model.NewStoreError(err)
		}
	}

	existing.UpdatedAt = time.Now()
	return existing.ToResponse(), nil
}

func (s *postService) DeletePost(ctx context.Context, userID, postID uuid.UUID) error {
	existing, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			return model.NewPostNotFoundError()
		}
		logger.Error("DeletePost: store read failed", err)
		return model.NewStoreError(err)
	}

	if !existing.IsOwnedBy(userID) {
		return model.NewNotAuthorError()
	}

	// Permanent delete, no tombstone
	if err := s.postRepo.Delete(ctx, postID, userID); err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			return model.NewNotAuthorError()
		}
		logger.Error("DeletePost: store write failed", err)
		return model.NewStoreError(err)
	}

	return nil
}

// =====================================================
// HELPERS
// =====================================================

func toResponses(posts []*model.Post) []*model.PostResponse {
	responses := make([]*model.PostResponse, 0, len(posts))
	for _, post := range posts {
		responses = append(responses, post.ToResponse())
	}
	return responses
}
