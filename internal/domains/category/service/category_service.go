package service

import (
	"context"

	"github.com/google/uuid"

	"blog-backend/internal/domains/category"
	"blog-backend/pkg/logger"
)

// categoryService implements category.Service. Read paths follow the
// same failure policy as posts: log and return empty rather than
// failing the page.
type categoryService struct {
	repo category.Repository
}

func NewCategoryService(repo category.Repository) category.Service {
	return &categoryService{repo: repo}
}

func (s *categoryService) List(ctx context.Context) []*category.Category {
	categories, err := s.repo.List(ctx)
	if err != nil {
		logger.Error("List categories failed, returning empty list", err)
		return []*category.Category{}
	}
	return categories
}

func (s *categoryService) GetBySlug(ctx context.Context, slug string) (*category.Category, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *categoryService) ListForPost(ctx context.Context, postID uuid.UUID) []*category.Category {
	categories, err := s.repo.ListForPost(ctx, postID)
	if err != nil {
		logger.Error("List post categories failed, returning empty list", err)
		return []*category.Category{}
	}
	return categories
}
