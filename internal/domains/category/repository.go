package category

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the category persistence contract
type Repository interface {
	List(ctx context.Context) ([]*Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	ListForPost(ctx context.Context, postID uuid.UUID) ([]*Category, error)
}
