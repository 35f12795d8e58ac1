package category

import (
	"context"

	"github.com/google/uuid"
)

// Service is the category business logic contract. Reads only:
// category management is an operator concern, not an API surface.
type Service interface {
	// List returns all categories ordered by name. Store failures
	// collapse to an empty list, matching the post read policy.
	List(ctx context.Context) []*Category

	GetBySlug(ctx context.Context, slug string) (*Category, error)

	ListForPost(ctx context.Context, postID uuid.UUID) []*Category
}
