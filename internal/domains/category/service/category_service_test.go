package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/domains/category"
)

type fakeCategoryRepo struct {
	categories []*category.Category
	byPost     map[uuid.UUID][]uuid.UUID
	listErr    error
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]*category.Category, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]*category.Category, len(r.categories))
	copy(out, r.categories)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeCategoryRepo) GetBySlug(_ context.Context, slug string) (*category.Category, error) {
	for _, c := range r.categories {
		if c.Slug == slug {
			return c, nil
		}
	}
	return nil, category.ErrCategoryNotFound
}

func (r *fakeCategoryRepo) ListForPost(_ context.Context, postID uuid.UUID) ([]*category.Category, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*category.Category
	for _, catID := range r.byPost[postID] {
		for _, c := range r.categories {
			if c.ID == catID {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func TestListOrderedByName(t *testing.T) {
	repo := &fakeCategoryRepo{categories: []*category.Category{
		{ID: uuid.New(), Name: "Travel", Slug: "travel"},
		{ID: uuid.New(), Name: "Cooking", Slug: "cooking"},
		{ID: uuid.New(), Name: "Go", Slug: "go"},
	}}
	svc := NewCategoryService(repo)

	categories := svc.List(context.Background())
	require.Len(t, categories, 3)
	assert.Equal(t, "Cooking", categories[0].Name)
	assert.Equal(t, "Go", categories[1].Name)
	assert.Equal(t, "Travel", categories[2].Name)
}

func TestListCollapsesStoreErrors(t *testing.T) {
	repo := &fakeCategoryRepo{listErr: errors.New("connection reset")}
	svc := NewCategoryService(repo)

	categories := svc.List(context.Background())
	assert.NotNil(t, categories)
	assert.Empty(t, categories)
}

func TestGetBySlug(t *testing.T) {
	repo := &fakeCategoryRepo{categories: []*category.Category{
		{ID: uuid.New(), Name: "Go", Slug: "go"},
	}}
	svc := NewCategoryService(repo)

	cat, err := svc.GetBySlug(context.Background(), "go")
	require.NoError(t, err)
	assert.Equal(t, "Go", cat.Name)

	_, err = svc.GetBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, category.ErrCategoryNotFound)
}

func TestListForPost(t *testing.T) {
	goCat := &category.Category{ID: uuid.New(), Name: "Go", Slug: "go"}
	travel := &category.Category{ID: uuid.New(), Name: "Travel", Slug: "travel"}
	postID := uuid.New()

	repo := &fakeCategoryRepo{
		categories: []*category.Category{goCat, travel},
		byPost:     map[uuid.UUID][]uuid.UUID{postID: {goCat.ID}},
	}
	svc := NewCategoryService(repo)

	categories := svc.ListForPost(context.Background(), postID)
	require.Len(t, categories, 1)
	assert.Equal(t, "go", categories[0].Slug)

	assert.Empty(t, svc.ListForPost(context.Background(), uuid.New()))
}
