package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"blog-backend/internal/domains/category"
	"blog-backend/internal/shared/response"
)

// =====================================================
// CATEGORY HANDLER
// =====================================================

type CategoryHandler struct {
	categoryService category.Service
}

func NewCategoryHandler(categoryService category.Service) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List returns all categories ordered by name
// GET /api/v1/categories
func (h *CategoryHandler) List(c *gin.Context) {
	categories := h.categoryService.List(c.Request.Context())
	response.SuccessWithMeta(c, http.StatusOK, categories, &response.Meta{Total: len(categories)})
}

// GetBySlug returns one category
// GET /api/v1/categories/slug/:slug
func (h *CategoryHandler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")

	cat, err := h.categoryService.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, category.ErrCategoryNotFound) {
			response.NotFound(c, "Category not found")
			return
		}
		response.InternalServerError(c, "Failed to load category")
		return
	}

	response.Success(c, http.StatusOK, cat)
}

// ListForPost returns the categories attached to a post
// GET /api/v1/posts/:id/categories
func (h *CategoryHandler) ListForPost(c *gin.Context) {
	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid post ID")
		return
	}

	categories := h.categoryService.ListForPost(c.Request.Context(), postID)
	response.SuccessWithMeta(c, http.StatusOK, categories, &response.Meta{Total: len(categories)})
}
