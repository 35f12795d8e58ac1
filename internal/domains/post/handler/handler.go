package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"blog-backend/internal/domains/post/model"
	"blog-backend/internal/domains/post/service"
	"blog-backend/internal/shared/response"
)

// =====================================================
// POST HANDLER
// =====================================================

type PostHandler struct {
	postService  service.ServiceInterface
	imageService *service.ImageService // nil when object storage is not configured
}

func NewPostHandler(postService service.ServiceInterface, imageService *service.ImageService) *PostHandler {
	return &PostHandler{
		postService:  postService,
		imageService: imageService,
	}
}

// getUserID extracts the authenticated user id set by the auth middleware
func getUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get("userID")
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := v.(uuid.UUID)
	return userID, ok
}

// mapPostError translates a service error to an HTTP status + code
func mapPostError(err error) (int, string) {
	var postErr *model.PostError
	if errors.As(err, &postErr) {
		switch postErr.Code {
		case model.ErrCodePostNotFound:
			return http.StatusNotFound, postErr.Code
		case model.ErrCodeSlugTaken:
			return http.StatusConflict, postErr.Code
		case model.ErrCodeNotAuthor:
			return http.StatusForbidden, postErr.Code
		case model.ErrCodeValidation:
			return http.StatusBadRequest, postErr.Code
		}
	}
	return http.StatusInternalServerError, model.ErrCodeStoreFailure
}

// =====================================================
// PUBLIC ENDPOINTS
// =====================================================

// ListPublished renders the home listing
// GET /api/v1/posts
func (h *PostHandler) ListPublished(c *gin.Context) {
	posts := h.postService.ListPublished(c.Request.Context())
	response.SuccessWithMeta(c, http.StatusOK, posts, &response.Meta{Total: len(posts)})
}

// GetBySlug renders one published post
// GET /api/v1/posts/slug/:slug
func (h *PostHandler) GetBySlug(c *gin.Context) {
	slug := c.Param("slug")

	post, err := h.postService.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		statusCode, errCode := mapPostError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusOK, post)
}

// =====================================================
// AUTHOR ENDPOINTS
// =====================================================

// ListMyPosts renders the author dashboard, drafts included
// GET /api/v1/posts/me
func (h *PostHandler) ListMyPosts(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	posts := h.postService.ListMyPosts(c.Request.Context(), userID)
	response.SuccessWithMeta(c, http.StatusOK, posts, &response.Meta{Total: len(posts)})
}

// CreatePost creates a post owned by the caller
// POST /api/v1/posts
func (h *PostHandler) CreatePost(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req model.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.postService.CreatePost(c.Request.Context(), userID, req)
	if err != nil {
		statusCode, errCode := mapPostError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusCreated, post)
}

// UpdatePost updates the caller's own post
// PUT /api/v1/posts/:id
func (h *PostHandler) UpdatePost(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid post ID")
		return
	}

	var req model.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.postService.UpdatePost(c.Request.Context(), userID, postID, req)
	if err != nil {
		statusCode, errCode := mapPostError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusOK, post)
}

// DeletePost permanently deletes the caller's own post
// DELETE /api/v1/posts/:id
func (h *PostHandler) DeletePost(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	postID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid post ID")
		return
	}

	if err := h.postService.DeletePost(c.Request.Context(), userID, postID); err != nil {
		statusCode, errCode := mapPostError(err)
		response.ErrorResponse(c, statusCode, errCode, err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// UploadFeaturedImage stores a featured image and returns its URL
// POST /api/v1/uploads/featured-image
func (h *PostHandler) UploadFeaturedImage(c *gin.Context) {
	if _, ok := getUserID(c); !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	if h.imageService == nil {
		response.ErrorResponse(c, http.StatusServiceUnavailable, "STORAGE_DISABLED", "Object storage is not configured")
		return
	}

	file, _, err := c.Request.FormFile("image")
	if err != nil {
		response.BadRequest(c, "image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(c, "failed to read image")
		return
	}

	url, err := h.imageService.UploadFeaturedImage(c.Request.Context(), data)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"url": url})
}
