package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"blog-backend/internal/domains/user"
	"blog-backend/internal/shared/response"
)

// =====================================================
// USER HANDLER
// =====================================================

type UserHandler struct {
	userService user.Service
}

func NewUserHandler(userService user.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

func getUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get("userID")
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := v.(uuid.UUID)
	return userID, ok
}

// mapAuthError translates identity errors to HTTP status + code
func mapAuthError(err error) (int, string) {
	switch {
	case errors.Is(err, user.ErrEmailAlreadyExists):
		return http.StatusConflict, "AUTH_EMAIL_TAKEN"
	case errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized, "AUTH_INVALID_CREDENTIALS"
	case errors.Is(err, user.ErrTooManyAttempts):
		return http.StatusTooManyRequests, "AUTH_TOO_MANY_ATTEMPTS"
	case errors.Is(err, user.ErrUserInactive):
		return http.StatusForbidden, "AUTH_ACCOUNT_INACTIVE"
	case errors.Is(err, user.ErrInvalidRefreshToken):
		return http.StatusUnauthorized, "AUTH_INVALID_REFRESH"
	case errors.Is(err, user.ErrUserNotFound):
		return http.StatusNotFound, "USER_NOT_FOUND"
	case errors.Is(err, user.ErrUnsupportedProvider):
		return http.StatusBadRequest, "OAUTH_UNSUPPORTED_PROVIDER"
	case errors.Is(err, user.ErrProviderNotConfigured):
		return http.StatusServiceUnavailable, "OAUTH_NOT_CONFIGURED"
	case errors.Is(err, user.ErrOAuthExchangeFailed):
		return http.StatusBadGateway, "OAUTH_EXCHANGE_FAILED"
	}
	return http.StatusInternalServerError, "SYS_002"
}

func (h *UserHandler) fail(c *gin.Context, err error) {
	statusCode, errCode := mapAuthError(err)
	response.ErrorResponse(c, statusCode, errCode, err.Error())
}

// =====================================================
// AUTH ENDPOINTS
// =====================================================

// Register creates an account (and with it the public profile)
// POST /api/v1/auth/register
func (h *UserHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	profile, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, user.ErrEmailAlreadyExists) {
			h.fail(c, err)
		} else {
			response.BadRequest(c, err.Error())
		}
		return
	}

	response.Success(c, http.StatusCreated, profile)
}

// Login exchanges credentials for a JWT session
// POST /api/v1/auth/login
func (h *UserHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	session, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, session)
}

// Refresh rotates a refresh token into a new session
// POST /api/v1/auth/refresh
func (h *UserHandler) Refresh(c *gin.Context) {
	var req user.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	session, err := h.userService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, session)
}

// Logout revokes the refresh token
// POST /api/v1/auth/logout
func (h *UserHandler) Logout(c *gin.Context) {
	var req user.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.userService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"logged_out": true})
}

// =====================================================
// OAUTH ENDPOINTS
// =====================================================

// OAuthRedirect returns the provider authorization URL
// GET /api/v1/auth/oauth/:provider
func (h *UserHandler) OAuthRedirect(c *gin.Context) {
	provider := c.Param("provider")
	state := c.Query("state")
	if state == "" {
		response.BadRequest(c, "state query parameter is required")
		return
	}

	redirect, err := h.userService.OAuthRedirect(c.Request.Context(), provider, state)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, redirect)
}

// OAuthCallback completes the provider flow and signs the user in
// GET /api/v1/auth/oauth/:provider/callback
func (h *UserHandler) OAuthCallback(c *gin.Context) {
	provider := c.Param("provider")
	code := c.Query("code")
	if code == "" {
		response.BadRequest(c, "code query parameter is required")
		return
	}

	session, err := h.userService.OAuthCallback(c.Request.Context(), provider, code)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, session)
}

// =====================================================
// PROFILE ENDPOINTS
// =====================================================

// GetProfile returns the caller's profile
// GET /api/v1/users/me
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, profile)
}

// UpdateProfile updates the caller's display name / avatar
// PUT /api/v1/users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		response.Unauthorized(c, "Unauthorized")
		return
	}

	var req user.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Success(c, http.StatusOK, profile)
}
