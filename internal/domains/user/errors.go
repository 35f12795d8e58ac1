package user

import "errors"

// Repository-level errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Service-level errors
var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserInactive        = errors.New("user account is inactive")
	ErrTooManyAttempts     = errors.New("too many login attempts, please try again later")
	ErrInvalidRefreshToken = errors.New("invalid or revoked refresh token")
	ErrUnauthorized        = errors.New("unauthorized access")

	// OAuth
	ErrUnsupportedProvider   = errors.New("unsupported oauth provider")
	ErrProviderNotConfigured = errors.New("oauth provider is not configured")
	ErrOAuthExchangeFailed   = errors.New("oauth code exchange failed")
)
