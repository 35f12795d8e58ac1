package user

import (
	"context"

	"github.com/google/uuid"
)

// Service is the identity business logic contract
type Service interface {
	// Authentication
	Register(ctx context.Context, req RegisterRequest) (*ProfileDTO, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*LoginResponse, error)
	Logout(ctx context.Context, refreshToken string) error

	// OAuth sign-in (provider redirect flow)
	OAuthRedirect(ctx context.Context, provider, state string) (*OAuthRedirectResponse, error)
	OAuthCallback(ctx context.Context, provider, code string) (*LoginResponse, error)

	// Profile
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*ProfileDTO, error)
}
