package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"blog-backend/internal/domains/user"
	"blog-backend/pkg/cache"
	"blog-backend/pkg/jwt"
	"blog-backend/pkg/logger"
)

// Failed-login throttle
const (
	maxLoginAttempts   = 5
	loginAttemptWindow = 15 * time.Minute
)

// userService implements user.Service
type userService struct {
	repo       user.Repository
	jwtManager *jwt.Manager
	sessions   cache.Cache // nil when Redis is unavailable; degrades gracefully
	oauth      *OAuthProviders
}

// NewUserService wires the identity service. sessions may be nil:
// login still works, refresh tokens fall back to JWT validation only.
func NewUserService(
	repo user.Repository,
	jwtManager *jwt.Manager,
	sessions cache.Cache,
	oauth *OAuthProviders,
) user.Service {
	return &userService{
		repo:       repo,
		jwtManager: jwtManager,
		sessions:   sessions,
		oauth:      oauth,
	}
}

// ========================================
// REGISTRATION
// ========================================

// Register creates the account row, which is also the profile
// provisioning step: posts join against this row by author_id.
func (s *userService) Register(ctx context.Context, req user.RegisterRequest) (*user.ProfileDTO, error) {
	// 1. Validate input
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. Business rule: email must be unused
	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, user.ErrEmailAlreadyExists
	} else if !errors.Is(err, user.ErrUserNotFound) {
		return nil, fmt.Errorf("check email exists: %w", err)
	}

	// 3. Hash password (cost 12: security/latency balance)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 4. Create the account/profile entity
	now := time.Now()
	hash := string(passwordHash)
	newUser := &user.User{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: &hash,
		FullName:     optional(req.FullName),
		Provider:     user.ProviderEmail,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 5. Persist
	if err := s.repo.Create(ctx, newUser); err != nil {
		if errors.Is(err, user.ErrEmailAlreadyExists) {
			return nil, user.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	profile := newUser.ToProfile()
	return &profile, nil
}

// ========================================
// PASSWORD LOGIN
// ========================================

func (s *userService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	// 1. Validate input
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. Throttle repeated failures per email
	if blocked, err := s.tooManyAttempts(ctx, req.Email); err != nil {
		logger.Error("Login: attempt counter unavailable", err)
	} else if blocked {
		return nil, user.ErrTooManyAttempts
	}

	// 3. Find the account. "not found" and "wrong password" are the
	// same error on purpose: no account enumeration.
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		s.recordFailedAttempt(ctx, req.Email)
		return nil, user.ErrInvalidCredentials
	}

	// 4. OAuth-only accounts have no password to check
	if u.PasswordHash == nil {
		s.recordFailedAttempt(ctx, req.Email)
		return nil, user.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(req.Password)); err != nil {
		s.recordFailedAttempt(ctx, req.Email)
		return nil, user.ErrInvalidCredentials
	}

	// 5. Business rule: account must be active
	if !u.IsActive {
		return nil, user.ErrUserInactive
	}

	// 6. Issue the session
	return s.issueSession(ctx, u)
}

// ========================================
// SESSION LIFECYCLE
// ========================================

func (s *userService) RefreshToken(ctx context.Context, refreshToken string) (*user.LoginResponse, error) {
	claims, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, user.ErrInvalidRefreshToken
	}

	// Check the allowlist so logout actually revokes. Without Redis
	// this degrades to JWT validation only.
	if s.sessions != nil {
		ok, err := s.sessions.Exists(ctx, sessionKey(refreshToken))
		if err != nil {
			logger.Error("RefreshToken: session store unavailable", err)
		} else if !ok {
			return nil, user.ErrInvalidRefreshToken
		}
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, user.ErrInvalidRefreshToken
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, user.ErrInvalidRefreshToken
	}
	if !u.IsActive {
		return nil, user.ErrUserInactive
	}

	// Rotate: the old token dies with the new issuance
	if s.sessions != nil {
		_ = s.sessions.Delete(ctx, sessionKey(refreshToken))
	}

	return s.issueSession(ctx, u)
}

func (s *userService) Logout(ctx context.Context, refreshToken string) error {
	if s.sessions == nil {
		return nil
	}
	return s.sessions.Delete(ctx, sessionKey(refreshToken))
}

// ========================================
// PROFILE
// ========================================

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*user.ProfileDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := u.ToProfile()
	return &profile, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req user.UpdateProfileRequest) (*user.ProfileDTO, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		u.FullName = req.FullName
	}
	if req.AvatarURL != nil {
		u.AvatarURL = req.AvatarURL
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	u.UpdatedAt = time.Now()
	profile := u.ToProfile()
	return &profile, nil
}

// ========================================
// HELPERS
// ========================================

func (s *userService) issueSession(ctx context.Context, u *user.User) (*user.LoginResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(u.ID.String(), u.Email)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(u.ID.String())
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if s.sessions != nil {
		if err := s.sessions.Set(ctx, sessionKey(refreshToken), u.ID.String(), s.jwtManager.RefreshExpiry()); err != nil {
			logger.Error("issueSession: session store unavailable", err)
		}
	}

	return &user.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(s.jwtManager.RefreshExpiry()),
		User:         u.ToProfile(),
	}, nil
}

func (s *userService) tooManyAttempts(ctx context.Context, email string) (bool, error) {
	if s.sessions == nil {
		return false, nil
	}
	var count int64
	found, err := s.sessions.Get(ctx, attemptKey(email), &count)
	if err != nil {
		return false, err
	}
	return found && count >= maxLoginAttempts, nil
}

func (s *userService) recordFailedAttempt(ctx context.Context, email string) {
	if s.sessions == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	count, err := s.sessions.Increment(ctx, attemptKey(email))
	if err != nil {
		logger.Error("recordFailedAttempt: counter unavailable", err)
		return
	}
	if count == 1 {
		_ = s.sessions.Expire(ctx, attemptKey(email), loginAttemptWindow)
	}
}

func sessionKey(refreshToken string) string {
	return "session:refresh:" + refreshToken
}

func attemptKey(email string) string {
	return "login:attempts:" + email
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
