package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/config"
	"blog-backend/internal/domains/user"
	"blog-backend/pkg/jwt"
)

// ========================================
// FAKES
// ========================================

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*user.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return user.ErrEmailAlreadyExists
		}
	}
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *user.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return user.ErrUserNotFound
	}
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

// fakeCache is a map-backed stand-in for Redis. TTLs are recorded
// but never enforced; the tests only care about key presence and
// counter values.
type fakeCache struct {
	mu       sync.Mutex
	values   map[string]interface{}
	counters map[string]int64
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		values:   make(map[string]interface{}),
		counters: make(map[string]int64),
	}
}

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if count, ok := c.counters[key]; ok {
		if p, ok := dest.(*int64); ok {
			*p = count
		}
		return true, nil
	}
	v, ok := c.values[key]
	if !ok {
		return false, nil
	}
	if p, ok := dest.(*string); ok {
		*p, _ = v.(string)
	}
	return true, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
		delete(c.counters, k)
	}
	return nil
}

func (c *fakeCache) Ping(_ context.Context) error { return nil }

func (c *fakeCache) Increment(_ context.Context, key string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[key]++
	return c.counters[key], nil
}

func (c *fakeCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, inValues := c.values[key]
	_, inCounters := c.counters[key]
	return inValues || inCounters, nil
}

func (c *fakeCache) Expire(_ context.Context, _ string, _ time.Duration) error { return nil }

// ========================================
// HELPERS
// ========================================

func newTestService(t *testing.T) (user.Service, *fakeUserRepo, *fakeCache) {
	t.Helper()
	repo := newFakeUserRepo()
	sessions := newFakeCache()
	manager := jwt.NewManager("test-secret", time.Hour, 72*time.Hour)
	oauth := NewOAuthProviders(config.OAuthConfig{}, "http://localhost:8080")
	svc := NewUserService(repo, manager, sessions, oauth)
	return svc, repo, sessions
}

func register(t *testing.T, svc user.Service, email, password string) *user.ProfileDTO {
	t.Helper()
	profile, err := svc.Register(context.Background(), user.RegisterRequest{
		Email:    email,
		Password: password,
		FullName: "Test Author",
	})
	require.NoError(t, err)
	return profile
}

// ========================================
// TESTS
// ========================================

func TestRegisterAndLoginRoundTrip(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	profile := register(t, svc, "author@example.com", "correct horse battery")
	assert.Equal(t, "author@example.com", profile.Email)
	require.NotNil(t, profile.FullName)
	assert.Equal(t, "Test Author", *profile.FullName)

	session, err := svc.Login(ctx, user.LoginRequest{
		Email:    "author@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, profile.ID, session.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	register(t, svc, "taken@example.com", "first password")

	_, err := svc.Register(context.Background(), user.RegisterRequest{
		Email:    "taken@example.com",
		Password: "second password",
	})
	assert.ErrorIs(t, err, user.ErrEmailAlreadyExists)
}

func TestRegisterRejectsWeakInput(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, user.RegisterRequest{Email: "not-an-email", Password: "long enough pass"})
	assert.Error(t, err)

	_, err = svc.Register(ctx, user.RegisterRequest{Email: "ok@example.com", Password: "short"})
	assert.Error(t, err)
}

func TestLoginWrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, "author@example.com", "correct horse battery")

	_, wrongPass := svc.Login(ctx, user.LoginRequest{
		Email:    "author@example.com",
		Password: "wrong password!!",
	})
	_, noAccount := svc.Login(ctx, user.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever password",
	})

	assert.ErrorIs(t, wrongPass, user.ErrInvalidCredentials)
	assert.ErrorIs(t, noAccount, user.ErrInvalidCredentials)
	assert.Equal(t, wrongPass.Error(), noAccount.Error())
}

func TestLoginThrottleAfterRepeatedFailures(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, "author@example.com", "correct horse battery")

	bad := user.LoginRequest{Email: "author@example.com", Password: "wrong password!!"}
	for i := 0; i < maxLoginAttempts; i++ {
		_, err := svc.Login(ctx, bad)
		assert.ErrorIs(t, err, user.ErrInvalidCredentials)
	}

	// The window is now exhausted: even the right password is refused
	_, err := svc.Login(ctx, user.LoginRequest{
		Email:    "author@example.com",
		Password: "correct horse battery",
	})
	assert.ErrorIs(t, err, user.ErrTooManyAttempts)
}

func TestRefreshTokenRotation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, "author@example.com", "correct horse battery")
	session, err := svc.Login(ctx, user.LoginRequest{
		Email:    "author@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	renewed, err := svc.RefreshToken(ctx, session.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, renewed.AccessToken)

	// The old refresh token was rotated out
	_, err = svc.RefreshToken(ctx, session.RefreshToken)
	assert.ErrorIs(t, err, user.ErrInvalidRefreshToken)
}

func TestLogoutRevokesRefreshToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, "author@example.com", "correct horse battery")
	session, err := svc.Login(ctx, user.LoginRequest{
		Email:    "author@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, session.RefreshToken))

	_, err = svc.RefreshToken(ctx, session.RefreshToken)
	assert.ErrorIs(t, err, user.ErrInvalidRefreshToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	register(t, svc, "author@example.com", "correct horse battery")
	session, err := svc.Login(ctx, user.LoginRequest{
		Email:    "author@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)

	_, err = svc.RefreshToken(ctx, session.AccessToken)
	assert.ErrorIs(t, err, user.ErrInvalidRefreshToken)
}

func TestLoginInactiveAccount(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	profile := register(t, svc, "author@example.com", "correct horse battery")

	u, err := repo.FindByID(ctx, profile.ID)
	require.NoError(t, err)
	u.IsActive = false
	require.NoError(t, repo.Update(ctx, u))

	_, err = svc.Login(ctx, user.LoginRequest{
		Email:    "author@example.com",
		Password: "correct horse battery",
	})
	assert.ErrorIs(t, err, user.ErrUserInactive)
}

func TestUpdateProfile(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	profile := register(t, svc, "author@example.com", "correct horse battery")

	name := "Renamed Author"
	avatar := "https://cdn.example.com/avatars/a.png"
	updated, err := svc.UpdateProfile(ctx, profile.ID, user.UpdateProfileRequest{
		FullName:  &name,
		AvatarURL: &avatar,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.FullName)
	assert.Equal(t, name, *updated.FullName)
	require.NotNil(t, updated.AvatarURL)
	assert.Equal(t, avatar, *updated.AvatarURL)

	// Omitted fields stay untouched
	again, err := svc.UpdateProfile(ctx, profile.ID, user.UpdateProfileRequest{})
	require.NoError(t, err)
	require.NotNil(t, again.FullName)
	assert.Equal(t, name, *again.FullName)
}

func TestUpdateProfileRejectsBadAvatarURL(t *testing.T) {
	svc, _, _ := newTestService(t)

	profile := register(t, svc, "author@example.com", "correct horse battery")

	bad := "not a url at all"
	_, err := svc.UpdateProfile(context.Background(), profile.ID, user.UpdateProfileRequest{
		AvatarURL: &bad,
	})
	assert.Error(t, err)
}

func TestOAuthRedirectUnknownProvider(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.OAuthRedirect(context.Background(), "myspace", "state123")
	assert.ErrorIs(t, err, user.ErrUnsupportedProvider)
}

func TestOAuthRedirectNotConfigured(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.OAuthRedirect(context.Background(), user.ProviderGoogle, "state123")
	assert.ErrorIs(t, err, user.ErrProviderNotConfigured)
}

func TestOAuthRedirectBuildsAuthorizeURL(t *testing.T) {
	repo := newFakeUserRepo()
	manager := jwt.NewManager("test-secret", time.Hour, 72*time.Hour)
	oauth := NewOAuthProviders(config.OAuthConfig{
		Google: config.OAuthProviderConfig{ClientID: "google-id", ClientSecret: "google-secret"},
	}, "https://blog.example.com")
	svc := NewUserService(repo, manager, newFakeCache(), oauth)

	redirect, err := svc.OAuthRedirect(context.Background(), user.ProviderGoogle, "state123")
	require.NoError(t, err)
	assert.Equal(t, user.ProviderGoogle, redirect.Provider)
	assert.Contains(t, redirect.URL, "client_id=google-id")
	assert.Contains(t, redirect.URL, "state=state123")
	assert.True(t, strings.Contains(redirect.URL, "accounts.google.com"))
}
