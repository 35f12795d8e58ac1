package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"blog-backend/internal/config"
	"blog-backend/internal/domains/user"
	"blog-backend/pkg/logger"
)

// OAuthProviders holds the configured OAuth clients keyed by
// provider name. A provider with no client ID stays out of the map
// and callers get ErrProviderNotConfigured.
type OAuthProviders struct {
	configs map[string]*oauth2.Config
}

// NewOAuthProviders builds provider clients from config. Callback
// URLs derive from the public base URL so they match what the
// provider console has registered.
func NewOAuthProviders(cfg config.OAuthConfig, baseURL string) *OAuthProviders {
	configs := make(map[string]*oauth2.Config)

	if cfg.Google.ClientID != "" {
		configs[user.ProviderGoogle] = &oauth2.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  callbackURL(baseURL, user.ProviderGoogle),
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}

	if cfg.GitHub.ClientID != "" {
		configs[user.ProviderGitHub] = &oauth2.Config{
			ClientID:     cfg.GitHub.ClientID,
			ClientSecret: cfg.GitHub.ClientSecret,
			RedirectURL:  callbackURL(baseURL, user.ProviderGitHub),
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		}
	}

	return &OAuthProviders{configs: configs}
}

func callbackURL(baseURL, provider string) string {
	return fmt.Sprintf("%s/api/v1/auth/oauth/%s/callback", baseURL, provider)
}

func (p *OAuthProviders) config(provider string) (*oauth2.Config, error) {
	switch provider {
	case user.ProviderGoogle, user.ProviderGitHub:
	default:
		return nil, user.ErrUnsupportedProvider
	}

	cfg, ok := p.configs[provider]
	if !ok {
		return nil, user.ErrProviderNotConfigured
	}
	return cfg, nil
}

// ========================================
// SERVICE METHODS
// ========================================

func (s *userService) OAuthRedirect(ctx context.Context, provider, state string) (*user.OAuthRedirectResponse, error) {
	cfg, err := s.oauth.config(provider)
	if err != nil {
		return nil, err
	}

	return &user.OAuthRedirectResponse{
		Provider: provider,
		URL:      cfg.AuthCodeURL(state, oauth2.AccessTypeOnline),
	}, nil
}

// OAuthCallback exchanges the authorization code, fetches the
// provider profile and signs the user in, provisioning the account
// on first sight.
func (s *userService) OAuthCallback(ctx context.Context, provider, code string) (*user.LoginResponse, error) {
	cfg, err := s.oauth.config(provider)
	if err != nil {
		return nil, err
	}

	// 1. Code -> provider token
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		logger.Error("OAuthCallback: code exchange failed", err)
		return nil, user.ErrOAuthExchangeFailed
	}

	// 2. Token -> provider profile
	identity, err := fetchIdentity(ctx, cfg.Client(ctx, token), provider)
	if err != nil {
		logger.Error("OAuthCallback: userinfo fetch failed", err)
		return nil, user.ErrOAuthExchangeFailed
	}

	// 3. Find or provision the account
	u, err := s.repo.FindByEmail(ctx, identity.Email)
	if err != nil {
		now := time.Now()
		u = &user.User{
			ID:        uuid.New(),
			Email:     identity.Email,
			FullName:  optional(identity.Name),
			AvatarURL: optional(identity.AvatarURL),
			Provider:  provider,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.repo.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("provision oauth user: %w", err)
		}
	}

	if !u.IsActive {
		return nil, user.ErrUserInactive
	}

	// 4. Issue our own session; the provider token is discarded
	return s.issueSession(ctx, u)
}

// ========================================
// PROVIDER USERINFO
// ========================================

// oauthIdentity is the least common denominator of the provider
// profile endpoints.
type oauthIdentity struct {
	Email     string
	Name      string
	AvatarURL string
}

func fetchIdentity(ctx context.Context, client *http.Client, provider string) (*oauthIdentity, error) {
	switch provider {
	case user.ProviderGoogle:
		return fetchGoogleIdentity(ctx, client)
	case user.ProviderGitHub:
		return fetchGitHubIdentity(ctx, client)
	default:
		return nil, user.ErrUnsupportedProvider
	}
}

func fetchGoogleIdentity(ctx context.Context, client *http.Client) (*oauthIdentity, error) {
	var info struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := getJSON(ctx, client, "https://www.googleapis.com/oauth2/v2/userinfo", &info); err != nil {
		return nil, err
	}
	if info.Email == "" {
		return nil, fmt.Errorf("google userinfo: no email in response")
	}

	return &oauthIdentity{Email: info.Email, Name: info.Name, AvatarURL: info.Picture}, nil
}

func fetchGitHubIdentity(ctx context.Context, client *http.Client) (*oauthIdentity, error) {
	var info struct {
		Email     string `json:"email"`
		Name      string `json:"name"`
		Login     string `json:"login"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := getJSON(ctx, client, "https://api.github.com/user", &info); err != nil {
		return nil, err
	}

	// GitHub hides the email on /user when the profile email is
	// private; the /user/emails endpoint still returns it.
	if info.Email == "" {
		email, err := fetchGitHubPrimaryEmail(ctx, client)
		if err != nil {
			return nil, err
		}
		info.Email = email
	}

	name := info.Name
	if name == "" {
		name = info.Login
	}

	return &oauthIdentity{Email: info.Email, Name: name, AvatarURL: info.AvatarURL}, nil
}

func fetchGitHubPrimaryEmail(ctx context.Context, client *http.Client) (string, error) {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}
	if err := getJSON(ctx, client, "https://api.github.com/user/emails", &emails); err != nil {
		return "", err
	}

	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	return "", fmt.Errorf("github: no verified primary email")
}

func getJSON(ctx context.Context, client *http.Client, url string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s: status %d: %s", url, resp.StatusCode, body)
	}

	return json.NewDecoder(resp.Body).Decode(dest)
}
