package user

import (
	"time"

	"github.com/google/uuid"
)

// Auth providers
const (
	ProviderEmail  = "email"
	ProviderGoogle = "google"
	ProviderGitHub = "github"
)

// User is the account row. It doubles as the public profile:
// a profile is provisioned the moment the account is created,
// and posts join against this table by author_id.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash *string   `json:"-"` // nil for OAuth-only accounts
	FullName     *string   `json:"full_name"`
	AvatarURL    *string   `json:"avatar_url"`
	Provider     string    `json:"provider"`
	IsActive     bool      `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileDTO is the user shape exposed over the API.
// Never carries the password hash.
type ProfileDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name"`
	AvatarURL *string   `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) ToProfile() ProfileDTO {
	return ProfileDTO{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
