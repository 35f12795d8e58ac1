package model

import (
	"time"

	"github.com/google/uuid"
)

// Author is the public profile attached to a post.
// Nil on a post means the profile row is gone; the post
// still renders, with anonymous authorship.
type Author struct {
	ID        uuid.UUID `json:"id"`
	FullName  *string   `json:"full_name"`
	AvatarURL *string   `json:"avatar_url"`
}

// Post represents a blog post entity
type Post struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Content       string    `json:"content"`
	Excerpt       *string   `json:"excerpt"`
	FeaturedImage *string   `json:"featured_image"`
	Published     bool      `json:"published"`
	AuthorID      uuid.UUID `json:"author_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Joined data
	Author     *Author  `json:"author,omitempty"`
	Categories []string `json:"categories,omitempty"`
}

// IsOwnedBy reports whether userID is the post's author.
// Advisory only: the repository re-applies the same rule as a
// row predicate on every mutation.
func (p *Post) IsOwnedBy(userID uuid.UUID) bool {
	return p.AuthorID == userID
}
