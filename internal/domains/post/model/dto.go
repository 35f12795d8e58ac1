package model

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// CreatePostRequest carries the author-supplied fields of a new post.
// The author id is NEVER part of the request - it always comes from
// the authenticated session.
type CreatePostRequest struct {
	Title         string      `json:"title" binding:"required"`
	Slug          string      `json:"slug"` // empty = derive from title
	Content       string      `json:"content" binding:"required"`
	Excerpt       *string     `json:"excerpt"`
	FeaturedImage *string     `json:"featured_image"`
	Published     bool        `json:"published"`
	CategoryIDs   []uuid.UUID `json:"category_ids"`
}

func (r CreatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 200),
		),
		validation.Field(&r.Content,
			validation.Required.Error("content is required"),
		),
		validation.Field(&r.Slug,
			validation.When(r.Slug != "",
				validation.Match(slugPattern).Error("slug may contain only lowercase letters, numbers and hyphens"),
				validation.Length(1, 200),
			),
		),
	)
}

// UpdatePostRequest is a full replace of the mutable fields,
// mirroring what the edit form submits.
type UpdatePostRequest struct {
	Title         string      `json:"title" binding:"required"`
	Slug          string      `json:"slug" binding:"required"`
	Content       string      `json:"content" binding:"required"`
	Excerpt       *string     `json:"excerpt"`
	FeaturedImage *string     `json:"featured_image"`
	Published     bool        `json:"published"`
	CategoryIDs   []uuid.UUID `json:"category_ids"`
}

func (r UpdatePostRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title,
			validation.Required.Error("title is required"),
			validation.Length(1, 200),
		),
		validation.Field(&r.Slug,
			validation.Required.Error("slug is required"),
			validation.Match(slugPattern).Error("slug may contain only lowercase letters, numbers and hyphens"),
			validation.Length(1, 200),
		),
		validation.Field(&r.Content,
			validation.Required.Error("content is required"),
		),
	)
}

// PostResponse is the shape every read path returns
type PostResponse struct {
	ID            uuid.UUID `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Content       string    `json:"content"`
	Excerpt       *string   `json:"excerpt"`
	FeaturedImage *string   `json:"featured_image"`
	Published     bool      `json:"published"`
	AuthorID      uuid.UUID `json:"author_id"`
	Author        *Author   `json:"author"`
	Categories    []string  `json:"categories,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToResponse converts an entity into the API shape
func (p *Post) ToResponse() *PostResponse {
	return &PostResponse{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Content:       p.Content,
		Excerpt:       p.Excerpt,
		FeaturedImage: p.FeaturedImage,
		Published:     p.Published,
		AuthorID:      p.AuthorID,
		Author:        p.Author,
		Categories:    p.Categories,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
