package category

import (
	"time"

	"github.com/google/uuid"
)

// Category is an editorial grouping. Posts attach to any number of
// categories through the post_categories join table.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
