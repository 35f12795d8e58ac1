package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the identity data access contract.
// An interface so tests can run against an in-memory fake.
type Repository interface {
	// Create inserts an account/profile row.
	// Returns: ErrEmailAlreadyExists on the email unique constraint
	Create(ctx context.Context, user *User) error

	// FindByID looks an account up by id.
	// Returns: ErrUserNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail looks an account up by email (login path).
	// Returns: ErrUserNotFound when absent
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Update persists profile field changes, advancing updated_at.
	// Returns: ErrUserNotFound when absent
	Update(ctx context.Context, user *User) error
}
