package repository

import (
	"context"

	"noteshare/internal/domain"
)

// UserRepository defines persistence operations for User entities.
// Create returns ErrDuplicate (wrapped) when the username or email is
// already taken; lookups return ErrNotFound for absent users.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	// Update rewrites the mutable fields (email, password hash); the
	// username and id are fixed at registration.
	Update(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
