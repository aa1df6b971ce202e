package repository

import (
	"context"

	"github.com/convoo/convoo-backend/internal/domain"
)

// UserRepository is the store of verified accounts. Implementations must
// enforce email uniqueness and surface violations as domain.ErrEmailTaken.
type UserRepository interface {
	// Insert stores a new user and fills in its ID and timestamps.
	// Returns domain.ErrEmailTaken if the email is already registered.
	Insert(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfilePic(ctx context.Context, id, url string) (*domain.User, error)
}
