package ports

import (
	"context"

	"github.com/ericrr237-labz/IVY/internal/core/domain"
)

// UserRepository defines persistence for user credentials.
type UserRepository interface {
	// Create inserts a new user. Returns domain.ErrEmailExists when the email
	// is already registered; the store's unique index makes this check atomic.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
