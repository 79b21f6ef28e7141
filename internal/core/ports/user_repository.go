package ports

import (
	"context"

	"github.com/demoserver/backend/internal/core/domain"
)

// UserRepository defines persistence operations for the user directory.
// Implementations enforce username and email uniqueness.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByID(ctx context.Context, id int64) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	List(ctx context.Context, skip, limit int) ([]domain.User, error)
	// Update applies mutate atomically; a mutate error leaves the stored user untouched.
	Update(ctx context.Context, id int64, mutate func(*domain.User) error) (domain.User, error)
	Delete(ctx context.Context, id int64) error
}
