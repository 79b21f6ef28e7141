package ports

import (
	"context"

	"github.com/demoserver/backend/internal/core/domain"
)

// Page carries already-validated pagination parameters.
type Page struct {
	Skip  int
	Limit int
}

// CreateUserInput carries admin-side user creation data.
type CreateUserInput struct {
	Username string
	Email    string
	FullName string
	Password string
	Role     domain.Role // empty = user
	IsActive *bool       // nil = true
}

// UpdateUserInput is a partial update; nil fields are left untouched.
type UpdateUserInput struct {
	Username *string
	Email    *string
	FullName *string
	Role     *domain.Role
	IsActive *bool
}

// UserService defines use-case operations for the user directory.
type UserService interface {
	CreateUser(ctx context.Context, in CreateUserInput) (domain.User, error)
	GetUser(ctx context.Context, id int64) (domain.User, error)
	ListUsers(ctx context.Context, page Page) ([]domain.User, error)
	// UpdateUser applies in on behalf of actor. Only admins may change role or is_active.
	UpdateUser(ctx context.Context, actor domain.Identity, id int64, in UpdateUserInput) (domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}
