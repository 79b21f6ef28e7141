package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/demoserver/backend/internal/core/domain"
	"github.com/demoserver/backend/internal/core/ports"
)

const MinPasswordLength = 6

// UserService implements the user directory use cases.
type UserService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService(users ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger) *UserService {
	return &UserService{users: users, hasher: hasher, log: log}
}

func (s *UserService) CreateUser(ctx context.Context, in ports.CreateUserInput) (domain.User, error) {
	user, err := createUser(ctx, s.users, s.hasher, in)
	if err != nil {
		return domain.User{}, err
	}
	s.log.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("user created")
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (domain.User, error) {
	return s.users.FindByID(ctx, id)
}

func (s *UserService) ListUsers(ctx context.Context, page ports.Page) ([]domain.User, error) {
	return s.users.List(ctx, page.Skip, page.Limit)
}

// UpdateUser applies a partial update. Non-admin actors may edit profile
// fields only; touching role or is_active yields ErrForbidden.
func (s *UserService) UpdateUser(ctx context.Context, actor domain.Identity, id int64, in ports.UpdateUserInput) (domain.User, error) {
	if !actor.IsAdmin() && (in.Role != nil || in.IsActive != nil) {
		return domain.User{}, domain.ErrForbidden
	}
	if in.Role != nil && !in.Role.Valid() {
		_, err := domain.ParseRole(string(*in.Role))
		return domain.User{}, err
	}

	var username, email string
	if in.Username != nil {
		username = strings.TrimSpace(*in.Username)
		if username == "" {
			return domain.User{}, domain.NewValidationError("username", "must not be empty")
		}
	}
	if in.Email != nil {
		email = strings.TrimSpace(*in.Email)
		if email == "" {
			return domain.User{}, domain.NewValidationError("email", "must not be empty")
		}
	}

	updated, err := s.users.Update(ctx, id, func(u *domain.User) error {
		if in.Username != nil {
			u.Username = username
		}
		if in.Email != nil {
			u.Email = email
		}
		if in.FullName != nil {
			u.FullName = strings.TrimSpace(*in.FullName)
		}
		if in.Role != nil {
			u.Role = *in.Role
		}
		if in.IsActive != nil {
			u.IsActive = *in.IsActive
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	s.log.Info().Int64("user_id", id).Int64("actor", actor.Subject).Msg("user updated")
	return updated, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

// createUser is shared by admin creation and self-service registration.
func createUser(ctx context.Context, users ports.UserRepository, hasher ports.PasswordHasher, in ports.CreateUserInput) (domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	switch {
	case username == "":
		return domain.User{}, domain.NewValidationError("username", "is required")
	case email == "":
		return domain.User{}, domain.NewValidationError("email", "is required")
	case len(in.Password) < MinPasswordLength:
		return domain.User{}, domain.NewValidationError("password", "must be at least 6 characters long")
	}

	role := in.Role
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		_, err := domain.ParseRole(string(role))
		return domain.User{}, err
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}

	hash, err := hasher.Hash(in.Password)
	if err != nil {
		return domain.User{}, domain.NewValidationError("password", err.Error())
	}

	return users.Create(ctx, domain.User{
		Username:     username,
		Email:        email,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: hash,
		Role:         role,
		IsActive:     active,
	})
}
