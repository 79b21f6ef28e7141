package memory

import (
	"context"
	"time"

	"github.com/demoserver/backend/internal/core/domain"
	"github.com/demoserver/backend/internal/core/ports"
)

const (
	fieldUsername = "username"
	fieldEmail    = "email"
)

// UserRepository is the in-memory user directory.
type UserRepository struct {
	store *Store[domain.User]
}

var _ ports.UserRepository = (*UserRepository)(nil)

// NewUserRepository builds an empty user directory.
func NewUserRepository(opts Options) *UserRepository {
	schema := Schema[domain.User]{
		SetID: func(u *domain.User, id int64) { u.ID = id },
		Stamp: stampUser,
		Clone: cloneUser,
		Searchable: func(u domain.User) []string {
			return []string{u.Username, u.Email, u.FullName}
		},
		Unique: []UniqueKey[domain.User]{
			{Field: fieldUsername, Value: func(u domain.User) string { return u.Username }, Err: domain.ErrUsernameTaken},
			{Field: fieldEmail, Value: func(u domain.User) string { return u.Email }, Err: domain.ErrEmailTaken},
		},
		NotFound: domain.ErrUserNotFound,
	}
	return &UserRepository{store: NewStore(schema, opts)}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}
	return r.store.Create(user)
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}
	return r.store.Get(id)
}

// FindByUsername matches the username exactly (case-sensitive).
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}
	return r.store.FindUnique(fieldUsername, username)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}
	return r.store.FindUnique(fieldEmail, email)
}

func (r *UserRepository) List(ctx context.Context, skip, limit int) ([]domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.store.List(nil, skip, limit), nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, mutate func(*domain.User) error) (domain.User, error) {
	if err := ctx.Err(); err != nil {
		return domain.User{}, err
	}
	return r.store.Update(id, mutate)
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !r.store.Delete(id) {
		return domain.ErrUserNotFound
	}
	return nil
}

// Len returns the number of users.
func (r *UserRepository) Len() int {
	return r.store.Len()
}

func stampUser(u *domain.User, now time.Time, created bool) {
	if created {
		u.CreatedAt = now
		u.UpdatedAt = nil
		return
	}
	u.UpdatedAt = &now
}

func cloneUser(u domain.User) domain.User {
	if u.UpdatedAt != nil {
		ts := *u.UpdatedAt
		u.UpdatedAt = &ts
	}
	return u
}
