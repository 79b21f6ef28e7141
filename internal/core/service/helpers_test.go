package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/demoserver/backend/internal/core/domain"
	"github.com/demoserver/backend/internal/core/ports"
	"github.com/demoserver/backend/internal/infrastructure/db/memory"
)

// countingHasher records how many comparisons were performed.
type countingHasher struct {
	*BcryptHasher
	verifies int
}

func (h *countingHasher) Verify(plaintext, hash string) bool {
	h.verifies++
	return h.BcryptHasher.Verify(plaintext, hash)
}

type fixture struct {
	users    *memory.UserRepository
	products *memory.ProductRepository
	hasher   *countingHasher
	tokens   *JWTService
	auth     *AuthService
	userSvc  *UserService
	prodSvc  *ProductService
}

func newFixture(t *testing.T, throttle ports.LoginThrottle) *fixture {
	t.Helper()

	tokens, err := NewJWTService([]byte("fixture-secret"), 30*time.Minute)
	if err != nil {
		t.Fatalf("NewJWTService returned error: %v", err)
	}

	f := &fixture{
		users:    memory.NewUserRepository(memory.Options{}),
		products: memory.NewProductRepository(memory.Options{}),
		hasher:   &countingHasher{BcryptHasher: NewBcryptHasher(bcrypt.MinCost)},
		tokens:   tokens,
	}
	log := zerolog.Nop()
	f.auth = NewAuthService(f.users, f.hasher, tokens, throttle, log)
	f.userSvc = NewUserService(f.users, f.hasher, log)
	f.prodSvc = NewProductService(f.products, log)
	return f
}

func (f *fixture) mustCreateUser(t *testing.T, username, password string, role domain.Role) domain.User {
	t.Helper()
	u, err := f.userSvc.CreateUser(context.Background(), ports.CreateUserInput{
		Username: username,
		Email:    username + "@example.com",
		Password: password,
		Role:     role,
	})
	if err != nil {
		t.Fatalf("CreateUser(%s) returned error: %v", username, err)
	}
	return u
}

func ptr[T any](v T) *T { return &v }
