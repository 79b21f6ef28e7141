package ports

import (
	"context"
	"time"

	"github.com/demoserver/backend/internal/core/domain"
)

// TokenTypeBearer is the only token type the service issues.
const TokenTypeBearer = "bearer"

// PasswordHasher hashes and verifies credentials.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenService signs and verifies stateless access tokens.
type TokenService interface {
	Issue(subject int64, role domain.Role, ttl time.Duration) (string, domain.Identity, error)
	Verify(token string) (domain.Identity, error)
}

// TokenResult is returned by a successful login.
type TokenResult struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
}

// RegisterInput carries self-service sign-up data. The role is always user.
type RegisterInput struct {
	Username string
	Email    string
	FullName string
	Password string
}

// AuthService covers login, sign-up and bearer-token resolution.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*TokenResult, error)
	Register(ctx context.Context, in RegisterInput) (domain.User, error)
	// Authenticate verifies token and checks its subject is still an active user.
	Authenticate(ctx context.Context, token string) (domain.Identity, error)
	CurrentUser(ctx context.Context, id domain.Identity) (domain.User, error)
}
