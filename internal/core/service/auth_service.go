package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/demoserver/backend/internal/core/domain"
	"github.com/demoserver/backend/internal/core/ports"
)

// dummyPassword is hashed once and verified against whenever the username is
// unknown, so both rejection paths pay for one bcrypt comparison.
const dummyPassword = "not-a-real-password"

// AuthService implements login, registration and token resolution.
type AuthService struct {
	users    ports.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenService
	throttle ports.LoginThrottle
	log      zerolog.Logger

	dummyOnce sync.Once
	dummyHash string
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService wires the auth use cases. A nil throttle disables lockout.
func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenService,
	throttle ports.LoginThrottle,
	log zerolog.Logger,
) *AuthService {
	if throttle == nil {
		throttle = noThrottle{}
	}
	return &AuthService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		throttle: throttle,
		log:      log,
	}
}

// Login exchanges credentials for an access token. Unknown usernames and wrong
// passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.TokenResult, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	locked, err := s.throttle.Locked(ctx, username)
	if err != nil {
		s.log.Warn().Err(err).Msg("login throttle unavailable")
	}
	if locked {
		return nil, domain.ErrTooManyAttempts
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		s.hasher.Verify(password, s.dummy())
		s.recordFailure(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.recordFailure(ctx, username)
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrInactiveUser
	}

	if err := s.throttle.Reset(ctx, username); err != nil {
		s.log.Warn().Err(err).Msg("login throttle reset failed")
	}

	token, id, err := s.tokens.Issue(user.ID, user.Role, 0)
	if err != nil {
		return nil, err
	}

	s.log.Info().Int64("user_id", user.ID).Str("jti", id.TokenID).Msg("token issued")
	return &ports.TokenResult{
		AccessToken: token,
		TokenType:   ports.TokenTypeBearer,
		ExpiresAt:   id.ExpiresAt,
	}, nil
}

// Register creates a regular, active account. The caller cannot pick a role.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (domain.User, error) {
	return createUser(ctx, s.users, s.hasher, ports.CreateUserInput{
		Username: in.Username,
		Email:    in.Email,
		FullName: in.FullName,
		Password: in.Password,
		Role:     domain.RoleUser,
	})
}

// Authenticate verifies token and confirms the subject still exists and is
// active. A token for a deleted user is treated as malformed.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Identity{}, domain.ErrTokenMalformed
	}

	id, err := s.tokens.Verify(token)
	if err != nil {
		return domain.Identity{}, err
	}

	user, err := s.users.FindByID(ctx, id.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Identity{}, domain.ErrTokenMalformed
		}
		return domain.Identity{}, err
	}
	if !user.IsActive {
		return domain.Identity{}, domain.ErrInactiveUser
	}

	// The stored role wins over the claim so demotions apply immediately.
	id.Role = user.Role
	return id, nil
}

// CurrentUser loads the account behind id.
func (s *AuthService) CurrentUser(ctx context.Context, id domain.Identity) (domain.User, error) {
	user, err := s.users.FindByID(ctx, id.Subject)
	if err != nil {
		return domain.User{}, err
	}
	if !user.IsActive {
		return domain.User{}, domain.ErrInactiveUser
	}
	return user, nil
}

func (s *AuthService) recordFailure(ctx context.Context, username string) {
	if err := s.throttle.Fail(ctx, username); err != nil {
		s.log.Warn().Err(err).Msg("login throttle update failed")
	}
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash(dummyPassword)
		if err != nil {
			s.log.Error().Err(err).Msg("dummy hash")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

type noThrottle struct{}

func (noThrottle) Locked(context.Context, string) (bool, error) { return false, nil }
func (noThrottle) Fail(context.Context, string) error           { return nil }
func (noThrottle) Reset(context.Context, string) error          { return nil }
