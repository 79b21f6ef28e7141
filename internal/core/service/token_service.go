package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"

	"github.com/demoserver/backend/internal/core/domain"
	"github.com/demoserver/backend/internal/core/ports"
)

const DefaultTokenTTL = 30 * time.Minute

var errEmptySigningKey = errors.New("token service: signing key must not be empty")

type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService issues and verifies HS256 access tokens.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

var _ ports.TokenService = (*JWTService)(nil)

// NewJWTService builds a token service. ttl <= 0 selects DefaultTokenTTL.
func NewJWTService(secret []byte, ttl time.Duration) (*JWTService, error) {
	if len(secret) == 0 {
		return nil, errEmptySigningKey
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &JWTService{
		secret: key,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// TTL is the lifetime applied when Issue is called with ttl <= 0.
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for subject. ttl <= 0 uses the service default.
func (s *JWTService) Issue(subject int64, role domain.Role, ttl time.Duration) (string, domain.Identity, error) {
	if !role.Valid() {
		return "", domain.Identity{}, domain.NewValidationError("role", "unknown role")
	}
	if ttl <= 0 {
		ttl = s.ttl
	}

	// JWT dates have second precision; truncate so Issue and Verify agree.
	now := s.now().UTC().Truncate(time.Second)
	id := domain.Identity{
		Subject:   subject,
		Role:      role,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
		TokenID:   ulid.MustNew(ulid.Timestamp(now), rand.Reader).String(),
	}

	claims := accessClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subject, 10),
			IssuedAt:  jwt.NewNumericDate(id.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(id.ExpiresAt),
			ID:        id.TokenID,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", domain.Identity{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, id, nil
}

// Verify checks signature, algorithm and expiry and returns the embedded
// identity. Expiry yields ErrTokenExpired; every other defect ErrTokenMalformed.
func (s *JWTService) Verify(token string) (domain.Identity, error) {
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, domain.ErrTokenExpired
		}
		return domain.Identity{}, domain.ErrTokenMalformed
	}

	subject, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || subject <= 0 {
		return domain.Identity{}, domain.ErrTokenMalformed
	}
	role := domain.Role(claims.Role)
	if !role.Valid() {
		return domain.Identity{}, domain.ErrTokenMalformed
	}

	id := domain.Identity{
		Subject:   subject,
		Role:      role,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
		TokenID:   claims.ID,
	}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	return id, nil
}
