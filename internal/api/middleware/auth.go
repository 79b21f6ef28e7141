package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/demoserver/backend/internal/core/domain"
	"github.com/demoserver/backend/internal/core/ports"
)

// Context keys set by Authenticate.
const (
	ContextKeyIdentity  = "identity"
	ContextKeyAuthError = "auth_error"
)

// Authenticate resolves an optional bearer token. A valid token stores the
// identity in the context; an invalid one stores the error so that Require can
// reject protected routes while public routes still proceed.
func Authenticate(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return next(c)
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				c.Set(ContextKeyAuthError, domain.ErrTokenMalformed)
				return next(c)
			}

			id, err := auth.Authenticate(c.Request().Context(), parts[1])
			if err != nil {
				c.Set(ContextKeyAuthError, err)
				return next(c)
			}

			c.Set(ContextKeyIdentity, &id)
			return next(c)
		}
	}
}

// Identity returns the verified identity for the request, or nil.
func Identity(c echo.Context) *domain.Identity {
	id, _ := c.Get(ContextKeyIdentity).(*domain.Identity)
	return id
}

// AuthError returns why the presented credentials were rejected, or nil.
func AuthError(c echo.Context) error {
	err, _ := c.Get(ContextKeyAuthError).(error)
	return err
}
