package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/demoserver/backend/internal/core/domain"
)

// OwnerFunc extracts the id of the user owning the addressed resource.
type OwnerFunc func(c echo.Context) (*int64, error)

// PathOwner reads the owner id from a numeric path parameter.
func PathOwner(param string) OwnerFunc {
	return func(c echo.Context) (*int64, error) {
		id, err := strconv.ParseInt(c.Param(param), 10, 64)
		if err != nil || id <= 0 {
			return nil, domain.NewValidationError(param, "must be a positive integer")
		}
		return &id, nil
	}
}

// Require enforces the access policy for action. owner may be nil for actions
// that do not address a user-owned resource.
func Require(action domain.Action, owner OwnerFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := Identity(c)
			if id == nil && !action.IsPublic() {
				if err := AuthError(c); err != nil {
					return err
				}
			}

			var ownerID *int64
			if owner != nil && id != nil && !id.IsAdmin() {
				o, err := owner(c)
				if err != nil {
					return err
				}
				ownerID = o
			}

			if err := domain.Authorize(id, action, ownerID); err != nil {
				return err
			}
			return next(c)
		}
	}
}
