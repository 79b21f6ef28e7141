package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/demoserver/backend/internal/api/middleware"
	"github.com/demoserver/backend/internal/core/domain"
	"github.com/demoserver/backend/internal/core/ports"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 100
)

// ctxIdentity returns the identity injected by the Authenticate middleware.
// Routes guarded by Require never reach a handler without one, so a missing
// identity means the route was wired without the guard.
func ctxIdentity(c echo.Context) (domain.Identity, error) {
	id := middleware.Identity(c)
	if id == nil {
		if err := middleware.AuthError(c); err != nil {
			return domain.Identity{}, err
		}
		return domain.Identity{}, domain.ErrAuthenticationRequired
	}
	return *id, nil
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(name, "must be a positive integer")
	}
	return id, nil
}

// pageParams reads skip (>= 0) and limit (>= 1). Limits above the maximum are
// clamped rather than rejected.
func pageParams(c echo.Context) (ports.Page, error) {
	page := ports.Page{Skip: 0, Limit: defaultPageLimit}
	if err := echo.QueryParamsBinder(c).
		Int("skip", &page.Skip).
		Int("limit", &page.Limit).
		BindError(); err != nil {
		var be *echo.BindingError
		if errors.As(err, &be) {
			return ports.Page{}, domain.NewValidationError(be.Field, "must be an integer")
		}
		return ports.Page{}, domain.NewValidationError("query", "invalid pagination parameters")
	}

	if page.Skip < 0 {
		return ports.Page{}, domain.NewValidationError("skip", "must be greater than or equal to 0")
	}
	if page.Limit < 1 {
		return ports.Page{}, domain.NewValidationError("limit", "must be greater than or equal to 1")
	}
	page.Limit = min(page.Limit, maxPageLimit)
	return page, nil
}
