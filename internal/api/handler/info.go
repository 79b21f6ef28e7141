package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const (
	Version   = "1.0.0"
	APIPrefix = "/api/v1"
)

// Root handles GET /.
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message":    "Welcome to the demo server!",
		"version":    Version,
		"api_prefix": APIPrefix,
	})
}

// APIInfo handles GET /api/v1 and lists the resource groups.
func APIInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"message": "Demo server API v1",
		"endpoints": map[string]string{
			"authentication": APIPrefix + "/auth",
			"users":          APIPrefix + "/users",
			"products":       APIPrefix + "/products",
			"file_upload":    APIPrefix + "/upload",
			"miscellaneous":  APIPrefix + "/misc",
		},
	})
}
