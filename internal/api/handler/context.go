package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxActor extracts the authenticated user id injected by the Auth middleware
// and fast-fails before any service call when it is absent.
func ctxActor(c echo.Context) (string, error) {
	id, _ := c.Get("user_id").(string)
	if id == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return id, nil
}

// ctxViewer returns the user id when present, or "" for anonymous requests
// that went through OptionalAuth.
func ctxViewer(c echo.Context) string {
	id, _ := c.Get("user_id").(string)
	return id
}
