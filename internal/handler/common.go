package handler // handler defines the HTTP handlers for the API

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/adam5096/api-server-postgresql/internal/middleware"
)

var errNoUser = errors.New("no authenticated user in context")

// getUserID extracts the authenticated user's id from the Echo context. It
// is only meaningful on routes wrapped by middleware.JWTAuth.
func getUserID(c echo.Context) (uint64, error) {
	if v, ok := c.Get(middleware.CtxUserID).(uint64); ok && v != 0 {
		return v, nil
	}
	return 0, errNoUser
}
