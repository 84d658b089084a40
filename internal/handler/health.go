package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Welcome is the unauthenticated landing endpoint at GET /.
func Welcome(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "Welcome to rocket 19 API Server 👋😄🚀💻"})
}

// Health is a health-check endpoint for load balancers and monitoring.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
