// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/adam5096/api-server-postgresql/internal/handler"
	"github.com/adam5096/api-server-postgresql/internal/middleware"
)

// RegisterRoutes wires every endpoint onto the provided Echo instance.
// Registration and login are open; everything else sits behind the JWTAuth
// gate, which rejects missing, revoked, expired and forged tokens before a
// handler ever runs.
func RegisterRoutes(e *echo.Echo, a *handler.AuthHandler, t *handler.TodoHandler, up *handler.UploadHandler, jwtSecret string, blacklist middleware.TokenBlacklist) {
	e.GET("/", handler.Welcome)
	e.GET("/healthz", handler.Health)

	e.POST("/users", a.Register)
	e.POST("/users/sign_in", a.Login)

	auth := e.Group("")
	auth.Use(middleware.JWTAuth(jwtSecret, blacklist))

	auth.DELETE("/users/sign_out", a.Logout)

	auth.GET("/todos", t.List)
	auth.POST("/todos", t.Create)
	auth.PUT("/todos/:id", t.Update)
	auth.DELETE("/todos/:id", t.Delete)

	auth.GET("/upload", up.Info)
	auth.PUT("/upload", up.Upload)
}
