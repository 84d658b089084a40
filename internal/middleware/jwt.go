// Package middleware provides reusable HTTP middleware functions.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/adam5096/api-server-postgresql/internal/utils"
)

// TokenBlacklist answers whether a token has been revoked. The concrete
// implementation lives in the repository layer; the interface keeps this
// middleware testable without a database.
type TokenBlacklist interface {
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}

// Context keys set by JWTAuth for downstream handlers.
const (
	CtxUserID   = "user_id"
	CtxNickname = "nickname"
	CtxEmail    = "email"
	CtxToken    = "token"     // raw bearer token string
	CtxTokenExp = "token_exp" // token expiry as time.Time
)

// JWTAuth returns an Echo middleware gating every protected route. A request
// passes only when all of the following hold: a bearer token is present, the
// token is not on the blacklist, its signature verifies, and it has not
// expired. The blacklist is consulted before the signature so that a revoked
// token is rejected no matter what state the issuer is in; both checks always
// gate access.
//
// Outcomes: missing token → 401, revoked → 401, bad signature or expired →
// 403. On success the token's identity claims are attached to the request
// context under the Ctx* keys.
func JWTAuth(secret string, blacklist TokenBlacklist) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			revoked, err := blacklist.IsBlacklisted(c.Request().Context(), raw)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"message": "server error"})
			}
			if revoked {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "logged out, please sign in again"})
			}

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				// Expired and malformed collapse to the same outcome:
				// the claims cannot be trusted.
				return c.JSON(http.StatusForbidden, echo.Map{"message": "invalid token"})
			}

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxNickname, claims.Nickname)
			c.Set(CtxEmail, claims.Email)
			c.Set(CtxToken, raw)
			c.Set(CtxTokenExp, claims.ExpiresAt.Time)
			return next(c)
		}
	}
}
