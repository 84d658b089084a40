package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adam5096/api-server-postgresql/internal/config"
	"github.com/adam5096/api-server-postgresql/internal/middleware"
	"github.com/adam5096/api-server-postgresql/internal/queue"
	"github.com/adam5096/api-server-postgresql/internal/repository"
	queue_publisher "github.com/adam5096/api-server-postgresql/internal/service"
	"github.com/adam5096/api-server-postgresql/internal/utils"
)

// AuthHandler bundles dependencies for registration, login and logout.
type AuthHandler struct {
	Cfg       config.Config
	Users     *repository.UserRepo
	Blacklist *repository.TokenBlacklistRepo

	// publish sends the registration event; overridable in tests.
	publish func(ctx context.Context, ev queue.UserRegisteredEvent) error
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, b *repository.TokenBlacklistRepo) *AuthHandler {
	return &AuthHandler{
		Cfg:       cfg,
		Users:     u,
		Blacklist: b,
		publish:   queue_publisher.PublishUserRegistered,
	}
}

// ----- DTOs -----

type userBody struct {
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type registerReq struct {
	User userBody `json:"user"`
}
type loginReq struct {
	User userBody `json:"user"`
}

// Register handles POST /users. All three fields are required; duplicate
// nickname or email yields 409. The password goes through bcrypt before it
// reaches the database and is never logged.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "all fields are required"})
	}
	nickname := strings.TrimSpace(req.User.Nickname)
	email := strings.TrimSpace(req.User.Email)
	if nickname == "" || email == "" || req.User.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "all fields are required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Create(ctx, nickname, email, req.User.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrNicknameExists) || errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"message": "nickname or email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "registration failed"})
	}

	// Best effort: a broker outage must not fail the registration.
	_ = h.publish(ctx, queue.UserRegisteredEvent{
		UserID:       u.ID,
		Nickname:     u.Nickname,
		Email:        u.Email,
		RegisteredAt: u.CreatedAt.UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{"message": "registration successful"})
}

// Login handles POST /users/sign_in. The caller supplies a password plus a
// nickname or an email; when both are present the nickname wins. Unknown
// identity and wrong password produce the same response so the endpoint does
// not confirm which accounts exist.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "provide nickname/email and password"})
	}
	nickname := strings.TrimSpace(req.User.Nickname)
	email := strings.TrimSpace(req.User.Email)
	if (nickname == "" && email == "") || req.User.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "provide nickname/email and password"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	lookup := h.Users.GetByEmail
	ident := email
	if nickname != "" {
		lookup = h.Users.GetByNickname
		ident = nickname
	}
	found, err := lookup(ctx, ident)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"message": "login failed"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "login failed"})
	}
	if !utils.VerifyPassword(found.PasswordHash, req.User.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "login failed"})
	}

	token, _, err := utils.NewAccessToken(h.Cfg.JWTSecret, found, time.Duration(h.Cfg.TokenTTLMin)*time.Minute)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "login failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "login successful",
		"token":   token,
	})
}

// Logout handles DELETE /users/sign_out (protected). The presented token
// goes onto the blacklist with its own expiry, so it is rejected on every
// later request even though its signature stays valid until then. Revoking
// twice is harmless. An opportunistic sweep of expired entries piggybacks on
// logout; its failure is logged by the repository and never fails the
// request.
func (h *AuthHandler) Logout(c echo.Context) error {
	raw, _ := c.Get(middleware.CtxToken).(string)
	exp, _ := c.Get(middleware.CtxTokenExp).(time.Time)
	if raw == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"message": "missing bearer token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Blacklist.Revoke(ctx, raw, exp); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "logout failed"})
	}
	// Space reclamation only; correctness never depends on it.
	_, _ = h.Blacklist.SweepExpired(ctx)

	return c.JSON(http.StatusOK, echo.Map{"message": "logout successful"})
}
