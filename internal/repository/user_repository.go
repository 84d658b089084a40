package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/adam5096/api-server-postgresql/internal/model"
	"github.com/adam5096/api-server-postgresql/internal/utils"
)

// UserRepo persists user identities and their bcrypt password hashes.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// uniqueViolation is the Postgres SQLSTATE for a unique-constraint breach.
const uniqueViolation = "23505"

// Create hashes the password and inserts a new user, returning the stored
// record. Duplicate nicknames or emails yield ErrNicknameExists or
// ErrEmailExists. The duplicate check happens twice: a pre-check so the
// common case gets a clean error without consuming an id, and the unique
// constraint itself, which closes the race between two concurrent
// registrations of the same identity.
func (r *UserRepo) Create(ctx context.Context, nickname, email, password string, cost int) (model.User, error) {
	nickname = strings.TrimSpace(nickname)
	email = strings.ToLower(strings.TrimSpace(email))

	var taken string
	err := r.DB.QueryRowContext(ctx,
		"SELECT nickname FROM users WHERE nickname=$1 OR email=$2 LIMIT 1",
		nickname, email).Scan(&taken)
	switch {
	case err == nil:
		if taken == nickname {
			return model.User{}, ErrNicknameExists
		}
		return model.User{}, ErrEmailExists
	case errors.Is(err, sql.ErrNoRows):
		// free to insert
	default:
		return model.User{}, err
	}

	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}

	u := model.User{Nickname: nickname, Email: email, PasswordHash: hash}
	err = r.DB.QueryRowContext(ctx,
		"INSERT INTO users (nickname, email, password) VALUES ($1,$2,$3) RETURNING id, created_at",
		nickname, email, hash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "email") {
				return model.User{}, ErrEmailExists
			}
			return model.User{}, ErrNicknameExists
		}
		return model.User{}, err
	}
	return u, nil
}

// GetByNickname fetches a user by nickname. Returns ErrNotFound when no
// such user exists.
func (r *UserRepo) GetByNickname(ctx context.Context, nickname string) (model.User, error) {
	return r.getBy(ctx, "nickname", strings.TrimSpace(nickname))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getBy(ctx, "email", strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepo) getBy(ctx context.Context, column, value string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, nickname, email, password, created_at FROM users WHERE "+column+"=$1 LIMIT 1",
		value).Scan(&u.ID, &u.Nickname, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}
