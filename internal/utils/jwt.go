package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens

	"github.com/adam5096/api-server-postgresql/internal/model"
)

// Sentinel errors returned by ParseAccessToken. Expired and malformed tokens
// are distinct outcomes at this layer even though the HTTP layer treats them
// the same way: neither set of claims may be trusted.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
)

// Claims is the payload embedded in every access token. The token is fully
// self-contained: the server stores nothing at issue time, and possession of
// a token with a valid signature is the session.
type Claims struct {
	UserID   uint64 `json:"id"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// NewAccessToken builds and signs an HS256 JWT for a user. The token embeds
// the user's identity and an expiry of now + ttl. It returns the serialized
// token and its expiration time.
func NewAccessToken(secret string, u model.User, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:   u.ID,
		Nickname: u.Nickname,
		Email:    u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseAccessToken verifies the signature and expiry of a serialized token
// and returns its claims. The signature is checked before any claim,
// including the user ID, is trusted. Expired tokens yield ErrTokenExpired;
// everything else that fails verification yields ErrTokenMalformed.
func ParseAccessToken(secret, raw string) (*Claims, error) {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		// Reject tokens signed with anything other than HMAC before
		// looking at their contents.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenMalformed
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}
	if !t.Valid {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}
