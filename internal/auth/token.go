package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid covers every signature, format, and expiry failure on an
// incoming session token.
var ErrTokenInvalid = errors.New("invalid or expired token")

// SessionClaims are the identity claims carried by a session token.
type SessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// CitizenID returns the subject claim as a numeric id.
func (c SessionClaims) CitizenID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrTokenInvalid
	}
	return id, nil
}

// SignSession mints an HS256 session token for the citizen. Logout is
// client-side token discard; there is no revocation list.
func SignSession(secret string, ttl time.Duration, citizenID int64, email string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(citizenID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// VerifySession parses and validates a session token and returns its claims.
func VerifySession(secret, token string) (SessionClaims, error) {
	var claims SessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return SessionClaims{}, ErrTokenInvalid
	}
	return claims, nil
}
