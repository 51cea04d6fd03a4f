// Copyright (c) 2025 Validtot.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid session token")

// SessionTTL is how long a session token stays valid.
const SessionTTL = 30 * 24 * time.Hour

// SessionClaims are the claims carried by a session token. The JTI identifies
// the sessions row, so deleting that row revokes the token before its expiry.
type SessionClaims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

// SignSessionToken issues an HS256 session token for a user.
func SignSessionToken(userID, jti, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSessionToken verifies a session token's signature and expiry.
func ParseSessionToken(token, secret string) (*SessionClaims, error) {
	t, err := jwt.ParseWithClaims(token, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := t.Claims.(*SessionClaims)
	if !ok || !t.Valid || claims.UID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
