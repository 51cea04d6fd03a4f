// Copyright (c) 2025 Validtot.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/validtot/validtot/auth"
)

type authCtxKey int

const claimsKey authCtxKey = 0

// WithAuth attaches session claims to the request context when a valid
// Authorization header is present. Authentication is optional everywhere:
// an absent, expired, or revoked token degrades to an anonymous request.
func WithAuth(db *sql.DB, secret string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				next(w, r)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			claims, err := auth.ParseSessionToken(token, secret)
			if err != nil {
				next(w, r)
				return
			}

			// The JTI must still reference a live session; logout deletes it.
			var userID string
			err = db.QueryRow(`
				SELECT user_id FROM sessions WHERE jti = $1 AND expires_at > $2
			`, claims.ID, time.Now()).Scan(&userID)
			if err == sql.ErrNoRows || (err == nil && userID != claims.UID) {
				next(w, r)
				return
			}
			if err != nil {
				slog.Error("failed to look up session", "error", err)
				next(w, r)
				return
			}

			next(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
		}
	}
}

// CurrentClaims returns the session claims attached by WithAuth, or nil.
func CurrentClaims(r *http.Request) *auth.SessionClaims {
	claims, _ := r.Context().Value(claimsKey).(*auth.SessionClaims)
	return claims
}

// CurrentUserID returns the authenticated user's ID, or "" for anonymous
// requests.
func CurrentUserID(r *http.Request) string {
	if claims := CurrentClaims(r); claims != nil {
		return claims.UID
	}
	return ""
}
