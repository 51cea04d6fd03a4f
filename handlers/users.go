// Copyright (c) 2025 Validtot.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/validtot/validtot/auth"
	"github.com/validtot/validtot/cliparse"
	"github.com/validtot/validtot/db"
	"github.com/validtot/validtot/middleware"
	"github.com/validtot/validtot/models"
)

type UserHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewUserHandler(db *sql.DB, cfg cliparse.Config) *UserHandler {
	return &UserHandler{db: db, cfg: cfg}
}

// createSession inserts a sessions row and signs the matching token.
func (h *UserHandler) createSession(userID string) (string, error) {
	jti := uuid.New().String()
	now := time.Now()

	_, err := h.db.Exec(`
		INSERT INTO sessions (jti, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`, jti, userID, now.Add(auth.SessionTTL), now)
	if err != nil {
		return "", err
	}

	return auth.SignSessionToken(userID, jti, h.cfg.SessionSecret, auth.SessionTTL)
}

// Register handles POST /auth/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "username, email, and password are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	userID := uuid.New().String()
	now := time.Now()

	// The UNIQUE constraint on email doubles as the duplicate-account check
	_, err = h.db.Exec(`
		INSERT INTO users (id, username, email, password_hash, is_anonymous, created_at, updated_at)
		VALUES ($1, $2, $3, $4, FALSE, $5, $6)
	`, userID, req.Username, req.Email, hash, now, now)

	if err != nil {
		if db.IsUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "User with this email already exists")
			return
		}
		slog.Error("failed to insert user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	token, err := h.createSession(userID)
	if err != nil {
		slog.Error("failed to create session", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	slog.Info("user registered", "user_id", userID)

	middleware.JSONResponse(w, http.StatusCreated, models.AuthResponse{
		User: models.User{
			ID:        userID,
			Username:  req.Username,
			Email:     req.Email,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Token: token,
	})
}

// Login handles POST /auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email and password are required")
		return
	}

	var user models.User
	var hash string
	err := h.db.QueryRow(`
		SELECT id, username, email, password_hash, is_anonymous, created_at, updated_at
		FROM users WHERE email = $1
	`, req.Email).Scan(&user.ID, &user.Username, &user.Email, &hash,
		&user.IsAnonymous, &user.CreatedAt, &user.UpdatedAt)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !auth.CheckPassword(hash, req.Password) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	token, err := h.createSession(user.ID)
	if err != nil {
		slog.Error("failed to create session", "error", err, "user_id", user.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	slog.Info("user logged in", "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusOK, models.AuthResponse{User: user, Token: token})
}

// Logout handles POST /auth/logout
// Deleting the sessions row revokes the token; an already-dead token still
// gets a success response.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if claims := middleware.CurrentClaims(r); claims != nil {
		_, err := h.db.Exec(`DELETE FROM sessions WHERE jti = $1`, claims.ID)
		if err != nil {
			slog.Error("failed to delete session", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log out")
			return
		}
	}

	middleware.JSONResponse(w, http.StatusOK, models.LogoutResponse{Success: true})
}

// Me handles GET /auth/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid := middleware.CurrentUserID(r)
	if uid == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var user models.User
	err := h.db.QueryRow(`
		SELECT id, username, email, is_anonymous, created_at, updated_at
		FROM users WHERE id = $1
	`, uid).Scan(&user.ID, &user.Username, &user.Email,
		&user.IsAnonymous, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		slog.Error("failed to query current user", "error", err, "user_id", uid)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, user)
}
