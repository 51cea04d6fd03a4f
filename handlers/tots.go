// Copyright (c) 2025 Validtot.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/validtot/validtot/auth"
	"github.com/validtot/validtot/cliparse"
	"github.com/validtot/validtot/middleware"
	"github.com/validtot/validtot/models"
)

type TotHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewTotHandler(db *sql.DB, cfg cliparse.Config) *TotHandler {
	return &TotHandler{db: db, cfg: cfg}
}

// totColumns is the select list matched by scanTot.
const totColumns = `id, title, description,
	option_a_text, option_a_image_url, option_b_text, option_b_image_url,
	option_c_text, option_c_image_url,
	creator_ip, creator_user_id, is_anonymous, is_public, is_trending,
	created_at, updated_at, expires_at,
	total_votes, option_a_votes, option_b_votes, option_c_votes`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTot(row rowScanner) (models.Tot, error) {
	var t models.Tot
	err := row.Scan(
		&t.ID, &t.Title, &t.Description,
		&t.OptionAText, &t.OptionAImageURL, &t.OptionBText, &t.OptionBImageURL,
		&t.OptionCText, &t.OptionCImageURL,
		&t.CreatorIP, &t.CreatorUserID, &t.IsAnonymous, &t.IsPublic, &t.IsTrending,
		&t.CreatedAt, &t.UpdatedAt, &t.ExpiresAt,
		&t.TotalVotes, &t.OptionAVotes, &t.OptionBVotes, &t.OptionCVotes,
	)
	return t, err
}

// getTotByID loads one tot. Returns sql.ErrNoRows when the id is unknown.
func getTotByID(db *sql.DB, id string) (models.Tot, error) {
	return scanTot(db.QueryRow(`SELECT `+totColumns+` FROM tots WHERE id = $1`, id))
}

// CreateTot handles POST /tots
func (h *TotHandler) CreateTot(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	if strings.TrimSpace(req.Title) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Title is required")
		return
	}
	if len(req.Title) > models.MaxTitleLen {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Title must be 120 characters or less")
		return
	}
	if len(req.Description) > models.MaxDescriptionLen {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Description must be 250 characters or less")
		return
	}
	if strings.TrimSpace(req.OptionAText) == "" || strings.TrimSpace(req.OptionBText) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Both options A and B are required")
		return
	}
	if len(req.OptionAText) > models.MaxOptionTextLen || len(req.OptionBText) > models.MaxOptionTextLen {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Option text must be 100 characters or less")
		return
	}
	if req.OptionCText != nil && len(*req.OptionCText) > models.MaxOptionTextLen {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Option text must be 100 characters or less")
		return
	}

	totID, err := auth.GenerateTotID()
	if err != nil {
		slog.Error("failed to generate tot ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create tot")
		return
	}

	now := time.Now()
	expiresAt := now.Add(h.cfg.ExpiryWindow)
	if req.ExpiresAt != nil {
		expiresAt = *req.ExpiresAt
	}

	creatorIP := middleware.VoterIP(r)

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	// Anonymous unless the caller is authenticated and doesn't opt out
	var creatorUserID *string
	isAnonymous := true
	if uid := middleware.CurrentUserID(r); uid != "" {
		creatorUserID = &uid
		isAnonymous = false
	}
	if req.IsAnonymous != nil {
		isAnonymous = *req.IsAnonymous
	}

	_, err = h.db.Exec(`
		INSERT INTO tots (
			id, title, description, option_a_text, option_a_image_url,
			option_b_text, option_b_image_url, option_c_text, option_c_image_url,
			creator_ip, creator_user_id, is_anonymous, is_public,
			created_at, updated_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, totID, req.Title, nullableString(req.Description), req.OptionAText, req.OptionAImageURL,
		req.OptionBText, req.OptionBImageURL, req.OptionCText, req.OptionCImageURL,
		creatorIP, creatorUserID, isAnonymous, isPublic, now, now, expiresAt)

	if err != nil {
		slog.Error("failed to insert tot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create tot")
		return
	}

	tot, err := getTotByID(h.db, totID)
	if err != nil {
		slog.Error("failed to read back created tot", "error", err, "tot_id", totID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create tot")
		return
	}

	slog.Info("tot created", "tot_id", totID, "public", isPublic)

	middleware.JSONResponse(w, http.StatusCreated, tot)
}

// GetTot handles GET /tots/{id}
func (h *TotHandler) GetTot(w http.ResponseWriter, r *http.Request) {
	totID := r.PathValue("id")
	if totID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	tot, err := getTotByID(h.db, totID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Tot not found")
		return
	}
	if err != nil {
		slog.Error("failed to query tot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !tot.IsPublic && !isCreator(&tot, middleware.CurrentUserID(r)) {
		middleware.ErrorResponse(w, http.StatusForbidden, "This tot is private")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, tot)
}

// ListPublic handles GET /tots/public
func (h *TotHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	page, limit := pagination(r)
	trendingOnly := r.URL.Query().Get("trending") == "true"

	where := `WHERE is_public = TRUE AND (expires_at IS NULL OR expires_at > $1)`
	if trendingOnly {
		where += ` AND is_trending = TRUE`
	}
	now := time.Now()

	rows, err := h.db.Query(
		`SELECT `+totColumns+` FROM tots `+where+` ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		now, limit, (page-1)*limit)
	if err != nil {
		slog.Error("failed to list tots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	tots := []models.Tot{}
	for rows.Next() {
		tot, err := scanTot(rows)
		if err != nil {
			slog.Error("failed to scan tot", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		tots = append(tots, tot)
	}

	var total int
	err = h.db.QueryRow(`SELECT COUNT(*) FROM tots `+where, now).Scan(&total)
	if err != nil {
		slog.Error("failed to count tots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListTotsResponse{
		Tots:  tots,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// Search handles GET /tots/search
func (h *TotHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "q is required")
		return
	}
	page, limit := pagination(r)
	searchTerm := "%" + strings.ToLower(q) + "%"

	const where = `WHERE is_public = TRUE
		AND (LOWER(title) LIKE $1 OR LOWER(COALESCE(description, '')) LIKE $1)`

	rows, err := h.db.Query(
		`SELECT `+totColumns+` FROM tots `+where+
			` ORDER BY total_votes DESC, created_at DESC LIMIT $2 OFFSET $3`,
		searchTerm, limit, (page-1)*limit)
	if err != nil {
		slog.Error("failed to search tots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	tots := []models.Tot{}
	for rows.Next() {
		tot, err := scanTot(rows)
		if err != nil {
			slog.Error("failed to scan tot", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		tots = append(tots, tot)
	}

	var total int
	err = h.db.QueryRow(`SELECT COUNT(*) FROM tots `+where, searchTerm).Scan(&total)
	if err != nil {
		slog.Error("failed to count search results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListTotsResponse{
		Tots:  tots,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// pagination reads page/limit query parameters with sane bounds.
func pagination(r *http.Request) (page, limit int) {
	page, limit = 1, 20
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	return page, limit
}

func isCreator(tot *models.Tot, userID string) bool {
	return userID != "" && tot.CreatorUserID != nil && *tot.CreatorUserID == userID
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
