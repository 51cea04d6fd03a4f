// Copyright (c) 2025 Validtot.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/validtot/validtot/auth"
	"github.com/validtot/validtot/cliparse"
	"github.com/validtot/validtot/db"
	"github.com/validtot/validtot/middleware"
	"github.com/validtot/validtot/models"
)

type VotingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg}
}

// counterColumn maps a validated option letter to its tally column.
// Only ever called with "A", "B", or "C" - never with raw request input.
func counterColumn(option string) string {
	switch option {
	case models.OptionA:
		return "option_a_votes"
	case models.OptionB:
		return "option_b_votes"
	default:
		return "option_c_votes"
	}
}

// SubmitVote handles POST /tots/{id}/vote
//
// The pipeline is ordered so that every failure happens before any write:
// option validity, existence, visibility, expiry, then the duplicate
// pre-check. The commit itself inserts the ledger row and bumps the
// counters in one transaction; the UNIQUE (tot_id, voter_key) constraint
// is what actually closes the check-then-insert race.
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	totID := r.PathValue("id")
	if totID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Option != models.OptionA && req.Option != models.OptionB && req.Option != models.OptionC {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Option must be 'A', 'B', or 'C'")
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

	if !tot.IsPublic {
		middleware.ErrorResponse(w, http.StatusForbidden, "This tot is private")
		return
	}

	if req.Option == models.OptionC && !tot.HasOptionC() {
		middleware.ErrorResponse(w, http.StatusBadRequest, "This tot has no option C")
		return
	}

	now := time.Now()
	if tot.Expired(now) {
		middleware.ErrorResponse(w, http.StatusPreconditionFailed, "This tot has expired")
		return
	}

	// Resolve voter identity: authenticated user id, else client IP
	voterIP := middleware.VoterIP(r)
	voterKey := voterIP
	var userID *string
	if uid := middleware.CurrentUserID(r); uid != "" {
		voterKey = uid
		userID = &uid
	}

	// Fast-path duplicate check. Not authoritative: two racing requests can
	// both pass it, which is why the insert below relies on the constraint.
	var alreadyVoted bool
	err = h.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM votes WHERE tot_id = $1 AND voter_key = $2)
	`, totID, voterKey).Scan(&alreadyVoted)
	if err != nil {
		slog.Error("failed to check existing vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if alreadyVoted {
		middleware.ErrorResponse(w, http.StatusConflict, "You have already voted on this tot")
		return
	}

	var userAgent *string
	if ua := r.UserAgent(); ua != "" {
		userAgent = &ua
	}

	// Ledger insert and counter increment succeed or fail together
	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO votes (tot_id, option_selected, voter_key, voter_ip, user_id, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, totID, req.Option, voterKey, voterIP, userID, userAgent, now)

	if err != nil {
		if db.IsUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "You have already voted on this tot")
			return
		}
		slog.Error("failed to insert vote", "error", err, "tot_id", totID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit vote")
		return
	}

	_, err = tx.Exec(`
		UPDATE tots
		SET `+counterColumn(req.Option)+` = `+counterColumn(req.Option)+` + 1,
		    total_votes = total_votes + 1,
		    updated_at = $1
		WHERE id = $2
	`, now, totID)

	if err != nil {
		slog.Error("failed to increment counters", "error", err, "tot_id", totID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit vote")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit vote", "error", err, "tot_id", totID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit vote")
		return
	}

	// Trending is a cached flag recomputed from the ledger after every
	// accepted vote; a failure here never unwinds the vote itself.
	if err := UpdateTrending(h.db, totID, now); err != nil {
		slog.Warn("failed to update trending flag", "error", err, "tot_id", totID)
	}

	updated, err := getTotByID(h.db, totID)
	if err != nil {
		slog.Error("failed to read back voted tot", "error", err, "tot_id", totID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve updated tot")
		return
	}

	slog.Info("vote accepted", "tot_id", totID, "option", req.Option)

	middleware.JSONResponse(w, http.StatusOK, resultsFor(updated))
}

// VoteStatus handles GET /tots/{id}/vote-status
// Authenticated callers are matched by user id; anonymous callers by IP.
func (h *VotingHandler) VoteStatus(w http.ResponseWriter, r *http.Request) {
	totID := r.PathValue("id")
	if totID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	var votedOption string
	var err error
	if uid := middleware.CurrentUserID(r); uid != "" {
		err = h.db.QueryRow(`
			SELECT option_selected FROM votes WHERE tot_id = $1 AND user_id = $2
		`, totID, uid).Scan(&votedOption)
	} else {
		err = h.db.QueryRow(`
			SELECT option_selected FROM votes WHERE tot_id = $1 AND voter_ip = $2
		`, totID, middleware.VoterIP(r)).Scan(&votedOption)
	}

	if err == sql.ErrNoRows {
		middleware.JSONResponse(w, http.StatusOK, models.VoteStatusResponse{HasVoted: false})
		return
	}
	if err != nil {
		slog.Error("failed to check vote status", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.VoteStatusResponse{
		HasVoted:    true,
		VotedOption: votedOption,
	})
}

// Reconcile handles POST /tots/{id}/reconcile
// Recomputes the denormalized counters from the vote ledger. Recovery tool
// for the case where a partial commit left the counters out of step.
func (h *VotingHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	totID := r.PathValue("id")
	if totID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(totID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return
	}

	if _, err := getTotByID(h.db, totID); err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Tot not found")
		return
	} else if err != nil {
		slog.Error("failed to query tot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	rows, err := h.db.Query(`
		SELECT option_selected, COUNT(*) FROM votes WHERE tot_id = $1 GROUP BY option_selected
	`, totID)
	if err != nil {
		slog.Error("failed to recount votes", "error", err, "tot_id", totID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var option string
		var n int
		if err := rows.Scan(&option, &n); err != nil {
			slog.Error("failed to scan recount row", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		counts[option] = n
	}

	total := counts[models.OptionA] + counts[models.OptionB] + counts[models.OptionC]
	_, err = h.db.Exec(`
		UPDATE tots
		SET option_a_votes = $1, option_b_votes = $2, option_c_votes = $3,
		    total_votes = $4, updated_at = $5
		WHERE id = $6
	`, counts[models.OptionA], counts[models.OptionB], counts[models.OptionC], total, time.Now(), totID)

	if err != nil {
		slog.Error("failed to write reconciled counters", "error", err, "tot_id", totID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to reconcile")
		return
	}

	tot, err := getTotByID(h.db, totID)
	if err != nil {
		slog.Error("failed to read back reconciled tot", "error", err, "tot_id", totID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to reconcile")
		return
	}

	slog.Info("counters reconciled", "tot_id", totID, "total_votes", total)

	middleware.JSONResponse(w, http.StatusOK, tot)
}
