// Copyright (c) 2025 Validtot.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"math"
	"net/http"

	"github.com/validtot/validtot/cliparse"
	"github.com/validtot/validtot/middleware"
	"github.com/validtot/validtot/models"
)

type ResultsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{db: db, cfg: cfg}
}

// percentage computes part/total as a whole percent, rounded half-up.
// Zero total yields zero for every option rather than a division by zero.
func percentage(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// resultsFor projects a tot's counters into display percentages. Each option
// rounds independently, so the percentages need not sum to exactly 100.
func resultsFor(tot models.Tot) models.TotResults {
	return models.TotResults{
		Tot:         tot,
		PercentageA: percentage(tot.OptionAVotes, tot.TotalVotes),
		PercentageB: percentage(tot.OptionBVotes, tot.TotalVotes),
		PercentageC: percentage(tot.OptionCVotes, tot.TotalVotes),
	}
}

// GetResults handles GET /tots/{id}/results
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
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

	middleware.JSONResponse(w, http.StatusOK, resultsFor(tot))
}
