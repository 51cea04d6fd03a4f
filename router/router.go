// Copyright (c) 2025 Validtot.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/validtot/validtot/cliparse"
	"github.com/validtot/validtot/handlers"
	"github.com/validtot/validtot/middleware"
	"github.com/validtot/validtot/models"
)

const version = "1.0.0"

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	totHandler := handlers.NewTotHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)
	userHandler := handlers.NewUserHandler(db, cfg)
	storageHandler := handlers.NewStorageHandler(cfg)

	// Every route gets optional authentication; handlers that need a
	// principal check for one themselves
	wrap := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.WithAuth(db, cfg.SessionSecret)(h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, models.HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now(),
			Version:   version,
		})
	})

	// Accounts
	mux.HandleFunc("POST /auth/register", wrap(userHandler.Register))
	mux.HandleFunc("POST /auth/login", wrap(userHandler.Login))
	mux.HandleFunc("POST /auth/logout", wrap(userHandler.Logout))
	mux.HandleFunc("GET /auth/me", wrap(userHandler.Me))

	// Tots
	mux.HandleFunc("POST /tots", wrap(totHandler.CreateTot))
	mux.HandleFunc("GET /tots/public", wrap(totHandler.ListPublic))
	mux.HandleFunc("GET /tots/search", wrap(totHandler.Search))
	mux.HandleFunc("GET /tots/{id}", wrap(totHandler.GetTot))

	// Voting and results
	mux.HandleFunc("POST /tots/{id}/vote", wrap(votingHandler.SubmitVote))
	mux.HandleFunc("GET /tots/{id}/vote-status", wrap(votingHandler.VoteStatus))
	mux.HandleFunc("GET /tots/{id}/results", wrap(resultsHandler.GetResults))
	mux.HandleFunc("POST /tots/{id}/reconcile", wrap(votingHandler.Reconcile))

	// Image storage
	mux.HandleFunc("POST /storage/upload-url", wrap(storageHandler.CreateUploadURL))
	mux.HandleFunc("PUT /storage/upload/{name}", middleware.WithLogging(storageHandler.ReceiveUpload))
	mux.HandleFunc("GET /storage/images/{name}", storageHandler.ServeImage)

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("validtot API v1"))
	})

	return mux
}
