// Copyright (c) 2025 Validtot.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Validtot API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - TotHandler: Tot creation, retrieval, listing, search
  - VotingHandler: Vote submission, vote status, counter reconciliation
  - ResultsHandler: Result projection (percentage breakdowns)
  - UserHandler: Account registration, login, logout, identity
  - StorageHandler: Signed image upload URLs and serving

Handlers are created via constructor functions that accept *sql.DB and Config:

	totHandler := handlers.NewTotHandler(db, cfg)

# Vote Pipeline

SubmitVote enforces an ordered sequence of read-only gates before any write:

 1. Option letter must be A, B, or C
 2. Tot must exist (404) and be public (403)
 3. Option C must be configured on the tot (400)
 4. Tot must not be expired (412)
 5. Voter must not have voted already (409)

Then the commit inserts the ledger row and bumps the option and total
counters inside one transaction. The UNIQUE (tot_id, voter_key) constraint
is the authoritative duplicate gate: two requests racing past the
pre-check both reach the insert, and exactly one survives.

Voter identity is the authenticated user id when present, otherwise the
IP resolved from X-Real-IP / X-Forwarded-For (middleware.VoterIP).

# Trending

The trending flag is a cache over the vote ledger, recomputed after every
accepted vote in trending.go:

	err := UpdateTrending(db, totID, time.Now())

A tot is trending with 10+ votes inside the trailing two hours.

# Results

Percentages round half-up per option independently and are all zero when a
tot has no votes; see results.go.

# Reconciliation

POST /tots/{id}/reconcile recomputes the denormalized counters from the
ledger. It requires the X-Admin-Key header (HMAC over the tot id, derivable
from the server's admin salt).
*/
package handlers
