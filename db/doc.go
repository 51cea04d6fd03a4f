// Copyright (c) 2025 Validtot.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation and driver-level error inspection.

# Schema

CreateSchema creates all tables. It is idempotent (IF NOT EXISTS) and takes
the database type to pick the auto-increment dialect:

	err := db.CreateSchema(conn, cfg.DatabaseType)

# Tables

  - tots: polls with denormalized per-option and total vote counters
  - votes: append-only vote ledger, UNIQUE (tot_id, voter_key)
  - users: registered accounts
  - sessions: live session tokens by JTI

# Vote Integrity

The votes table carries UNIQUE (tot_id, voter_key). Concurrent submissions
from the same voter race past any existence check; the constraint makes the
second insert fail instead, and IsUniqueViolation classifies that failure
for both the lib/pq and modernc.org/sqlite drivers:

	if db.IsUniqueViolation(err) {
		// duplicate vote
	}
*/
package db
