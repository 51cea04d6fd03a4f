// Copyright (c) 2025 Validtot.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"time"
)

// A tot is trending when it collected at least trendingThreshold votes
// inside the trailing trendingWindow.
const (
	trendingWindow    = 2 * time.Hour
	trendingThreshold = 10
)

// CountRecentVotes returns how many votes a tot received after the given
// cutoff, straight from the vote ledger.
func CountRecentVotes(db *sql.DB, totID string, since time.Time) (int, error) {
	var n int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM votes WHERE tot_id = $1 AND created_at > $2
	`, totID, since).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count recent votes: %w", err)
	}
	return n, nil
}

// UpdateTrending recomputes a tot's trending flag from recent vote velocity.
// The flag is a cache over the ledger: it can go stale between votes and is
// refreshed on the next accepted vote, never on a timer.
func UpdateTrending(db *sql.DB, totID string, now time.Time) error {
	recent, err := CountRecentVotes(db, totID, now.Add(-trendingWindow))
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		UPDATE tots SET is_trending = $1 WHERE id = $2
	`, recent >= trendingThreshold, totID)
	if err != nil {
		return fmt.Errorf("failed to update trending flag: %w", err)
	}
	return nil
}
