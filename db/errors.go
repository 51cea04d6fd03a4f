// Copyright (c) 2025 Validtot.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

// uniqueViolation is the postgres error code for unique constraint violations
const uniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique constraint violation from
// either supported driver. Callers treat this as the authoritative duplicate
// signal on insert, not a transient fault.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	// modernc.org/sqlite surfaces constraint failures as plain messages
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
