// Package sqlite provides SQLite session storage for inkmatch.
package sqlite

import (
	"database/sql"
	"time"
)

// nullString converts a string to sql.NullString.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// boolToInt converts a bool to SQLite's integer representation.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// fromEpoch converts epoch milliseconds to a UTC time.
func fromEpoch(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
