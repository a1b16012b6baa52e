// Package gorm provides GORM-based session storage on Postgres for inkmatch.
package gorm

import (
	"database/sql"

	"github.com/thebtf/inkmatch/pkg/models"
)

// sqlNullString creates a sql.NullString from a string.
func sqlNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}

// sqlNullLevel creates a sql.NullFloat64 from a slider level.
func sqlNullLevel(l models.Level) sql.NullFloat64 {
	return sql.NullFloat64{Float64: l.Value, Valid: l.Valid}
}
