// Package gorm provides GORM-based session storage on Postgres for inkmatch.
package gorm

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// runMigrations runs all database migrations using gormigrate.
// AutoMigrate only adds what is missing, so an existing hosted table is kept.
func runMigrations(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		// Migration 001: search session log
		{
			ID: "001_user_sessions",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&UserSession{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("user_sessions")
			},
		},

		// Migration 002: per-sketch reactions
		{
			ID: "002_sketch_reactions",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&SketchReaction{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("sketch_reactions")
			},
		},
	})

	return m.Migrate()
}
