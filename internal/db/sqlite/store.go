// Package sqlite provides SQLite session storage for inkmatch.
//
// It mirrors the Postgres store in internal/db/gorm and is meant for local
// development and single-node deployments.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

// Store wraps the database connection and caches prepared statements.
type Store struct {
	db *sql.DB

	stmtMu sync.RWMutex
	stmts  map[string]*sql.Stmt
}

// Config holds database configuration.
type Config struct {
	Path     string // File path, or ":memory:" for a private in-memory database
	MaxConns int    // Maximum open connections (default: 1)
}

const schema = `
CREATE TABLE IF NOT EXISTS user_sessions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL UNIQUE,
	responses TEXT NOT NULL DEFAULT '{}',
	generated_prompt TEXT NOT NULL DEFAULT '',
	recommended_sketch_ids TEXT NOT NULL DEFAULT '[]',
	email TEXT,
	is_authenticated INTEGER NOT NULL DEFAULT 0,
	created_at_epoch INTEGER NOT NULL,
	updated_at_epoch INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_user_sessions_created ON user_sessions(created_at_epoch DESC);

CREATE TABLE IF NOT EXISTS sketch_reactions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	sketch_id TEXT NOT NULL,
	reaction_type TEXT NOT NULL CHECK (reaction_type IN ('like', 'dislike', 'bad_response')),
	created_at_epoch INTEGER NOT NULL,
	updated_at_epoch INTEGER NOT NULL,
	UNIQUE (session_id, sketch_id)
);
CREATE INDEX IF NOT EXISTS idx_sketch_reactions_session ON sketch_reactions(session_id);
`

// NewStore opens the database and creates the schema if needed.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := "file:" + cfg.Path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 1
	}
	db.SetMaxOpenConns(maxConns)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return newStoreFromDB(db), nil
}

func newStoreFromDB(db *sql.DB) *Store {
	return &Store{db: db, stmts: make(map[string]*sql.Stmt)}
}

// GetStmt returns a cached prepared statement, preparing it on first use.
func (s *Store) GetStmt(query string) (*sql.Stmt, error) {
	s.stmtMu.RLock()
	stmt, ok := s.stmts[query]
	s.stmtMu.RUnlock()
	if ok {
		return stmt, nil
	}

	s.stmtMu.Lock()
	defer s.stmtMu.Unlock()
	if stmt, ok := s.stmts[query]; ok {
		return stmt, nil
	}
	stmt, err := s.db.Prepare(query)
	if err != nil {
		return nil, err
	}
	s.stmts[query] = stmt
	return stmt, nil
}

// ExecContext executes a query through the statement cache.
func (s *Store) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	stmt, err := s.GetStmt(query)
	if err != nil {
		return nil, err
	}
	return stmt.ExecContext(ctx, args...)
}

// QueryContext runs a query through the statement cache.
func (s *Store) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	stmt, err := s.GetStmt(query)
	if err != nil {
		return nil, err
	}
	return stmt.QueryContext(ctx, args...)
}

// QueryRowContext runs a single-row query through the statement cache.
func (s *Store) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	stmt, err := s.GetStmt(query)
	if err != nil {
		// Surface the prepare error through Scan.
		return s.db.QueryRowContext(ctx, query, args...)
	}
	return stmt.QueryRowContext(ctx, args...)
}

// Ping verifies the database connection is alive.
func (s *Store) Ping() error {
	return s.db.Ping()
}

// Close releases cached statements and closes the database.
func (s *Store) Close() error {
	s.stmtMu.Lock()
	for q, stmt := range s.stmts {
		_ = stmt.Close()
		delete(s.stmts, q)
	}
	s.stmtMu.Unlock()
	return s.db.Close()
}
