// Package sqlite provides SQLite session storage for inkmatch.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/thebtf/inkmatch/pkg/models"
)

// SessionStore provides session and reaction operations.
type SessionStore struct {
	store *Store
}

// NewSessionStore creates a new session store.
func NewSessionStore(store *Store) *SessionStore {
	return &SessionStore{store: store}
}

// CreateSession inserts one search session row.
func (s *SessionStore) CreateSession(ctx context.Context, rec *models.SessionRecord) error {
	responses, err := json.Marshal(rec.Responses)
	if err != nil {
		return fmt.Errorf("marshal responses: %w", err)
	}
	ids := rec.RecommendedSketchIDs
	if ids == nil {
		ids = []string{}
	}
	idsJSON, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshal sketch ids: %w", err)
	}

	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	const query = `
		INSERT INTO user_sessions
		(session_id, responses, generated_prompt, recommended_sketch_ids, email, is_authenticated, created_at_epoch, updated_at_epoch)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.store.ExecContext(ctx, query,
		rec.SessionID, string(responses), rec.GeneratedPrompt, string(idsJSON),
		nullString(rec.Email), boolToInt(rec.IsAuthenticated),
		created.UnixMilli(), created.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("create session %s: %w", rec.SessionID, err)
	}
	return nil
}

// UpdateSessionEmail records the user's email and authentication state.
// It returns models.ErrNotFound when no session has the given id.
func (s *SessionStore) UpdateSessionEmail(ctx context.Context, sessionID, email string, authenticated bool) (*models.SessionRecord, error) {
	const query = `
		UPDATE user_sessions
		SET email = ?, is_authenticated = ?, updated_at_epoch = ?
		WHERE session_id = ?
	`
	result, err := s.store.ExecContext(ctx, query,
		nullString(email), boolToInt(authenticated), time.Now().UnixMilli(), sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("update session %s: %w", sessionID, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, models.ErrNotFound
	}
	return s.GetSession(ctx, sessionID)
}

// GetSession retrieves a session by id.
func (s *SessionStore) GetSession(ctx context.Context, sessionID string) (*models.SessionRecord, error) {
	const query = `
		SELECT session_id, responses, generated_prompt, recommended_sketch_ids,
		       email, is_authenticated, created_at_epoch, updated_at_epoch
		FROM user_sessions WHERE session_id = ?
	`
	var (
		rec                 models.SessionRecord
		responses, idsJSON  string
		email               sql.NullString
		authenticated       int
		createdMs, updateMs int64
	)
	err := s.store.QueryRowContext(ctx, query, sessionID).Scan(
		&rec.SessionID, &responses, &rec.GeneratedPrompt, &idsJSON,
		&email, &authenticated, &createdMs, &updateMs,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}

	if err := json.Unmarshal([]byte(responses), &rec.Responses); err != nil {
		return nil, fmt.Errorf("unmarshal responses: %w", err)
	}
	if err := json.Unmarshal([]byte(idsJSON), &rec.RecommendedSketchIDs); err != nil {
		return nil, fmt.Errorf("unmarshal sketch ids: %w", err)
	}
	rec.Email = email.String
	rec.IsAuthenticated = authenticated != 0
	rec.CreatedAt = fromEpoch(createdMs)
	rec.UpdatedAt = fromEpoch(updateMs)
	return &rec, nil
}

// SaveReaction stores a reaction, replacing any previous reaction the session
// left on the same sketch.
func (s *SessionStore) SaveReaction(ctx context.Context, r models.Reaction) error {
	now := time.Now().UnixMilli()
	const query = `
		INSERT INTO sketch_reactions (session_id, sketch_id, reaction_type, created_at_epoch, updated_at_epoch)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(session_id, sketch_id)
		DO UPDATE SET reaction_type = excluded.reaction_type, updated_at_epoch = excluded.updated_at_epoch
	`
	if _, err := s.store.ExecContext(ctx, query, r.SessionID, r.SketchID, string(r.Type), now, now); err != nil {
		return fmt.Errorf("save reaction: %w", err)
	}
	return nil
}

// DeleteReaction withdraws a session's reaction to a sketch.
func (s *SessionStore) DeleteReaction(ctx context.Context, sessionID, sketchID string) error {
	const query = `DELETE FROM sketch_reactions WHERE session_id = ? AND sketch_id = ?`
	if _, err := s.store.ExecContext(ctx, query, sessionID, sketchID); err != nil {
		return fmt.Errorf("delete reaction: %w", err)
	}
	return nil
}

// GetReactions lists a session's reactions, oldest first.
func (s *SessionStore) GetReactions(ctx context.Context, sessionID string) ([]models.Reaction, error) {
	const query = `
		SELECT session_id, sketch_id, reaction_type, created_at_epoch
		FROM sketch_reactions WHERE session_id = ?
		ORDER BY created_at_epoch ASC, id ASC
	`
	rows, err := s.store.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get reactions: %w", err)
	}
	defer rows.Close()

	out := []models.Reaction{}
	for rows.Next() {
		var (
			r         models.Reaction
			typ       string
			createdMs int64
		)
		if err := rows.Scan(&r.SessionID, &r.SketchID, &typ, &createdMs); err != nil {
			return nil, err
		}
		r.Type = models.ReactionType(typ)
		r.CreatedAt = fromEpoch(createdMs)
		out = append(out, r)
	}
	return out, rows.Err()
}
