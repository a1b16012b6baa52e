// Package gorm provides GORM-based session storage on Postgres for inkmatch.
package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/thebtf/inkmatch/pkg/models"
)

// SessionStore provides session and reaction operations using GORM.
type SessionStore struct {
	db *gorm.DB
}

// NewSessionStore creates a new session store.
func NewSessionStore(store *Store) *SessionStore {
	return &SessionStore{db: store.DB}
}

// CreateSession inserts one search session row.
func (s *SessionStore) CreateSession(ctx context.Context, rec *models.SessionRecord) error {
	row, err := sessionToRow(rec)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("create session %s: %w", rec.SessionID, err)
	}
	return nil
}

// UpdateSessionEmail records the user's email and authentication state.
// It returns models.ErrNotFound when no session has the given id.
func (s *SessionStore) UpdateSessionEmail(ctx context.Context, sessionID, email string, authenticated bool) (*models.SessionRecord, error) {
	result := s.db.WithContext(ctx).
		Model(&UserSession{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]any{
			"email":            email,
			"is_authenticated": authenticated,
			"updated_at":       time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("update session %s: %w", sessionID, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, models.ErrNotFound
	}
	return s.GetSession(ctx, sessionID)
}

// GetSession retrieves a session by id.
func (s *SessionStore) GetSession(ctx context.Context, sessionID string) (*models.SessionRecord, error) {
	var row UserSession
	err := s.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session %s: %w", sessionID, err)
	}
	return rowToSession(&row)
}

// SaveReaction stores a reaction, replacing any previous reaction the session
// left on the same sketch.
func (s *SessionStore) SaveReaction(ctx context.Context, r models.Reaction) error {
	now := time.Now().UTC()
	row := &SketchReaction{
		SessionID:    r.SessionID,
		SketchID:     r.SketchID,
		ReactionType: string(r.Type),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "sketch_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"reaction_type", "updated_at"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("save reaction: %w", err)
	}
	return nil
}

// DeleteReaction withdraws a session's reaction to a sketch.
// Deleting a reaction that does not exist is not an error.
func (s *SessionStore) DeleteReaction(ctx context.Context, sessionID, sketchID string) error {
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND sketch_id = ?", sessionID, sketchID).
		Delete(&SketchReaction{}).Error
	if err != nil {
		return fmt.Errorf("delete reaction: %w", err)
	}
	return nil
}

// GetReactions lists a session's reactions, oldest first.
func (s *SessionStore) GetReactions(ctx context.Context, sessionID string) ([]models.Reaction, error) {
	var rows []SketchReaction
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("get reactions: %w", err)
	}

	out := make([]models.Reaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.Reaction{
			CreatedAt: row.CreatedAt,
			SessionID: row.SessionID,
			SketchID:  row.SketchID,
			Type:      models.ReactionType(row.ReactionType),
		})
	}
	return out, nil
}

func sessionToRow(rec *models.SessionRecord) (*UserSession, error) {
	responses, err := json.Marshal(rec.Responses)
	if err != nil {
		return nil, fmt.Errorf("marshal responses: %w", err)
	}

	ids := rec.RecommendedSketchIDs
	if ids == nil {
		ids = []string{}
	}

	resp := rec.Responses
	row := &UserSession{
		SessionID:             rec.SessionID,
		TattooExperience:      sqlNullString(resp.TattooExperience),
		SizeDescription:       sqlNullString(resp.SizeDescription),
		SizeLevel:             sqlNullLevel(resp.Size),
		BodyPart:              sqlNullString(resp.BodyPart),
		CustomBodyPart:        sqlNullString(resp.CustomBodyPart),
		VisibilityDescription: sqlNullString(resp.VisibilityDescription),
		VisibilityLevel:       sqlNullLevel(resp.Visibility),
		MeaningDescription:    sqlNullString(resp.MeaningDescription),
		MeaningLevel:          sqlNullLevel(resp.MeaningLevel),
		ChaosOrderDescription: sqlNullString(resp.ChaosOrderDescription),
		ChaosOrderLevel:       sqlNullLevel(resp.ChaosOrder),
		CustomText:            sqlNullString(resp.CustomText),
		Responses:             datatypes.JSON(responses),
		GeneratedPrompt:       rec.GeneratedPrompt,
		RecommendedSketchIDs:  ids,
		Email:                 sqlNullString(rec.Email),
		IsAuthenticated:       rec.IsAuthenticated,
	}
	if !rec.CreatedAt.IsZero() {
		row.CreatedAt = rec.CreatedAt
		row.UpdatedAt = rec.CreatedAt
	}
	return row, nil
}

func rowToSession(row *UserSession) (*models.SessionRecord, error) {
	rec := &models.SessionRecord{
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
		SessionID:            row.SessionID,
		GeneratedPrompt:      row.GeneratedPrompt,
		Email:                row.Email.String,
		RecommendedSketchIDs: []string(row.RecommendedSketchIDs),
		IsAuthenticated:      row.IsAuthenticated,
	}
	if len(row.Responses) > 0 {
		if err := json.Unmarshal(row.Responses, &rec.Responses); err != nil {
			return nil, fmt.Errorf("unmarshal responses: %w", err)
		}
	}
	return rec, nil
}
