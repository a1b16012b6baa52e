//go:build integration

package gorm

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/thebtf/inkmatch/pkg/models"
)

func testStore(t *testing.T) *SessionStore {
	t.Helper()
	dsn := os.Getenv("INKMATCH_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("INKMATCH_TEST_DATABASE_URL not set")
	}
	store, err := NewStore(Config{DSN: dsn, LogLevel: logger.Silent})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return NewSessionStore(store)
}

func TestSessionStore_CreateAndUpdate(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	id := uuid.NewString()

	require.NoError(t, s.CreateSession(ctx, &models.SessionRecord{
		SessionID:            id,
		GeneratedPrompt:      "p",
		RecommendedSketchIDs: []string{"a", "b"},
		Responses:            models.UserResponse{BodyPart: "arm"},
	}))

	got, err := s.UpdateSessionEmail(ctx, id, "a@b.co", true)
	require.NoError(t, err)
	assert.Equal(t, "a@b.co", got.Email)
	assert.True(t, got.IsAuthenticated)
	assert.Equal(t, []string{"a", "b"}, got.RecommendedSketchIDs)
	assert.Equal(t, "arm", got.Responses.BodyPart)

	_, err = s.UpdateSessionEmail(ctx, uuid.NewString(), "a@b.co", false)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSessionStore_Reactions(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	id := uuid.NewString()

	require.NoError(t, s.SaveReaction(ctx, models.Reaction{SessionID: id, SketchID: "x", Type: models.ReactionLike}))
	require.NoError(t, s.SaveReaction(ctx, models.Reaction{SessionID: id, SketchID: "x", Type: models.ReactionDislike}))
	require.NoError(t, s.SaveReaction(ctx, models.Reaction{SessionID: id, SketchID: "y", Type: models.ReactionBadResponse}))

	got, err := s.GetReactions(ctx, id)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.ReactionDislike, got[0].Type)

	require.NoError(t, s.DeleteReaction(ctx, id, "x"))
	require.NoError(t, s.DeleteReaction(ctx, id, "missing"))

	got, err = s.GetReactions(ctx, id)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "y", got[0].SketchID)
}
