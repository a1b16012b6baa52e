package gorm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebtf/inkmatch/pkg/models"
)

func TestSqlNullString(t *testing.T) {
	assert.False(t, sqlNullString("").Valid)

	ns := sqlNullString("wrist")
	assert.True(t, ns.Valid)
	assert.Equal(t, "wrist", ns.String)
}

func TestSqlNullLevel(t *testing.T) {
	assert.False(t, sqlNullLevel(models.Level{}).Valid)

	nf := sqlNullLevel(models.NewLevel(0))
	assert.True(t, nf.Valid)
	assert.Equal(t, 0.0, nf.Float64)
}

func TestSessionRowRoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := &models.SessionRecord{
		CreatedAt:       created,
		SessionID:       "sess-1",
		GeneratedPrompt: "prompt",
		Responses: models.UserResponse{
			TattooExperience: models.ExperienceFirstTime,
			Size:             models.NewLevel(30),
			BodyPart:         "wrist",
			UserInput:        "a fox",
		},
	}

	row, err := sessionToRow(rec)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", row.SessionID)
	assert.Equal(t, created, row.CreatedAt)
	assert.True(t, row.SizeLevel.Valid)
	assert.False(t, row.VisibilityLevel.Valid)
	assert.False(t, row.Email.Valid)
	assert.NotNil(t, row.RecommendedSketchIDs, "ids must be an empty array, not NULL")
	assert.Empty(t, row.RecommendedSketchIDs)

	back, err := rowToSession(row)
	require.NoError(t, err)
	assert.Equal(t, rec.Responses, back.Responses)
	assert.Equal(t, "prompt", back.GeneratedPrompt)
	assert.Empty(t, back.Email)
}

func TestModelTableNames(t *testing.T) {
	assert.Equal(t, "user_sessions", UserSession{}.TableName())
	assert.Equal(t, "sketch_reactions", SketchReaction{}.TableName())
}
