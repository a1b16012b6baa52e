package pgvector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestRowsToSketches(t *testing.T) {
	price := 120.0
	rows := []sketchRow{
		{
			ID:                "s1",
			Title:             strPtr("Moth"),
			ArtistName:        strPtr("Ana"),
			Description:       strPtr("A night moth"),
			VisualDescription: strPtr("Fine lines"),
			ImageFilename:     strPtr("moth.png"),
			Tags:              []string{"fine-line", "insect"},
			Price:             &price,
			Similarity:        0.82,
		},
		{
			ID:         "s2",
			Similarity: 0.41,
		},
	}

	got := rowsToSketches(rows, 15)
	require.Len(t, got, 2)

	assert.Equal(t, "s1", got[0].ID)
	assert.Equal(t, "Moth", got[0].Title)
	assert.Equal(t, "Ana", got[0].ArtistName)
	assert.Equal(t, "moth.png", got[0].ImageFilename)
	assert.Equal(t, []string{"fine-line", "insect"}, got[0].Tags)
	require.NotNil(t, got[0].Price)
	assert.Equal(t, 120.0, *got[0].Price)
	assert.Equal(t, 0.82, got[0].Similarity)
	assert.Empty(t, got[0].ImageURL)

	assert.Equal(t, "", got[1].Title)
	assert.Equal(t, []string{}, got[1].Tags)
	assert.Nil(t, got[1].Price)
}

func TestRowsToSketches_ClampsToLimit(t *testing.T) {
	rows := []sketchRow{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	got := rowsToSketches(rows, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[1].ID)
}

func TestQuerySQL(t *testing.T) {
	c := NewClientFromPool(nil, "")
	assert.Equal(t, DefaultFunction, c.function)
	assert.Contains(t, c.querySQL(), `FROM "match_sketches"($1, $2, $3)`)

	c = NewClientFromPool(nil, "match_flash")
	assert.Contains(t, c.querySQL(), `FROM "match_flash"($1, $2, $3)`)
}

func TestQuery_RejectsEmptyEmbedding(t *testing.T) {
	c := NewClientFromPool(nil, "")
	_, err := c.Query(context.Background(), nil, 15, 0.01)
	assert.Error(t, err)
}

func TestQuery_ZeroLimit(t *testing.T) {
	c := NewClientFromPool(nil, "")
	got, err := c.Query(context.Background(), []float32{0.1}, 0, 0.01)
	require.NoError(t, err)
	assert.Empty(t, got)
}
