package models

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Level
		wantError bool
	}{
		{name: "number", input: `42`, want: NewLevel(42)},
		{name: "zero is supplied", input: `0`, want: NewLevel(0)},
		{name: "fraction", input: `74.5`, want: NewLevel(74.5)},
		{name: "numeric string", input: `"80"`, want: NewLevel(80)},
		{name: "padded numeric string", input: `" 12 "`, want: NewLevel(12)},
		{name: "null", input: `null`, want: Level{}},
		{name: "empty string", input: `""`, want: Level{}},
		{name: "word", input: `"lots"`, wantError: true},
		{name: "bool", input: `true`, wantError: true},
		{name: "NaN string", input: `"NaN"`, wantError: true},
		{name: "Inf string", input: `"Inf"`, wantError: true},
		{name: "negative infinity string", input: `"-Infinity"`, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l Level
			err := l.UnmarshalJSON([]byte(tt.input))
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, l)
		})
	}
}

func TestLevel_MarshalJSON(t *testing.T) {
	data, err := Level{}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	data, err = NewLevel(25).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "25", string(data))
}

func TestUserResponse_Decode(t *testing.T) {
	body := `{
		"tattooExperience": "first-time",
		"size": 30,
		"sizeDescription": "Small and dainty",
		"bodyPart": "wrist",
		"chaosOrder": "80",
		"customText": "a fox"
	}`

	var resp UserResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	assert.Equal(t, ExperienceFirstTime, resp.TattooExperience)
	assert.Equal(t, NewLevel(30), resp.Size)
	assert.Equal(t, "Small and dainty", resp.SizeDescription)
	assert.Equal(t, "wrist", resp.BodyPart)
	assert.Equal(t, NewLevel(80), resp.ChaosOrder)
	assert.False(t, resp.Visibility.Valid)
	assert.False(t, resp.MeaningLevel.Valid)
	assert.Equal(t, "a fox", resp.CustomText)
}

func TestUserResponse_DecodeRejectsNonFinite(t *testing.T) {
	var resp UserResponse
	err := json.Unmarshal([]byte(`{"size":"NaN","visibility":"Inf"}`), &resp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "level")
}

func TestReactionType_Valid(t *testing.T) {
	assert.True(t, ReactionLike.Valid())
	assert.True(t, ReactionDislike.Valid())
	assert.True(t, ReactionBadResponse.Valid())
	assert.False(t, ReactionType("love").Valid())
	assert.False(t, ReactionType("").Valid())
}

func TestSketchIDs(t *testing.T) {
	ids := SketchIDs([]SketchRecord{{ID: "a"}, {ID: "b"}})
	assert.Equal(t, []string{"a", "b"}, ids)
	assert.Empty(t, SketchIDs(nil))
}
