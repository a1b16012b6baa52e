// Package models contains domain models for inkmatch.
package models

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// Experience values sent by the questionnaire.
const (
	ExperienceFirstTime   = "first-time"
	ExperienceExperienced = "experienced"
)

// Level is an optional slider value in the 0-100 range.
// The zero value means the slider was not answered; 0 itself is a valid answer.
type Level struct {
	Value float64
	Valid bool
}

// NewLevel returns a supplied Level.
func NewLevel(v float64) Level {
	return Level{Value: v, Valid: true}
}

// UnmarshalJSON accepts a number, a numeric string, an empty string or null.
func (l *Level) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = Level{}
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		unquoted, err := strconv.Unquote(raw)
		if err != nil {
			return fmt.Errorf("level: %w", err)
		}
		raw = string(bytes.TrimSpace([]byte(unquoted)))
		if raw == "" {
			*l = Level{}
			return nil
		}
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("level: invalid value %q", raw)
	}
	*l = Level{Value: v, Valid: true}
	return nil
}

// MarshalJSON writes null for an unanswered level.
func (l Level) MarshalJSON() ([]byte, error) {
	if !l.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, l.Value, 'f', -1, 64), nil
}

// UserResponse holds the questionnaire answers of one search request.
// Every field is optional.
type UserResponse struct {
	TattooExperience      string `json:"tattooExperience,omitempty"`
	Size                  Level  `json:"size"`
	SizeDescription       string `json:"sizeDescription,omitempty"`
	BodyPart              string `json:"bodyPart,omitempty"`
	CustomBodyPart        string `json:"customBodyPart,omitempty"`
	Visibility            Level  `json:"visibility"`
	VisibilityDescription string `json:"visibilityDescription,omitempty"`
	MeaningLevel          Level  `json:"meaningLevel"`
	MeaningDescription    string `json:"meaningDescription,omitempty"`
	ChaosOrder            Level  `json:"chaosOrder"`
	ChaosOrderDescription string `json:"chaosOrderDescription,omitempty"`
	CustomLettering       string `json:"customLettering,omitempty"`
	UserInput             string `json:"userInput,omitempty"`
	CustomText            string `json:"customText,omitempty"`
	VoiceTranscript       string `json:"voiceTranscript,omitempty"`
	MoodboardDescription  string `json:"moodboardDescription,omitempty"`
}
