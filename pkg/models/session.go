// Package models contains domain models for inkmatch.
package models

import (
	"errors"
	"time"
)

// ErrNotFound is returned by stores when the requested row does not exist.
var ErrNotFound = errors.New("not found")

// SessionRecord correlates one search with its answers, prompt and results.
// It is written once per search and later updated when the user leaves an email.
type SessionRecord struct {
	CreatedAt            time.Time    `json:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at"`
	SessionID            string       `json:"session_id"`
	GeneratedPrompt      string       `json:"generated_prompt"`
	Email                string       `json:"email,omitempty"`
	RecommendedSketchIDs []string     `json:"recommended_sketch_ids"`
	Responses            UserResponse `json:"responses"`
	IsAuthenticated      bool         `json:"is_authenticated"`
}
