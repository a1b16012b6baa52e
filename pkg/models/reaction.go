// Package models contains domain models for inkmatch.
package models

import "time"

// ReactionType is the user's verdict on a recommended sketch.
type ReactionType string

const (
	ReactionLike        ReactionType = "like"
	ReactionDislike     ReactionType = "dislike"
	ReactionBadResponse ReactionType = "bad_response"
)

// Valid reports whether t is one of the known reaction types.
func (t ReactionType) Valid() bool {
	switch t {
	case ReactionLike, ReactionDislike, ReactionBadResponse:
		return true
	}
	return false
}

// ReactionAction says whether a reaction is set or withdrawn.
type ReactionAction string

const (
	ReactionActionUpsert ReactionAction = "upsert"
	ReactionActionDelete ReactionAction = "delete"
)

// Reaction is a single session's reaction to a sketch.
// A session holds at most one reaction per sketch.
type Reaction struct {
	CreatedAt time.Time      `json:"created_at"`
	SessionID string         `json:"session_id"`
	SketchID  string         `json:"sketch_id"`
	Type      ReactionType   `json:"reaction_type"`
	Action    ReactionAction `json:"action,omitempty"`
}
