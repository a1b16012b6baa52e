// Package gorm provides GORM-based session storage on Postgres for inkmatch.
package gorm

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// UserSession is one logged search, later enriched with the user's email.
type UserSession struct {
	ID                    int64  `gorm:"primaryKey;autoIncrement"`
	SessionID             string `gorm:"type:text;uniqueIndex;not null"`
	TattooExperience      sql.NullString
	SizeDescription       sql.NullString
	SizeLevel             sql.NullFloat64
	BodyPart              sql.NullString
	CustomBodyPart        sql.NullString
	VisibilityDescription sql.NullString
	VisibilityLevel       sql.NullFloat64
	MeaningDescription    sql.NullString
	MeaningLevel          sql.NullFloat64
	ChaosOrderDescription sql.NullString
	ChaosOrderLevel       sql.NullFloat64
	CustomText            sql.NullString

	// Full answer payload, including free-text fields without a column.
	Responses datatypes.JSON `gorm:"type:jsonb"`

	GeneratedPrompt      string         `gorm:"type:text"`
	RecommendedSketchIDs pq.StringArray `gorm:"type:text[]"`
	Email                sql.NullString `gorm:"type:text;index"`
	IsAuthenticated      bool           `gorm:"default:false;not null"`
	CreatedAt            time.Time      `gorm:"index:idx_user_sessions_created,sort:desc"`
	UpdatedAt            time.Time
}

func (UserSession) TableName() string { return "user_sessions" }

// SketchReaction is a session's reaction to one recommended sketch.
type SketchReaction struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	SessionID    string    `gorm:"type:text;not null;uniqueIndex:idx_sketch_reactions_unique,priority:1;index"`
	SketchID     string    `gorm:"type:text;not null;uniqueIndex:idx_sketch_reactions_unique,priority:2"`
	ReactionType string    `gorm:"type:text;not null;check:reaction_type IN ('like', 'dislike', 'bad_response')"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time
}

func (SketchReaction) TableName() string { return "sketch_reactions" }
