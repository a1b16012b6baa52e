// Package search orchestrates a sketch recommendation: prompt, embedding,
// similarity search, image URLs and the session log.
package search

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/inkmatch/internal/privacy"
	"github.com/thebtf/inkmatch/internal/prompt"
	"github.com/thebtf/inkmatch/internal/telemetry"
	"github.com/thebtf/inkmatch/internal/vector"
	"github.com/thebtf/inkmatch/pkg/models"
)

// Sentinel errors. Callers map them to transport status codes.
var (
	ErrValidation      = errors.New("validation failed")
	ErrProvider        = errors.New("embedding provider failed")
	ErrSearch          = errors.New("vector search failed")
	ErrSessionNotFound = errors.New("session not found")
)

// Defaults for the similarity search.
const (
	DefaultMatchCount     = 15
	DefaultMatchThreshold = 0.01
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Embedder turns text into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// SessionLogger records a completed search. It must not block on the write
// and reports no failure.
type SessionLogger interface {
	Record(ctx context.Context, rec models.SessionRecord)
}

// ImageURLResolver maps a stored image filename to a public URL.
type ImageURLResolver interface {
	Resolve(filename string) string
}

// SessionStore is the session and reaction persistence used after a search.
type SessionStore interface {
	UpdateSessionEmail(ctx context.Context, sessionID, email string, authenticated bool) (*models.SessionRecord, error)
	SaveReaction(ctx context.Context, r models.Reaction) error
	DeleteReaction(ctx context.Context, sessionID, sketchID string) error
	GetReactions(ctx context.Context, sessionID string) ([]models.Reaction, error)
}

// Options tunes the similarity search. A non-positive MatchCount falls back
// to DefaultMatchCount; MatchThreshold is used as given.
type Options struct {
	MatchCount     int
	MatchThreshold float64
}

// DefaultOptions returns the deployed match count and threshold.
func DefaultOptions() Options {
	return Options{MatchCount: DefaultMatchCount, MatchThreshold: DefaultMatchThreshold}
}

// Result is the outcome of one search.
type Result struct {
	SessionID string                `json:"session_id"`
	Sketches  []models.SketchRecord `json:"sketches"`
	Count     int                   `json:"count"`
}

// Manager runs searches against its collaborators. It holds no per-request
// state and is safe for concurrent use.
type Manager struct {
	embedder Embedder
	searcher vector.Searcher
	images   ImageURLResolver
	logger   SessionLogger
	sessions SessionStore
	metrics  *telemetry.Metrics
	opts     Options
	newID    func() string
}

// NewManager creates a new search manager. logger, sessions and metrics may
// be nil.
func NewManager(
	embedder Embedder,
	searcher vector.Searcher,
	images ImageURLResolver,
	logger SessionLogger,
	sessions SessionStore,
	metrics *telemetry.Metrics,
	opts Options,
) *Manager {
	if opts.MatchCount <= 0 {
		opts.MatchCount = DefaultMatchCount
	}
	return &Manager{
		embedder: embedder,
		searcher: searcher,
		images:   images,
		logger:   logger,
		sessions: sessions,
		metrics:  metrics,
		opts:     opts,
		newID:    uuid.NewString,
	}
}

// Options returns the effective search options.
func (m *Manager) Options() Options {
	return m.opts
}

// Search builds the prompt for resp, embeds it, finds the closest sketches
// and dispatches the session log. Provider failures wrap ErrProvider and
// search failures wrap ErrSearch; neither is retried and neither is logged
// as a session.
func (m *Manager) Search(ctx context.Context, resp models.UserResponse) (*Result, error) {
	start := time.Now()
	sessionID := m.newID()
	text := prompt.Build(resp)
	if text == "" {
		text = prompt.Heading
	}

	if e := log.Debug(); e.Enabled() {
		e.Str("session_id", sessionID).Str("prompt", privacy.Clean(text)).Msg("Prompt built")
	}

	embedStart := time.Now()
	embedding, err := m.embedder.Embed(ctx, text)
	m.metrics.RecordEmbedding(ctx, time.Since(embedStart), err)
	if err != nil {
		m.metrics.RecordSearch(ctx, telemetry.OutcomeProviderError, time.Since(start), 0)
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}

	queryStart := time.Now()
	records, err := m.searcher.Query(ctx, embedding, m.opts.MatchCount, m.opts.MatchThreshold)
	m.metrics.RecordVectorQuery(ctx, time.Since(queryStart), err)
	if err != nil {
		m.metrics.RecordSearch(ctx, telemetry.OutcomeSearchError, time.Since(start), 0)
		return nil, fmt.Errorf("%w: %w", ErrSearch, err)
	}

	sketches := make([]models.SketchRecord, len(records))
	for i, rec := range records {
		rec.ImageURL = m.images.Resolve(rec.ImageFilename)
		sketches[i] = rec
	}

	if m.logger != nil {
		m.logger.Record(ctx, models.SessionRecord{
			CreatedAt:            time.Now().UTC(),
			SessionID:            sessionID,
			GeneratedPrompt:      text,
			RecommendedSketchIDs: models.SketchIDs(sketches),
			Responses:            resp,
		})
	}

	m.metrics.RecordSearch(ctx, telemetry.OutcomeOK, time.Since(start), len(sketches))
	log.Info().
		Str("session_id", sessionID).
		Int("count", len(sketches)).
		Dur("took", time.Since(start)).
		Msg("Search completed")

	return &Result{SessionID: sessionID, Sketches: sketches, Count: len(sketches)}, nil
}

// UpdateSession attaches an email to a logged session and marks it
// authenticated.
func (m *Manager) UpdateSession(ctx context.Context, sessionID, email string) (*models.SessionRecord, error) {
	sessionID = strings.TrimSpace(sessionID)
	email = strings.TrimSpace(email)
	if sessionID == "" || email == "" {
		return nil, fmt.Errorf("%w: session_id and email are required", ErrValidation)
	}
	if !emailPattern.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email format", ErrValidation)
	}
	if m.sessions == nil {
		return nil, errors.New("session store not configured")
	}

	rec, err := m.sessions.UpdateSessionEmail(ctx, sessionID, email, true)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	log.Info().Str("session_id", sessionID).Str("email", privacy.MaskEmail(email)).Msg("Session linked to email")
	return rec, nil
}

// React stores or withdraws a reaction. An empty action means upsert.
func (m *Manager) React(ctx context.Context, r models.Reaction) (models.Reaction, error) {
	r.SessionID = strings.TrimSpace(r.SessionID)
	r.SketchID = strings.TrimSpace(r.SketchID)
	if r.SessionID == "" || r.SketchID == "" {
		return r, fmt.Errorf("%w: session_id and sketch_id are required", ErrValidation)
	}
	if r.Action == "" {
		r.Action = models.ReactionActionUpsert
	}
	if m.sessions == nil {
		return r, errors.New("session store not configured")
	}

	switch r.Action {
	case models.ReactionActionDelete:
		if err := m.sessions.DeleteReaction(ctx, r.SessionID, r.SketchID); err != nil {
			return r, fmt.Errorf("delete reaction: %w", err)
		}
	case models.ReactionActionUpsert:
		if !r.Type.Valid() {
			return r, fmt.Errorf("%w: reaction_type must be like, dislike or bad_response", ErrValidation)
		}
		if err := m.sessions.SaveReaction(ctx, r); err != nil {
			return r, fmt.Errorf("save reaction: %w", err)
		}
	default:
		return r, fmt.Errorf("%w: unknown action %q", ErrValidation, r.Action)
	}

	log.Debug().
		Str("session_id", r.SessionID).
		Str("sketch_id", r.SketchID).
		Str("action", string(r.Action)).
		Str("reaction_type", string(r.Type)).
		Msg("Reaction recorded")
	return r, nil
}

// Reactions lists the reactions left in a session.
func (m *Manager) Reactions(ctx context.Context, sessionID string) ([]models.Reaction, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session_id is required", ErrValidation)
	}
	if m.sessions == nil {
		return nil, errors.New("session store not configured")
	}
	reactions, err := m.sessions.GetReactions(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get reactions: %w", err)
	}
	return reactions, nil
}
