package worker

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/inkmatch/pkg/models"
)

type searchResponse struct {
	Success   bool                  `json:"success"`
	SessionID string                `json:"session_id"`
	Sketches  []models.SketchRecord `json:"sketches"`
	Count     int                   `json:"count"`
}

// reactionRequest is also accepted on the search endpoint: a body carrying
// all three reaction fields is treated as a reaction, not a search.
type reactionRequest struct {
	SessionID    string `json:"session_id"`
	SketchID     string `json:"sketch_id"`
	ReactionType string `json:"reaction_type"`
	Action       string `json:"action"`
}

func (r reactionRequest) complete() bool {
	return r.SessionID != "" && r.SketchID != "" && r.ReactionType != ""
}

func (r reactionRequest) reaction() models.Reaction {
	return models.Reaction{
		SessionID: r.SessionID,
		SketchID:  r.SketchID,
		Type:      models.ReactionType(strings.TrimSpace(r.ReactionType)),
		Action:    models.ReactionAction(strings.TrimSpace(r.Action)),
	}
}

type reactionResponse struct {
	Success      bool   `json:"success"`
	Action       string `json:"action"`
	ReactionType string `json:"reaction_type,omitempty"`
	SketchID     string `json:"sketch_id"`
	SessionID    string `json:"session_id"`
	Message      string `json:"message"`
}

type reactionsResponse struct {
	Success   bool              `json:"success"`
	SessionID string            `json:"session_id"`
	Reactions []models.Reaction `json:"reactions"`
}

type updateSessionRequest struct {
	SessionID string `json:"session_id"`
	Email     string `json:"email"`
}

type updateSessionResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Session *models.SessionRecord `json:"session"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Service   string `json:"service"`
	Version   string `json:"version,omitempty"`
	Uptime    string `json:"uptime,omitempty"`
}

// handleSearch runs a sketch search for the questionnaire in the body.
func (s *Service) handleSearch(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}

	var probe reactionRequest
	if err := json.Unmarshal(body, &probe); err == nil && probe.complete() {
		s.react(w, r, probe)
		return
	}

	var resp models.UserResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	result, err := s.search.Search(r.Context(), resp)
	if err != nil {
		log.Error().Err(err).Msg("Search failed")
		writeError(w, statusFor(err), "Failed to search sketches", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Success:   true,
		SessionID: result.SessionID,
		Sketches:  result.Sketches,
		Count:     result.Count,
	})
}

// handleUpdateSession attaches an email to a logged session.
func (s *Service) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	var req updateSessionRequest
	body, err := readBody(w, r)
	if err == nil {
		err = json.Unmarshal(body, &req)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	rec, err := s.search.UpdateSession(r.Context(), req.SessionID, req.Email)
	if err != nil {
		status := statusFor(err)
		switch status {
		case http.StatusBadRequest:
			writeError(w, status, "Invalid request", err.Error())
		case http.StatusNotFound:
			writeError(w, status, "Session not found", "The provided session ID does not exist")
		default:
			log.Error().Err(err).Str("session_id", req.SessionID).Msg("Update session failed")
			writeError(w, status, "Failed to update session", err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, updateSessionResponse{
		Success: true,
		Message: "Session updated successfully",
		Session: rec,
	})
}

// handleGetReactions lists the reactions recorded for ?session_id=.
func (s *Service) handleGetReactions(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if strings.TrimSpace(sessionID) == "" {
		writeError(w, http.StatusBadRequest, "Missing session_id parameter", "")
		return
	}

	reactions, err := s.search.Reactions(r.Context(), sessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Get reactions failed")
		writeError(w, statusFor(err), "Failed to get reactions", err.Error())
		return
	}
	if reactions == nil {
		reactions = []models.Reaction{}
	}

	writeJSON(w, http.StatusOK, reactionsResponse{
		Success:   true,
		SessionID: sessionID,
		Reactions: reactions,
	})
}

// handleReact records or withdraws a reaction.
func (s *Service) handleReact(w http.ResponseWriter, r *http.Request) {
	var req reactionRequest
	body, err := readBody(w, r)
	if err == nil {
		err = json.Unmarshal(body, &req)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	s.react(w, r, req)
}

func (s *Service) react(w http.ResponseWriter, r *http.Request, req reactionRequest) {
	saved, err := s.search.React(r.Context(), req.reaction())
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			log.Error().Err(err).Str("session_id", req.SessionID).Msg("Reaction failed")
		}
		writeError(w, status, "Failed to submit reaction", err.Error())
		return
	}

	msg := "Reaction submitted successfully"
	if saved.Action == models.ReactionActionDelete {
		msg = "Reaction removed successfully"
	}
	writeJSON(w, http.StatusOK, reactionResponse{
		Success:      true,
		Action:       string(saved.Action),
		ReactionType: string(saved.Type),
		SketchID:     saved.SketchID,
		SessionID:    saved.SessionID,
		Message:      msg,
	})
}

// handleHealth reports liveness.
func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Service:   ServiceName,
		Version:   s.version,
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
	})
}

// handleReady reports readiness: serving and, when configured, the session
// store reachable.
func (s *Service) handleReady(w http.ResponseWriter, _ *http.Request) {
	if !s.ready.Load() {
		writeError(w, http.StatusServiceUnavailable, "Not ready", "server is starting or shutting down")
		return
	}
	if s.pinger != nil {
		if err := s.pinger.Ping(); err != nil {
			writeError(w, http.StatusServiceUnavailable, "Not ready", err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

