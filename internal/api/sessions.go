package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/attune-labs/attune/internal/bus"
	"github.com/attune-labs/attune/internal/emotion"
)

// createSession handles POST /api/v1/sessions: it persists a new
// session and starts its sampling and autosave tasks.
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.deps.Store.CreateSession(r.Context())
	if err != nil {
		s.deps.Logger.Error("failed to create session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "create session failed"})
		return
	}

	s.deps.Sessions.Begin(sess.ID, func(buf *emotion.Buffer) func() {
		return s.deps.StartSampler(s.baseCtx, sess.ID, buf)
	})

	if err := s.deps.Bus.Publish(bus.SubjectSessionStarted, map[string]any{
		"session_id": sess.ID.String(),
		"started_at": sess.StartedAt.Format(time.RFC3339),
	}); err != nil {
		s.deps.Logger.Warn("failed to publish session started", "error", err)
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id": sess.ID.String(),
		"started_at": sess.StartedAt.Format(time.RFC3339),
	})
}

// endSession handles POST /api/v1/sessions/{id}/end: it stops the
// periodic tasks, then marks the session ended in the store.
func (s *Server) endSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session id"})
		return
	}

	s.deps.Sessions.End(id)

	if err := s.deps.Store.EndSession(r.Context(), id); err != nil {
		status := http.StatusInternalServerError
		if strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	if err := s.deps.Bus.Publish(bus.SubjectSessionEnded, map[string]any{
		"session_id": id.String(),
	}); err != nil {
		s.deps.Logger.Warn("failed to publish session ended", "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"session_id": id.String(), "status": "ended"})
}

type respondRequest struct {
	Message string `json:"message"`
}

// respond handles POST /api/v1/sessions/{id}/respond: it resolves a
// response through the provider chain using the session's recent
// emotional state and persists both sides of the exchange.
func (s *Server) respond(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session id"})
		return
	}

	var req respondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}

	vector := s.currentVector(id)
	resolution := s.deps.Chain.Resolve(r.Context(), req.Message, vector)

	// Persistence failures don't block the answer; the user still gets
	// their response.
	s.persistExchange(r.Context(), id, req.Message, resolution.Text, resolution.Provider, vector)

	if err := s.deps.Bus.Publish(bus.SubjectResolved, map[string]any{
		"session_id": id.String(),
		"provider":   resolution.Provider,
	}); err != nil {
		s.deps.Logger.Warn("failed to publish resolution", "error", err)
	}

	writeJSON(w, http.StatusOK, resolution)
}

// currentVector picks the emotion context for a resolution: windowed
// average first, latest sample second, neutral when the session has no
// live buffer or no samples.
func (s *Server) currentVector(id uuid.UUID) emotion.Vector {
	buf, ok := s.deps.Sessions.Buffer(id)
	if !ok {
		return emotion.Neutral()
	}
	if avg, ok := buf.WindowedAverage(s.deps.Window); ok {
		return avg
	}
	if latest, ok := buf.Latest(); ok {
		return latest.Vector
	}
	return emotion.Neutral()
}

func (s *Server) persistExchange(ctx context.Context, id uuid.UUID, userText, responseText, providerName string, v emotion.Vector) {
	if _, err := s.deps.Store.CreateMessage(ctx, id, true, userText, "", &v); err != nil {
		s.deps.Logger.Error("failed to persist user message", "session_id", id, "error", err)
	}
	if _, err := s.deps.Store.CreateMessage(ctx, id, false, responseText, providerName, &v); err != nil {
		s.deps.Logger.Error("failed to persist response message", "session_id", id, "error", err)
	}
}

// sessionStats handles GET /api/v1/sessions/{id}/stats.
func (s *Server) sessionStats(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session id"})
		return
	}

	snapshot, err := s.deps.Stats.Compute(r.Context(), id)
	if err != nil {
		s.deps.Logger.Error("failed to compute stats", "session_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "stats computation failed"})
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

type liveResponse struct {
	Latest          *emotion.Sample `json:"latest,omitempty"`
	WindowedAverage *emotion.Vector `json:"windowed_average,omitempty"`
	Dominant        string          `json:"dominant"`
	DominantValue   float64         `json:"dominant_value"`
	BufferLen       int             `json:"buffer_len"`
}

// sessionLive handles GET /api/v1/sessions/{id}/live: a read-only
// snapshot of the session's in-memory emotional state.
func (s *Server) sessionLive(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session id"})
		return
	}

	buf, ok := s.deps.Sessions.Buffer(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not live"})
		return
	}

	resp := liveResponse{BufferLen: buf.Len()}
	display := emotion.Neutral()
	if latest, ok := buf.Latest(); ok {
		resp.Latest = &latest
		display = latest.Vector
	}
	if avg, ok := buf.WindowedAverage(s.deps.Window); ok {
		resp.WindowedAverage = &avg
		display = avg
	}
	resp.Dominant, resp.DominantValue = emotion.Dominant(display)

	writeJSON(w, http.StatusOK, resp)
}
