package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/attune-labs/attune/internal/bus"
	"github.com/attune-labs/attune/internal/emotion"
	"github.com/attune-labs/attune/internal/provider"
	"github.com/attune-labs/attune/internal/session"
	"github.com/attune-labs/attune/internal/stats"
	"github.com/attune-labs/attune/internal/store"
)

// SessionStore is the slice of the store the API needs.
type SessionStore interface {
	CreateSession(ctx context.Context) (store.Session, error)
	EndSession(ctx context.Context, id uuid.UUID) error
	GetSession(ctx context.Context, id uuid.UUID) (store.Session, error)
	CreateMessage(ctx context.Context, sessionID uuid.UUID, isUser bool, content, providerName string, emotionContext *emotion.Vector) (store.MessageRow, error)
}

// StatsComputer recomputes session statistics on demand.
type StatsComputer interface {
	Compute(ctx context.Context, sessionID uuid.UUID) (stats.SessionStats, error)
}

// Deps carries the collaborators the server routes to.
type Deps struct {
	Store    SessionStore
	Stats    StatsComputer
	Chain    *provider.Chain
	Sessions *session.Registry
	// StartSampler launches the periodic tasks for a new session and
	// returns their stop function.
	StartSampler func(ctx context.Context, id uuid.UUID, buf *emotion.Buffer) (stop func())
	Bus          *bus.Client
	Window       time.Duration
	Logger       *slog.Logger
}

type Server struct {
	router *chi.Mux
	port   int
	deps   Deps

	// baseCtx bounds sampler lifetimes to the process, not to the
	// request that started the session.
	baseCtx context.Context
}

func NewServer(ctx context.Context, port int, apiToken string, deps Deps) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	s := &Server{
		router:  router,
		port:    port,
		deps:    deps,
		baseCtx: ctx,
	}

	router.Get("/health", s.health)
	router.Get("/api/v1/attune/status", s.status)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/api/v1/providers", s.listProviders)

	router.Route("/api/v1/sessions", func(r chi.Router) {
		r.Get("/{id}/stats", s.sessionStats)
		r.Get("/{id}/live", s.sessionLive)

		r.Group(func(r chi.Router) {
			r.Use(BearerAuthMiddleware(apiToken))
			r.Post("/", s.createSession)
			r.Post("/{id}/end", s.endSession)
			r.Post("/{id}/respond", s.respond)
		})
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	slog.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

// BearerAuthMiddleware rejects requests without the configured token.
// An empty token disables the check.
func BearerAuthMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service":       "attune",
		"status":        "ok",
		"live_sessions": s.deps.Sessions.Len(),
	})
}

func (s *Server) listProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Chain.List())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func sessionID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "id"))
}
