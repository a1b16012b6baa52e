// Package worker provides the HTTP service for inkmatch.
package worker

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/thebtf/inkmatch/docs"
	"github.com/thebtf/inkmatch/internal/config"
	"github.com/thebtf/inkmatch/internal/search"
)

// ServiceName is reported by the health endpoint.
const ServiceName = "inkmatch"

// Service is the HTTP front of the search manager.
type Service struct {
	version   string
	config    *config.Config
	search    *search.Manager
	pinger    Pinger
	router    chi.Router
	server    *http.Server
	startTime time.Time
	ready     atomic.Bool
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping() error
}

// NewService creates the service and its routes. pinger may be nil.
func NewService(version string, cfg *config.Config, manager *search.Manager, pinger Pinger) *Service {
	svc := &Service{
		version:   version,
		config:    cfg,
		search:    manager,
		pinger:    pinger,
		router:    chi.NewRouter(),
		startTime: time.Now(),
	}
	svc.setupRoutes()
	svc.server = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           svc.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.RequestTimeout() + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return svc
}

// Handler returns the root HTTP handler.
func (s *Service) Handler() http.Handler {
	return s.router
}

func (s *Service) setupRoutes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(corsHeaders)
	if d := s.config.RequestTimeout(); d > 0 {
		r.Use(middleware.Timeout(d))
	}

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/ready", s.handleReady)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Post("/search", s.handleSearch)
	r.Post("/api/search-sketches", s.handleSearch)
	r.Get("/api/search-sketches", s.handleGetReactions)
	r.Post("/api/update-session", s.handleUpdateSession)
	r.Get("/api/reactions", s.handleGetReactions)
	r.Post("/api/reactions", s.handleReact)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found", r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", r.Method+" "+r.URL.Path)
	})
}

// Start serves on the configured address until Shutdown is called.
// A Service that was shut down before Start returns nil without serving.
func (s *Service) Start() error {
	s.ready.Store(true)
	defer s.ready.Store(false)

	log.Info().Str("addr", s.config.HTTPAddr).Str("version", s.version).Msg("HTTP server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Service) Shutdown(ctx context.Context) error {
	s.ready.Store(false)
	return s.server.Shutdown(ctx)
}
