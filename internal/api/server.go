// Package api exposes the read-only status HTTP interface.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/newshound/newshound/internal/metrics"
)

// StoryLister reports the IDs of archived stories.
type StoryLister interface {
	List() ([]string, error)
}

// Server wires HTTP handlers to the content store.
type Server struct {
	router chi.Router
	lister StoryLister
	logger *zap.Logger
}

// NewServer constructs a Server with middleware and routes.
func NewServer(lister StoryLister, logger *zap.Logger) *Server {
	s := &Server{
		lister: lister,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Route("/v1", func(r chi.Router) {
		r.Get("/stories", s.listStories)
	})

	s.router = r
	return s
}

// Handler returns the Router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listStories(w http.ResponseWriter, _ *http.Request) {
	ids, err := s.lister.List()
	if err != nil {
		s.logger.Error("list stories failed", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "list stories failed"})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"stories": ids,
		"count":   len(ids),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("write response failed", zap.Error(err))
	}
}
