// Package api provides the HTTP server for Pulse: event ingestion for
// collaborating services and read endpoints for the UI.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rally-social/pulse/internal/app/engagement"
	"github.com/rally-social/pulse/internal/health"
)

// Server is the Pulse HTTP API server.
type Server struct {
	engine         *engagement.Engine
	health         *health.Checker
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(engine *engagement.Engine, checker *health.Checker) *Server {
	return &Server{engine: engine, health: checker}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/events/created", s.handleActivityCreated)
		r.Post("/events/joined", s.handleActivityJoined)

		r.Get("/users/{id}/stats", s.handleUserStats)
		r.Get("/users/{id}/achievements", s.handleUserAchievements)
		r.Get("/users/{id}/history", s.handleUserHistory)

		r.Get("/leaderboard", s.handleLeaderboard)
		r.Get("/levels/{level}", s.handleLevelThreshold)
		r.Get("/catalog", s.handleCatalog)
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	statuses := s.health.Statuses()
	code := http.StatusOK
	if !s.health.IsHealthy() {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]interface{}{
		"healthy": s.health.IsHealthy(),
		"checks":  statuses,
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for the app frontends.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
