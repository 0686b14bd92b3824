package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// HealthChecker reports whether the datastore answers
type HealthChecker interface {
	HealthCheck(ctx context.Context) bool
}

// Server serves the operational endpoints
type Server struct {
	health       HealthChecker
	registry     *prometheus.Registry
	corsOrigins  []string
	allowedHosts []string
	log          zerolog.Logger
	httpServer   *http.Server
}

// NewServer creates a new ops server. registry may be nil to disable /metrics.
func NewServer(health HealthChecker, registry *prometheus.Registry, corsOrigins, allowedHosts []string, log zerolog.Logger) *Server {
	return &Server{
		health:       health,
		registry:     registry,
		corsOrigins:  corsOrigins,
		allowedHosts: allowedHosts,
		log:          log.With().Str("component", "api").Logger(),
	}
}

// Handler returns the routed handler wrapped in middleware
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	if s.registry != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	return s.loggingMiddleware(s.hostMiddleware(s.corsMiddleware(mux)))
}

// Start listens on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Info().Str("addr", addr).Msg("🚀 API Server starting")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
