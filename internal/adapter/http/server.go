package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/neo-impact-service/internal/config"
	"github.com/couchcryptid/neo-impact-service/internal/domain"
	"github.com/couchcryptid/neo-impact-service/internal/observability"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Simulator is the application API behind the HTTP routes.
type Simulator interface {
	Asteroids(ctx context.Context) ([]domain.AsteroidRecord, error)
	Impact(ctx context.Context, in domain.ImpactInput) (domain.ImpactResult, error)
	Deflect(ctx context.Context, in domain.DeflectionInput) (domain.DeflectionResult, error)
}

// Server exposes the NEO API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer     *http.Server
	sim            Simulator
	allowedOrigins []string
	metrics        *observability.Metrics
	logger         *slog.Logger
}

// NewServer creates an HTTP server with the /api routes, /healthz, /readyz, and /metrics.
func NewServer(cfg *config.Config, sim Simulator, ready sharedobs.ReadinessChecker, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	s := &Server{
		sim:            sim,
		allowedOrigins: origins,
		metrics:        metrics,
		logger:         logger,
	}
	s.httpServer = &http.Server{
		Addr:        cfg.HTTPAddr,
		Handler:     s.corsMiddleware(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: config.MaxFeedFetchDuration + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	mux.HandleFunc("GET /api/get_asteroids", s.instrument("get_asteroids", s.handleGetAsteroids))
	mux.HandleFunc("POST /api/calculate_impact", s.instrument("calculate_impact", s.handleCalculateImpact))
	mux.HandleFunc("POST /api/calculate_deflection", s.instrument("calculate_deflection", s.handleCalculateDeflection))

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
