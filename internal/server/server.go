// Package server provides the HTTP server implementation.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/recordkit/recordkit/internal/config"
	"github.com/recordkit/recordkit/internal/handlers"
	"github.com/recordkit/recordkit/internal/idgen"
	"github.com/recordkit/recordkit/internal/metrics"
	"github.com/recordkit/recordkit/internal/middleware"
	"github.com/recordkit/recordkit/internal/ratelimit"
	"github.com/recordkit/recordkit/internal/services"
	"github.com/recordkit/recordkit/pkg/logger"
)

// Option configures a Server.
type Option func(*Server)

// WithRecordService mounts the record routes backed by svc.
func WithRecordService(svc services.RecordService) Option {
	return func(s *Server) {
		s.recordHandler = handlers.NewRecordHandler(svc, s.log)
	}
}

// WithPostsService mounts the posts route backed by svc.
func WithPostsService(svc services.PostsService) Option {
	return func(s *Server) {
		s.postsHandler = handlers.NewPostsHandler(svc)
	}
}

// WithReadinessCheck registers a dependency check reported by /ready.
func WithReadinessCheck(name string, check handlers.CheckFunc) Option {
	return func(s *Server) {
		s.healthHandler.AddCheck(name, check)
	}
}

// WithRequestIDGenerator sets the generator used for X-Request-ID values.
func WithRequestIDGenerator(gen idgen.Generator) Option {
	return func(s *Server) {
		s.requestIDs = gen
	}
}

// WithRateLimiter limits API requests per client IP.
func WithRateLimiter(l ratelimit.Limiter) Option {
	return func(s *Server) {
		s.rateLimiter = l
	}
}

// Server represents the HTTP server.
type Server struct {
	cfg           *config.Config
	log           *logger.Logger
	httpServer    *http.Server
	healthHandler *handlers.HealthHandler
	docsHandler   *handlers.DocsHandler
	recordHandler *handlers.RecordHandler
	postsHandler  *handlers.PostsHandler
	requestIDs    idgen.Generator
	rateLimiter   ratelimit.Limiter
	listener      net.Listener
	running       bool
	mu            sync.RWMutex
}

// New creates a new Server instance.
func New(cfg *config.Config, log *logger.Logger, opts ...Option) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{
		cfg:           cfg,
		log:           log,
		healthHandler: handlers.NewHealthHandler(),
		docsHandler:   handlers.NewDocsHandler(),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      s.buildMiddlewareChain(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

// buildMiddlewareChain creates the middleware chain for the server.
func (s *Server) buildMiddlewareChain(handler http.Handler) http.Handler {
	chain := middleware.New(
		middleware.RequestID(s.requestIDs),
		middleware.ClientIP(s.cfg.Server.TrustProxy, nil),
	)
	if s.cfg.App.MetricsEnabled {
		chain = chain.Append(middleware.Metrics())
	}
	chain = chain.Append(
		middleware.Logging(s.log),
		middleware.Recover(s.log),
	)
	if s.rateLimiter != nil {
		chain = chain.Append(middleware.RateLimit(s.rateLimiter, s.log))
	}

	return chain.Then(handler)
}

// registerRoutes sets up the HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.healthHandler.Health)
	mux.HandleFunc("GET /ready", s.healthHandler.Ready)

	mux.HandleFunc("GET /docs", s.docsHandler.UI)
	mux.HandleFunc("GET /docs/openapi.yaml", s.docsHandler.OpenAPISpec)

	if s.cfg.App.MetricsEnabled {
		mux.Handle("GET /metrics", metrics.Handler())
	}

	if s.recordHandler != nil {
		mux.HandleFunc("POST /api/v1/records", s.recordHandler.Create)
		mux.HandleFunc("GET /api/v1/records", s.recordHandler.List)
		mux.HandleFunc("GET /api/v1/records/{id}", s.recordHandler.Get)
		mux.HandleFunc("DELETE /api/v1/records/{id}", s.recordHandler.Delete)
	} else {
		mux.HandleFunc("/api/v1/records", notConfigured("record service"))
		mux.HandleFunc("/api/v1/records/", notConfigured("record service"))
	}

	if s.postsHandler != nil {
		mux.HandleFunc("GET /api/v1/posts", s.postsHandler.List)
	} else {
		mux.HandleFunc("/api/v1/posts", notConfigured("posts service"))
	}
}

func notConfigured(what string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, what+" not configured", http.StatusServiceUnavailable)
	}
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.cfg.Server.Address())
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	return s.Serve(listener)
}

// Serve serves on an existing listener until Shutdown.
func (s *Server) Serve(listener net.Listener) error {
	s.mu.Lock()
	s.listener = listener
	s.running = true
	s.mu.Unlock()

	s.log.Info("server starting", "address", listener.Addr().String())

	err := s.httpServer.Serve(listener)

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("server shutting down")

	s.healthHandler.SetReady(false)

	err := s.httpServer.Shutdown(ctx)

	if s.rateLimiter != nil {
		if closeErr := s.rateLimiter.Close(); closeErr != nil {
			s.log.Error("failed to close rate limiter", "error", closeErr)
		}
	}

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	if err != nil {
		s.log.Error("shutdown error", "error", err)
		return err
	}

	s.log.Info("server stopped")
	return nil
}

// IsRunning returns whether the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's address.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

// HealthHandler returns the health handler.
func (s *Server) HealthHandler() *handlers.HealthHandler {
	return s.healthHandler
}
