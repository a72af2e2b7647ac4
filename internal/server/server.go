// Package server provides the HTTP API for kluster.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/kluster/internal/config"
	"github.com/hyperjump/kluster/internal/runner"
	"go.uber.org/zap"
)

// maxBodyBytes caps request bodies on the cluster endpoint.
const maxBodyBytes = 10 << 20

// Server is the HTTP server for the clustering API.
type Server struct {
	runner *runner.Runner
	config *config.Config
	logger *zap.Logger
	server *http.Server
}

// NewServer creates a server. cfg supplies the listen address and the paths
// used by the results, plot and run endpoints.
func NewServer(r *runner.Runner, cfg *config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		runner: r,
		config: cfg,
		logger: logger,
	}
}

// Router returns the API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/cluster", s.handleCluster)
		r.Post("/runs", s.handleRun)
		r.Get("/results", s.handleResults)
		r.Get("/plot", s.handlePlot)
	})
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
