package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/hyperjump/kluster/internal/cli"
	"github.com/hyperjump/kluster/internal/models"
	"github.com/hyperjump/kluster/internal/plot"
	"github.com/hyperjump/kluster/internal/runner"
	"github.com/hyperjump/kluster/internal/storage"
	"go.uber.org/zap"
)

func (s *Server) handleCluster(w http.ResponseWriter, r *http.Request) {
	var req models.ClusterRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("cluster request", zap.Int("points", len(req.Points)), zap.Int("k", req.K))
	report, err := s.runner.Cluster(r.Context(), req)
	if err != nil {
		s.respondRunError(w, "cluster", err)
		return
	}
	s.respondJSON(w, http.StatusOK, report)
}

// handleRun re-runs the configured file-to-file job. k comes from the
// configuration; the server never prompts.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if s.config.Clustering.K == 0 {
		s.respondError(w, http.StatusBadRequest, "clustering.k is not configured")
		return
	}
	params := cli.StaticParameters{K: s.config.Clustering.K, Centroids: s.config.Clustering.InitialCentroids()}
	report, err := s.runner.Run(r.Context(), runner.RequestFromConfig(s.config, params))
	if report == nil && err != nil {
		s.respondRunError(w, "run", err)
		return
	}
	if err != nil {
		s.logger.Warn("run finished with plot error", zap.String("run_id", report.RunID), zap.Error(err))
	}
	s.respondJSON(w, http.StatusCreated, report)
}

type resultsResponse struct {
	Path        string         `json:"path"`
	Points      []models.Point `json:"points"`
	Assignments []int          `json:"assignments"`
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	store := storage.NewResultStore(s.config.Output.Path)
	points, assignments, err := store.Load()
	if err != nil {
		s.respondLoadError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, resultsResponse{Path: store.Path(), Points: points, Assignments: assignments})
}

func (s *Server) handlePlot(w http.ResponseWriter, r *http.Request) {
	points, assignments, err := storage.NewResultStore(s.config.Output.Path).Load()
	if err != nil {
		s.respondLoadError(w, err)
		return
	}
	var buf bytes.Buffer
	if err := plot.Render(&buf, points, assignments, plot.ClusterMeans(points, assignments), s.config.Plot.Title); err != nil {
		s.logger.Error("plot render failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondRunError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidParameter), errors.Is(err, models.ErrDataFormat):
		s.respondError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error(op+" failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) respondLoadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, os.ErrNotExist):
		s.respondError(w, http.StatusNotFound, "no results available")
	case errors.Is(err, models.ErrDataFormat):
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		s.logger.Error("load results failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
