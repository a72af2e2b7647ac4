package models

import (
	"fmt"
	"time"
)

// ClusterRequest is the input for a clustering run submitted over the API.
type ClusterRequest struct {
	Points        []Point `json:"points"`
	K             int     `json:"k"`
	Centroids     []Point `json:"centroids,omitempty"`      // optional caller-chosen initial centroids
	Seed          int64   `json:"seed,omitempty"`           // 0 = nondeterministic
	MaxIterations int     `json:"max_iterations,omitempty"` // 0 = default
}

// Validate checks the request shape. k defaults to the number of supplied
// centroids when only centroids are given.
func (r *ClusterRequest) Validate() error {
	if len(r.Points) == 0 {
		return InvalidParameterf("points cannot be empty")
	}
	for i, p := range r.Points {
		if !p.IsFinite() {
			return &DataFormatError{Line: i + 1, Text: p.String(), Reason: "non-finite coordinate"}
		}
	}
	if r.K == 0 && len(r.Centroids) > 0 {
		r.K = len(r.Centroids)
	}
	if r.K < 1 || r.K > len(r.Points) {
		return InvalidParameterf("k must be between 1 and %d, got %d", len(r.Points), r.K)
	}
	if len(r.Centroids) > 0 && len(r.Centroids) != r.K {
		return InvalidParameterf("expected %d centroids, got %d", r.K, len(r.Centroids))
	}
	if r.MaxIterations < 0 {
		return InvalidParameterf("max_iterations cannot be negative")
	}
	return nil
}

// RunReport describes one finished clustering run. Assignments[i] is the
// cluster of the i-th input point.
type RunReport struct {
	RunID       string        `json:"run_id"`
	InputPath   string        `json:"input_path,omitempty"`
	OutputPath  string        `json:"output_path,omitempty"`
	PlotPath    string        `json:"plot_path,omitempty"`
	NumPoints   int           `json:"num_points"`
	K           int           `json:"k"`
	Initial     []Point       `json:"initial_centroids"`
	Centroids   []Point       `json:"centroids"`
	Assignments []int         `json:"assignments"`
	Sizes       []int         `json:"sizes"`
	Iterations  int           `json:"iterations"`
	State       string        `json:"state"`
	Inertia     float64       `json:"inertia"`
	Duration    time.Duration `json:"duration_ns"`
}

func (r *RunReport) String() string {
	return fmt.Sprintf("run %s: %s after %d iterations", r.RunID, r.State, r.Iterations)
}
