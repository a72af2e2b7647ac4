// Package runner orchestrates clustering runs: read points, resolve parameters,
// run the k-means loop, then persist and optionally plot the results.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/kluster/internal/cli"
	"github.com/hyperjump/kluster/internal/config"
	"github.com/hyperjump/kluster/internal/extract"
	"github.com/hyperjump/kluster/internal/kmeans"
	"github.com/hyperjump/kluster/internal/models"
	"github.com/hyperjump/kluster/internal/plot"
	"github.com/hyperjump/kluster/internal/storage"
	"go.uber.org/zap"
)

// Request describes one file-to-file clustering run.
type Request struct {
	InputPath  string
	OutputPath string
	PlotPath   string // empty disables plotting
	PlotTitle  string

	// Params supplies k and optional initial centroids.
	Params cli.ParameterProvider

	Seed          int64   // 0 = seeded from the clock
	MaxIterations int     // 0 = kmeans.DefaultMaxIterations
	Tolerance     float64 // 0 = kmeans.DefaultTolerance
}

// RequestFromConfig builds a Request from configuration with the given provider.
func RequestFromConfig(cfg *config.Config, params cli.ParameterProvider) Request {
	return Request{
		InputPath:     cfg.Input.Path,
		OutputPath:    cfg.Output.Path,
		PlotPath:      cfg.Plot.Path,
		PlotTitle:     cfg.Plot.Title,
		Params:        params,
		Seed:          cfg.Clustering.Seed,
		MaxIterations: cfg.Clustering.MaxIterations,
		Tolerance:     cfg.Clustering.Tolerance,
	}
}

// Runner executes clustering runs.
type Runner struct {
	extractor *extract.Extractor
	logger    *zap.Logger // optional
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets a logger for run progress; the same logger is handed to the
// clusterer for per-iteration debug output.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{extractor: extract.NewExtractor()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads the input file, clusters it and writes the results.
// The returned report is complete even when the plot could not be written;
// in that case the plot error is returned alongside it.
func (r *Runner) Run(ctx context.Context, req Request) (*models.RunReport, error) {
	if req.Params == nil {
		return nil, errors.New("runner: no parameter provider")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	points, err := r.extractor.Extract(req.InputPath)
	if err != nil {
		return nil, err
	}
	r.logDebug("points read", zap.String("path", req.InputPath), zap.Int("count", len(points)))

	k, err := req.Params.NumClusters(len(points))
	if err != nil {
		return nil, err
	}
	centroids, manual, err := req.Params.InitialCentroids(k)
	if err != nil {
		return nil, err
	}
	if !manual {
		centroids = nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report, err := r.cluster(points, k, centroids, req.Seed, req.MaxIterations, req.Tolerance)
	if err != nil {
		return nil, err
	}
	report.InputPath = req.InputPath

	store := storage.NewResultStore(req.OutputPath)
	if err := store.Save(points, report.Assignments); err != nil {
		return nil, err
	}
	report.OutputPath = store.Path()

	var plotErr error
	if req.PlotPath != "" {
		if plotErr = plot.WriteFile(req.PlotPath, points, report.Assignments, report.Centroids, req.PlotTitle); plotErr == nil {
			report.PlotPath = req.PlotPath
		} else {
			plotErr = fmt.Errorf("failed to write plot: %w", plotErr)
		}
	}
	report.Duration = time.Since(start)
	r.logOutcome(report)
	return report, plotErr
}

// Cluster runs an in-memory request, as submitted over the API. Nothing is written.
func (r *Runner) Cluster(ctx context.Context, req models.ClusterRequest) (*models.RunReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	report, err := r.cluster(req.Points, req.K, req.Centroids, req.Seed, req.MaxIterations, 0)
	if err != nil {
		return nil, err
	}
	report.Duration = time.Since(start)
	r.logOutcome(report)
	return report, nil
}

// cluster runs the loop from the given centroids, or from k randomly chosen
// points when centroids is empty.
func (r *Runner) cluster(points []models.Point, k int, centroids []models.Point, seed int64, maxIter int, tol float64) (*models.RunReport, error) {
	runID := uuid.New().String()
	opts := []kmeans.Option{kmeans.WithSeed(seed)}
	if maxIter != 0 {
		opts = append(opts, kmeans.WithMaxIterations(maxIter))
	}
	if tol != 0 {
		opts = append(opts, kmeans.WithTolerance(tol))
	}
	if r.logger != nil {
		opts = append(opts, kmeans.WithLogger(r.logger.With(zap.String("run_id", runID))))
	}
	c := kmeans.New(opts...)

	var initializer kmeans.Initializer = kmeans.NewRandomInitializer(c.Rand())
	if len(centroids) > 0 {
		initializer = &kmeans.FixedInitializer{Points: centroids}
	}
	initial, err := initializer.Centroids(points, k)
	if err != nil {
		return nil, err
	}
	r.logInfo("run started", zap.String("run_id", runID), zap.Int("points", len(points)), zap.Int("k", k))

	res, err := c.Run(points, initial)
	if err != nil {
		return nil, err
	}
	return &models.RunReport{
		RunID:       runID,
		NumPoints:   len(points),
		K:           k,
		Initial:     initial,
		Centroids:   res.Centroids,
		Assignments: res.Assignments,
		Sizes:       res.Sizes(),
		Iterations:  res.Iterations,
		State:       res.State.String(),
		Inertia:     kmeans.Inertia(points, res.Assignments, res.Centroids),
	}, nil
}

func (r *Runner) logOutcome(report *models.RunReport) {
	fields := []zap.Field{
		zap.String("run_id", report.RunID),
		zap.Int("iterations", report.Iterations),
		zap.Float64("inertia", report.Inertia),
		zap.Duration("duration", report.Duration),
	}
	if report.State == kmeans.Converged.String() {
		r.logInfo(fmt.Sprintf("Converged after %d iterations", report.Iterations), fields...)
		return
	}
	r.logInfo("Reached maximum iterations", fields...)
}

func (r *Runner) logInfo(msg string, fields ...zap.Field) {
	if r.logger != nil {
		r.logger.Info(msg, fields...)
	}
}

func (r *Runner) logDebug(msg string, fields ...zap.Field) {
	if r.logger != nil {
		r.logger.Debug(msg, fields...)
	}
}
