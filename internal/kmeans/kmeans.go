package kmeans

import (
	"math/rand"
	"time"

	"github.com/hyperjump/kluster/internal/models"
	"go.uber.org/zap"
)

const (
	// DefaultMaxIterations caps a run that never settles.
	DefaultMaxIterations = 100
	// DefaultTolerance is the per-centroid movement below which a run has converged.
	DefaultTolerance = 1e-4
)

// State is where a run ended up.
type State int

const (
	Running State = iota
	Converged
	MaxIterationsReached
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Converged:
		return "converged"
	case MaxIterationsReached:
		return "max_iterations_reached"
	default:
		return "unknown"
	}
}

// Result is the outcome of one run. Assignments[i] is the cluster of points[i].
type Result struct {
	Assignments []int
	Centroids   []models.Point
	Iterations  int
	State       State
}

// Sizes returns the number of points assigned to each cluster.
func (r *Result) Sizes() []int {
	sizes := make([]int, len(r.Centroids))
	for _, c := range r.Assignments {
		sizes[c]++
	}
	return sizes
}

// Clusterer runs Lloyd's algorithm. It owns its random source and is not safe
// for concurrent use; give each goroutine its own Clusterer.
type Clusterer struct {
	rng           *rand.Rand
	maxIterations int
	tolerance     float64
	logger        *zap.Logger // optional; when set, logs per-iteration progress
}

// Option configures a Clusterer.
type Option func(*Clusterer)

// WithRand sets the random source used for empty-cluster reseeding.
func WithRand(rng *rand.Rand) Option {
	return func(c *Clusterer) { c.rng = rng }
}

// WithSeed seeds a private random source. Seed 0 keeps the time-based default.
func WithSeed(seed int64) Option {
	return func(c *Clusterer) {
		if seed != 0 {
			c.rng = rand.New(rand.NewSource(seed))
		}
	}
}

// WithMaxIterations sets the iteration cap.
func WithMaxIterations(n int) Option {
	return func(c *Clusterer) { c.maxIterations = n }
}

// WithTolerance sets the convergence threshold on centroid movement.
func WithTolerance(tol float64) Option {
	return func(c *Clusterer) { c.tolerance = tol }
}

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(c *Clusterer) { c.logger = l }
}

// New creates a Clusterer. Without WithRand or WithSeed the random source is
// seeded from the clock.
func New(opts ...Option) *Clusterer {
	c := &Clusterer{
		maxIterations: DefaultMaxIterations,
		tolerance:     DefaultTolerance,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return c
}

// Rand returns the Clusterer's random source so a RandomInitializer can share it.
func (c *Clusterer) Rand() *rand.Rand {
	return c.rng
}

// Initialize draws k centroids with initializer and runs the loop from them.
func (c *Clusterer) Initialize(points []models.Point, k int, initializer Initializer) (*Result, error) {
	initial, err := initializer.Centroids(points, k)
	if err != nil {
		return nil, err
	}
	return c.Run(points, initial)
}

// Run iterates assignment and update from the initial centroids.
//
// Each iteration compares the candidate centroids with the ones that produced
// the current assignment. When every centroid moved less than the tolerance the
// run stops as Converged and returns that assignment together with the
// centroids it was computed against, not the candidates. When the cap is hit
// the last assignment and the last adopted centroids are returned as
// MaxIterationsReached; that is an outcome, not an error.
func (c *Clusterer) Run(points, initial []models.Point) (*Result, error) {
	if err := checkK(len(points), len(initial)); err != nil {
		return nil, err
	}
	if c.maxIterations < 1 {
		return nil, models.InvalidParameterf("max iterations must be at least 1, got %d", c.maxIterations)
	}

	k := len(initial)
	centroids := models.ClonePoints(initial)
	var assignments []int
	for iter := 1; iter <= c.maxIterations; iter++ {
		assignments = Assign(points, centroids)
		candidate := Update(points, assignments, k, c.rng)

		shift := maxShift(centroids, candidate)
		if c.logger != nil {
			c.logger.Debug("kmeans iteration", zap.Int("iteration", iter), zap.Float64("max_shift", shift))
		}
		if shift < c.tolerance {
			return &Result{Assignments: assignments, Centroids: centroids, Iterations: iter, State: Converged}, nil
		}
		centroids = candidate
	}
	return &Result{
		Assignments: assignments,
		Centroids:   centroids,
		Iterations:  c.maxIterations,
		State:       MaxIterationsReached,
	}, nil
}

// maxShift is the largest distance any centroid moved between a and b.
func maxShift(a, b []models.Point) float64 {
	var shift float64
	for i := range a {
		if d := Distance(a[i], b[i]); d > shift {
			shift = d
		}
	}
	return shift
}
