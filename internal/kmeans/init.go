package kmeans

import (
	"math/rand"

	"github.com/hyperjump/kluster/internal/models"
)

// Initializer produces the k starting centroids for a run.
type Initializer interface {
	Centroids(points []models.Point, k int) ([]models.Point, error)
}

// RandomInitializer samples k distinct data points without replacement.
type RandomInitializer struct {
	Rand *rand.Rand
}

// NewRandomInitializer returns a RandomInitializer drawing from rng.
func NewRandomInitializer(rng *rand.Rand) *RandomInitializer {
	return &RandomInitializer{Rand: rng}
}

// Centroids returns k points picked at distinct indices of points.
func (r *RandomInitializer) Centroids(points []models.Point, k int) ([]models.Point, error) {
	if err := checkK(len(points), k); err != nil {
		return nil, err
	}
	perm := r.Rand.Perm(len(points))
	centroids := make([]models.Point, k)
	for i := 0; i < k; i++ {
		centroids[i] = points[perm[i]]
	}
	return centroids, nil
}

// FixedInitializer returns caller-supplied centroids, e.g. typed in at a prompt
// or listed in the config file. Only the count is checked.
type FixedInitializer struct {
	Points []models.Point
}

// Centroids returns a copy of the supplied points.
func (f *FixedInitializer) Centroids(points []models.Point, k int) ([]models.Point, error) {
	if err := checkK(len(points), k); err != nil {
		return nil, err
	}
	if len(f.Points) != k {
		return nil, models.InvalidParameterf("expected %d initial centroids, got %d", k, len(f.Points))
	}
	return models.ClonePoints(f.Points), nil
}

func checkK(n, k int) error {
	if n == 0 {
		return models.InvalidParameterf("dataset is empty")
	}
	if k < 1 || k > n {
		return models.InvalidParameterf("k must be between 1 and %d, got %d", n, k)
	}
	return nil
}
