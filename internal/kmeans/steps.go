package kmeans

import (
	"math/rand"

	"github.com/hyperjump/kluster/internal/models"
)

// Assign maps every point to the index of its nearest centroid.
// Centroids are scanned in order and the minimum only moves on strict
// improvement, so equidistant centroids resolve to the lowest index.
func Assign(points, centroids []models.Point) []int {
	assignments := make([]int, len(points))
	for i, p := range points {
		best := 0
		minDist := Distance(p, centroids[0])
		for j := 1; j < len(centroids); j++ {
			if d := Distance(p, centroids[j]); d < minDist {
				minDist = d
				best = j
			}
		}
		assignments[i] = best
	}
	return assignments
}

// Update returns k fresh centroids, each the component-wise mean of the points
// assigned to it. A cluster with no members is reseeded with a point drawn
// from rng. Inputs are not modified.
func Update(points []models.Point, assignments []int, k int, rng *rand.Rand) []models.Point {
	sums := make([]models.Point, k)
	counts := make([]int, k)
	for i, c := range assignments {
		sums[c].X += points[i].X
		sums[c].Y += points[i].Y
		counts[c]++
	}

	centroids := make([]models.Point, k)
	for c := 0; c < k; c++ {
		if counts[c] > 0 {
			n := float64(counts[c])
			centroids[c] = models.Point{X: sums[c].X / n, Y: sums[c].Y / n}
			continue
		}
		centroids[c] = points[rng.Intn(len(points))]
	}
	return centroids
}

// Inertia is the within-cluster sum of squared distances to the assigned centroid.
func Inertia(points []models.Point, assignments []int, centroids []models.Point) float64 {
	var total float64
	for i, c := range assignments {
		d := Distance(points[i], centroids[c])
		total += d * d
	}
	return total
}
