package benchmark

import (
	"math/rand"
	"testing"

	"github.com/hyperjump/kluster/internal/kmeans"
	"github.com/hyperjump/kluster/internal/models"
)

func randomPoints(n int, seed int64) []models.Point {
	rng := rand.New(rand.NewSource(seed))
	points := make([]models.Point, n)
	for i := range points {
		points[i] = models.Point{X: rng.Float64() * 100, Y: rng.Float64() * 100}
	}
	return points
}

func BenchmarkAssign(b *testing.B) {
	points := randomPoints(10000, 1)
	centroids := randomPoints(8, 2)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = kmeans.Assign(points, centroids)
	}
}

func BenchmarkUpdate(b *testing.B) {
	points := randomPoints(10000, 1)
	assignments := kmeans.Assign(points, randomPoints(8, 2))
	rng := rand.New(rand.NewSource(3))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = kmeans.Update(points, assignments, 8, rng)
	}
}

func BenchmarkRun(b *testing.B) {
	points := randomPoints(5000, 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c := kmeans.New(kmeans.WithSeed(int64(i + 1)))
		initial, err := kmeans.NewRandomInitializer(c.Rand()).Centroids(points, 8)
		if err != nil {
			b.Fatal(err)
		}
		if _, err := c.Run(points, initial); err != nil {
			b.Fatal(err)
		}
	}
}
