package kmeans

import (
	"math"

	"github.com/hyperjump/kluster/internal/models"
)

// Distance returns the Euclidean distance between a and b.
func Distance(a, b models.Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
