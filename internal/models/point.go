// Package models defines core data structures for points, clustering requests, and errors.
package models

import (
	"fmt"
	"math"
	"strconv"
)

// Point is a 2-D coordinate. Points carry no identity beyond their coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// IsFinite reports whether both coordinates are finite reals.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// String formats the point as "(x, y)" using the shortest exact representation.
func (p Point) String() string {
	return fmt.Sprintf("(%s, %s)", FormatCoord(p.X), FormatCoord(p.Y))
}

// FormatCoord formats a coordinate with the fewest digits that round-trip.
func FormatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ClonePoints returns a copy of points so callers can keep their slice immutable.
func ClonePoints(points []Point) []Point {
	if points == nil {
		return nil
	}
	out := make([]Point, len(points))
	copy(out, points)
	return out
}
