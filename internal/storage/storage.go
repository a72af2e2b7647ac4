// Package storage persists clustering results as flat files and reads them back.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/kluster/internal/models"
)

// Header names the three result columns in every format.
var Header = []string{"x", "y", "cluster"}

// ResultStore saves and loads the per-point cluster table for one file.
type ResultStore interface {
	// Save writes one row per point: x, y, and the cluster of points[i].
	Save(points []models.Point, assignments []int) error
	// Load reads the rows back in file order.
	Load() ([]models.Point, []int, error)
	Path() string
}

// NewResultStore picks the store for path by extension: .xlsx gets an
// ExcelStore, anything else a tab-separated TextStore.
func NewResultStore(path string) ResultStore {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return NewExcelStore(path)
	default:
		return NewTextStore(path)
	}
}

func checkLengths(points []models.Point, assignments []int) error {
	if len(points) != len(assignments) {
		return models.InvalidParameterf("got %d points but %d assignments", len(points), len(assignments))
	}
	return nil
}

// checkClusterRange rejects cluster indexes that cannot come from a run over
// the loaded rows: k never exceeds the number of points. lines holds the
// source line of each row.
func checkClusterRange(path string, points []models.Point, assignments, lines []int) error {
	for i, c := range assignments {
		if c >= len(points) {
			return &models.DataFormatError{
				Path:   path,
				Line:   lines[i],
				Text:   fmt.Sprintf("%s\t%s\t%d", models.FormatCoord(points[i].X), models.FormatCoord(points[i].Y), c),
				Reason: fmt.Sprintf("cluster index %d out of range for %d rows", c, len(points)),
			}
		}
	}
	return nil
}

// ensureDir creates the parent directory of path if it does not exist.
func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &models.IOError{Op: "mkdir", Path: dir, Err: err}
		}
	}
	return nil
}
