// Package e2e provides end-to-end tests; this file builds datasets of well-separated
// blobs in every supported input format.
package e2e

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/kluster/internal/models"
	"github.com/xuri/excelize/v2"
)

// SupportedFileExtensions is the list of dataset extensions used in E2E tests.
var SupportedFileExtensions = []string{".txt", ".csv", ".tsv", ".xlsx"}

// Blobs returns perCluster points scattered uniformly within spread of each
// center, grouped by center in order.
func Blobs(centers []models.Point, perCluster int, spread float64, seed int64) []models.Point {
	rng := rand.New(rand.NewSource(seed))
	points := make([]models.Point, 0, len(centers)*perCluster)
	for _, c := range centers {
		for i := 0; i < perCluster; i++ {
			points = append(points, models.Point{
				X: c.X + (rng.Float64()*2-1)*spread,
				Y: c.Y + (rng.Float64()*2-1)*spread,
			})
		}
	}
	return points
}

// WriteDataset writes points to path in the format implied by its extension:
// .xlsx gets a header row and one point per row; .tsv is tab separated; .txt
// uses "x y"; anything else is "x,y".
func WriteDataset(path string, points []models.Point) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xlsx" {
		return writeXlsx(path, points)
	}
	sep := ","
	switch ext {
	case ".tsv":
		sep = "\t"
	case ".txt":
		sep = " "
	}
	var b strings.Builder
	for _, p := range points {
		fmt.Fprintf(&b, "%s%s%s\n", models.FormatCoord(p.X), sep, models.FormatCoord(p.Y))
	}
	return os.WriteFile(path, []byte(b.String()), 0600)
}

func writeXlsx(path string, points []models.Point) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"x", "y"}); err != nil {
		return err
	}
	for i, p := range points {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{p.X, p.Y}); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
