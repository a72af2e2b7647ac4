// Package extract reads 2-D points from text and spreadsheet files.
package extract

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/kluster/internal/models"
)

// Extractor reads point datasets from files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract reads the file at path and returns its points in file order.
// .xlsx files are read from their first sheet; every other extension is parsed
// as text with one "x,y" or "x y" pair per line.
// Read failures are *models.IOError; malformed records are *models.DataFormatError
// carrying path and line number.
func (e *Extractor) Extract(path string) ([]models.Point, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.IOError{Op: "read", Path: path, Err: err}
	}
	points, err := e.ExtractBytes(content, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		var dfe *models.DataFormatError
		if errors.As(err, &dfe) && dfe.Path == "" {
			dfe.Path = path
		}
		return nil, err
	}
	return points, nil
}

// ExtractBytes parses content based on the given extension.
// ext should include the leading dot (e.g. ".xlsx").
func (e *Extractor) ExtractBytes(content []byte, ext string) ([]models.Point, error) {
	var (
		points []models.Point
		err    error
	)
	switch ext {
	case ".xlsx":
		points, err = extractExcel(content)
	case ".txt", ".csv", ".tsv", ".dat", "":
		points, err = extractPlain(content)
	default:
		// Unknown extension: treat as plain text
		points, err = extractPlain(content)
	}
	if err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, &models.DataFormatError{Reason: "input contains no points"}
	}
	return points, nil
}
