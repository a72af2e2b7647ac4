package extract

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hyperjump/kluster/internal/models"
)

func extractPlain(content []byte) ([]models.Point, error) {
	return ParsePoints(bytes.NewReader(content))
}

// ParsePoints reads one point per line from r. A line containing a comma is
// split on commas, otherwise on whitespace. Blank lines are skipped. A line
// that does not yield exactly two finite numbers is a *models.DataFormatError
// with its 1-based line number. An empty result is not an error here.
func ParsePoints(r io.Reader) ([]models.Point, error) {
	var points []models.Point
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		p, err := parsePair(splitFields(text))
		if err != nil {
			return nil, &models.DataFormatError{Line: line, Text: text, Reason: err.Error()}
		}
		points = append(points, p)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &models.DataFormatError{Line: line + 1, Reason: fmt.Sprintf("line longer than %d bytes", bufio.MaxScanTokenSize)}
		}
		return nil, fmt.Errorf("scan input: %w", err)
	}
	return points, nil
}

func splitFields(line string) []string {
	if !strings.Contains(line, ",") {
		return strings.Fields(line)
	}
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// parsePair converts two coordinate fields into a point.
func parsePair(fields []string) (models.Point, error) {
	if len(fields) != 2 {
		return models.Point{}, fmt.Errorf("expected 2 fields, got %d", len(fields))
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return models.Point{}, fmt.Errorf("non-numeric value %q", fields[0])
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return models.Point{}, fmt.Errorf("non-numeric value %q", fields[1])
	}
	p := models.Point{X: x, Y: y}
	if !p.IsFinite() {
		return models.Point{}, fmt.Errorf("non-finite coordinate")
	}
	return p, nil
}
