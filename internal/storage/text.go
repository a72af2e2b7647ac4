package storage

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hyperjump/kluster/internal/models"
)

// TextStore writes results as tab-separated text with a header line.
type TextStore struct {
	path string
}

// NewTextStore returns a TextStore for path.
func NewTextStore(path string) *TextStore {
	return &TextStore{path: path}
}

// Path returns the file the store reads and writes.
func (s *TextStore) Path() string {
	return s.path
}

// Save writes "x\ty\tcluster" followed by one row per point.
func (s *TextStore) Save(points []models.Point, assignments []int) error {
	if err := checkLengths(points, assignments); err != nil {
		return err
	}
	if err := ensureDir(s.path); err != nil {
		return err
	}
	f, err := os.Create(s.path)
	if err != nil {
		return &models.IOError{Op: "create", Path: s.path, Err: err}
	}
	w := bufio.NewWriter(f)
	fmt.Fprintln(w, strings.Join(Header, "\t"))
	for i, p := range points {
		fmt.Fprintf(w, "%s\t%s\t%d\n", models.FormatCoord(p.X), models.FormatCoord(p.Y), assignments[i])
	}
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return &models.IOError{Op: "write", Path: s.path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &models.IOError{Op: "close", Path: s.path, Err: err}
	}
	return nil
}

// Load reads a file written by Save. The first line is the header; blank
// lines are skipped and any other row must hold x, y and an integer cluster.
func (s *TextStore) Load() ([]models.Point, []int, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, nil, &models.IOError{Op: "open", Path: s.path, Err: err}
	}
	defer f.Close()

	var (
		points      []models.Point
		assignments []int
		lines       []int
	)
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if line == 1 || text == "" {
			continue
		}
		p, c, err := parseRow(strings.Fields(text))
		if err != nil {
			return nil, nil, &models.DataFormatError{Path: s.path, Line: line, Text: text, Reason: err.Error()}
		}
		points = append(points, p)
		assignments = append(assignments, c)
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, nil, &models.DataFormatError{Path: s.path, Line: line + 1, Reason: fmt.Sprintf("line longer than %d bytes", bufio.MaxScanTokenSize)}
		}
		return nil, nil, &models.IOError{Op: "read", Path: s.path, Err: err}
	}
	if len(points) == 0 {
		return nil, nil, &models.DataFormatError{Path: s.path, Reason: "no results found"}
	}
	if err := checkClusterRange(s.path, points, assignments, lines); err != nil {
		return nil, nil, err
	}
	return points, assignments, nil
}

func parseRow(fields []string) (models.Point, int, error) {
	if len(fields) != len(Header) {
		return models.Point{}, 0, fmt.Errorf("expected %d fields, got %d", len(Header), len(fields))
	}
	x, errX := strconv.ParseFloat(fields[0], 64)
	y, errY := strconv.ParseFloat(fields[1], 64)
	if errX != nil || errY != nil {
		return models.Point{}, 0, fmt.Errorf("non-numeric coordinate")
	}
	c, err := strconv.Atoi(fields[2])
	if err != nil || c < 0 {
		return models.Point{}, 0, fmt.Errorf("invalid cluster index %q", fields[2])
	}
	return models.Point{X: x, Y: y}, c, nil
}
