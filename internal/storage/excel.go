package storage

import (
	"strings"

	"github.com/hyperjump/kluster/internal/models"
	"github.com/xuri/excelize/v2"
)

const resultsSheet = "Results"

// ExcelStore writes results to a "Results" sheet of an .xlsx workbook.
type ExcelStore struct {
	path string
}

// NewExcelStore returns an ExcelStore for path.
func NewExcelStore(path string) *ExcelStore {
	return &ExcelStore{path: path}
}

// Path returns the workbook path.
func (s *ExcelStore) Path() string {
	return s.path
}

// Save writes a header row and one numeric row per point.
func (s *ExcelStore) Save(points []models.Point, assignments []int) error {
	if err := checkLengths(points, assignments); err != nil {
		return err
	}
	if err := ensureDir(s.path); err != nil {
		return err
	}
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return &models.IOError{Op: "write", Path: s.path, Err: err}
	}
	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(resultsSheet, "A1", &header); err != nil {
		return &models.IOError{Op: "write", Path: s.path, Err: err}
	}
	for i, p := range points {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return &models.IOError{Op: "write", Path: s.path, Err: err}
		}
		row := []interface{}{p.X, p.Y, assignments[i]}
		if err := f.SetSheetRow(resultsSheet, cell, &row); err != nil {
			return &models.IOError{Op: "write", Path: s.path, Err: err}
		}
	}
	if err := f.SaveAs(s.path); err != nil {
		return &models.IOError{Op: "save", Path: s.path, Err: err}
	}
	return nil
}

// Load reads the first sheet back, skipping the header row.
func (s *ExcelStore) Load() ([]models.Point, []int, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, nil, &models.IOError{Op: "open", Path: s.path, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, &models.DataFormatError{Path: s.path, Reason: "workbook has no sheets"}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, &models.IOError{Op: "read", Path: s.path, Err: err}
	}

	var (
		points      []models.Point
		assignments []int
		lines       []int
	)
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		p, c, err := parseRow(row)
		if err != nil {
			return nil, nil, &models.DataFormatError{Path: s.path, Line: i + 1, Text: strings.Join(row, "\t"), Reason: err.Error()}
		}
		points = append(points, p)
		assignments = append(assignments, c)
		lines = append(lines, i+1)
	}
	if len(points) == 0 {
		return nil, nil, &models.DataFormatError{Path: s.path, Reason: "no results found"}
	}
	if err := checkClusterRange(s.path, points, assignments, lines); err != nil {
		return nil, nil, err
	}
	return points, assignments, nil
}
