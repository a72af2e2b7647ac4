package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/hyperjump/kluster/internal/models"
	"github.com/xuri/excelize/v2"
)

// extractExcel reads points from the first sheet, columns A and B.
// A first row that holds no numbers at all is taken as a header and skipped.
func extractExcel(content []byte) ([]models.Point, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", sheets[0], err)
	}

	var points []models.Point
	for i, row := range rows {
		cells := trimRow(row)
		if len(cells) == 0 {
			continue
		}
		p, err := parsePair(cells)
		if err != nil {
			if i == 0 && isHeader(cells) {
				continue
			}
			return nil, &models.DataFormatError{Line: i + 1, Text: strings.Join(row, "\t"), Reason: err.Error()}
		}
		points = append(points, p)
	}
	return points, nil
}

// trimRow drops trailing empty cells and trims the rest.
func trimRow(row []string) []string {
	end := len(row)
	for end > 0 && strings.TrimSpace(row[end-1]) == "" {
		end--
	}
	cells := make([]string, end)
	for i := 0; i < end; i++ {
		cells[i] = strings.TrimSpace(row[i])
	}
	return cells
}

func isHeader(cells []string) bool {
	for _, c := range cells {
		if _, err := parsePair([]string{c, "0"}); err == nil {
			return false
		}
	}
	return true
}
