package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadRows returns the raw cell values of a sheet.
// Leading rows with no data are skipped so that the first returned row is
// the header; rowNums holds the 1-based sheet row of every returned row.
func ReadRows(f *excelize.File, sheetName string) (rows [][]string, rowNums []int, err error) {
	all, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, err
	}

	started := false
	for rowIdx, row := range all {
		if !started && isBlank(row) {
			continue
		}
		started = true
		cells := make([]string, len(row))
		for colIdx, cellValue := range row {
			cells[colIdx] = strings.TrimSpace(cellValue)
		}
		rows = append(rows, cells)
		rowNums = append(rowNums, rowIdx+1)
	}
	return rows, rowNums, nil
}

// parseNumber parses a cell value as a finite float64.
// Values written by spreadsheet tools may carry thousands separators or a
// trailing percent sign; both are accepted. NaN and infinities are not.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	scale := 1.0
	if strings.HasSuffix(s, "%") {
		s, scale = strings.TrimSpace(strings.TrimSuffix(s, "%")), 100
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return v / scale, nil
}

// cellName returns the A1 reference of a 0-based column in a 1-based row.
func cellName(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return ""
	}
	return name
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
