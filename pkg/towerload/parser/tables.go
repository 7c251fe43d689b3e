// Package parser reads wind-resource and regressor workbooks.
package parser

import (
	"github.com/ukaji3/towerload-go/pkg/towerload/errs"
)

// Table is a cleaned rectangular sheet region.
type Table struct {
	// Sheet is the source sheet name.
	Sheet string
	// Header holds the retained column labels.
	Header []string
	// Rows holds data rows, each len(Header) wide; "" marks a missing cell.
	Rows [][]string
	// RowNums holds the 1-based sheet row of every data row.
	RowNums []int
}

// CleanOptions controls CleanTable.
type CleanOptions struct {
	// IndexColumn marks the first column as a row index. The index column is
	// always retained and ignored when looking for unlabeled headers and
	// empty rows.
	IndexColumn bool
	// MaxRows caps the number of data rows kept; zero keeps all.
	MaxRows int
}

// CleanTable removes formatting artifacts from raw sheet rows:
// columns from the first unlabeled header onward are discarded, rows empty
// over the retained data columns are dropped, the first remaining row
// (units) is dropped, and the row count is capped.
func CleanTable(sheet string, rows [][]string, rowNums []int, opts CleanOptions) Table {
	t := Table{Sheet: sheet}
	if len(rows) == 0 {
		return t
	}

	first := 0
	if opts.IndexColumn {
		first = 1
	}
	width := labeledSpan(rows[0], first)
	t.Header = pad(rows[0], width)

	var kept [][]string
	var keptNums []int
	for i := 1; i < len(rows); i++ {
		row := pad(rows[i], width)
		if isBlank(row[first:]) {
			continue
		}
		kept = append(kept, row)
		keptNums = append(keptNums, rowNums[i])
	}

	// units row
	if len(kept) > 0 {
		kept, keptNums = kept[1:], keptNums[1:]
	}
	if opts.MaxRows > 0 && len(kept) > opts.MaxRows {
		kept, keptNums = kept[:opts.MaxRows], keptNums[:opts.MaxRows]
	}

	t.Rows = kept
	t.RowNums = keptNums
	return t
}

// labeledSpan returns the width of the contiguous labeled header span.
func labeledSpan(header []string, first int) int {
	for colIdx := first; colIdx < len(header); colIdx++ {
		if header[colIdx] == "" {
			return colIdx
		}
	}
	return len(header)
}

// ForwardFill replaces every missing cell of a row with the value in the
// same column of the preceding row. Rows are filled in order, so a filled
// row serves as the source for the next one. The index column, if any, is
// never filled. A missing cell in the first row has no source and is a
// DataFormatError.
func ForwardFill(t *Table, indexColumn bool) error {
	first := 0
	if indexColumn {
		first = 1
	}
	for i, row := range t.Rows {
		for colIdx := first; colIdx < len(row); colIdx++ {
			if row[colIdx] != "" {
				continue
			}
			if i == 0 {
				return &errs.DataFormatError{
					Sheet:   t.Sheet,
					Cell:    cellName(colIdx, t.RowNums[i]),
					Feature: t.Header[colIdx],
					Msg:     "missing value in first data row",
				}
			}
			row[colIdx] = t.Rows[i-1][colIdx]
		}
	}
	return nil
}

// Column returns the index of the header labeled with any of names.
func (t Table) Column(names ...string) int {
	for colIdx, h := range t.Header {
		for _, n := range names {
			if normalizeLabel(h) == normalizeLabel(n) {
				return colIdx
			}
		}
	}
	return -1
}

func pad(row []string, width int) []string {
	out := make([]string, width)
	copy(out, row)
	return out
}
