package parser

import (
	"path/filepath"

	"github.com/ukaji3/towerload-go/pkg/towerload/errs"
	"github.com/ukaji3/towerload-go/pkg/towerload/models"
)

// VariableLabels maps the domain-language row labels of regressor workbooks
// to canonical feature names.
var VariableLabels = map[string]string{
	"常量":      models.FeatureConst,
	"最大入流角β":  models.FeatureInflowAngle,
	"平均入流角β":  models.FeatureInflowAngle,
	"风切变α":    models.FeatureWindShear,
	"空气密度ρ":   models.FeatureAirDensity,
	"极限风速V50": models.FeatureV50,
}

// TranslateLabel returns the canonical feature name of a regressor row label.
// Unrecognized labels are already canonical and are returned unchanged.
func TranslateLabel(label string) string {
	if v, ok := VariableLabels[label]; ok {
		return v
	}
	return label
}

// Regressor sheet layout: a title row, the column header row, a units row,
// then one row per variable.
const (
	regressorHeaderRow = 1
	regressorFirstTerm = 3
)

// ReadRegressor reads the coefficients of loadColumn from a regressor workbook.
// The first sheet is used; its first column holds the variable labels.
func ReadRegressor(path, loadColumn string) (models.Regressor, error) {
	reg := models.Regressor{File: filepath.Base(path)}

	f, err := OpenWorkbook(path)
	if err != nil {
		return reg, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return reg, &errs.DataFormatError{File: path, Msg: "workbook has no sheets"}
	}
	rows, rowNums, err := ReadRows(f, sheets[0])
	if err != nil {
		return reg, &errs.DataFormatError{File: path, Sheet: sheets[0], Err: err}
	}
	if len(rows) <= regressorFirstTerm {
		return reg, &errs.DataFormatError{File: path, Sheet: sheets[0], Msg: "no coefficient rows"}
	}

	col := -1
	for colIdx, h := range rows[regressorHeaderRow] {
		if colIdx > 0 && h == loadColumn {
			col = colIdx
			break
		}
	}
	if col < 0 {
		return reg, &errs.DataFormatError{File: path, Sheet: sheets[0], Feature: loadColumn,
			Msg: "load column is missing"}
	}

	for i := regressorFirstTerm; i < len(rows); i++ {
		row := pad(rows[i], col+1)
		if isBlank(row) {
			continue
		}
		label := row[0]
		if label == "" {
			return reg, &errs.DataFormatError{File: path, Sheet: sheets[0], Cell: cellName(0, rowNums[i]),
				Msg: "missing variable label"}
		}
		if row[col] == "" {
			continue
		}
		coef, err := parseNumber(row[col])
		if err != nil {
			return reg, &errs.DataFormatError{File: path, Sheet: sheets[0], Cell: cellName(col, rowNums[i]),
				Feature: label, Msg: "coefficient is not a number: " + row[col]}
		}
		reg.Terms = append(reg.Terms, models.Term{Variable: TranslateLabel(label), Coefficient: coef})
	}
	if len(reg.Terms) == 0 {
		return reg, &errs.DataFormatError{File: path, Sheet: sheets[0], Msg: "no coefficient rows"}
	}
	return reg, nil
}
