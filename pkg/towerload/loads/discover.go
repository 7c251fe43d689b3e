// Package loads evaluates load regressors for every turbine site and reduces
// the per-case loads to ultimate and fatigue-equivalent tower loads.
package loads

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ukaji3/towerload-go/pkg/towerload/errs"
	"github.com/ukaji3/towerload-go/pkg/towerload/models"
	"github.com/ukaji3/towerload-go/pkg/towerload/parser"
	"github.com/ukaji3/towerload-go/pkg/towerload/turbulence"
)

// Load columns of the regressor workbooks.
const (
	UltimateColumn = "UL_TB_Mxy"
	FatigueColumn  = "RF_TB_My_m4"
)

var (
	ultimatePattern = regexp.MustCompile(`^Regress_UL_(.+)\.xlsx?$`)
	fatiguePattern  = regexp.MustCompile(`^Regress_RF_(Case(\d+))\.xlsx?$`)
)

// LoadColumn returns the regressor column holding the coefficients of kind.
func LoadColumn(kind models.LoadKind) string {
	if kind == models.Fatigue {
		return FatigueColumn
	}
	return UltimateColumn
}

// CaseName returns the load case named by a regressor file name, and whether
// the name matches the pattern of kind.
func CaseName(file string, kind models.LoadKind) (string, bool) {
	m := pattern(kind).FindStringSubmatch(filepath.Base(file))
	if m == nil {
		return "", false
	}
	return m[1], true
}

func pattern(kind models.LoadKind) *regexp.Regexp {
	if kind == models.Fatigue {
		return fatiguePattern
	}
	return ultimatePattern
}

// Discover lists the regressor files of kind in dir. Files with other names
// are skipped.
func Discover(dir string, kind models.LoadKind) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &errs.DataFormatError{File: dir, Msg: "cannot read regressor directory", Err: err}
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := CaseName(e.Name(), kind); ok {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		return nil, errs.Format(dir, "no %s regressor files", kind)
	}
	return files, nil
}

// LoadRegressors discovers and reads every regressor of kind in dir.
func LoadRegressors(dir string, kind models.LoadKind) (models.RegressorTable, error) {
	files, err := Discover(dir, kind)
	if err != nil {
		return models.RegressorTable{Kind: kind, LoadColumn: LoadColumn(kind)}, err
	}
	return LoadFiles(kind, files...)
}

// LoadFiles reads the named regressor files of kind. Every name must match
// the file-name pattern of kind.
//
// Ultimate cases are ordered by name, fatigue cases by case number.
func LoadFiles(kind models.LoadKind, files ...string) (models.RegressorTable, error) {
	table := models.RegressorTable{Kind: kind, LoadColumn: LoadColumn(kind)}
	seen := make(map[string]string, len(files))
	for _, path := range files {
		name, ok := CaseName(path, kind)
		if !ok {
			return table, &errs.DataFormatError{File: path,
				Msg: fmt.Sprintf("file name does not match %s", pattern(kind))}
		}
		if prev, dup := seen[caseKey(name, kind)]; dup {
			return table, &errs.DataFormatError{File: path, Msg: "duplicate load case " + name + " (also in " + prev + ")"}
		}
		seen[caseKey(name, kind)] = filepath.Base(path)

		reg, err := parser.ReadRegressor(path, table.LoadColumn)
		if err != nil {
			return table, err
		}
		reg.Case = name
		table.Cases = append(table.Cases, reg)
	}

	if kind == models.Fatigue {
		sort.SliceStable(table.Cases, func(i, j int) bool {
			return caseNumber(table.Cases[i].Case) < caseNumber(table.Cases[j].Case)
		})
	} else {
		sort.SliceStable(table.Cases, func(i, j int) bool {
			return table.Cases[i].Case < table.Cases[j].Case
		})
	}

	if err := Validate(table); err != nil {
		return table, err
	}
	return table, nil
}

// Validate checks that every term of every case references a resolvable feature.
func Validate(table models.RegressorTable) error {
	for _, reg := range table.Cases {
		for _, term := range reg.Terms {
			if !Resolvable(term.Variable) {
				return &errs.DataFormatError{File: reg.File, Feature: term.Variable,
					Msg: "unresolvable feature in case " + reg.Case}
			}
		}
	}
	return nil
}

// Resolvable reports whether a regressor variable names the constant term, a
// condition feature or a turbulence feature.
func Resolvable(variable string) bool {
	if variable == models.FeatureConst {
		return true
	}
	for _, f := range models.ConditionFeatures {
		if f == variable {
			return true
		}
	}
	return turbulence.IsFeature(variable)
}

// caseKey identifies a case for duplicate detection; Case07 and Case7 are the
// same fatigue case.
func caseKey(name string, kind models.LoadKind) string {
	if kind == models.Fatigue {
		return strconv.Itoa(caseNumber(name))
	}
	return name
}

func caseNumber(name string) int {
	n, _ := strconv.Atoi(strings.TrimPrefix(name, "Case"))
	return n
}
