package parser

import (
	"path/filepath"
	"strings"

	"github.com/ukaji3/towerload-go/pkg/towerload/errs"
	"github.com/ukaji3/towerload-go/pkg/towerload/models"
	"github.com/xuri/excelize/v2"
)

// ParseOptions configures ParseWindResource.
type ParseOptions struct {
	// ConditionSheet is the site-condition sheet name.
	ConditionSheet string `yaml:"condition_sheet"`
	// M1Sheet is the 1-minute turbulence sheet name.
	M1Sheet string `yaml:"m1_sheet"`
	// M10Sheet is the 10-minute turbulence sheet name.
	M10Sheet string `yaml:"m10_sheet"`
	// ETMSheet is the extreme turbulence sheet name.
	ETMSheet string `yaml:"etm_sheet"`
	// MaxConditionRows caps the per-turbine rows of the condition table,
	// ignoring trailing aggregate rows.
	MaxConditionRows int `yaml:"max_condition_rows"`
}

// DefaultParseOptions returns the sheet layout of the standard wind-resource workbook.
func DefaultParseOptions() ParseOptions {
	return ParseOptions{
		ConditionSheet:   "Site Condition",
		M1Sheet:          "M=1",
		M10Sheet:         "M=10",
		ETMSheet:         "ETM",
		MaxConditionRows: 4,
	}
}

// WindSpeedLabel is the header of the wind-speed column of turbulence sheets.
const WindSpeedLabel = "Wind Speed"

// conditionLabels maps each condition field to its accepted header labels.
var conditionLabels = []struct {
	feature string
	labels  []string
}{
	{models.FeatureInflowAngle, []string{"θmean", "θ mean", "inflow angle", "inflow_angle"}},
	{models.FeatureWindShear, []string{"α", "wind shear", "wind_shear"}},
	{models.FeatureAirDensity, []string{"ρ", "air density", "air_density"}},
	{models.FeatureV50, []string{"V50", "Ve50"}},
	{"K", []string{"K"}},
	{"A", []string{"A"}},
}

// ParseWindResource reads a wind-resource workbook into a normalized record.
func ParseWindResource(path string, opts ParseOptions) (*models.WindResourceRecord, error) {
	f, err := OpenWorkbook(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rec := &models.WindResourceRecord{
		SourceName: SourceName(path),
		Path:       path,
	}

	condTable, err := readTable(f, path, opts.ConditionSheet, CleanOptions{IndexColumn: true, MaxRows: opts.MaxConditionRows})
	if err != nil {
		return nil, err
	}
	rec.Condition, err = parseCondition(path, condTable)
	if err != nil {
		return nil, err
	}
	rec.Sites = rec.Condition.Sites

	for _, s := range []struct {
		sheet string
		model string
		dst   *models.TurbulenceTable
	}{
		{opts.M1Sheet, "m1", &rec.M1},
		{opts.M10Sheet, "m10", &rec.M10},
		{opts.ETMSheet, "etm", &rec.ETM},
	} {
		t, err := readTable(f, path, s.sheet, CleanOptions{})
		if err != nil {
			return nil, err
		}
		*s.dst, err = parseTurbulence(path, s.model, t)
		if err != nil {
			return nil, err
		}
	}

	if err := Validate(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// SourceName returns the file name of path without its extension.
func SourceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Validate checks that every table covers the same site set and that every
// wind-speed axis is strictly increasing.
func Validate(rec *models.WindResourceRecord) error {
	want := make(map[string]bool, len(rec.Sites))
	for _, s := range rec.Sites {
		want[s] = true
	}
	for _, t := range []models.TurbulenceTable{rec.M1, rec.M10, rec.ETM} {
		seen := make(map[string]bool, len(t.Sites))
		for _, s := range t.Sites {
			if !want[s] {
				return &errs.DataFormatError{File: rec.Path, Feature: t.Model,
					Msg: "site " + s + " is not in the site condition table"}
			}
			seen[s] = true
		}
		if len(seen) != len(want) || len(t.Sites) != len(want) {
			return &errs.DataFormatError{File: rec.Path, Feature: t.Model,
				Msg: "turbulence sites do not match the site condition table"}
		}
		if len(t.WindSpeeds) < 2 {
			return &errs.DataFormatError{File: rec.Path, Feature: t.Model,
				Msg: "at least two wind speeds are required"}
		}
		for i := 1; i < len(t.WindSpeeds); i++ {
			if !(t.WindSpeeds[i] > t.WindSpeeds[i-1]) {
				return &errs.DataFormatError{File: rec.Path, Feature: t.Model,
					Msg: "wind speeds must be strictly increasing"}
			}
		}
	}
	return nil
}

func readTable(f *excelize.File, path, sheet string, opts CleanOptions) (Table, error) {
	name, ok := findSheet(f, sheet)
	if !ok {
		return Table{}, &errs.DataFormatError{File: path, Sheet: sheet, Msg: "required sheet is missing"}
	}
	rows, rowNums, err := ReadRows(f, name)
	if err != nil {
		return Table{}, &errs.DataFormatError{File: path, Sheet: name, Err: err}
	}
	t := CleanTable(name, rows, rowNums, opts)
	if len(t.Rows) == 0 {
		return Table{}, &errs.DataFormatError{File: path, Sheet: name, Msg: "no data rows"}
	}
	if err := ForwardFill(&t, opts.IndexColumn); err != nil {
		return Table{}, withFile(err, path)
	}
	return t, nil
}

// findSheet resolves a sheet by exact name, then case-insensitively.
func findSheet(f *excelize.File, sheet string) (string, bool) {
	if idx, err := f.GetSheetIndex(sheet); err == nil && idx >= 0 {
		return sheet, true
	}
	for _, name := range f.GetSheetList() {
		if normalizeLabel(name) == normalizeLabel(sheet) {
			return name, true
		}
	}
	return "", false
}

func parseCondition(path string, t Table) (models.ConditionTable, error) {
	cols := make(map[string]int, len(conditionLabels))
	for _, cl := range conditionLabels {
		idx := t.Column(cl.labels...)
		if idx < 1 {
			return models.ConditionTable{}, &errs.DataFormatError{File: path, Sheet: t.Sheet,
				Feature: cl.labels[0], Msg: "required column is missing"}
		}
		cols[cl.feature] = idx
	}

	ct := models.ConditionTable{Rows: make(map[string]models.SiteCondition, len(t.Rows))}
	for i, row := range t.Rows {
		site := row[0]
		if site == "" {
			return ct, &errs.DataFormatError{File: path, Sheet: t.Sheet, Cell: cellName(0, t.RowNums[i]),
				Msg: "missing turbine site identifier"}
		}
		if _, dup := ct.Rows[site]; dup {
			return ct, &errs.DataFormatError{File: path, Sheet: t.Sheet, Cell: cellName(0, t.RowNums[i]),
				Msg: "duplicate turbine site " + site}
		}
		values := make(map[string]float64, len(cols))
		for feature, colIdx := range cols {
			v, err := parseNumber(row[colIdx])
			if err != nil {
				return ct, &errs.DataFormatError{File: path, Sheet: t.Sheet, Cell: cellName(colIdx, t.RowNums[i]),
					Feature: t.Header[colIdx], Msg: "not a number: " + row[colIdx]}
			}
			values[feature] = v
		}
		ct.Sites = append(ct.Sites, site)
		ct.Rows[site] = models.SiteCondition{
			InflowAngle: values[models.FeatureInflowAngle],
			WindShear:   values[models.FeatureWindShear],
			AirDensity:  values[models.FeatureAirDensity],
			V50:         values[models.FeatureV50],
			K:           values["K"],
			A:           values["A"],
		}
	}
	return ct, nil
}

func parseTurbulence(path, model string, t Table) (models.TurbulenceTable, error) {
	tt := models.TurbulenceTable{Model: model, Values: make(map[string][]float64)}
	if len(t.Header) < 2 || normalizeLabel(t.Header[0]) != normalizeLabel(WindSpeedLabel) {
		return tt, &errs.DataFormatError{File: path, Sheet: t.Sheet, Feature: WindSpeedLabel,
			Msg: "first column must be the wind speed followed by one column per site"}
	}
	tt.Sites = append(tt.Sites, t.Header[1:]...)

	for i, row := range t.Rows {
		for colIdx, cell := range row {
			v, err := parseNumber(cell)
			if err != nil {
				return tt, &errs.DataFormatError{File: path, Sheet: t.Sheet, Cell: cellName(colIdx, t.RowNums[i]),
					Feature: t.Header[colIdx], Msg: "not a number: " + cell}
			}
			if colIdx == 0 {
				tt.WindSpeeds = append(tt.WindSpeeds, v)
				continue
			}
			site := t.Header[colIdx]
			tt.Values[site] = append(tt.Values[site], v)
		}
	}
	return tt, nil
}

func normalizeLabel(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func withFile(err error, path string) error {
	if dfe, ok := err.(*errs.DataFormatError); ok && dfe.File == "" {
		dfe.File = path
	}
	return err
}

// WindStage is the parsing stage of a run: workbook path in, record out.
type WindStage struct {
	Options ParseOptions
}

// Name returns the stage name.
func (WindStage) Name() string { return "parse" }

// Run parses the workbook at path.
func (s WindStage) Run(path string) (*models.WindResourceRecord, error) {
	return ParseWindResource(path, s.Options)
}
