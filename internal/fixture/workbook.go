// Package fixture writes wind-resource and regressor workbooks in the layout
// the parser expects. It backs the example command and the package tests.
package fixture

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Site is one row of the site-condition sheet.
type Site struct {
	ID          string
	InflowAngle float64
	WindShear   float64
	AirDensity  float64
	V50         float64
	K           float64
	A           float64
}

// Wind describes a wind-resource workbook.
type Wind struct {
	Sites      []Site
	WindSpeeds []float64
	// M1, M10 and ETM hold one row per wind speed and one column per site.
	M1, M10, ETM [][]float64
	// Note adds an unlabeled note column and, for four or more sites, a
	// trailing aggregate row: the artifacts real workbooks carry.
	Note bool
}

// Sample returns a plausible wind resource of n sites named prefix-1..n,
// with turbulence tabulated from 3 to cutOut m/s.
func Sample(prefix string, n int, cutOut float64) Wind {
	w := Wind{}
	for i := 0; i < n; i++ {
		f := float64(i)
		w.Sites = append(w.Sites, Site{
			ID:          fmt.Sprintf("%s-%d", prefix, i+1),
			InflowAngle: 4 + f,
			WindShear:   0.12 + 0.02*f,
			AirDensity:  1.225 - 0.02*f,
			V50:         37.5 + 2*f,
			K:           2 + 0.1*f,
			A:           7 + 0.5*f,
		})
	}
	for ws := 3.0; ws <= cutOut; ws++ {
		w.WindSpeeds = append(w.WindSpeeds, ws)
	}
	for _, ws := range w.WindSpeeds {
		var m1, m10, etm []float64
		for i := range w.Sites {
			base := 0.12 + 0.01*float64(i)
			m1 = append(m1, round(base+1.2/ws))
			m10 = append(m10, round(base+1.5/ws))
			etm = append(etm, round(base+2.5/ws+0.002*ws))
		}
		w.M1 = append(w.M1, m1)
		w.M10 = append(w.M10, m10)
		w.ETM = append(w.ETM, etm)
	}
	return w
}

func round(v float64) float64 { return math.Round(v*1e4) / 1e4 }

// WriteWind saves w as a wind-resource workbook at path.
func WriteWind(path string, w Wind) error {
	f := excelize.NewFile()
	defer f.Close()

	const cond = "Site Condition"
	if err := f.SetSheetName("Sheet1", cond); err != nil {
		return err
	}
	header := []interface{}{"", "θmean", "α", "ρ", "V50", "K", "A"}
	units := []interface{}{"", "°", "-", "kg/m³", "m/s", "-", "m/s"}
	if w.Note {
		header = append(header, "", "Note")
		units = append(units, "", "checked")
	}
	if err := f.SetSheetRow(cond, "A1", &header); err != nil {
		return err
	}
	if err := f.SetSheetRow(cond, "A2", &units); err != nil {
		return err
	}
	row := 3
	for _, s := range w.Sites {
		vals := []interface{}{s.ID, s.InflowAngle, s.WindShear, s.AirDensity, s.V50, s.K, s.A}
		if err := f.SetSheetRow(cond, cellName(1, row), &vals); err != nil {
			return err
		}
		row++
	}
	// Aggregate rows follow a full block of four turbines.
	if w.Note && len(w.Sites) >= 4 {
		avg := []interface{}{"Average", 0, 0, 0, 0, 0, 0}
		if err := f.SetSheetRow(cond, cellName(1, row+1), &avg); err != nil {
			return err
		}
	}

	for _, t := range []struct {
		sheet  string
		values [][]float64
	}{{"M=1", w.M1}, {"M=10", w.M10}, {"ETM", w.ETM}} {
		if _, err := f.NewSheet(t.sheet); err != nil {
			return err
		}
		if err := writeTurbulence(f, t.sheet, w, t.values); err != nil {
			return err
		}
	}
	return save(f, path)
}

func writeTurbulence(f *excelize.File, sheet string, w Wind, values [][]float64) error {
	header := []interface{}{"Wind Speed"}
	units := []interface{}{"m/s"}
	for _, s := range w.Sites {
		header = append(header, s.ID)
		units = append(units, "-")
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A2", &units); err != nil {
		return err
	}
	for i, ws := range w.WindSpeeds {
		vals := []interface{}{ws}
		for j := range w.Sites {
			if i < len(values) && j < len(values[i]) {
				vals = append(vals, values[i][j])
			} else {
				vals = append(vals, nil)
			}
		}
		if err := f.SetSheetRow(sheet, cellName(1, i+3), &vals); err != nil {
			return err
		}
	}
	return nil
}

// Term is one labelled coefficient row of a regressor workbook.
type Term struct {
	Label string
	Coef  float64
}

// WriteRegressor saves a regressor workbook whose loadColumn holds the
// coefficients of terms. A decoy column precedes it.
func WriteRegressor(path, loadColumn string, terms []Term) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	rows := [][]interface{}{
		{"Regression coefficients"},
		{"", "Decoy", loadColumn},
		{"", "-", "kNm"},
	}
	for _, t := range terms {
		rows = append(rows, []interface{}{t.Label, 0, t.Coef})
	}
	for i := range rows {
		if err := f.SetSheetRow(sheet, cellName(1, i+1), &rows[i]); err != nil {
			return err
		}
	}
	return save(f, path)
}

func save(f *excelize.File, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

// Regressor-set layout.
const (
	ultimateColumn = "UL_TB_Mxy"
	fatigueColumn  = "RF_TB_My_m4"
	FatigueCases   = 123
)

// UltimateTerms are the ultimate load cases written by WriteRegressorSet.
var UltimateTerms = map[string][]Term{
	"DLC1.3": {{"常量", 21000}, {"平均入流角β", 150}, {"风切变α", 3000}, {"ETM15", 40000}},
	"DLC6.1": {{"常量", 18000}, {"极限风速V50", 320}, {"空气密度ρ", 2500}},
}

// WriteRegressorSet writes the ultimate regressors to ulDir and a full
// fatigue case set to flDir.
func WriteRegressorSet(ulDir, flDir string) error {
	for name, terms := range UltimateTerms {
		if err := WriteRegressor(filepath.Join(ulDir, "Regress_UL_"+name+".xlsx"), ultimateColumn, terms); err != nil {
			return err
		}
	}
	for i := 1; i <= FatigueCases; i++ {
		terms := []Term{{"常量", 4000 + 10*float64(i%12)}, {"Ir_m10", 15000}, {"Iend_m10", 2000}}
		path := filepath.Join(flDir, fmt.Sprintf("Regress_RF_Case%d.xlsx", i))
		if err := WriteRegressor(path, fatigueColumn, terms); err != nil {
			return err
		}
	}
	return nil
}
