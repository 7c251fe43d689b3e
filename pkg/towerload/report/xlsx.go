package report

import (
	"fmt"

	"github.com/ukaji3/towerload-go/pkg/towerload/models"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the XLSX report.
const (
	UltimateSheet = "Ultimate Load"
	FatigueSheet  = "Fatigue Load"
	InfoSheet     = "Run"
)

// XLSX saves r as a workbook with one sheet and one stacked column chart per
// load series. Each origin has its own value column so the chart colors
// bars by origin.
func XLSX(path string, r *models.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", UltimateSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(FatigueSheet); err != nil {
		return err
	}
	origins := r.Origins()
	for _, s := range []struct {
		sheet  string
		series models.LoadSeries
	}{{UltimateSheet, r.UL}, {FatigueSheet, r.FL}} {
		if err := writeSeries(f, s.sheet, s.series, r, origins); err != nil {
			return fmt.Errorf("sheet %s: %w", s.sheet, err)
		}
	}
	if err := writeInfo(f, r); err != nil {
		return fmt.Errorf("sheet %s: %w", InfoSheet, err)
	}
	return f.SaveAs(path)
}

func writeSeries(f *excelize.File, sheet string, s models.LoadSeries, r *models.Report, origins []string) error {
	header := []interface{}{"Site", "Origin"}
	for _, o := range origins {
		header = append(header, originName(r, o))
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	col := make(map[string]int, len(origins))
	for i, o := range origins {
		col[o] = i
	}
	entries := sortedDesc(s)
	for i, e := range entries {
		row := make([]interface{}, 2+len(origins))
		row[0] = e.Key()
		row[1] = originName(r, e.Origin)
		row[2+col[e.Origin]] = e.Value
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	last := len(entries) + 1
	if err := setPrintArea(f, sheet, PrintArea{R1: 1, C1: 1, R2: last, C2: 2 + len(origins)}); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	var series []excelize.ChartSeries
	for i := range origins {
		colName, _ := excelize.ColumnNumberToName(3 + i)
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("'%s'!$%s$1", sheet, colName),
			Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", sheet, last),
			Values:     fmt.Sprintf("'%s'!$%s$2:$%s$%d", sheet, colName, colName, last),
		})
	}
	lo, hi := YRange(s)
	anchor, _ := excelize.CoordinatesToCellName(len(origins)+4, 2)
	return f.AddChart(sheet, anchor, &excelize.Chart{
		Type:   excelize.ColStacked,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: sheet}},
		Legend: excelize.ChartLegend{Position: "bottom"},
		YAxis:  excelize.ChartAxis{Minimum: &lo, Maximum: &hi},
	})
}

func writeInfo(f *excelize.File, r *models.Report) error {
	if _, err := f.NewSheet(InfoSheet); err != nil {
		return err
	}
	rows := [][]interface{}{
		{"Run ID", r.RunID},
		{"Custom", r.Custom},
		{"Generated", r.GeneratedAt.UTC().Format("2006-01-02 15:04:05Z")},
	}
	for _, ref := range r.References {
		rows = append(rows, []interface{}{"Reference", ref})
	}
	for _, a := range r.Advisories {
		rows = append(rows, []interface{}{"Advisory", a})
	}
	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(InfoSheet, cell, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}
