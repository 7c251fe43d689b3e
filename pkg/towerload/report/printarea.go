package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const printAreaName = "_xlnm.Print_Area"

// PrintArea is a 1-based inclusive cell range.
type PrintArea struct {
	R1 int `json:"r1"`
	C1 int `json:"c1"`
	R2 int `json:"r2"`
	C2 int `json:"c2"`
}

// Ref returns the absolute A1 reference of a on sheet.
func (a PrintArea) Ref(sheet string) string {
	c1, _ := excelize.ColumnNumberToName(a.C1)
	c2, _ := excelize.ColumnNumberToName(a.C2)
	return fmt.Sprintf("'%s'!$%s$%d:$%s$%d", sheet, c1, a.R1, c2, a.R2)
}

func setPrintArea(f *excelize.File, sheet string, a PrintArea) error {
	return f.SetDefinedName(&excelize.DefinedName{
		Name:     printAreaName,
		RefersTo: a.Ref(sheet),
		Scope:    sheet,
	})
}

// PrintAreas returns the print areas of every sheet of f.
func PrintAreas(f *excelize.File) map[string][]PrintArea {
	out := make(map[string][]PrintArea)
	for _, dn := range f.GetDefinedName() {
		if !strings.EqualFold(dn.Name, printAreaName) {
			continue
		}
		for _, part := range strings.Split(dn.RefersTo, ",") {
			idx := strings.LastIndex(part, "!")
			if idx < 0 {
				continue
			}
			sheet := strings.Trim(strings.TrimPrefix(strings.TrimSpace(part[:idx]), "="), "'")
			if a, ok := parseArea(part[idx+1:]); ok {
				out[sheet] = append(out[sheet], a)
			}
		}
	}
	return out
}

func parseArea(ref string) (PrintArea, bool) {
	parts := strings.Split(strings.ReplaceAll(strings.TrimSpace(ref), "$", ""), ":")
	if len(parts) != 2 {
		return PrintArea{}, false
	}
	c1, r1, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return PrintArea{}, false
	}
	c2, r2, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return PrintArea{}, false
	}
	return PrintArea{R1: r1, C1: c1, R2: r2, C2: c2}, true
}

// Workbook summarizes a written XLSX report.
type Workbook struct {
	Sheets     []string               `json:"sheets"`
	Charts     map[string][]Chart     `json:"charts"`
	PrintAreas map[string][]PrintArea `json:"print_areas"`
}

// Inspect reads back the structure of an XLSX report.
func Inspect(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	charts, err := ReadCharts(path)
	if err != nil {
		return nil, err
	}
	return &Workbook{
		Sheets:     f.GetSheetList(),
		Charts:     charts,
		PrintAreas: PrintAreas(f),
	}, nil
}
