package report

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"path"
	"strconv"
	"strings"
)

// ChartSeries is one series of a chart read back from a workbook.
type ChartSeries struct {
	Name      string `json:"name,omitempty"`
	NameRange string `json:"name_range,omitempty"`
	XRange    string `json:"x_range,omitempty"`
	YRange    string `json:"y_range,omitempty"`
}

// Chart is the chart metadata of one drawing.
type Chart struct {
	Name       string        `json:"name"`
	ChartType  string        `json:"chart_type"`
	Grouping   string        `json:"grouping,omitempty"`
	Title      string        `json:"title,omitempty"`
	YAxisRange []float64     `json:"y_axis_range,omitempty"`
	Series     []ChartSeries `json:"series"`
}

// chartTypes maps plot-area elements to chart type names.
var chartTypes = map[string]string{
	"barChart":      "Bar",
	"bar3DChart":    "3DBar",
	"lineChart":     "Line",
	"areaChart":     "Area",
	"pieChart":      "Pie",
	"doughnutChart": "Doughnut",
	"scatterChart":  "XYScatter",
	"radarChart":    "Radar",
}

// ReadCharts returns the charts of every sheet of the workbook at xlsxPath,
// read directly from its drawing parts.
func ReadCharts(xlsxPath string) (map[string][]Chart, error) {
	r, err := zip.OpenReader(xlsxPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	out := make(map[string][]Chart)
	for sheet, sheetPath := range sheetParts(&r.Reader) {
		drawing := relTarget(&r.Reader, sheetPath, "drawing")
		if drawing == "" {
			continue
		}
		names := drawingCharts(&r.Reader, drawing)
		for _, dc := range names {
			data, err := readPart(&r.Reader, dc.path)
			if err != nil || data == nil {
				continue
			}
			c := parseChart(data)
			c.Name = dc.name
			out[sheet] = append(out[sheet], c)
		}
	}
	return out, nil
}

func readPart(r *zip.Reader, name string) ([]byte, error) {
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, nil
}

// relsPath returns the relationship part of a part: a/b.xml → a/_rels/b.xml.rels.
func relsPath(part string) string {
	return path.Join(path.Dir(part), "_rels", path.Base(part)+".rels")
}

// rels returns the Id → absolute target map of part's relationships whose
// type contains kind.
func rels(r *zip.Reader, part, kind string) map[string]string {
	out := make(map[string]string)
	data, err := readPart(r, relsPath(part))
	if err != nil || data == nil {
		return out
	}
	dec := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Relationship" {
			continue
		}
		var id, target, typ string
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "Id":
				id = a.Value
			case "Target":
				target = a.Value
			case "Type":
				typ = a.Value
			}
		}
		if !strings.Contains(strings.ToLower(typ), kind) {
			continue
		}
		if strings.HasPrefix(target, "/") {
			out[id] = strings.TrimPrefix(target, "/")
		} else {
			out[id] = path.Join(path.Dir(part), target)
		}
	}
	return out
}

func relTarget(r *zip.Reader, part, kind string) string {
	for _, t := range rels(r, part, kind) {
		return t
	}
	return ""
}

// sheetParts maps sheet names to their worksheet parts.
func sheetParts(r *zip.Reader) map[string]string {
	out := make(map[string]string)
	data, err := readPart(r, "xl/workbook.xml")
	if err != nil || data == nil {
		return out
	}
	targets := rels(r, "xl/workbook.xml", "worksheet")
	dec := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "sheet" {
			continue
		}
		var name, id string
		for _, a := range se.Attr {
			switch {
			case a.Name.Local == "name":
				name = a.Value
			case a.Name.Local == "id" && a.Name.Space != "":
				id = a.Value
			}
		}
		if t, ok := targets[id]; ok {
			out[name] = t
		}
	}
	return out
}

type drawingChart struct {
	name string
	path string
}

// drawingCharts lists the charts anchored in a drawing part, in anchor order.
func drawingCharts(r *zip.Reader, drawing string) []drawingChart {
	data, err := readPart(r, drawing)
	if err != nil || data == nil {
		return nil
	}
	targets := rels(r, drawing, "chart")
	var out []drawingChart
	var name string
	dec := xml.NewDecoder(strings.NewReader(string(data)))
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "cNvPr":
			name = attr(se, "name")
		case "chart":
			if t, ok := targets[attr(se, "id")]; ok {
				out = append(out, drawingChart{name: name, path: t})
			}
		}
	}
	return out
}

func attr(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

// parseChart walks a chart part. Titles and series are read from the first
// plot of the plot area.
func parseChart(data []byte) Chart {
	c := Chart{ChartType: "unknown"}
	dec := xml.NewDecoder(strings.NewReader(string(data)))
	var (
		inPlot, inSer, inValAx bool
		field                  string // tx, cat or val within a series
		ser                    ChartSeries
		axisMin, axisMax       *float64
		inTitle                int
	)
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			local := t.Name.Local
			if ct, ok := chartTypes[local]; ok && !inPlot {
				c.ChartType = ct
				inPlot = true
				continue
			}
			switch local {
			case "title":
				inTitle++
			case "grouping":
				if inPlot && c.Grouping == "" {
					c.Grouping = attr(t, "val")
				}
			case "ser":
				inSer, ser = true, ChartSeries{}
			case "tx", "cat", "val":
				if inSer {
					field = local
				}
			case "valAx":
				inValAx = true
			case "min", "max":
				if inValAx {
					if v, err := strconv.ParseFloat(attr(t, "val"), 64); err == nil {
						if local == "min" {
							axisMin = &v
						} else {
							axisMax = &v
						}
					}
				}
			case "t":
				if inTitle > 0 && c.Title == "" && !inValAx {
					var s string
					if err := dec.DecodeElement(&s, &t); err == nil {
						c.Title = strings.TrimSpace(s)
					}
				}
			case "f", "v":
				if !inSer || field == "" {
					continue
				}
				var s string
				if err := dec.DecodeElement(&s, &t); err != nil {
					continue
				}
				s = strings.TrimSpace(s)
				switch {
				case field == "tx" && local == "f":
					ser.NameRange = s
				case field == "tx" && local == "v":
					ser.Name = s
				case field == "cat" && local == "f" && ser.XRange == "":
					ser.XRange = s
				case field == "val" && local == "f" && ser.YRange == "":
					ser.YRange = s
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "title":
				inTitle--
			case "ser":
				if inSer {
					c.Series = append(c.Series, ser)
					inSer = false
				}
			case "tx", "cat", "val":
				field = ""
			case "valAx":
				inValAx = false
			}
			if _, ok := chartTypes[t.Name.Local]; ok {
				inPlot = false
			}
		}
	}
	if axisMin != nil && axisMax != nil {
		c.YAxisRange = []float64{*axisMin, *axisMax}
	}
	return c
}
