package report

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ukaji3/towerload-go/pkg/towerload/models"
)

// BarWidth is the width in cells of a full-scale (1.0) terminal bar.
const BarWidth = 40

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle = lipgloss.NewStyle().Width(16)
	valueStyle = lipgloss.NewStyle().Faint(true)
)

func hex(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}

// Text writes r as two terminal bar charts, ultimate then fatigue, followed
// by a legend.
func Text(w io.Writer, r *models.Report) error {
	colors := originColors(r)
	var b strings.Builder
	for _, s := range []struct {
		title  string
		series models.LoadSeries
	}{{"Ultimate Load", r.UL}, {"Fatigue Load", r.FL}} {
		b.WriteString(titleStyle.Render(s.title))
		b.WriteByte('\n')
		for _, e := range sortedDesc(s.series) {
			n := int(math.Round(e.Value * BarWidth))
			if n < 0 {
				n = 0
			}
			bar := lipgloss.NewStyle().Foreground(hex(colors[e.Origin])).Render(strings.Repeat("█", n))
			fmt.Fprintf(&b, "%s %s %s\n", labelStyle.Render(e.Label), bar, valueStyle.Render(fmt.Sprintf("%.3f", e.Value)))
		}
		b.WriteByte('\n')
	}

	var legend []string
	for _, o := range r.Origins() {
		swatch := lipgloss.NewStyle().Foreground(hex(colors[o])).Render("■")
		legend = append(legend, swatch+" "+originName(r, o))
	}
	b.WriteString(strings.Join(legend, "  "))
	b.WriteByte('\n')
	for _, a := range r.Advisories {
		fmt.Fprintf(&b, "! %s\n", a)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
