package report

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/ukaji3/towerload-go/pkg/towerload/models"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/gonum/floats"
)

// Chart image geometry in pixels.
const (
	ChartWidth  = 900
	PanelHeight = 360
	marginLeft  = 56
	marginRight = 16
	marginTop   = 28
	marginBot   = 72
)

// YMax is the upper bound of the normalized-load axis.
const YMax = 1.5

var (
	white = color.RGBA{0xff, 0xff, 0xff, 0xff}
	ink   = color.RGBA{0x22, 0x22, 0x22, 0xff}
	grid  = color.RGBA{0xdd, 0xdd, 0xdd, 0xff}
)

// PNG draws r as two stacked bar-chart panels, ultimate above fatigue.
func PNG(w io.Writer, r *models.Report) error {
	img := image.NewRGBA(image.Rect(0, 0, ChartWidth, 2*PanelHeight))
	draw.Draw(img, img.Bounds(), &image.Uniform{white}, image.Point{}, draw.Src)

	colors := originColors(r)
	drawPanel(img, 0, "Ultimate Load", r.UL, colors)
	drawPanel(img, PanelHeight, "Fatigue Load", r.FL, colors)

	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode chart: %w", err)
	}
	return nil
}

// YRange returns the value axis of a panel: from 0.2 below the smallest load
// (but not below zero) up to YMax.
func YRange(s models.LoadSeries) (lo, hi float64) {
	if s.Len() == 0 {
		return 0, YMax
	}
	return math.Max(floats.Min(s.Values())-0.2, 0), YMax
}

func drawPanel(img *image.RGBA, top int, title string, s models.LoadSeries, colors map[string]color.RGBA) {
	x0, x1 := marginLeft, ChartWidth-marginRight
	y0, y1 := top+marginTop, top+PanelHeight-marginBot
	lo, hi := YRange(s)
	yOf := func(v float64) int {
		v = math.Min(math.Max(v, lo), hi)
		return y1 - int(math.Round((v-lo)/(hi-lo)*float64(y1-y0)))
	}

	label(img, x0, top+18, title)
	for _, tick := range []float64{0, 0.25, 0.5, 0.75, 1, 1.25, 1.5} {
		if tick < lo {
			continue
		}
		y := yOf(tick)
		fill(img, image.Rect(x0, y, x1, y+1), grid)
		label(img, 8, y+4, fmt.Sprintf("%.2f", tick))
	}
	fill(img, image.Rect(x0, y0, x0+1, y1), ink)
	fill(img, image.Rect(x0, y1, x1, y1+1), ink)

	entries := sortedDesc(s)
	if len(entries) == 0 {
		return
	}
	slot := (x1 - x0) / len(entries)
	barW := int(math.Max(float64(slot)*0.7, 1))
	for i, e := range entries {
		bx := x0 + i*slot + (slot-barW)/2
		fill(img, image.Rect(bx, yOf(e.Value), bx+barW, y1), colors[e.Origin])
		label(img, bx, y1+14+(i%3)*13, e.Label)
	}
}

func fill(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	draw.Draw(img, r, &image.Uniform{c}, image.Point{}, draw.Src)
}

func label(img *image.RGBA, x, y int, s string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(ink),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
