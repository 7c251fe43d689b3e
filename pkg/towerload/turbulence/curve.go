// Package turbulence derives the turbulence-intensity feature vector of each
// turbine site from the tabulated turbulence curves.
package turbulence

import (
	"fmt"
	"math"

	"github.com/ukaji3/towerload-go/pkg/towerload/errs"
	"github.com/ukaji3/towerload-go/pkg/towerload/models"
	"gonum.org/v1/gonum/interp"
)

// Curve is a piecewise-linear turbulence curve of one site.
//
// Speeds below the first tabulated speed are rejected; speeds above the last
// take the value at the last tabulated speed.
type Curve struct {
	Site  string
	Model string
	min   float64
	max   float64
	pl    interp.PiecewiseLinear
}

// NewCurve fits a curve through (speeds[i], values[i]). The speeds must be
// strictly increasing with at least two points.
func NewCurve(site, model string, speeds, values []float64) (*Curve, error) {
	if len(speeds) != len(values) {
		return nil, &errs.DataFormatError{Feature: model,
			Msg: fmt.Sprintf("site %s: %d wind speeds but %d values", site, len(speeds), len(values))}
	}
	if len(speeds) < 2 {
		return nil, &errs.DataFormatError{Feature: model,
			Msg: "site " + site + ": at least two wind speeds are required"}
	}
	for i := 1; i < len(speeds); i++ {
		if !(speeds[i] > speeds[i-1]) {
			return nil, &errs.DataFormatError{Feature: model,
				Msg: "site " + site + ": wind speeds must be strictly increasing"}
		}
	}
	c := &Curve{Site: site, Model: model, min: speeds[0], max: speeds[len(speeds)-1]}
	if err := c.pl.Fit(speeds, values); err != nil {
		return nil, &errs.DataFormatError{Feature: model, Msg: "site " + site, Err: err}
	}
	return c, nil
}

// TableCurve returns the curve of site in t.
func TableCurve(t models.TurbulenceTable, site string) (*Curve, error) {
	values, ok := t.Values[site]
	if !ok {
		return nil, &errs.DataFormatError{Feature: t.Model, Msg: "no turbulence column for site " + site}
	}
	return NewCurve(site, t.Model, t.WindSpeeds, values)
}

// At returns the turbulence intensity at wind speed v.
func (c *Curve) At(v float64) (float64, error) {
	if v < c.min || math.IsNaN(v) {
		return 0, &errs.InterpolationError{Site: c.Site, Curve: c.Model, Speed: v, Min: c.min, Max: c.max}
	}
	return c.pl.Predict(v), nil
}

// Range returns the tabulated wind-speed range.
func (c *Curve) Range() (lo, hi float64) { return c.min, c.max }
