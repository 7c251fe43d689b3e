// Package rated estimates the rated wind speed of turbine sites.
package rated

import (
	"github.com/ukaji3/towerload-go/pkg/towerload/errs"
	"github.com/ukaji3/towerload-go/pkg/towerload/models"
)

// Coefficients of the rated wind speed regression.
const (
	Const       = 14.54212663
	InflowAngle = 0.031650249
	WindShear   = 0.230199432
	AirDensity  = -3.999156118
)

// WindSpeed returns the rated wind speed in m/s for one site condition.
func WindSpeed(c models.SiteCondition) float64 {
	return Const + InflowAngle*c.InflowAngle + WindShear*c.WindShear + AirDensity*c.AirDensity
}

// Estimator applies the rated wind speed regression to every site of a
// condition table.
type Estimator struct{}

// Name returns the stage name.
func (Estimator) Name() string { return "rated-wind-speed" }

// Run returns the rated wind speed of every site in t.
func (Estimator) Run(t models.ConditionTable) (map[string]float64, error) {
	out := make(map[string]float64, len(t.Sites))
	for _, site := range t.Sites {
		c, ok := t.Get(site)
		if !ok {
			return nil, &errs.DataFormatError{Feature: site, Msg: "site has no condition row"}
		}
		out[site] = WindSpeed(c)
	}
	return out, nil
}
