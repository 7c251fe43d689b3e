// Package models defines data structures for tower load screening.
package models

// SiteCondition holds the wind-condition features of one turbine site.
type SiteCondition struct {
	// InflowAngle is the mean inflow angle in degrees (θmean).
	InflowAngle float64 `json:"inflow_angle"`
	// WindShear is the wind shear exponent (α).
	WindShear float64 `json:"wind_shear"`
	// AirDensity is the air density in kg/m³ (ρ).
	AirDensity float64 `json:"air_density"`
	// V50 is the 50-year extreme wind speed in m/s.
	V50 float64 `json:"V50"`
	// K is the Weibull shape parameter.
	K float64 `json:"K"`
	// A is the Weibull scale parameter in m/s.
	A float64 `json:"A"`
}

// Feature returns the condition feature with the given canonical name.
// Only the features a regressor may reference are resolvable.
func (c SiteCondition) Feature(name string) (float64, bool) {
	switch name {
	case FeatureInflowAngle:
		return c.InflowAngle, true
	case FeatureWindShear:
		return c.WindShear, true
	case FeatureAirDensity:
		return c.AirDensity, true
	case FeatureV50:
		return c.V50, true
	}
	return 0, false
}

// Canonical condition feature names referenced by regressors.
const (
	FeatureConst       = "const"
	FeatureInflowAngle = "inflow_angle"
	FeatureWindShear   = "wind_shear"
	FeatureAirDensity  = "air_density"
	FeatureV50         = "V50"
)

// ConditionFeatures lists the condition features a regressor may reference.
var ConditionFeatures = []string{FeatureInflowAngle, FeatureWindShear, FeatureAirDensity, FeatureV50}

// ConditionTable is the site-condition table indexed by turbine site.
type ConditionTable struct {
	// Sites lists site identifiers in table row order.
	Sites []string `json:"sites"`
	// Rows maps site identifier to its condition.
	Rows map[string]SiteCondition `json:"rows"`
}

// Get returns the condition for site.
func (t ConditionTable) Get(site string) (SiteCondition, bool) {
	c, ok := t.Rows[site]
	return c, ok
}

// TurbulenceTable is a turbulence-intensity table indexed by wind speed with
// one column per turbine site.
type TurbulenceTable struct {
	// Model names the turbulence model ("m1", "m10" or "etm").
	Model string `json:"model"`
	// WindSpeeds is the strictly increasing wind-speed axis in m/s.
	WindSpeeds []float64 `json:"wind_speeds"`
	// Sites lists site identifiers in column order.
	Sites []string `json:"sites"`
	// Values maps site identifier to turbulence values aligned with WindSpeeds.
	Values map[string][]float64 `json:"values"`
}

// MaxWindSpeed returns the upper bound of the wind-speed axis.
func (t TurbulenceTable) MaxWindSpeed() float64 {
	if len(t.WindSpeeds) == 0 {
		return 0
	}
	return t.WindSpeeds[len(t.WindSpeeds)-1]
}

// WindResourceRecord is the normalized wind resource of one workbook.
type WindResourceRecord struct {
	// SourceName is the workbook file name without directory or extension.
	SourceName string `json:"source_name"`
	// Path is the workbook path the record was parsed from.
	Path string `json:"path,omitempty"`
	// Sites lists turbine site identifiers in condition-table row order.
	Sites []string `json:"sites"`
	// Condition is the site-condition table.
	Condition ConditionTable `json:"condition"`
	// M1 is the 1-minute turbulence table.
	M1 TurbulenceTable `json:"turbulence_1min"`
	// M10 is the 10-minute turbulence table.
	M10 TurbulenceTable `json:"turbulence_10min"`
	// ETM is the extreme turbulence table.
	ETM TurbulenceTable `json:"turbulence_extreme"`
}
