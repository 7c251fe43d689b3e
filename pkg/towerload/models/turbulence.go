package models

// TurbulenceFeatures is the derived turbulence feature vector of one site.
type TurbulenceFeatures struct {
	// Names lists feature names in evaluation order.
	Names []string `json:"names"`
	// Values maps feature name to turbulence intensity.
	Values map[string]float64 `json:"values"`
}

// NewTurbulenceFeatures returns an empty feature vector.
func NewTurbulenceFeatures() TurbulenceFeatures {
	return TurbulenceFeatures{Values: make(map[string]float64)}
}

// Set records a feature, keeping first-insertion order.
func (f *TurbulenceFeatures) Set(name string, v float64) {
	if _, ok := f.Values[name]; !ok {
		f.Names = append(f.Names, name)
	}
	f.Values[name] = v
}

// Feature returns the named feature.
func (f TurbulenceFeatures) Feature(name string) (float64, bool) {
	v, ok := f.Values[name]
	return v, ok
}

// FeatureSet holds the turbulence features of every site of one record.
type FeatureSet struct {
	// CutIn is the cut-in wind speed in m/s.
	CutIn float64 `json:"cut_in"`
	// CutOut is the cut-out wind speed in m/s.
	CutOut float64 `json:"cut_out"`
	// Sites maps site identifier to its features.
	Sites map[string]TurbulenceFeatures `json:"sites"`
	// Advisories collects non-fatal notices raised while deriving features.
	Advisories []string `json:"advisories,omitempty"`
}
