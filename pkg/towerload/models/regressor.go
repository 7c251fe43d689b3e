package models

// LoadKind distinguishes ultimate from fatigue regressors.
type LoadKind string

const (
	// Ultimate regressors estimate extreme design load cases.
	Ultimate LoadKind = "ul"
	// Fatigue regressors estimate fatigue design load cases.
	Fatigue LoadKind = "fl"
)

// Term is one coefficient row of a regressor.
type Term struct {
	// Variable is the canonical feature name, or "const".
	Variable string `json:"variable"`
	// Coefficient multiplies the feature value.
	Coefficient float64 `json:"coefficient"`
}

// Regressor is the linear coefficient table of one design load case.
type Regressor struct {
	// Case is the load case name derived from the file name.
	Case string `json:"case"`
	// File is the regressor file name.
	File string `json:"file"`
	// Terms lists coefficient rows in file order.
	Terms []Term `json:"terms"`
}

// RegressorTable is the set of regressors of one load kind.
type RegressorTable struct {
	// Kind is the load kind.
	Kind LoadKind `json:"kind"`
	// LoadColumn is the regressor column holding the coefficients.
	LoadColumn string `json:"load_column"`
	// Cases lists regressors in evaluation order.
	Cases []Regressor `json:"cases"`
}
