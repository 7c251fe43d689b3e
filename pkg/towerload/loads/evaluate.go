package loads

import (
	"math"

	"github.com/ukaji3/towerload-go/pkg/towerload/errs"
	"github.com/ukaji3/towerload-go/pkg/towerload/models"
	"gonum.org/v1/gonum/floats"
)

// Evaluate returns Σ coefficient·feature over the terms of reg. Condition
// features are resolved first, then turbulence features; any other variable
// contributes its coefficient as a constant.
func Evaluate(reg models.Regressor, cond models.SiteCondition, feats models.TurbulenceFeatures) float64 {
	var sum float64
	for _, t := range reg.Terms {
		if v, ok := cond.Feature(t.Variable); ok {
			sum += t.Coefficient * v
			continue
		}
		if v, ok := feats.Feature(t.Variable); ok {
			sum += t.Coefficient * v
			continue
		}
		sum += t.Coefficient
	}
	return sum
}

// Ultimate reduces per-case loads to the ultimate load: their maximum.
func Ultimate(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, &errs.ArithmeticError{Series: string(models.Ultimate), Msg: "no load cases"}
	}
	return floats.Max(values), nil
}

// FatigueEquivalent reduces per-case loads to the fatigue-equivalent load
// (Σ pᵢ·Lᵢ⁴)^¼ under the case proportions p.
func FatigueEquivalent(proportions, values []float64) (float64, error) {
	if len(proportions) != len(values) {
		return 0, &errs.DataFormatError{Feature: string(models.Fatigue),
			Msg: "fatigue case count does not match the proportion schedule"}
	}
	var sum float64
	for i, l := range values {
		sum += proportions[i] * l * l * l * l
	}
	return math.Pow(sum, 0.25), nil
}
