package loads

import (
	"math"

	"github.com/ukaji3/towerload-go/pkg/towerload/errs"
	"github.com/ukaji3/towerload-go/pkg/towerload/models"
	"gonum.org/v1/gonum/floats"
)

// Normalize joins series with the reference series, in order, and divides
// every value by the maximum of the joined series. Without references the
// series is normalized against itself. Loads are magnitudes, so a negative
// entry is rejected rather than mapped below zero.
func Normalize(series models.LoadSeries, refs ...models.LoadSeries) (models.LoadSeries, error) {
	out := models.LoadSeries{Name: series.Name}
	out.Entries = append(out.Entries, series.Entries...)
	for _, r := range refs {
		for _, e := range r.Entries {
			if e.Origin == "" {
				e.Origin = r.Name
			}
			out.Entries = append(out.Entries, e)
		}
	}
	if len(out.Entries) == 0 {
		return out, &errs.ArithmeticError{Series: series.Name, Msg: "no loads to normalize"}
	}

	values := out.Values()
	peak := floats.Max(values)
	if math.IsNaN(peak) || floats.HasNaN(values) {
		return out, &errs.ArithmeticError{Series: series.Name, Msg: "series contains NaN"}
	}
	if floats.Min(values) < 0 {
		return out, &errs.ArithmeticError{Series: series.Name, Msg: "series contains a negative load"}
	}
	if peak <= 0 {
		return out, &errs.ArithmeticError{Series: series.Name, Msg: "maximum load is not positive"}
	}
	for i := range out.Entries {
		out.Entries[i].Value /= peak
	}
	return out, nil
}
