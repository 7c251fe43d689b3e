package loads

import (
	"fmt"

	"github.com/ukaji3/towerload-go/pkg/towerload/errs"
	"github.com/ukaji3/towerload-go/pkg/towerload/turbulence"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Fatigue wind-speed range in m/s, fixed regardless of the turbine class.
const (
	FatigueCutIn  = 3.0
	FatigueCutOut = 20.0
)

// SubCases is the number of fatigue sub-cases (yaw and seed variants) per
// wind-speed bin.
const SubCases = 6

// Event proportions of the start-up, shut-down and fault cases.
var eventProportions = func() []float64 {
	var p []float64
	for i := 0; i < 24; i++ {
		p = append(p, 9.50644441867142e-07)
	}
	for i := 0; i < 24; i++ {
		p = append(p, 1.90128888373428e-06)
	}
	return append(p, 0.001901289, 9.50644e-05, 9.50644e-05)
}()

// Schedule is the proportion of the design life spent in each fatigue case,
// positionally aligned with the fatigue cases ordered by case number.
type Schedule struct {
	Values []float64
	// Event marks the fixed event proportions; the rest derive from the
	// wind-speed distribution.
	Event []bool
}

// Len returns the number of cases in the schedule.
func (s Schedule) Len() int { return len(s.Values) }

// OperatingMass returns the sum of the distribution-derived proportions.
func (s Schedule) OperatingMass() float64 {
	var sum float64
	for i, v := range s.Values {
		if !s.Event[i] {
			sum += v
		}
	}
	return sum
}

func (s *Schedule) add(v float64, event bool) {
	s.Values = append(s.Values, v)
	s.Event = append(s.Event, event)
}

// ScheduleLen is the number of fatigue cases the schedule covers.
var ScheduleLen = SubCases*(len(operatingBins())+2) + len(eventProportions)

type bin struct{ lo, hi float64 }

func operatingBins() []bin {
	var bins []bin
	for d := FatigueCutIn; d <= 17; d += 2 {
		bins = append(bins, bin{d - 1, d + 1})
	}
	return append(bins, bin{18, 19.5}, bin{19.5, FatigueCutOut + 1})
}

// CaseProportions returns the fatigue case schedule of a site whose wind
// speeds follow a Weibull distribution of shape k and scale a.
func CaseProportions(k, a, v50 float64) (Schedule, error) {
	if !(k > 0) || !(a > 0) {
		return Schedule{}, &errs.DataFormatError{Feature: "K/A",
			Msg: fmt.Sprintf("Weibull parameters must be positive, got K=%g A=%g", k, a)}
	}
	w := distuv.Weibull{K: k, Lambda: a}
	end := turbulence.WindEnd(v50, FatigueCutOut)
	total := w.CDF(end)
	if !(total > 0) {
		return Schedule{}, &errs.ArithmeticError{Series: "fatigue proportions",
			Msg: fmt.Sprintf("no probability mass below %g m/s", end)}
	}
	mass := func(b bin) float64 {
		return (w.CDF(b.hi) - w.CDF(b.lo)) / SubCases / total
	}

	var s Schedule
	for _, b := range operatingBins() {
		p := mass(b)
		for i := 0; i < SubCases; i++ {
			s.add(p, false)
		}
	}
	for _, p := range eventProportions {
		s.add(p, true)
	}
	for _, b := range []bin{{0, 2}, {FatigueCutOut + 1, end}} {
		p := mass(b)
		for i := 0; i < SubCases; i++ {
			s.add(p, false)
		}
	}
	if floats.Min(s.Values) < 0 {
		return s, &errs.ArithmeticError{Series: "fatigue proportions", Msg: "negative proportion"}
	}
	return s, nil
}
