package turbulence

import (
	"fmt"
	"math"
	"strconv"

	"github.com/ukaji3/towerload-go/pkg/towerload/errs"
	"github.com/ukaji3/towerload-go/pkg/towerload/models"
	"go.uber.org/zap"
)

// CutIn is the cut-in wind speed in m/s.
const CutIn = 3.0

// Grid is the wind-speed grid at which the ETM and 10-minute curves are sampled.
var Grid = []float64{3, 5, 7, 9, 11, 13, 15, 17, 19, 20}

// ExpectedCutOuts are the cut-out speeds of the supported turbine classes.
// Other values raise an advisory.
var ExpectedCutOuts = []float64{19, 19.5, 20, 20.5, 23, 23.5, 25}

// Feature names of the scalar turbulence features.
const (
	RatedM1       = "Ir_m1"
	RatedPlus2M1  = "Ir+2_m1"
	RatedMinus2M1 = "Ir-2_m1"
	CutOutM1      = "Iout_m1"
	RatedM10      = "Ir_m10"
	CutInM10      = "Iin_m10"
	CutOutM10     = "Iout_m10"
	EndM10        = "Iend_m10"
)

// ETMName returns the feature name of the ETM curve sampled at v.
func ETMName(v float64) string { return "ETM" + speedName(v) }

// M10Name returns the feature name of the 10-minute curve sampled at v.
func M10Name(v float64) string { return "I" + speedName(v) + "_m10" }

func speedName(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// FeatureNames returns every turbulence feature name in evaluation order.
func FeatureNames() []string {
	names := make([]string, 0, 2*len(Grid)+8)
	for _, v := range Grid {
		names = append(names, ETMName(v))
	}
	for _, v := range Grid {
		names = append(names, M10Name(v))
	}
	return append(names, RatedM1, RatedPlus2M1, RatedMinus2M1, CutOutM1, RatedM10, CutInM10, CutOutM10, EndM10)
}

// IsFeature reports whether name is a turbulence feature name.
func IsFeature(name string) bool {
	for _, n := range FeatureNames() {
		if n == name {
			return true
		}
	}
	return false
}

// WindEnd is the upper integration bound of the wind-speed distribution.
func WindEnd(v50, cutOut float64) float64 {
	return math.Max(0.7*v50, cutOut+2)
}

// Input is the input of the interpolation stage.
type Input struct {
	Record *models.WindResourceRecord
	// Rated maps site to its rated wind speed.
	Rated map[string]float64
}

// Interpolator derives turbulence features for every site of a record.
type Interpolator struct {
	Logger *zap.Logger
}

// NewInterpolator returns an Interpolator logging to logger.
func NewInterpolator(logger *zap.Logger) *Interpolator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interpolator{Logger: logger}
}

// Name returns the stage name.
func (*Interpolator) Name() string { return "turbulence" }

// Run derives the feature set of in.Record.
func (ip *Interpolator) Run(in Input) (models.FeatureSet, error) {
	rec := in.Record
	if rec == nil {
		return models.FeatureSet{}, &errs.DataFormatError{Msg: "no wind resource record"}
	}
	logger := ip.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	fs := models.FeatureSet{
		CutIn:  CutIn,
		CutOut: rec.ETM.MaxWindSpeed(),
		Sites:  make(map[string]models.TurbulenceFeatures, len(rec.Sites)),
	}
	if !expectedCutOut(fs.CutOut) {
		msg := fmt.Sprintf("%s: unexpected cut-out wind speed %g m/s", rec.SourceName, fs.CutOut)
		fs.Advisories = append(fs.Advisories, msg)
		logger.Warn("Unexpected cut-out wind speed",
			zap.String("file", rec.SourceName), zap.Float64("cut_out", fs.CutOut))
	}

	for _, site := range rec.Sites {
		rws, ok := in.Rated[site]
		if !ok {
			return fs, &errs.DataFormatError{File: rec.Path, Feature: site, Msg: "no rated wind speed for site"}
		}
		cond, ok := rec.Condition.Get(site)
		if !ok {
			return fs, &errs.DataFormatError{File: rec.Path, Feature: site, Msg: "site has no condition row"}
		}
		feats, err := siteFeatures(rec, site, rws, cond.V50, fs.CutOut)
		if err != nil {
			return fs, err
		}
		fs.Sites[site] = feats
		logger.Debug("Derived turbulence features",
			zap.String("file", rec.SourceName), zap.String("site", site),
			zap.Float64("rated_wind_speed", rws), zap.Int("features", len(feats.Names)))
	}
	return fs, nil
}

func siteFeatures(rec *models.WindResourceRecord, site string, rws, v50, cutOut float64) (models.TurbulenceFeatures, error) {
	feats := models.NewTurbulenceFeatures()
	m1, err := TableCurve(rec.M1, site)
	if err != nil {
		return feats, err
	}
	m10, err := TableCurve(rec.M10, site)
	if err != nil {
		return feats, err
	}
	etm, err := TableCurve(rec.ETM, site)
	if err != nil {
		return feats, err
	}

	sample := func(c *Curve, name string, v float64) error {
		x, err := c.At(v)
		if err != nil {
			return err
		}
		feats.Set(name, x)
		return nil
	}

	for _, v := range Grid {
		if err := sample(etm, ETMName(v), v); err != nil {
			return feats, err
		}
	}
	for _, v := range Grid {
		if err := sample(m10, M10Name(v), v); err != nil {
			return feats, err
		}
	}

	for _, s := range []struct {
		c    *Curve
		name string
		v    float64
	}{
		{m1, RatedM1, rws},
		{m1, RatedPlus2M1, rws + 2},
		{m1, RatedMinus2M1, rws - 2},
		{m1, CutOutM1, cutOut},
		{m10, RatedM10, rws},
		{m10, CutInM10, CutIn},
		{m10, CutOutM10, cutOut},
	} {
		if err := sample(s.c, s.name, s.v); err != nil {
			return feats, err
		}
	}

	at15, err := m10.At(15)
	if err != nil {
		return feats, err
	}
	end := WindEnd(v50, cutOut)
	feats.Set(EndM10, at15*(0.75+5.6/end)/(0.75+5.6/15))
	return feats, nil
}

func expectedCutOut(v float64) bool {
	for _, c := range ExpectedCutOuts {
		if v == c {
			return true
		}
	}
	return false
}
