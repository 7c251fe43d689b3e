package turbulence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/towerload-go/pkg/towerload/errs"
	"github.com/ukaji3/towerload-go/pkg/towerload/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// linearRecord builds a one-site record whose curves are base+0.01·v over
// wind speeds 3..cutOut.
func linearRecord(cutOut float64) *models.WindResourceRecord {
	var speeds []float64
	for v := 3.0; v <= cutOut; v++ {
		speeds = append(speeds, v)
	}
	table := func(model string, base float64) models.TurbulenceTable {
		vals := make([]float64, len(speeds))
		for i, v := range speeds {
			vals[i] = base + 0.01*v
		}
		return models.TurbulenceTable{Model: model, WindSpeeds: speeds, Sites: []string{"A"},
			Values: map[string][]float64{"A": vals}}
	}
	return &models.WindResourceRecord{
		SourceName: "farm",
		Sites:      []string{"A"},
		Condition: models.ConditionTable{
			Sites: []string{"A"},
			Rows:  map[string]models.SiteCondition{"A": {InflowAngle: 5, WindShear: 0.18, AirDensity: 1.18, V50: 40}},
		},
		M1:  table("m1", 0.1),
		M10: table("m10", 0.2),
		ETM: table("etm", 0.3),
	}
}

func TestInterpolatorRun(t *testing.T) {
	rec := linearRecord(20)
	fs, err := NewInterpolator(nil).Run(Input{Record: rec, Rated: map[string]float64{"A": 10}})
	require.NoError(t, err)

	assert.Equal(t, 3.0, fs.CutIn)
	assert.Equal(t, 20.0, fs.CutOut)
	assert.Empty(t, fs.Advisories)

	f := fs.Sites["A"]
	assert.Equal(t, FeatureNames(), f.Names)

	want := map[string]float64{
		"ETM3":        0.33,
		"ETM20":       0.5,
		"I3_m10":      0.23,
		"I15_m10":     0.35,
		"I20_m10":     0.4,
		RatedM1:       0.2,
		RatedPlus2M1:  0.22,
		RatedMinus2M1: 0.18,
		CutOutM1:      0.3,
		RatedM10:      0.3,
		CutInM10:      0.23,
		CutOutM10:     0.4,
		EndM10:        0.35 * (0.75 + 5.6/28) / (0.75 + 5.6/15),
	}
	for name, v := range want {
		got, ok := f.Feature(name)
		require.True(t, ok, name)
		assert.InDelta(t, v, got, 1e-9, name)
	}
}

func TestInterpolatorShortAxisExtrapolatesFlat(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	rec := linearRecord(18)

	fs, err := NewInterpolator(zap.New(core)).Run(Input{Record: rec, Rated: map[string]float64{"A": 10}})
	require.NoError(t, err)

	f := fs.Sites["A"]
	assert.InDelta(t, 0.48, f.Values["ETM19"], 1e-12)
	assert.InDelta(t, 0.48, f.Values["ETM20"], 1e-12)
	assert.InDelta(t, 0.38, f.Values["I20_m10"], 1e-12)

	require.Len(t, fs.Advisories, 1)
	assert.Contains(t, fs.Advisories[0], "18")
	entries := logs.FilterMessage("Unexpected cut-out wind speed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, 18.0, entries[0].ContextMap()["cut_out"])
	assert.Equal(t, "farm", entries[0].ContextMap()["file"])
}

func TestInterpolatorRatedBelowCutIn(t *testing.T) {
	rec := linearRecord(20)
	_, err := NewInterpolator(nil).Run(Input{Record: rec, Rated: map[string]float64{"A": 4}})
	require.ErrorIs(t, err, errs.ErrInterpolation)

	var ie *errs.InterpolationError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "A", ie.Site)
	assert.Equal(t, "m1", ie.Curve)
	assert.InDelta(t, 2.0, ie.Speed, 1e-12)
}

func TestInterpolatorMissingRated(t *testing.T) {
	_, err := NewInterpolator(nil).Run(Input{Record: linearRecord(20), Rated: map[string]float64{}})
	assert.ErrorIs(t, err, errs.ErrDataFormat)
}

func TestWindEnd(t *testing.T) {
	assert.InDelta(t, 28.0, WindEnd(40, 20), 1e-9)
	assert.InDelta(t, 22.0, WindEnd(30, 20), 1e-9)
}

func TestFeatureNames(t *testing.T) {
	names := FeatureNames()
	assert.Len(t, names, 28)
	assert.Equal(t, "ETM3", names[0])
	assert.Equal(t, "I20_m10", names[19])
	assert.True(t, IsFeature("Ir+2_m1"))
	assert.False(t, IsFeature("ETM4"))
}
