package loads

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/towerload-go/pkg/towerload/errs"
	"github.com/ukaji3/towerload-go/pkg/towerload/models"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func testTables(flCases int) (models.RegressorTable, models.RegressorTable) {
	ul := models.RegressorTable{Kind: models.Ultimate, LoadColumn: UltimateColumn, Cases: []models.Regressor{
		{Case: "DLC1.3", Terms: []models.Term{{Variable: "const", Coefficient: 10}, {Variable: "inflow_angle", Coefficient: 2}}},
		{Case: "DLC6.1", Terms: []models.Term{{Variable: "const", Coefficient: 1}, {Variable: "ETM20", Coefficient: 10}}},
	}}
	fl := models.RegressorTable{Kind: models.Fatigue, LoadColumn: FatigueColumn}
	for i := 0; i < flCases; i++ {
		fl.Cases = append(fl.Cases, models.Regressor{Case: "Case", Terms: []models.Term{{Variable: "const", Coefficient: 5}}})
	}
	return ul, fl
}

func testInput() Input {
	cond := models.SiteCondition{InflowAngle: 3, WindShear: 0.2, AirDensity: 1.2, V50: 40, K: 2, A: 7}
	feats := models.NewTurbulenceFeatures()
	feats.Set("ETM20", 0.5)
	return Input{
		Record: &models.WindResourceRecord{
			SourceName: "farm",
			Sites:      []string{"A", "B"},
			Condition:  models.ConditionTable{Sites: []string{"A", "B"}, Rows: map[string]models.SiteCondition{"A": cond, "B": cond}},
		},
		Features: models.FeatureSet{Sites: map[string]models.TurbulenceFeatures{"A": feats, "B": feats}},
	}
}

func TestEngineRun(t *testing.T) {
	ul, fl := testTables(ScheduleLen)
	core, logs := observer.New(zapcore.DebugLevel)
	e, err := NewEngine(ul, fl, zap.New(core))
	require.NoError(t, err)

	res, err := e.Run(testInput())
	require.NoError(t, err)

	v, ok := res.UL.Lookup("A")
	require.True(t, ok)
	assert.InDelta(t, 16.0, v, 1e-12)
	assert.Equal(t, []string{"A", "B"}, []string{res.UL.Entries[0].Label, res.UL.Entries[1].Label})

	sched, err := CaseProportions(2, 7, 40)
	require.NoError(t, err)
	var mass float64
	for _, p := range sched.Values {
		mass += p
	}
	v, ok = res.FL.Lookup("B")
	require.True(t, ok)
	assert.InDelta(t, 5*math.Pow(mass, 0.25), v, 1e-9)

	require.Len(t, res.Ultimate, 2)
	assert.Equal(t, []models.CaseLoad{{Case: "DLC1.3", Value: 16}, {Case: "DLC6.1", Value: 6}}, res.Ultimate[0].Cases)
	assert.Len(t, res.Fatigue[1].Cases, ScheduleLen)
	assert.Equal(t, 2*(2+ScheduleLen), logs.FilterMessage("Evaluated load case").Len())
}

func TestNewEngineRejectsFatigueCount(t *testing.T) {
	ul, fl := testTables(ScheduleLen - 1)
	_, err := NewEngine(ul, fl, nil)
	assert.ErrorIs(t, err, errs.ErrDataFormat)

	_, err = NewEngine(models.RegressorTable{}, fl, nil)
	assert.ErrorIs(t, err, errs.ErrDataFormat)
}

func TestEngineRunFatigueMismatch(t *testing.T) {
	ul, fl := testTables(4)
	e := &Engine{UL: ul, FL: fl}
	_, err := e.Run(testInput())
	require.ErrorIs(t, err, errs.ErrDataFormat)
	assert.Contains(t, err.Error(), "site A")
}

func TestEngineRunMissingFeatures(t *testing.T) {
	ul, fl := testTables(ScheduleLen)
	e, err := NewEngine(ul, fl, nil)
	require.NoError(t, err)

	in := testInput()
	delete(in.Features.Sites, "B")
	_, err = e.Run(in)
	assert.ErrorIs(t, err, errs.ErrDataFormat)
}

func TestReferenceCopiesEntries(t *testing.T) {
	res := models.LoadResult{}
	res.UL.Add("A", 1)
	res.FL.Add("A", 2)
	ref := Reference("refA", res)
	res.UL.Entries[0].Value = 99

	assert.Equal(t, "refA", ref.Name)
	assert.Equal(t, []float64{1}, ref.UL.Values())
	assert.Equal(t, []float64{2}, ref.FL.Values())
}
