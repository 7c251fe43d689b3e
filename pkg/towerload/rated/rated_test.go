package rated

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/towerload-go/pkg/towerload/errs"
	"github.com/ukaji3/towerload-go/pkg/towerload/models"
)

func TestWindSpeed(t *testing.T) {
	c := models.SiteCondition{InflowAngle: 5, WindShear: 0.18, AirDensity: 1.18}
	want := 14.54212663 + 0.031650249*5 + 0.230199432*0.18 - 3.999156118*1.18
	assert.InDelta(t, want, WindSpeed(c), 1e-6)
	assert.InDelta(t, 10.0228, WindSpeed(c), 1e-4)
}

func TestWindSpeedIsLinear(t *testing.T) {
	tests := []models.SiteCondition{
		{InflowAngle: 5, WindShear: 0.18, AirDensity: 1.18},
		{InflowAngle: -2.5, WindShear: 0.3, AirDensity: 1.05},
		{InflowAngle: 0, WindShear: 0, AirDensity: 0},
	}
	for _, c := range tests {
		doubled := models.SiteCondition{
			InflowAngle: 2 * c.InflowAngle,
			WindShear:   2 * c.WindShear,
			AirDensity:  2 * c.AirDensity,
		}
		assert.InDelta(t, 2*(WindSpeed(c)-Const), WindSpeed(doubled)-Const, 1e-12)
	}
}

func TestEstimatorRun(t *testing.T) {
	table := models.ConditionTable{
		Sites: []string{"T1", "T2"},
		Rows: map[string]models.SiteCondition{
			"T1": {InflowAngle: 5, WindShear: 0.18, AirDensity: 1.18},
			"T2": {InflowAngle: 8, WindShear: 0.1, AirDensity: 1.225},
		},
	}
	out, err := Estimator{}.Run(table)
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, WindSpeed(table.Rows["T2"]), out["T2"])
}

func TestEstimatorMissingRow(t *testing.T) {
	table := models.ConditionTable{Sites: []string{"T1"}, Rows: map[string]models.SiteCondition{}}
	_, err := Estimator{}.Run(table)
	assert.ErrorIs(t, err, errs.ErrDataFormat)
}
