package parser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/towerload-go/internal/fixture"
	"github.com/ukaji3/towerload-go/pkg/towerload/errs"
	"github.com/ukaji3/towerload-go/pkg/towerload/models"
)

func TestReadRegressor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Regress_UL_DLC13.xlsx")
	require.NoError(t, fixture.WriteRegressor(path, "UL_TB_Mxy", []fixture.Term{
		{Label: "常量", Coef: 10},
		{Label: "平均入流角β", Coef: 2},
		{Label: "风切变α", Coef: -1.5},
		{Label: "空气密度ρ", Coef: 3},
		{Label: "极限风速V50", Coef: 0.25},
		{Label: "ETM11", Coef: 40},
	}))

	reg, err := ReadRegressor(path, "UL_TB_Mxy")
	require.NoError(t, err)

	assert.Equal(t, "Regress_UL_DLC13.xlsx", reg.File)
	assert.Equal(t, []models.Term{
		{Variable: "const", Coefficient: 10},
		{Variable: "inflow_angle", Coefficient: 2},
		{Variable: "wind_shear", Coefficient: -1.5},
		{Variable: "air_density", Coefficient: 3},
		{Variable: "V50", Coefficient: 0.25},
		{Variable: "ETM11", Coefficient: 40},
	}, reg.Terms)
}

func TestReadRegressorMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Regress_RF_Case1.xlsx")
	require.NoError(t, fixture.WriteRegressor(path, "UL_TB_Mxy", []fixture.Term{{Label: "常量", Coef: 1}}))

	_, err := ReadRegressor(path, "RF_TB_My_m4")
	var dfe *errs.DataFormatError
	require.ErrorAs(t, err, &dfe)
	assert.Equal(t, "RF_TB_My_m4", dfe.Feature)
}

func TestTranslateLabel(t *testing.T) {
	assert.Equal(t, "inflow_angle", TranslateLabel("最大入流角β"))
	assert.Equal(t, "const", TranslateLabel("常量"))
	assert.Equal(t, "Iend_m10", TranslateLabel("Iend_m10"))
}
