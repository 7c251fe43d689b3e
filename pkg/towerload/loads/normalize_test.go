package loads

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/towerload-go/pkg/towerload/errs"
	"github.com/ukaji3/towerload-go/pkg/towerload/models"
)

func series(name string, kv ...any) models.LoadSeries {
	s := models.LoadSeries{Name: name}
	for i := 0; i < len(kv); i += 2 {
		s.Add(kv[i].(string), kv[i+1].(float64))
	}
	return s
}

func TestNormalizeSelf(t *testing.T) {
	out, err := Normalize(series("ul", "A", 5.0))
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, out.Values())
}

func TestNormalizeWithReference(t *testing.T) {
	out, err := Normalize(series("ul", "A", 5.0), series("refA", "A", 10.0))
	require.NoError(t, err)
	require.Equal(t, 2, out.Len())
	assert.Equal(t, []float64{0.5, 1}, out.Values())
	assert.Equal(t, "", out.Entries[0].Origin)
	assert.Equal(t, "refA", out.Entries[1].Origin)
	assert.Equal(t, "refA-A", out.Entries[1].Key())
}

func TestNormalizeRange(t *testing.T) {
	out, err := Normalize(series("fl", "T1", 3.0, "T2", 7.5, "T3", 0.0),
		series("r1", "X", 6.0), series("r2", "Y", 1.5, "Z", 2.0))
	require.NoError(t, err)

	var peak float64
	for _, v := range out.Values() {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
		peak = math.Max(peak, v)
	}
	assert.Equal(t, 1.0, peak)
	assert.Equal(t, 6, out.Len())
	assert.Equal(t, "r2", out.Entries[5].Origin)
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	in := series("ul", "A", 4.0, "B", 2.0)
	_, err := Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 2}, in.Values())
}

func TestNormalizeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   models.LoadSeries
	}{
		{"empty", series("ul")},
		{"all zero", series("ul", "A", 0.0, "B", 0.0)},
		{"negative", series("ul", "A", -1.0)},
		{"negative entry", series("ul", "A", -1.0, "B", 2.0)},
		{"nan", series("ul", "A", math.NaN(), "B", 2.0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.in)
			require.ErrorIs(t, err, errs.ErrArithmetic)
			var ae *errs.ArithmeticError
			require.ErrorAs(t, err, &ae)
			assert.Equal(t, "ul", ae.Series)
		})
	}
}
