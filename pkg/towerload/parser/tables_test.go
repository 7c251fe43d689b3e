package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/towerload-go/pkg/towerload/errs"
)

func nums(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestCleanTableDropsArtifacts(t *testing.T) {
	raw := [][]string{
		{"Wind Speed", "T1", "T2", "", "Note"},
		{"m/s", "-", "-"},
		{},
		{"3", "0.2", "0.3", "", "ignored"},
		{"5", "0.18"},
		{"", "", "", "", "trailing note only"},
	}
	tbl := CleanTable("M=1", raw, nums(len(raw)), CleanOptions{})

	assert.Equal(t, []string{"Wind Speed", "T1", "T2"}, tbl.Header)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"3", "0.2", "0.3"}, tbl.Rows[0])
	assert.Equal(t, []string{"5", "0.18", ""}, tbl.Rows[1])
	assert.Equal(t, []int{4, 5}, tbl.RowNums)
}

func TestCleanTableIndexColumnAndCap(t *testing.T) {
	raw := [][]string{
		{"", "θmean", "α"},
		{"", "°", "-"},
		{"T1", "5", "0.18"},
		{"T2", "6", "0.2"},
		{"T3", "7", "0.2"},
		{"T4", "8", "0.2"},
		{"Mean", "6.5", "0.2"},
		{"Orphan", "", ""},
	}
	tbl := CleanTable("Site Condition", raw, nums(len(raw)), CleanOptions{IndexColumn: true, MaxRows: 4})

	assert.Equal(t, []string{"", "θmean", "α"}, tbl.Header)
	require.Len(t, tbl.Rows, 4)
	assert.Equal(t, "T1", tbl.Rows[0][0])
	assert.Equal(t, "T4", tbl.Rows[3][0])
}

func TestForwardFill(t *testing.T) {
	tbl := Table{
		Sheet:   "M=10",
		Header:  []string{"Wind Speed", "T1", "T2"},
		Rows:    [][]string{{"3", "0.2", "0.3"}, {"4", "", "0.28"}, {"5", "", ""}},
		RowNums: []int{3, 4, 5},
	}
	require.NoError(t, ForwardFill(&tbl, false))
	assert.Equal(t, [][]string{{"3", "0.2", "0.3"}, {"4", "0.2", "0.28"}, {"5", "0.2", "0.28"}}, tbl.Rows)

	t.Run("idempotent", func(t *testing.T) {
		before := make([][]string, len(tbl.Rows))
		for i, r := range tbl.Rows {
			before[i] = append([]string(nil), r...)
		}
		require.NoError(t, ForwardFill(&tbl, false))
		assert.Equal(t, before, tbl.Rows)
	})
}

func TestForwardFillFirstRowMissing(t *testing.T) {
	tbl := Table{
		Sheet:   "ETM",
		Header:  []string{"Wind Speed", "T1"},
		Rows:    [][]string{{"3", ""}},
		RowNums: []int{3},
	}
	err := ForwardFill(&tbl, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrDataFormat)
	assert.Contains(t, err.Error(), "B3")
}

func TestForwardFillSkipsIndexColumn(t *testing.T) {
	tbl := Table{
		Header:  []string{"", "θmean"},
		Rows:    [][]string{{"T1", "5"}, {"", "6"}},
		RowNums: []int{3, 4},
	}
	require.NoError(t, ForwardFill(&tbl, true))
	assert.Equal(t, "", tbl.Rows[1][0])
}

func TestTableColumn(t *testing.T) {
	tbl := Table{Header: []string{"", "θmean", "Air  Density", "V50"}}
	assert.Equal(t, 1, tbl.Column("θmean"))
	assert.Equal(t, 2, tbl.Column("ρ", "air density"))
	assert.Equal(t, 3, tbl.Column("Ve50", "v50"))
	assert.Equal(t, -1, tbl.Column("K"))
}
