package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeriesJSONKeepsOrder(t *testing.T) {
	var s LoadSeries
	s.Add("T9", 3.5)
	s.Add("T1", 1.25)
	s.Add("T5", 2)

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Equal(t, `{"T9":3.5,"T1":1.25,"T5":2}`, string(data))

	var back LoadSeries
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, s.Entries, back.Entries)
}

func TestReferenceLoadsDecode(t *testing.T) {
	data := []byte(`{"ul": {"A-1": 10.5, "A-2": 9}, "fl": {"A-1": 4, "A-2": 4.5}}`)
	var ref ReferenceLoads
	require.NoError(t, json.Unmarshal(data, &ref))

	assert.Equal(t, []float64{10.5, 9}, ref.UL.Values())
	v, ok := ref.FL.Lookup("A-2")
	assert.True(t, ok)
	assert.Equal(t, 4.5, v)
}

func TestLoadSeriesRejectsNonNumeric(t *testing.T) {
	var s LoadSeries
	err := json.Unmarshal([]byte(`{"T1": "high"}`), &s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "T1")

	assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &s))
}

func TestLoadEntryKey(t *testing.T) {
	assert.Equal(t, "T1", LoadEntry{Label: "T1"}.Key())
	assert.Equal(t, "std-T1", LoadEntry{Label: "T1", Origin: "std"}.Key())
	assert.Equal(t, "std-T1", LoadEntry{Label: "std-T1", Origin: "std"}.Key())
}

func TestReportOrigins(t *testing.T) {
	r := &Report{}
	r.UL.Entries = []LoadEntry{{Label: "T1"}, {Label: "R1", Origin: "ref-b"}, {Label: "R1", Origin: "ref-a"}}
	assert.Equal(t, []string{"", "ref-b", "ref-a"}, r.Origins())
}
