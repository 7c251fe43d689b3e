package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// LoadEntry is one labelled load value.
type LoadEntry struct {
	// Label is the turbine site identifier.
	Label string `json:"label"`
	// Value is the raw or normalized load.
	Value float64 `json:"value"`
	// Origin is the reference design name, or empty for the custom site.
	Origin string `json:"origin,omitempty"`
}

// Key returns the label qualified by its origin, the form used in reports.
// Labels that already carry the "<origin>-" prefix are returned as is.
func (e LoadEntry) Key() string {
	if e.Origin == "" || strings.HasPrefix(e.Label, e.Origin+"-") {
		return e.Label
	}
	return e.Origin + "-" + e.Label
}

// LoadSeries is an ordered, named series of loads.
//
// It marshals to a JSON object mapping label to value in entry order, the
// layout of the reference-load cache file.
type LoadSeries struct {
	Name    string
	Entries []LoadEntry
}

// Add appends a load for label.
func (s *LoadSeries) Add(label string, v float64) {
	s.Entries = append(s.Entries, LoadEntry{Label: label, Value: v})
}

// Values returns the load values in entry order.
func (s LoadSeries) Values() []float64 {
	out := make([]float64, len(s.Entries))
	for i, e := range s.Entries {
		out[i] = e.Value
	}
	return out
}

// Lookup returns the value of the first entry with label.
func (s LoadSeries) Lookup(label string) (float64, bool) {
	for _, e := range s.Entries {
		if e.Label == label {
			return e.Value, true
		}
	}
	return 0, false
}

// Len returns the number of entries.
func (s LoadSeries) Len() int { return len(s.Entries) }

// MarshalJSON encodes the series as an ordered label → value object.
func (s LoadSeries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Label)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, fmt.Errorf("load %q: %w", e.Label, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an ordered label → value object.
func (s *LoadSeries) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid load series JSON")
	}
	res := gjson.ParseBytes(data)
	if !res.IsObject() {
		return fmt.Errorf("load series must be a JSON object, got %s", res.Type)
	}
	s.Entries = s.Entries[:0]
	var err error
	res.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.Number {
			err = fmt.Errorf("load %q is not a number", key.String())
			return false
		}
		s.Add(key.String(), value.Float())
		return true
	})
	return err
}

// ReferenceLoads are the raw loads of one reference design, as cached.
type ReferenceLoads struct {
	// Name identifies the reference design (workbook base name).
	Name string `json:"-"`
	// UL holds the ultimate load per site.
	UL LoadSeries `json:"ul"`
	// FL holds the fatigue-equivalent load per site.
	FL LoadSeries `json:"fl"`
}

// CaseLoad is the evaluated load of one design load case.
type CaseLoad struct {
	Case  string  `json:"case"`
	Value float64 `json:"value"`
}

// SiteLoads holds the per-case loads of one site.
type SiteLoads struct {
	Site  string     `json:"site"`
	Cases []CaseLoad `json:"cases"`
}

// LoadResult is the output of the regression engine for one record.
type LoadResult struct {
	// UL is the ultimate load series.
	UL LoadSeries
	// FL is the fatigue-equivalent load series.
	FL LoadSeries
	// Ultimate holds the per-case ultimate loads of every site.
	Ultimate []SiteLoads
	// Fatigue holds the per-case fatigue loads of every site.
	Fatigue []SiteLoads
}
