// Package report renders normalized load reports as JSON, terminal bar
// charts, PNG bar charts and XLSX workbooks.
package report

import (
	"bytes"
	"encoding/json"
	"image/color"
	"sort"
	"time"

	"github.com/ukaji3/towerload-go/pkg/towerload/models"
)

// Palette colors, custom site first, then one per reference in run order.
var palette = []color.RGBA{
	{0x1f, 0x77, 0xb4, 0xff}, // blue
	{0xff, 0x7f, 0x0e, 0xff},
	{0x2c, 0xa0, 0x2c, 0xff},
	{0xd6, 0x27, 0x28, 0xff},
	{0x94, 0x67, 0xbd, 0xff},
	{0x8c, 0x56, 0x4b, 0xff},
	{0xe3, 0x77, 0xc2, 0xff},
	{0x7f, 0x7f, 0x7f, 0xff},
	{0xbc, 0xbd, 0x22, 0xff},
	{0x17, 0xbe, 0xcf, 0xff},
}

// originColors assigns a palette color to each origin of r.
func originColors(r *models.Report) map[string]color.RGBA {
	out := make(map[string]color.RGBA)
	for i, o := range r.Origins() {
		out[o] = palette[i%len(palette)]
	}
	return out
}

// originName is the display name of an origin.
func originName(r *models.Report, origin string) string {
	if origin == "" {
		if r.Custom != "" {
			return r.Custom
		}
		return "custom"
	}
	return origin
}

// sortedDesc returns the entries of s ordered by descending value; ties keep
// series order.
func sortedDesc(s models.LoadSeries) []models.LoadEntry {
	out := append([]models.LoadEntry(nil), s.Entries...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Value > out[j].Value })
	return out
}

type jsonReport struct {
	RunID       string            `json:"run_id"`
	Custom      string            `json:"custom"`
	References  []string          `json:"references"`
	GeneratedAt time.Time         `json:"generated_at"`
	UL          models.LoadSeries `json:"ul"`
	FL          models.LoadSeries `json:"fl"`
	Origins     keyedOrigins      `json:"origins"`
	Advisories  []string          `json:"advisories,omitempty"`
}

// keyedOrigins marshals as an ordered key → origin object.
type keyedOrigins []models.LoadEntry

func (k keyedOrigins) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range k {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(e.Key())
		origin := e.Origin
		if origin == "" {
			origin = "custom"
		}
		val, _ := json.Marshal(origin)
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func keyed(s models.LoadSeries) models.LoadSeries {
	out := models.LoadSeries{Name: s.Name}
	for _, e := range s.Entries {
		out.Add(e.Key(), e.Value)
	}
	return out
}

// JSON encodes r. Loads are keyed by their origin-qualified labels.
func JSON(r *models.Report, pretty bool) ([]byte, error) {
	refs := r.References
	if refs == nil {
		refs = []string{}
	}
	doc := jsonReport{
		RunID:       r.RunID,
		Custom:      r.Custom,
		References:  refs,
		GeneratedAt: r.GeneratedAt,
		UL:          keyed(r.UL),
		FL:          keyed(r.FL),
		Origins:     keyedOrigins(r.UL.Entries),
		Advisories:  r.Advisories,
	}
	if pretty {
		return json.MarshalIndent(doc, "", "  ")
	}
	return json.Marshal(doc)
}
