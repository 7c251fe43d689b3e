package models

import "time"

// Report is the normalized load report of one run.
type Report struct {
	// RunID identifies the run.
	RunID string
	// Custom is the source name of the custom site workbook.
	Custom string
	// References lists reference design names in run order.
	References []string
	// UL is the normalized ultimate load series.
	UL LoadSeries
	// FL is the normalized fatigue-equivalent load series.
	FL LoadSeries
	// Advisories collects non-fatal notices raised during the run.
	Advisories []string
	// GeneratedAt is when the report was built.
	GeneratedAt time.Time
}

// Origins returns the distinct origins in series order, custom ("") first.
func (r *Report) Origins() []string {
	out := []string{""}
	seen := map[string]bool{"": true}
	for _, s := range []LoadSeries{r.UL, r.FL} {
		for _, e := range s.Entries {
			if !seen[e.Origin] {
				seen[e.Origin] = true
				out = append(out, e.Origin)
			}
		}
	}
	return out
}
