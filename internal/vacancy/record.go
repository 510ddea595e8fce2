// Package vacancy implements the historical vacancy aggregation core:
// cutoff detection, the cutoff cache, range clipping, and the concurrent
// range aggregator feeding the dashboard API.
package vacancy

import "github.com/vakansdata/vakansdata-go/internal/dateutil"

// FilterAll is the wire-level sentinel meaning "no filter applied". It only
// appears in Record output; internally the absence of a filter is an empty
// slug.
const FilterAll = "all"

// Record is one aggregate vacancy observation: the upstream-reported total
// for one (month, region, occupation) tuple. A Count of 0 is both a valid
// real value and the placeholder substituted on fetch failure; a failure is
// only visible through the aggregator's warnings list.
type Record struct {
	Month      string `json:"month"`      // YYYY-MM
	Region     string `json:"region"`     // slug or "all"
	Occupation string `json:"occupation"` // slug or "all"
	Count      int    `json:"count"`
}

// FilterResult describes how a requested range was adjusted against the
// verified data cutoff.
type FilterResult struct {
	AdjustedFrom  string   `json:"adjusted_from"` // YYYY-MM-DDTHH:MM:SS
	AdjustedTo    string   `json:"adjusted_to"`
	WasClipped    bool     `json:"was_clipped"`
	DroppedMonths []string `json:"dropped_months"` // YYYY-MM, beyond the cutoff
}

// wireSlug renders an internal filter slug for Record output.
func wireSlug(slug string) string {
	if slug == "" {
		return FilterAll
	}
	return slug
}

// NewRecord builds a Record for a month with the given internal filter slugs
// (empty = unfiltered).
func NewRecord(month dateutil.Month, region, occupation string, count int) Record {
	return Record{
		Month:      month.String(),
		Region:     wireSlug(region),
		Occupation: wireSlug(occupation),
		Count:      count,
	}
}

// Placeholder builds the zero-count record substituted when a month's fetch
// fails.
func Placeholder(month dateutil.Month, region, occupation string) Record {
	return NewRecord(month, region, occupation, 0)
}
