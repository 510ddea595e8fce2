package vacancy

import (
	"context"

	"github.com/vakansdata/vakansdata-go/internal/dateutil"
)

// Clipper adjusts requested date ranges against the verified data cutoff so
// callers never query months the upstream cannot genuinely answer for.
type Clipper struct {
	cutoff *CutoffCache
}

// NewClipper creates a clipper reading the given cutoff cache.
func NewClipper(cutoff *CutoffCache) *Clipper {
	return &Clipper{cutoff: cutoff}
}

// Clip adjusts [from, to] (instants in YYYY-MM-DDTHH:MM:SS form) to the
// available data window. Only the upper bound is ever adjusted; there is no
// lower-bound cutoff concept. When no cutoff is known, or either instant is
// unparseable, the range is returned unchanged. A range entirely beyond the
// cutoff yields AdjustedTo before AdjustedFrom; callers detect the empty
// expansion downstream.
func (c *Clipper) Clip(ctx context.Context, from, to string) FilterResult {
	result := FilterResult{AdjustedFrom: from, AdjustedTo: to}

	cutoffMonth, ok := c.cutoff.Get(ctx)
	if !ok {
		return result
	}

	toInstant, err := dateutil.ParseInstant(to)
	if err != nil {
		return result
	}

	cutoffEnd := cutoffMonth.End()
	if !toInstant.After(cutoffEnd) {
		return result
	}

	result.AdjustedTo = cutoffEnd.Format(dateutil.InstantLayout)
	result.WasClipped = true

	// Every month strictly after the cutoff up to and including the
	// original end month was dropped.
	for _, m := range dateutil.MonthsBetween(cutoffMonth.Next(), dateutil.MonthOf(toInstant)) {
		result.DroppedMonths = append(result.DroppedMonths, m.String())
	}
	return result
}
