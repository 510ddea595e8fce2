package vacancy

import (
	"sort"

	"github.com/vakansdata/vakansdata-go/internal/dateutil"
)

// DefaultCutoffThreshold is the minimum count treated as real data when
// detecting the coverage cutoff. The upstream API reports near-zero counts
// for months beyond its true coverage horizon, so a low count is read as a
// data-absence artifact rather than a labor-market signal. A genuinely dead
// month with fewer postings than this would be misdetected; that is a known
// limitation of the heuristic.
const DefaultCutoffThreshold = 10

// DefaultCutoffWindowMonths is the trailing window inspected for the cutoff.
const DefaultCutoffWindowMonths = 12

// DetectCutoff returns the most recent month in records whose count exceeds
// threshold, or false if no record does. Records with unparseable months are
// skipped.
func DetectCutoff(records []Record, threshold int) (dateutil.Month, bool) {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	// YYYY-MM strings sort lexicographically in chronological order.
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Month > sorted[j].Month
	})

	for _, rec := range sorted {
		if rec.Count <= threshold {
			continue
		}
		m, err := dateutil.ParseMonth(rec.Month)
		if err != nil {
			continue
		}
		return m, true
	}
	return dateutil.Month{}, false
}
