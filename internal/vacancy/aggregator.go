package vacancy

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vakansdata/vakansdata-go/internal/dateutil"
	apperrors "github.com/vakansdata/vakansdata-go/internal/errors"
	"github.com/vakansdata/vakansdata-go/internal/logger"
	"github.com/vakansdata/vakansdata-go/internal/metrics"
	"github.com/vakansdata/vakansdata-go/internal/taxonomy"
)

// mapFetchLimit bounds concurrent upstream calls in all-regions mode, where
// a single request fans out to months x 21 regions.
const mapFetchLimit = 32

// Aggregator is the orchestration entry point: it clips the requested range
// against the cutoff, expands it into calendar months, fans out one fetch
// per month (per region in map mode), and assembles an ordered series.
type Aggregator struct {
	fetcher MonthFetcher
	clipper *Clipper
	months  *MonthCache
	dict    *taxonomy.Dictionary
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewAggregator wires the aggregator's collaborators explicitly. The month
// cache and metrics may be nil.
func NewAggregator(fetcher MonthFetcher, clipper *Clipper, months *MonthCache, dict *taxonomy.Dictionary, log *logger.Logger, m *metrics.Metrics) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		clipper: clipper,
		months:  months,
		dict:    dict,
		log:     log.WithModule("aggregator"),
		metrics: m,
	}
}

// Aggregate returns one record per calendar month in the clipped range for
// the optional filter slugs (empty = unfiltered). A month whose fetch fails
// degrades to a zero-count placeholder plus an entry in the returned
// warnings; a single month's failure never aborts the others. Records are
// sorted by month ascending. An unknown filter slug is a caller bug and
// returns a hard error; an unparseable range yields an empty series.
func (a *Aggregator) Aggregate(ctx context.Context, from, to, region, occupation string) ([]Record, FilterResult, []string, error) {
	if err := a.validateFilters(region, occupation); err != nil {
		return nil, FilterResult{}, nil, err
	}

	start := time.Now()
	filter := a.clipper.Clip(ctx, from, to)
	months := expandMonths(filter)
	if len(months) == 0 {
		return []Record{}, filter, nil, nil
	}

	records := make([]Record, len(months))
	warnings := make([]string, 0)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i, m := range months {
		wg.Add(1)
		go func(i int, m dateutil.Month) {
			defer wg.Done()
			rec, err := a.fetchOne(ctx, m, region, occupation)
			if err != nil {
				mu.Lock()
				warnings = append(warnings, fmt.Sprintf("Failed to fetch data for %s: %v", m, err))
				mu.Unlock()
				rec = Placeholder(m, region, occupation)
			}
			records[i] = rec
		}(i, m)
	}
	wg.Wait()

	sortByMonth(records)
	sort.Strings(warnings)

	if len(warnings) > 0 {
		a.log.WithField("warnings", warnings).Warn("Some monthly data failed to fetch")
		if a.metrics != nil {
			a.metrics.AggregationDegradedMonths.Add(float64(len(warnings)))
		}
	}
	a.observe("series", time.Since(start))

	return records, filter, warnings, nil
}

// AggregateAllRegions returns the cross product of every known region and
// every month in the clipped range, flattened and sorted by month. Unlike
// Aggregate it is atomic: any region's fetch failure fails the whole call,
// because a choropleth with silently missing regions is misleading in a way
// a missing month in a time series is not.
func (a *Aggregator) AggregateAllRegions(ctx context.Context, from, to, occupation string) ([]Record, FilterResult, error) {
	if err := a.validateFilters("", occupation); err != nil {
		return nil, FilterResult{}, err
	}

	start := time.Now()
	filter := a.clipper.Clip(ctx, from, to)
	months := expandMonths(filter)
	if len(months) == 0 {
		return []Record{}, filter, nil
	}

	regions := a.dict.Regions()
	records := make([]Record, len(months)*len(regions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(mapFetchLimit)

	for mi, m := range months {
		for ri, region := range regions {
			idx := mi*len(regions) + ri
			m, slug := m, region.Slug
			g.Go(func() error {
				rec, err := a.fetchOne(gctx, m, slug, occupation)
				if err != nil {
					return err
				}
				records[idx] = rec
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, filter, err
	}

	sortByMonth(records)
	a.observe("map", time.Since(start))

	return records, filter, nil
}

// fetchOne consults the month cache before issuing an upstream call, and
// populates it on success.
func (a *Aggregator) fetchOne(ctx context.Context, m dateutil.Month, region, occupation string) (Record, error) {
	if a.months != nil {
		if count, ok := a.months.Get(m, region, occupation); ok {
			return NewRecord(m, region, occupation, count), nil
		}
	}

	rec, err := a.fetcher.FetchMonth(ctx, m, region, occupation)
	if err != nil {
		return Record{}, err
	}
	if a.months != nil {
		a.months.Put(m, region, occupation, rec.Count)
	}
	return rec, nil
}

func (a *Aggregator) validateFilters(region, occupation string) error {
	if region != "" && !a.dict.IsValid(taxonomy.KindRegion, region) {
		return apperrors.NewUnknownFilterValueError("region", region)
	}
	if occupation != "" && !a.dict.IsValid(taxonomy.KindOccupation, occupation) {
		return apperrors.NewUnknownFilterValueError("occupation", occupation)
	}
	return nil
}

func (a *Aggregator) observe(mode string, elapsed time.Duration) {
	if a.metrics != nil {
		a.metrics.AggregationDurationSeconds.WithLabelValues(mode).Observe(elapsed.Seconds())
	}
}

// expandMonths converts the clipped range into the ordered list of calendar
// months it spans. Unparseable instants and inverted ranges both yield an
// empty list, which callers translate into an empty series, not an error.
func expandMonths(filter FilterResult) []dateutil.Month {
	fromMonth, err := dateutil.MonthOfInstant(filter.AdjustedFrom)
	if err != nil {
		return nil
	}
	toMonth, err := dateutil.MonthOfInstant(filter.AdjustedTo)
	if err != nil {
		return nil
	}
	return dateutil.MonthsBetween(fromMonth, toMonth)
}

// sortByMonth orders records by month ascending regardless of the
// completion order of the underlying fetches. The sort is stable so regions
// keep their table order within a month in map mode.
func sortByMonth(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Month < records[j].Month
	})
}
