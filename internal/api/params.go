package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vakansdata/vakansdata-go/internal/dateutil"
	"github.com/vakansdata/vakansdata-go/internal/vacancy"
)

// filterParam reads an optional filter slug. Both a missing parameter and
// the explicit "all" sentinel mean unfiltered.
func filterParam(c *gin.Context, name string) string {
	v := c.Query(name)
	if v == vacancy.FilterAll {
		return ""
	}
	return v
}

// rangeBounds resolves the requested date range to instant strings.
//
// Month parameters (from/to, YYYY-MM) are the primary form and expand to
// the full first and last month. The legacy instant parameters
// (dateFrom/dateTo, YYYY-MM-DDTHH:MM:SS) are still accepted and truncated
// to whole months. With neither form present the range defaults to the
// trailing twelve months.
func rangeBounds(c *gin.Context) (from, to string, err error) {
	fromMonth, err := monthParam(c, "from")
	if err != nil {
		return "", "", err
	}
	toMonth, err := monthParam(c, "to")
	if err != nil {
		return "", "", err
	}

	if fromMonth.IsZero() && toMonth.IsZero() {
		legacyFrom, legacyTo, legacyErr := legacyBounds(c)
		if legacyErr != nil {
			return "", "", legacyErr
		}
		fromMonth, toMonth = legacyFrom, legacyTo
	}

	defaultFrom, defaultTo := dateutil.DefaultRange(time.Now())
	if fromMonth.IsZero() {
		fromMonth = defaultFrom
	}
	if toMonth.IsZero() {
		toMonth = defaultTo
	}

	return fromMonth.Start().Format(dateutil.InstantLayout),
		toMonth.End().Format(dateutil.InstantLayout),
		nil
}

func monthParam(c *gin.Context, name string) (dateutil.Month, error) {
	v := c.Query(name)
	if v == "" {
		return dateutil.Month{}, nil
	}
	m, err := dateutil.ParseMonth(v)
	if err != nil {
		return dateutil.Month{}, fmt.Errorf("invalid %s: expected YYYY-MM, got %q", name, v)
	}
	return m, nil
}

func legacyBounds(c *gin.Context) (from, to dateutil.Month, err error) {
	if v := c.Query("dateFrom"); v != "" {
		if from, err = dateutil.MonthOfInstant(v); err != nil {
			return dateutil.Month{}, dateutil.Month{}, fmt.Errorf("invalid dateFrom: expected YYYY-MM-DDTHH:MM:SS, got %q", v)
		}
	}
	if v := c.Query("dateTo"); v != "" {
		if to, err = dateutil.MonthOfInstant(v); err != nil {
			return dateutil.Month{}, dateutil.Month{}, fmt.Errorf("invalid dateTo: expected YYYY-MM-DDTHH:MM:SS, got %q", v)
		}
	}
	return from, to, nil
}
