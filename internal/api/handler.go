// Package api implements the dashboard's HTTP handlers on top of the
// vacancy aggregation core.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/vakansdata/vakansdata-go/internal/errors"
	"github.com/vakansdata/vakansdata-go/internal/logger"
	"github.com/vakansdata/vakansdata-go/internal/metrics"
	"github.com/vakansdata/vakansdata-go/internal/sentry"
	"github.com/vakansdata/vakansdata-go/internal/taxonomy"
	"github.com/vakansdata/vakansdata-go/internal/vacancy"
)

// Handler serves the vacancy statistics API.
type Handler struct {
	agg     *vacancy.Aggregator
	cutoff  *vacancy.CutoffCache
	dict    *taxonomy.Dictionary
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewHandler creates the API handler. Metrics may be nil.
func NewHandler(agg *vacancy.Aggregator, cutoff *vacancy.CutoffCache, dict *taxonomy.Dictionary, log *logger.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		agg:     agg,
		cutoff:  cutoff,
		dict:    dict,
		log:     log.WithModule("api"),
		metrics: m,
	}
}

// vacanciesResponse is the time series payload.
type vacanciesResponse struct {
	Records  []vacancy.Record     `json:"records"`
	Filter   vacancy.FilterResult `json:"filter"`
	Warnings []string             `json:"warnings"`
}

// mapResponse is the all-regions payload for choropleth rendering.
type mapResponse struct {
	Records []vacancy.Record     `json:"records"`
	Filter  vacancy.FilterResult `json:"filter"`
}

// GetVacancies returns the monthly vacancy series for the requested range
// and optional region/occupation filters.
func (h *Handler) GetVacancies(c *gin.Context) {
	from, to, err := rangeBounds(c)
	if err != nil {
		h.badRequest(c, "vacancies", err)
		return
	}

	region := filterParam(c, "region")
	occupation := filterParam(c, "occupation")

	records, filter, warnings, err := h.agg.Aggregate(c.Request.Context(), from, to, region, occupation)
	if err != nil {
		h.aggregationError(c, "vacancies", err)
		return
	}
	if warnings == nil {
		warnings = []string{}
	}

	c.JSON(http.StatusOK, vacanciesResponse{
		Records:  records,
		Filter:   filter,
		Warnings: warnings,
	})
}

// GetVacanciesMap returns counts for every region per month in the range.
// Map data is all-or-nothing: an upstream failure yields 502 rather than a
// map with silently missing regions.
func (h *Handler) GetVacanciesMap(c *gin.Context) {
	from, to, err := rangeBounds(c)
	if err != nil {
		h.badRequest(c, "vacancies_map", err)
		return
	}

	occupation := filterParam(c, "occupation")

	records, filter, err := h.agg.AggregateAllRegions(c.Request.Context(), from, to, occupation)
	if err != nil {
		h.aggregationError(c, "vacancies_map", err)
		return
	}

	c.JSON(http.StatusOK, mapResponse{Records: records, Filter: filter})
}

// cutoffResponse is the cutoff diagnostics payload.
type cutoffResponse struct {
	Cutoff    string `json:"cutoff,omitempty"` // YYYY-MM, empty when none detected
	Detected  bool   `json:"detected"`
	Cached    bool   `json:"cached"`
	ExpiresAt string `json:"expires_at,omitempty"` // RFC 3339
	Threshold int    `json:"threshold"`
	TTL       int    `json:"ttl_seconds"`
}

// GetCutoff reports the cached cutoff state without triggering detection.
func (h *Handler) GetCutoff(c *gin.Context) {
	month, detected, expiresAt := h.cutoff.Cached()

	resp := cutoffResponse{
		Detected:  detected,
		Cached:    !expiresAt.IsZero(),
		Threshold: h.cutoff.Threshold(),
		TTL:       int(h.cutoff.TTL().Seconds()),
	}
	if detected {
		resp.Cutoff = month.String()
	}
	if !expiresAt.IsZero() {
		resp.ExpiresAt = expiresAt.Format("2006-01-02T15:04:05Z07:00")
	}
	c.JSON(http.StatusOK, resp)
}

// RefreshCutoff invalidates the cached cutoff and runs a fresh detection.
func (h *Handler) RefreshCutoff(c *gin.Context) {
	h.cutoff.Invalidate()

	month, detected := h.cutoff.Get(c.Request.Context())

	resp := cutoffResponse{
		Detected:  detected,
		Cached:    true,
		Threshold: h.cutoff.Threshold(),
		TTL:       int(h.cutoff.TTL().Seconds()),
	}
	if detected {
		resp.Cutoff = month.String()
	}
	c.JSON(http.StatusOK, resp)
}

// GetRegions lists the supported regions with their slugs.
func (h *Handler) GetRegions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.dict.Regions()})
}

// GetOccupationGroups lists the supported occupation groups with their slugs.
func (h *Handler) GetOccupationGroups(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.dict.OccupationGroups()})
}

func (h *Handler) badRequest(c *gin.Context, endpoint string, err error) {
	if h.metrics != nil {
		h.metrics.HTTPErrorsTotal.WithLabelValues("bad_request", endpoint).Inc()
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// aggregationError maps aggregation failures to HTTP status codes: an
// unknown filter slug is the caller's mistake, anything else means the
// upstream could not be queried.
func (h *Handler) aggregationError(c *gin.Context, endpoint string, err error) {
	var unknownErr *apperrors.UnknownFilterValueError
	if errors.As(err, &unknownErr) {
		h.badRequest(c, endpoint, err)
		return
	}

	h.log.WithError(err).WithField("endpoint", endpoint).Error("Aggregation failed")
	sentry.CaptureExceptionWithContext(c.Request.Context(), err)
	if h.metrics != nil {
		h.metrics.HTTPErrorsTotal.WithLabelValues("upstream", endpoint).Inc()
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": "data unavailable"})
}
