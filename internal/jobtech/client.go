// Package jobtech implements the client for the JobTech historical search
// API. It issues one aggregate-only query per calendar month and surfaces
// failures as typed errors; degrading to placeholder records is the
// aggregator's responsibility, not this layer's.
package jobtech

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/vakansdata/vakansdata-go/internal/dateutil"
	apperrors "github.com/vakansdata/vakansdata-go/internal/errors"
	"github.com/vakansdata/vakansdata-go/internal/logger"
	"github.com/vakansdata/vakansdata-go/internal/metrics"
	"github.com/vakansdata/vakansdata-go/internal/taxonomy"
	"github.com/vakansdata/vakansdata-go/internal/vacancy"
)

// CountrySweden is the upstream country code sent when no region filter is
// applied.
const CountrySweden = "199"

// userAgent identifies this service to the public API.
const userAgent = "vakansdata-go (+https://github.com/vakansdata/vakansdata-go)"

// searchResponse is the subset of the upstream response we consume.
// Everything except total.value is ignored.
type searchResponse struct {
	Total struct {
		Value int `json:"value"`
	} `json:"total"`
}

// Client queries the JobTech historical search API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	dict       *taxonomy.Dictionary
	maxRetries int
	retryDelay time.Duration
	log        *logger.Logger
	metrics    *metrics.Metrics
}

// NewClient creates a client for the given base URL. The timeout applies per
// upstream call so a hung request degrades one month, not the whole page
// request. Metrics may be nil.
func NewClient(baseURL string, timeout time.Duration, maxRetries int, dict *taxonomy.Dictionary, log *logger.Logger, m *metrics.Metrics) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:    baseURL,
		dict:       dict,
		maxRetries: maxRetries,
		retryDelay: 1 * time.Second,
		log:        log.WithModule("jobtech"),
		metrics:    m,
	}
}

// FetchMonth issues exactly one aggregate query for the given month and
// optional filter slugs (empty = unfiltered) and returns the resulting
// Record. An unknown slug fails fast with UnknownFilterValueError; any
// transport error, non-2xx status, or malformed payload surfaces as a typed
// UpstreamError.
func (c *Client) FetchMonth(ctx context.Context, month dateutil.Month, region, occupation string) (vacancy.Record, error) {
	query, err := c.buildQuery(month, region, occupation)
	if err != nil {
		return vacancy.Record{}, err
	}

	searchURL := c.baseURL + "/search?" + query.Encode()
	start := time.Now()

	var result searchResponse
	var lastStatus int

	err = retryWithBackoff(ctx, c.maxRetries, c.retryDelay, func() error {
		// Reset between attempts so a partially decoded body from a failed
		// attempt cannot leak into the next one.
		result = searchResponse{}
		status, attemptErr := c.doSearch(ctx, searchURL, &result)
		lastStatus = status
		return attemptErr
	})

	c.observe(time.Since(start), err)

	if err != nil {
		rec := vacancy.NewRecord(month, region, occupation, 0)
		return vacancy.Record{}, apperrors.NewUpstreamError(
			rec.Month, rec.Region, rec.Occupation, lastStatus, err)
	}

	if result.Total.Value < 0 {
		rec := vacancy.NewRecord(month, region, occupation, 0)
		return vacancy.Record{}, apperrors.NewUpstreamError(
			rec.Month, rec.Region, rec.Occupation, lastStatus,
			fmt.Errorf("negative total %d", result.Total.Value))
	}

	return vacancy.NewRecord(month, region, occupation, result.Total.Value), nil
}

// buildQuery translates the month and filter slugs into upstream query
// parameters. limit=1 keeps the response to the aggregate total plus a
// single hit we never decode; per-posting detail is not used.
func (c *Client) buildQuery(month dateutil.Month, region, occupation string) (url.Values, error) {
	from, to := month.DateRange()

	query := url.Values{}
	query.Set("historical-from", from)
	query.Set("historical-to", to)
	query.Set("limit", "1")
	query.Set("offset", "0")

	if region != "" {
		code, ok := c.dict.CodeOf(taxonomy.KindRegion, region)
		if !ok {
			return nil, apperrors.NewUnknownFilterValueError("region", region)
		}
		query.Set("region", code)
	} else {
		query.Set("country", CountrySweden)
	}

	if occupation != "" {
		code, ok := c.dict.CodeOf(taxonomy.KindOccupation, occupation)
		if !ok {
			return nil, apperrors.NewUnknownFilterValueError("occupation", occupation)
		}
		query.Set("occupation-group", code)
	}

	return query, nil
}

// doSearch performs one GET attempt and decodes the aggregate total.
// Returns the HTTP status observed (0 for transport errors) and an error
// marked permanent when retrying cannot help.
func (c *Client) doSearch(ctx context.Context, searchURL string, out *searchResponse) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return 0, permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return resp.StatusCode, fmt.Errorf("rate limited: status %d", resp.StatusCode)
		case resp.StatusCode >= 500:
			return resp.StatusCode, fmt.Errorf("server error: status %d", resp.StatusCode)
		default:
			return resp.StatusCode, permanent(fmt.Errorf("client error: status %d", resp.StatusCode))
		}
	}

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, gerr := gzip.NewReader(resp.Body)
		if gerr != nil {
			return resp.StatusCode, fmt.Errorf("failed to decompress gzip: %w", gerr)
		}
		defer func() { _ = gzipReader.Close() }()
		reader = gzipReader
	}

	if derr := json.NewDecoder(reader).Decode(out); derr != nil {
		return resp.StatusCode, fmt.Errorf("malformed response body: %w", derr)
	}
	return resp.StatusCode, nil
}

func (c *Client) observe(elapsed time.Duration, err error) {
	if c.metrics == nil {
		return
	}
	c.metrics.UpstreamDurationSeconds.Observe(elapsed.Seconds())
	switch {
	case err == nil:
		c.metrics.UpstreamRequestsTotal.WithLabelValues("success").Inc()
	case errors.Is(err, context.DeadlineExceeded):
		c.metrics.UpstreamRequestsTotal.WithLabelValues("timeout").Inc()
	default:
		c.metrics.UpstreamRequestsTotal.WithLabelValues("error").Inc()
	}
}
