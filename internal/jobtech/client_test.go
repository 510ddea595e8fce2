package jobtech

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/vakansdata/vakansdata-go/internal/dateutil"
	apperrors "github.com/vakansdata/vakansdata-go/internal/errors"
	"github.com/vakansdata/vakansdata-go/internal/logger"
	"github.com/vakansdata/vakansdata-go/internal/taxonomy"
)

func newTestClient(t *testing.T, baseURL string, maxRetries int) *Client {
	t.Helper()
	log := logger.NewWithWriter("error", testWriter{})
	c := NewClient(baseURL, 5*time.Second, maxRetries, taxonomy.NewDictionary(), log, nil)
	c.retryDelay = time.Millisecond
	return c
}

type testWriter struct{}

func (testWriter) Write(p []byte) (int, error) { return len(p), nil }

func month(t *testing.T, s string) dateutil.Month {
	t.Helper()
	m, err := dateutil.ParseMonth(s)
	if err != nil {
		t.Fatalf("Bad month %q: %v", s, err)
	}
	return m
}

func TestFetchMonthSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total":{"value":12345},"positions":20000,"hits":[]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)
	rec, err := client.FetchMonth(context.Background(), month(t, "2024-01"), "", "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if rec.Month != "2024-01" || rec.Count != 12345 {
		t.Errorf("Unexpected record: %+v", rec)
	}
	if rec.Region != "all" || rec.Occupation != "all" {
		t.Errorf("Expected 'all' sentinels in output, got %+v", rec)
	}
}

func TestFetchMonthQueryParameters(t *testing.T) {
	var gotQuery atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query())
		_, _ = w.Write([]byte(`{"total":{"value":789}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)
	rec, err := client.FetchMonth(context.Background(), month(t, "2024-02"), "stockholms", "mjukvaru-och-systemutvecklare")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	q := gotQuery.Load().(url.Values)
	checks := map[string]string{
		"historical-from":  "2024-02-01T00:00:00",
		"historical-to":    "2024-02-29T23:59:59",
		"limit":            "1",
		"offset":           "0",
		"region":           "01",
		"occupation-group": "2512",
	}
	for key, want := range checks {
		if got := q[key]; len(got) != 1 || got[0] != want {
			t.Errorf("Query %s = %v, want %s", key, got, want)
		}
	}
	if _, ok := q["country"]; ok {
		t.Error("country parameter must be omitted when a region is given")
	}

	if rec.Region != "stockholms" || rec.Occupation != "mjukvaru-och-systemutvecklare" {
		t.Errorf("Record must echo input slugs, got %+v", rec)
	}
}

func TestFetchMonthDefaultsToCountryFilter(t *testing.T) {
	var gotQuery atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery.Store(r.URL.Query())
		_, _ = w.Write([]byte(`{"total":{"value":1}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)
	if _, err := client.FetchMonth(context.Background(), month(t, "2024-01"), "", ""); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	q := gotQuery.Load().(url.Values)
	if got := q["country"]; len(got) != 1 || got[0] != CountrySweden {
		t.Errorf("Expected country=%s, got %v", CountrySweden, got)
	}
}

func TestFetchMonthUnknownSlugFailsFast(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"total":{"value":1}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)
	_, err := client.FetchMonth(context.Background(), month(t, "2024-01"), "atlantis", "")

	var filterErr *apperrors.UnknownFilterValueError
	if !errors.As(err, &filterErr) {
		t.Fatalf("Expected UnknownFilterValueError, got %v", err)
	}
	if filterErr.Kind != "region" || filterErr.Slug != "atlantis" {
		t.Errorf("Unexpected error fields: %+v", filterErr)
	}
	if calls.Load() != 0 {
		t.Error("Unknown slug must not reach the upstream")
	}
}

func TestFetchMonthServerErrorRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 2)
	_, err := client.FetchMonth(context.Background(), month(t, "2024-01"), "", "")

	var upstream *apperrors.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("Expected UpstreamError, got %v", err)
	}
	if upstream.Status != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", upstream.Status)
	}
	if upstream.Month != "2024-01" {
		t.Errorf("Expected month context, got %+v", upstream)
	}
	if calls.Load() != 3 {
		t.Errorf("Expected 3 attempts (1 + 2 retries), got %d", calls.Load())
	}
}

func TestFetchMonthClientErrorDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 3)
	_, err := client.FetchMonth(context.Background(), month(t, "2024-01"), "", "")

	var upstream *apperrors.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("Expected UpstreamError, got %v", err)
	}
	if upstream.Status != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", upstream.Status)
	}
	if calls.Load() != 1 {
		t.Errorf("Expected single attempt for client error, got %d", calls.Load())
	}
}

func TestFetchMonthMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)
	_, err := client.FetchMonth(context.Background(), month(t, "2024-01"), "", "")

	var upstream *apperrors.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("Expected UpstreamError for malformed body, got %v", err)
	}
}

func TestFetchMonthRetryDoesNotKeepStaleTotal(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			// The decoder sets value=777 from the first key, then hits the
			// type error on the duplicate and fails the attempt with the
			// result partially populated.
			_, _ = w.Write([]byte(`{"total":{"value":777},"total":"oops"}`))
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 1)
	rec, err := client.FetchMonth(context.Background(), month(t, "2024-01"), "", "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if calls.Load() != 2 {
		t.Fatalf("Expected 2 attempts, got %d", calls.Load())
	}
	if rec.Count != 0 {
		t.Errorf("Expected count 0 from the retry's body, got stale %d", rec.Count)
	}
}

func TestFetchMonthGzipResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte(`{"total":{"value":555}}`))
		_ = gz.Close()
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 0)
	rec, err := client.FetchMonth(context.Background(), month(t, "2024-01"), "", "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if rec.Count != 555 {
		t.Errorf("Expected count 555, got %d", rec.Count)
	}
}

func TestRetryWithBackoffPermanentStops(t *testing.T) {
	var calls int
	sentinel := errors.New("bad request")

	err := retryWithBackoff(context.Background(), 5, time.Millisecond, func() error {
		calls++
		return permanent(sentinel)
	})

	if !errors.Is(err, sentinel) {
		t.Errorf("Expected unwrapped sentinel, got %v", err)
	}
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}
}

func TestRetryWithBackoffEventualSuccess(t *testing.T) {
	var calls int

	err := retryWithBackoff(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("Expected 3 calls, got %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retryWithBackoff(ctx, 3, time.Second, func() error {
		return errors.New("transient")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
