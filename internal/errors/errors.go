// Package errors provides domain-specific error types and sentinel errors
// for improved error handling across the application.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common scenarios.
// Use errors.Is() to check these errors in your code.
var (
	// ErrNotFound indicates a requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates the caller provided invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrTimeout indicates an operation timed out.
	ErrTimeout = errors.New("operation timed out")

	// ErrRateLimitExceeded indicates the rate limit has been exceeded.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// UnknownFilterValueError indicates a region or occupation slug was supplied
// that does not exist in the taxonomy dictionary. This is a caller bug, not a
// data gap, and is never degraded to a placeholder.
type UnknownFilterValueError struct {
	Kind string // "region" or "occupation"
	Slug string
}

func (e *UnknownFilterValueError) Error() string {
	return fmt.Sprintf("unknown %s filter value: %q", e.Kind, e.Slug)
}

// NewUnknownFilterValueError creates an UnknownFilterValueError.
func NewUnknownFilterValueError(kind, slug string) *UnknownFilterValueError {
	return &UnknownFilterValueError{Kind: kind, Slug: slug}
}

// UpstreamError represents a failed fetch against the JobTech search API for
// a single month. It carries enough context to build a per-month warning.
type UpstreamError struct {
	Month      string // YYYY-MM
	Region     string // slug or "all"
	Occupation string // slug or "all"
	Status     int    // HTTP status, 0 for transport errors
	Cause      error
}

func (e *UpstreamError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("upstream fetch failed (month=%s, region=%s, occupation=%s, status=%d): %v",
			e.Month, e.Region, e.Occupation, e.Status, e.Cause)
	}
	return fmt.Sprintf("upstream fetch failed (month=%s, region=%s, occupation=%s): %v",
		e.Month, e.Region, e.Occupation, e.Cause)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}

// NewUpstreamError creates an UpstreamError.
func NewUpstreamError(month, region, occupation string, status int, cause error) *UpstreamError {
	return &UpstreamError{
		Month:      month,
		Region:     region,
		Occupation: occupation,
		Status:     status,
		Cause:      cause,
	}
}

// DetectionError represents a failed cutoff detection run. It is always
// swallowed by the cutoff cache and only surfaces in logs.
type DetectionError struct {
	Cause error
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("cutoff detection failed: %v", e.Cause)
}

func (e *DetectionError) Unwrap() error {
	return e.Cause
}

// NewDetectionError creates a DetectionError.
func NewDetectionError(cause error) *DetectionError {
	return &DetectionError{Cause: cause}
}
