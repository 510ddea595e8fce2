package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestUnknownFilterValueError(t *testing.T) {
	err := NewUnknownFilterValueError("region", "atlantis")

	msg := err.Error()
	if !strings.Contains(msg, "region") || !strings.Contains(msg, "atlantis") {
		t.Errorf("Expected kind and slug in message, got %q", msg)
	}

	var target *UnknownFilterValueError
	if !errors.As(error(err), &target) {
		t.Error("errors.As should match *UnknownFilterValueError")
	}
	if target.Kind != "region" || target.Slug != "atlantis" {
		t.Errorf("Unexpected fields: %+v", target)
	}
}

func TestUpstreamErrorWithStatus(t *testing.T) {
	cause := errors.New("internal server error")
	err := NewUpstreamError("2024-03", "skane", "all", 500, cause)

	msg := err.Error()
	for _, want := range []string{"2024-03", "skane", "all", "500"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Expected %q in message, got %q", want, msg)
		}
	}

	if !errors.Is(err, cause) {
		t.Error("Unwrap should expose the cause")
	}
}

func TestUpstreamErrorTransport(t *testing.T) {
	err := NewUpstreamError("2024-03", "all", "all", 0, errors.New("connection refused"))

	if strings.Contains(err.Error(), "status=") {
		t.Errorf("Transport errors should not mention a status, got %q", err.Error())
	}
}

func TestDetectionErrorUnwrap(t *testing.T) {
	cause := NewUpstreamError("2024-01", "all", "all", 502, errors.New("bad gateway"))
	err := NewDetectionError(cause)

	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Error("DetectionError should unwrap to the underlying UpstreamError")
	}
	if upstream.Month != "2024-01" {
		t.Errorf("Expected month 2024-01, got %s", upstream.Month)
	}
}
