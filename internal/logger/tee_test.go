package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestTeeHandlerDuplicatesRecords(t *testing.T) {
	var local, remote bytes.Buffer
	h := newTeeHandler(
		slog.NewJSONHandler(&local, nil),
		slog.NewJSONHandler(&remote, nil),
	)
	log := slog.New(h)

	log.Info("hello", "k", "v")

	if !strings.Contains(local.String(), "hello") {
		t.Errorf("Expected record locally, got %q", local.String())
	}
	if !strings.Contains(remote.String(), "hello") || !strings.Contains(remote.String(), `"k"`) {
		t.Errorf("Expected full record remotely, got %q", remote.String())
	}
}

func TestTeeHandlerLocalLevelGates(t *testing.T) {
	var local, remote bytes.Buffer
	h := newTeeHandler(
		slog.NewJSONHandler(&local, &slog.HandlerOptions{Level: slog.LevelError}),
		slog.NewJSONHandler(&remote, nil),
	)

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Expected the local handler's level to gate the tee")
	}

	slog.New(h).Info("dropped")
	if local.Len() != 0 || remote.Len() != 0 {
		t.Errorf("Expected no output, got local=%q remote=%q", local.String(), remote.String())
	}
}

func TestTeeHandlerSkipsDisabledRemote(t *testing.T) {
	var local, remote bytes.Buffer
	h := newTeeHandler(
		slog.NewJSONHandler(&local, nil),
		slog.NewJSONHandler(&remote, &slog.HandlerOptions{Level: slog.LevelError}),
	)

	slog.New(h).Info("local only")

	if local.Len() == 0 {
		t.Error("Expected record locally")
	}
	if remote.Len() != 0 {
		t.Errorf("Expected error-level remote to skip info record, got %q", remote.String())
	}
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error {
	return errors.New("ingest unreachable")
}

func TestTeeHandlerShippingFailureIsDropped(t *testing.T) {
	var local bytes.Buffer
	h := newTeeHandler(
		slog.NewJSONHandler(&local, nil),
		failingHandler{slog.NewJSONHandler(&bytes.Buffer{}, nil)},
	)

	rec := slog.NewRecord(time.Now(), slog.LevelInfo, "still logged", 0)
	if err := h.Handle(context.Background(), rec); err != nil {
		t.Errorf("Shipping failure must not surface, got %v", err)
	}
	if !strings.Contains(local.String(), "still logged") {
		t.Errorf("Expected local write to succeed, got %q", local.String())
	}
}

func TestTeeHandlerNilRemoteFallsBackToLocal(t *testing.T) {
	var local bytes.Buffer
	json := slog.NewJSONHandler(&local, nil)

	h := newTeeHandler(json, nil)
	if h != slog.Handler(json) {
		t.Error("Expected the local handler back when no remote is configured")
	}
}

func TestTeeHandlerWithAttrsAppliesToBothSides(t *testing.T) {
	var local, remote bytes.Buffer
	h := newTeeHandler(
		slog.NewJSONHandler(&local, nil),
		slog.NewJSONHandler(&remote, nil),
	)

	slog.New(h).With("module", "test").Info("attributed")

	for name, buf := range map[string]*bytes.Buffer{"local": &local, "remote": &remote} {
		if !strings.Contains(buf.String(), `"module":"test"`) {
			t.Errorf("Expected attribute on %s side, got %q", name, buf.String())
		}
	}
}
