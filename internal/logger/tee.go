package logger

import (
	"context"
	"log/slog"
)

// teeHandler writes every record to the local JSON handler and ships a copy
// to the remote ingest handler. The local side is authoritative: it gates
// Enabled and its error is the one reported. Shipping failures are dropped
// so an unreachable ingest endpoint cannot break local logging.
type teeHandler struct {
	local  slog.Handler
	remote slog.Handler
}

func newTeeHandler(local, remote slog.Handler) slog.Handler {
	if remote == nil {
		return local
	}
	return &teeHandler{local: local, remote: remote}
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.local.Enabled(ctx, level)
}

func (h *teeHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.remote.Enabled(ctx, r.Level) {
		// Records are single-use; the remote side gets its own copy.
		_ = h.remote.Handle(ctx, r.Clone())
	}
	return h.local.Handle(ctx, r)
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &teeHandler{
		local:  h.local.WithAttrs(attrs),
		remote: h.remote.WithAttrs(attrs),
	}
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	return &teeHandler{
		local:  h.local.WithGroup(name),
		remote: h.remote.WithGroup(name),
	}
}
