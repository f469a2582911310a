package state

import (
	"context"
	"log/slog"
	"strings"
)

// LogHandler forwards records to next and copies those at or above level
// into the manager's log ring.
type LogHandler struct {
	next  slog.Handler
	m     *Manager
	level slog.Level
	attrs string
}

// Handler wraps next so run logs also appear in GET /api/status
func (m *Manager) Handler(next slog.Handler, level slog.Level) *LogHandler {
	return &LogHandler{next: next, m: m, level: level}
}

func (h *LogHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return l >= h.level || h.next.Enabled(ctx, l)
}

func (h *LogHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.level {
		var b strings.Builder
		b.WriteString(r.Message)
		b.WriteString(h.attrs)
		r.Attrs(func(a slog.Attr) bool {
			writeAttr(&b, a)
			return true
		})
		h.m.AddLog(b.String())
	}
	if h.next.Enabled(ctx, r.Level) {
		return h.next.Handle(ctx, r)
	}
	return nil
}

func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var b strings.Builder
	b.WriteString(h.attrs)
	for _, a := range attrs {
		writeAttr(&b, a)
	}
	return &LogHandler{next: h.next.WithAttrs(attrs), m: h.m, level: h.level, attrs: b.String()}
}

func (h *LogHandler) WithGroup(name string) slog.Handler {
	return &LogHandler{next: h.next.WithGroup(name), m: h.m, level: h.level, attrs: h.attrs}
}

func writeAttr(b *strings.Builder, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	b.WriteByte(' ')
	b.WriteString(a.Key)
	b.WriteByte('=')
	b.WriteString(a.Value.Resolve().String())
}
