package compat

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/lixenwraith/logsink"
)

// SlogHandler is a slog.Handler emitting into a logsink.Hub. Attributes are
// appended to the message as key=value pairs; Error records carry the
// call site as context when the record has one.
type SlogHandler struct {
	hub    *logsink.Hub
	level  slog.Leveler
	attrs  string // Preformatted attributes from WithAttrs
	groups string // Dotted group prefix from WithGroup
}

// NewSlogHandler creates a handler accepting records at or above level.
// A nil level accepts Info and above.
func NewSlogHandler(hub *logsink.Hub, level slog.Leveler) *SlogHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &SlogHandler{hub: hub, level: level}
}

// Enabled reports whether level passes the handler's threshold
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle converts r into a record and emits it
func (h *SlogHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(r.Message)
	sb.WriteString(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&sb, h.groups, a)
		return true
	})

	severity := SeverityForLevel(r.Level)
	callSite := ""
	if severity == logsink.SeverityError && r.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{r.PC})
		f, _ := frames.Next()
		callSite = fmt.Sprintf("%s:%d %s", f.File, f.Line, f.Function)
	}

	h.hub.Emit(severity, sb.String(), callSite)
	return nil
}

// WithAttrs returns a handler that appends attrs to every message
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var sb strings.Builder
	sb.WriteString(h.attrs)
	for _, a := range attrs {
		appendAttr(&sb, h.groups, a)
	}
	clone := *h
	clone.attrs = sb.String()
	return &clone
}

// WithGroup returns a handler that qualifies later attribute keys with name
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = h.groups + name + "."
	return &clone
}

// appendAttr writes " key=value", flattening groups into dotted keys
func appendAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		groupPrefix := prefix
		if a.Key != "" {
			groupPrefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			appendAttr(sb, groupPrefix, ga)
		}
		return
	}
	sb.WriteByte(' ')
	sb.WriteString(prefix)
	sb.WriteString(a.Key)
	sb.WriteByte('=')
	sb.WriteString(a.Value.String())
}

// SeverityForLevel maps a slog level onto the sink's severities
func SeverityForLevel(level slog.Level) logsink.Severity {
	switch {
	case level >= slog.LevelError:
		return logsink.SeverityError
	case level >= slog.LevelWarn:
		return logsink.SeverityWarning
	default:
		return logsink.SeverityInfo
	}
}
