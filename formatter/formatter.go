// FILE: lixenwraith/logsink/formatter/formatter.go
// Package formatter renders capture lines and the session marker lines
// written around them.
package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/davecgh/go-spew/spew"
)

// Layouts used in output
const (
	RecordTimeLayout = "15:04:05"
	MarkerTimeLayout = "2006/01/02 15:04:05"
)

// DefaultTag prefixes every marker line written by the sink itself
const DefaultTag = "[logsink]"

// dumper renders values without a cheaper textual form
var dumper = &spew.ConfigState{
	Indent:                  " ",
	MaxDepth:                10,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Formatter builds record and marker lines. It holds no mutable state after
// configuration and is safe for concurrent use.
type Formatter struct {
	timeLayout   string
	markerLayout string
	tag          string
}

// New creates a formatter with the default layouts and tag
func New() *Formatter {
	return &Formatter{
		timeLayout:   RecordTimeLayout,
		markerLayout: MarkerTimeLayout,
		tag:          DefaultTag,
	}
}

// TimestampFormat sets the layout for record timestamps
func (f *Formatter) TimestampFormat(layout string) *Formatter {
	if layout != "" {
		f.timeLayout = layout
	}
	return f
}

// Tag sets the prefix used on marker lines
func (f *Formatter) Tag(tag string) *Formatter {
	if tag != "" {
		f.tag = tag
	}
	return f
}

// Record formats "[HH:MM:SS] [Severity] message", followed by context on the
// next line when context is non-empty. The result carries no trailing newline.
func (f *Formatter) Record(timestamp time.Time, severity, message, context string) []byte {
	buf := make([]byte, 0, len(message)+len(context)+len(severity)+16)
	buf = append(buf, '[')
	buf = timestamp.AppendFormat(buf, f.timeLayout)
	buf = append(buf, "] ["...)
	buf = append(buf, severity...)
	buf = append(buf, "] "...)
	buf = append(buf, message...)
	if context != "" {
		buf = append(buf, '\n')
		buf = append(buf, strings.TrimRight(context, "\r\n")...)
	}
	return buf
}

// Marker formats "<tag> <label> <timestamp>", e.g. "[logsink] Rotated at 2024/01/01 12:00:00"
func (f *Formatter) Marker(label string, timestamp time.Time) string {
	return f.tag + " " + label + " " + timestamp.Format(f.markerLayout)
}

// Field formats "<tag> <text>"
func (f *Formatter) Field(text string) string {
	return f.tag + " " + text
}

// Header builds the header block written when a file is opened
func (f *Formatter) Header(started time.Time, path string, info ...string) string {
	var sb strings.Builder
	sb.WriteString(f.Marker("Started at", started))
	sb.WriteByte('\n')
	sb.WriteString(f.Field("Path: " + path))
	if len(info) > 0 {
		sb.WriteByte('\n')
		sb.WriteString(f.Field(strings.Join(info, " ")))
	}
	return sb.String()
}

// Trailer builds the line written on clean shutdown, preceded by a blank line
func (f *Formatter) Trailer(ended time.Time) string {
	return "\n" + f.Marker("Ended at", ended)
}

// FormatArgs formats multiple arguments as space-separated values
func FormatArgs(args ...any) string {
	buf := make([]byte, 0, 64)
	for i, arg := range args {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = appendValue(buf, arg)
	}
	return string(buf)
}

// appendValue provides unified type conversion
func appendValue(buf []byte, v any) []byte {
	switch val := v.(type) {
	case string:
		return append(buf, val...)
	case []byte:
		return append(buf, val...)
	case rune:
		return utf8.AppendRune(buf, val)
	case int:
		return strconv.AppendInt(buf, int64(val), 10)
	case int64:
		return strconv.AppendInt(buf, val, 10)
	case uint:
		return strconv.AppendUint(buf, uint64(val), 10)
	case uint64:
		return strconv.AppendUint(buf, val, 10)
	case float32:
		return strconv.AppendFloat(buf, float64(val), 'f', -1, 32)
	case float64:
		return strconv.AppendFloat(buf, val, 'f', -1, 64)
	case bool:
		return strconv.AppendBool(buf, val)
	case nil:
		return append(buf, "nil"...)
	case time.Time:
		return val.AppendFormat(buf, time.RFC3339)
	case error:
		return append(buf, val.Error()...)
	case fmt.Stringer:
		return append(buf, val.String()...)
	default:
		return append(buf, dumper.Sprintf("%+v", val)...)
	}
}
