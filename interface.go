// FILE: interface.go
package logsink

import (
	"fmt"
	"runtime/debug"

	"github.com/lixenwraith/logsink/formatter"
)

// Info emits an Info record built from args
func (h *Hub) Info(args ...any) {
	h.Emit(SeverityInfo, formatter.FormatArgs(args...), "")
}

// Warning emits a Warning record built from args
func (h *Hub) Warning(args ...any) {
	h.Emit(SeverityWarning, formatter.FormatArgs(args...), "")
}

// Error emits an Error record whose context is the caller trace
func (h *Hub) Error(args ...any) {
	h.Emit(SeverityError, formatter.FormatArgs(args...), getTrace(h.getTraceDepth(), 2))
}

// ErrorTrace emits an Error record whose context is a caller trace of the given depth
func (h *Hub) ErrorTrace(depth int, args ...any) {
	h.Emit(SeverityError, formatter.FormatArgs(args...), getTrace(depth, 2))
}

// Exception emits an Exception record for err with the current goroutine stack as context
func (h *Hub) Exception(err error) {
	if err == nil {
		return
	}
	h.Emit(SeverityException, err.Error(), string(debug.Stack()))
}

// Infof emits a formatted Info record
func (h *Hub) Infof(format string, args ...any) {
	h.Emit(SeverityInfo, fmt.Sprintf(format, args...), "")
}

// Warningf emits a formatted Warning record
func (h *Hub) Warningf(format string, args ...any) {
	h.Emit(SeverityWarning, fmt.Sprintf(format, args...), "")
}

// Errorf emits a formatted Error record whose context is the caller trace
func (h *Hub) Errorf(format string, args ...any) {
	h.Emit(SeverityError, fmt.Sprintf(format, args...), getTrace(h.getTraceDepth(), 2))
}

// ErrorWithContext emits an Error record with caller-supplied context
func (h *Hub) ErrorWithContext(message, context string) {
	h.Emit(SeverityError, message, context)
}
