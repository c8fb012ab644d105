// FILE: lixenwraith/logsink/compat/fasthttp.go
package compat

import (
	"fmt"
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/logsink"
)

var _ fasthttp.Logger = (*FastHTTPAdapter)(nil)

// FastHTTPAdapter emits fasthttp server messages into a logsink.Hub
type FastHTTPAdapter struct {
	hub              *logsink.Hub
	severityDetector func(string) logsink.Severity // Function to detect severity from message
}

// NewFastHTTPAdapter creates a new fasthttp-compatible logger adapter
func NewFastHTTPAdapter(hub *logsink.Hub, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		hub:              hub,
		severityDetector: DetectSeverity,
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FastHTTPOption allows customizing adapter behavior
type FastHTTPOption func(*FastHTTPAdapter)

// WithSeverityDetector sets a custom function to detect severity from message content
func WithSeverityDetector(detector func(string) logsink.Severity) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.severityDetector = detector
	}
}

// Printf implements fasthttp's Logger interface
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	severity := logsink.SeverityInfo
	if a.severityDetector != nil {
		severity = a.severityDetector(msg)
	}

	context := ""
	if severity == logsink.SeverityError {
		context = "source=fasthttp"
	}
	a.hub.Emit(severity, msg, context)
}

// DetectSeverity guesses a severity from message content
func DetectSeverity(msg string) logsink.Severity {
	msgLower := strings.ToLower(msg)

	if strings.Contains(msgLower, "panic") ||
		strings.Contains(msgLower, "exception") {
		return logsink.SeverityException
	}

	// Check for error indicators
	if strings.Contains(msgLower, "error") ||
		strings.Contains(msgLower, "failed") ||
		strings.Contains(msgLower, "fatal") {
		return logsink.SeverityError
	}

	// Check for warning indicators
	if strings.Contains(msgLower, "warn") ||
		strings.Contains(msgLower, "deprecated") {
		return logsink.SeverityWarning
	}

	return logsink.SeverityInfo
}
