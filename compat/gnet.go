// FILE: lixenwraith/logsink/compat/gnet.go
package compat

import (
	"fmt"
	"os"

	"github.com/panjf2000/gnet/v2/pkg/logging"

	"github.com/lixenwraith/logsink"
)

var _ logging.Logger = (*GnetAdapter)(nil)

// GnetAdapter emits gnet's internal logging into a logsink.Hub
type GnetAdapter struct {
	hub          *logsink.Hub
	debug        bool             // Debugf is forwarded as Info when set
	fatalHandler func(msg string) // Customizable fatal behavior
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(hub *logsink.Hub, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		hub: hub,
		fatalHandler: func(msg string) {
			os.Exit(1) // Default behavior matches gnet expectations
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// WithDebug forwards gnet debug messages as Info records
func WithDebug(enabled bool) GnetOption {
	return func(a *GnetAdapter) {
		a.debug = enabled
	}
}

// Debugf is dropped unless WithDebug is set; there is no Debug severity
func (a *GnetAdapter) Debugf(format string, args ...any) {
	if !a.debug {
		return
	}
	a.hub.Emit(logsink.SeverityInfo, "gnet: "+fmt.Sprintf(format, args...), "")
}

// Infof emits an Info record
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.hub.Emit(logsink.SeverityInfo, "gnet: "+fmt.Sprintf(format, args...), "")
}

// Warnf emits a Warning record
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.hub.Emit(logsink.SeverityWarning, "gnet: "+fmt.Sprintf(format, args...), "")
}

// Errorf emits an Error record
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.hub.Emit(logsink.SeverityError, "gnet: "+fmt.Sprintf(format, args...), "source=gnet")
}

// Fatalf emits an Exception record and triggers the fatal handler.
// Delivery is synchronous, so the record is on disk before the handler runs.
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.hub.Emit(logsink.SeverityException, "gnet: "+msg, "source=gnet fatal=true")

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}
