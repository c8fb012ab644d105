// FILE: lixenwraith/logsink/type.go
package logsink

import (
	"strconv"
	"strings"
)

// Severity classifies a captured record
type Severity int

// String returns the name written inside the record's second bracket
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "Info"
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	case SeverityException:
		return "Exception"
	default:
		return "Severity(" + strconv.Itoa(int(s)) + ")"
	}
}

// carriesContext reports whether records of this severity write their context line
func (s Severity) carriesContext() bool {
	return s == SeverityError || s == SeverityException
}

// ParseSeverity converts a severity name to its constant
func ParseSeverity(name string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "info", "log":
		return SeverityInfo, nil
	case "warning", "warn":
		return SeverityWarning, nil
	case "error":
		return SeverityError, nil
	case "exception":
		return SeverityException, nil
	default:
		return 0, fmtErrorf("invalid severity: '%s' (use info, warning, error, exception)", name)
	}
}

// NamingMode selects how the active file name is derived
type NamingMode int

// String returns the configuration value for the mode
func (m NamingMode) String() string {
	switch m {
	case NamingByDate:
		return "date"
	case NamingByCount:
		return "count"
	default:
		return "NamingMode(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseNamingMode converts a configuration value to its constant
func ParseNamingMode(name string) (NamingMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "date", "bydate":
		return NamingByDate, nil
	case "count", "bycount":
		return NamingByCount, nil
	default:
		return 0, fmtErrorf("invalid naming mode: '%s' (use date or count)", name)
	}
}

// State is the capture engine's lifecycle state
type State int32

// String returns the state name
func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "State(" + strconv.Itoa(int(s)) + ")"
	}
}

// Signal is a host lifecycle notification
type Signal int

// String returns the signal name
func (s Signal) String() string {
	switch s {
	case SignalStart:
		return "start"
	case SignalStop:
		return "stop"
	case SignalQuitting:
		return "quitting"
	case SignalBeforeReload:
		return "before-reload"
	case SignalAfterReload:
		return "after-reload"
	default:
		return "Signal(" + strconv.Itoa(int(s)) + ")"
	}
}

// Listener receives records from a Source
type Listener func(severity Severity, message, context string)

// Source is the host's stream of log records
type Source interface {
	// Subscribe registers fn and returns a function that removes it.
	// The returned function is safe to call more than once.
	Subscribe(fn Listener) (unsubscribe func())
}
