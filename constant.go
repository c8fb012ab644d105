// FILE: lixenwraith/logsink/constant.go
package logsink

import (
	"time"
)

// Severity constants
const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityException
)

// Naming mode constants
const (
	NamingByDate NamingMode = iota
	NamingByCount
)

// Engine states
const (
	StateUnstarted State = iota
	StateInitializing
	StateRunning
	StateStopped
)

// Lifecycle signals
const (
	SignalStart Signal = iota
	SignalStop
	SignalQuitting
	SignalBeforeReload
	SignalAfterReload
)

// Storage
const (
	// Default rotation threshold
	defaultMaxFileSizeBytes int64 = 1024 * 1024
	// Size multiplier for KB
	sizeMultiplier = 1024
	// Layout used for ByDate file names
	dateNameLayout = "20060102"
	// Directory name appended to platform base directories
	logsDirName = "Logs"
	// File permissions
	fileMode = 0644
	dirMode  = 0755
)

// Timers
const (
	// Debounce window for configuration file changes
	defaultWatchDebounce = 200 * time.Millisecond
)

// Sources
const (
	// Callers recorded as context by Hub.Error
	defaultTraceDepth = 3
)
