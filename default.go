// --- File: default.go ---
package logsink

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/lixenwraith/logsink/formatter"
)

// Global instances for package-level functions
var (
	defaultHub = NewHub()

	defaultMu     sync.Mutex
	defaultEngine *Engine
)

// DefaultHub returns the hub fed by the package-level functions
func DefaultHub() *Hub {
	return defaultHub
}

// Init starts a capture engine on the default hub, replacing any previous one
func Init(provider Provider, opts ...Option) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultEngine != nil {
		_ = defaultEngine.Shutdown()
	}
	defaultEngine = NewEngine(provider, defaultHub, opts...)
	return defaultEngine.Init()
}

// InitWithDefaults starts the default engine from built-in defaults and optional overrides
func InitWithDefaults(overrides ...string) error {
	cfg := DefaultConfig()
	if err := cfg.ApplyOverride(overrides...); err != nil {
		return err
	}
	return Init(NewStaticProvider(cfg))
}

// Shutdown stops the default engine
func Shutdown() error {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultEngine == nil {
		return nil
	}
	return defaultEngine.Shutdown()
}

// DefaultEngine returns the engine started by Init, or nil
func DefaultEngine() *Engine {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultEngine
}

// Info emits an Info record on the default hub
func Info(args ...any) {
	defaultHub.Emit(SeverityInfo, formatter.FormatArgs(args...), "")
}

// Warning emits a Warning record on the default hub
func Warning(args ...any) {
	defaultHub.Emit(SeverityWarning, formatter.FormatArgs(args...), "")
}

// Error emits an Error record with the caller trace on the default hub
func Error(args ...any) {
	defaultHub.Emit(SeverityError, formatter.FormatArgs(args...), getTrace(defaultHub.getTraceDepth(), 2))
}

// ErrorTrace emits an Error record with a caller trace of the given depth
func ErrorTrace(depth int, args ...any) {
	defaultHub.Emit(SeverityError, formatter.FormatArgs(args...), getTrace(depth, 2))
}

// Exception emits an Exception record with the goroutine stack on the default hub
func Exception(err error) {
	if err == nil {
		return
	}
	defaultHub.Emit(SeverityException, err.Error(), string(debug.Stack()))
}

// Infof emits a formatted Info record on the default hub
func Infof(format string, args ...any) {
	defaultHub.Emit(SeverityInfo, fmt.Sprintf(format, args...), "")
}

// Warningf emits a formatted Warning record on the default hub
func Warningf(format string, args ...any) {
	defaultHub.Emit(SeverityWarning, fmt.Sprintf(format, args...), "")
}

// Errorf emits a formatted Error record with the caller trace on the default hub
func Errorf(format string, args ...any) {
	defaultHub.Emit(SeverityError, fmt.Sprintf(format, args...), getTrace(defaultHub.getTraceDepth(), 2))
}
