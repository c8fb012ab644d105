// FILE: lixenwraith/logsink/engine.go
package logsink

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/lixenwraith/logsink/formatter"
	"github.com/lixenwraith/logsink/sanitizer"
)

// Engine captures records from a Source into rotating text files.
// Init and Shutdown may be called any number of times in any order.
type Engine struct {
	provider  Provider
	source    Source
	resolver  *Resolver
	formatter *formatter.Formatter
	clock     func() time.Time
	console   io.Writer

	baseReporter  *Reporter
	fixedReporter bool // Set by WithReporter/WithDiagnostics; diagnostic_file is then ignored
	reporter      atomic.Pointer[Reporter]

	initMu      sync.Mutex // Serializes Init and Shutdown
	unsubscribe func()     // Guarded by initMu

	mu             sync.Mutex // Write lock: size check, rotation and append
	writer         *Writer    // Guarded by mu
	rotation       RotationPolicy
	renameReported bool // Reset by a successful rotation
	consoleMirror  bool

	state      atomic.Int32
	filter     atomic.Uint32
	config     atomic.Pointer[Config]
	activePath atomic.Value // string
	sessionID  atomic.Value // string
	stats      counters
}

// Option configures an Engine
type Option func(*Engine)

// WithReporter sets the diagnostic reporter
func WithReporter(r *Reporter) Option {
	return func(e *Engine) {
		if r != nil {
			e.baseReporter = r
			e.fixedReporter = true
		}
	}
}

// WithDiagnostics sends diagnostics to w
func WithDiagnostics(w io.Writer) Option {
	return WithReporter(NewReporter(w))
}

// WithClock sets the time source used for file names and timestamps
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithDefaultDirectory sets the directory used when the configuration leaves it empty
func WithDefaultDirectory(dir string) Option {
	return func(e *Engine) {
		e.resolver.DefaultDir = dir
	}
}

// WithFallbackDirectory sets the directory used when the configured one is unusable
func WithFallbackDirectory(dir string) Option {
	return func(e *Engine) {
		e.resolver.FallbackDir = dir
	}
}

// WithConsole sets the writer for also_print_to_console output
func WithConsole(w io.Writer) Option {
	return func(e *Engine) {
		e.console = w
	}
}

// WithFormatter replaces the line formatter
func WithFormatter(f *formatter.Formatter) Option {
	return func(e *Engine) {
		if f != nil {
			e.formatter = f
		}
	}
}

// NewEngine creates an unstarted engine. source may be nil, in which case
// records are delivered only through OnRecord.
func NewEngine(provider Provider, source Source, opts ...Option) *Engine {
	e := &Engine{
		provider:     provider,
		source:       source,
		formatter:    formatter.New(),
		clock:        time.Now,
		console:      os.Stdout,
		baseReporter: NewReporter(os.Stderr),
	}
	e.resolver = NewResolver(e.report)
	e.activePath.Store("")
	e.sessionID.Store("")

	for _, opt := range opts {
		opt(e)
	}
	e.reporter.Store(e.baseReporter)

	return e
}

// Init loads the configuration, resolves and opens the capture file and
// subscribes to the source. On failure the engine is left Stopped and the
// error is reported once. Init on a running engine is a no-op.
func (e *Engine) Init() error {
	e.initMu.Lock()
	defer e.initMu.Unlock()

	if e.State() == StateRunning {
		return nil
	}
	e.state.Store(int32(StateInitializing))

	// A previous session may have left a handle behind
	if err := e.releaseWriter(""); err != nil {
		e.report(err)
	}

	cfg, err := e.loadConfig()
	if err != nil {
		return e.failInit(err)
	}

	if cfg.DiagnosticFile != "" && !e.fixedReporter {
		e.reporter.Store(NewFileReporter(cfg.DiagnosticFile))
	}

	dir, err := e.resolver.ResolveBaseDirectory(cfg)
	if err != nil {
		return e.failInit(err)
	}

	now := e.clock()
	path := ResolveFileName(dir, cfg, now)
	session := uuid.NewString()

	header := ""
	if cfg.IncludeHeader {
		header = e.header(cfg, now, path, session)
	}

	w, err := OpenWriter(path, header)
	if err != nil {
		return e.failInit(err)
	}

	e.mu.Lock()
	e.writer = w
	e.rotation = NewRotationPolicy(cfg)
	e.renameReported = false
	e.consoleMirror = cfg.AlsoPrintToConsole
	e.mu.Unlock()

	e.config.Store(cfg)
	e.filter.Store(cfg.severityFilter())
	e.activePath.Store(path)
	e.sessionID.Store(session)
	e.stats.sessions.Add(1)

	e.state.Store(int32(StateRunning))

	if e.source != nil {
		e.unsubscribe = e.source.Subscribe(e.OnRecord)
	}
	return nil
}

// loadConfig asks the provider for a validated configuration
func (e *Engine) loadConfig() (*Config, error) {
	if e.provider == nil {
		return nil, fmtErrorf("%w: no provider", ErrConfigMissing)
	}

	cfg, err := e.provider.Load()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmtErrorf("%w: provider returned no configuration", ErrConfigMissing)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// failInit reports err and leaves the engine Stopped. Requires initMu.
func (e *Engine) failInit(err error) error {
	e.report(err)
	e.state.Store(int32(StateStopped))
	e.restoreReporter()
	return err
}

// header builds the block written at the top of a newly opened file
func (e *Engine) header(cfg *Config, now time.Time, path, session string) string {
	line := sanitizer.New().Policy(sanitizer.PolicyLine)

	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}

	info := []string{"Session: " + session}
	if cfg.ProductName != "" {
		info = append(info, "Product: "+line.Sanitize(cfg.ProductName))
	}
	if cfg.ProductVersion != "" {
		info = append(info, "Version: "+line.Sanitize(cfg.ProductVersion))
	}
	info = append(info,
		"Platform: "+runtime.GOOS+"/"+runtime.GOARCH,
		"Host: "+line.Sanitize(host),
		"Runtime: "+runtime.Version(),
	)
	return e.formatter.Header(now, path, info...)
}

// Shutdown stops capture, unsubscribes from the source and closes the file
// with a trailer line. Records arriving after Shutdown begins are dropped.
// Repeated calls are no-ops.
func (e *Engine) Shutdown() error {
	e.initMu.Lock()
	defer e.initMu.Unlock()

	// Publish Stopped before touching the handle so concurrent OnRecord calls back off
	prev := State(e.state.Swap(int32(StateStopped)))

	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}

	trailer := ""
	if prev == StateRunning {
		trailer = e.formatter.Trailer(e.clock())
	}
	err := e.releaseWriter(trailer)
	if err != nil {
		e.report(err)
	}

	e.restoreReporter()
	return err
}

// releaseWriter closes the current writer, if any, under the write lock
func (e *Engine) releaseWriter(trailer string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.writer == nil {
		return nil
	}
	err := e.writer.Close(trailer)
	e.writer = nil
	return err
}

// restoreReporter closes a session diagnostic file and reverts to the base reporter
func (e *Engine) restoreReporter() {
	if current := e.reporter.Swap(e.baseReporter); current != nil && current != e.baseReporter {
		_ = current.Close()
	}
}

// OnRecord captures one record. It is safe for concurrent use, never blocks
// on anything but the write lock and never panics into the caller.
func (e *Engine) OnRecord(severity Severity, message, context string) {
	defer func() {
		if r := recover(); r != nil {
			e.report(fmtErrorf("%w: recovered panic: %v", ErrWriteFailed, r))
		}
	}()

	if e.State() != StateRunning {
		return
	}

	// Filters are read per record so SetFilter applies to the next one
	if e.filter.Load()&severityBit(severity) == 0 {
		e.stats.recordsFiltered.Add(1)
		return
	}

	if !severity.carriesContext() {
		context = ""
	}
	now := e.clock()
	line := string(e.formatter.Record(now, severity.String(), message, context))

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.State() != StateRunning || e.writer == nil {
		e.stats.recordsDropped.Add(1)
		return
	}

	if e.rotation.ShouldRotate(e.writer.Path()) {
		e.rotateLocked(now)
		if e.writer == nil {
			e.stats.recordsDropped.Add(1)
			return
		}
	}

	if err := e.writer.Append(line); err != nil {
		e.stats.writeFailures.Add(1)
		e.report(err)
		return
	}
	e.stats.recordsWritten.Add(1)
	e.stats.bytesWritten.Add(uint64(len(line) + 1))

	if e.consoleMirror && e.console != nil {
		e.mirror(severity, line)
	}
}

// rotateLocked archives the active file. Requires mu.
func (e *Engine) rotateLocked(now time.Time) {
	res := e.rotation.Rotate(e.writer, e.formatter, now)
	e.writer = res.Writer

	if res.CloseErr != nil {
		e.report(res.CloseErr)
	}

	if res.RenameErr != nil {
		e.stats.renameFailures.Add(1)
		// The oversized file is retried on every record; report the condition once
		if !e.renameReported {
			e.renameReported = true
			e.report(res.RenameErr)
		}
	} else {
		e.renameReported = false
		e.stats.rotations.Add(1)
	}

	if res.OpenErr != nil {
		e.report(res.OpenErr)
	}
}

// mirror prints an accepted line to the console, colored by severity
func (e *Engine) mirror(severity Severity, line string) {
	var c *color.Color
	switch severity {
	case SeverityWarning:
		c = color.New(color.FgYellow)
	case SeverityError, SeverityException:
		c = color.New(color.FgRed)
	default:
		_, _ = fmt.Fprintln(e.console, line)
		return
	}
	_, _ = c.Fprintln(e.console, line)
}

// report sends err to the current diagnostic channel, which never reaches the source
func (e *Engine) report(err error) {
	if err == nil {
		return
	}
	e.stats.diagnostics.Add(1)
	e.diag().Report(err)
}

// diag returns the current reporter
func (e *Engine) diag() *Reporter {
	if r := e.reporter.Load(); r != nil {
		return r
	}
	return e.baseReporter
}

// SetFilter enables or disables capture of a severity for the current session
func (e *Engine) SetFilter(severity Severity, enabled bool) {
	bit := severityBit(severity)
	if enabled {
		e.filter.Or(bit)
	} else {
		e.filter.And(^bit)
	}
}

// FilterEnabled reports whether records of severity are currently captured
func (e *Engine) FilterEnabled(severity Severity) bool {
	return e.filter.Load()&severityBit(severity) != 0
}

// State returns the lifecycle state
func (e *Engine) State() State {
	return State(e.state.Load())
}

// ActivePath returns the file currently written, or the last one of a stopped session
func (e *Engine) ActivePath() string {
	return e.activePath.Load().(string)
}

// SessionID returns the identifier written in the current session's header
func (e *Engine) SessionID() string {
	return e.sessionID.Load().(string)
}

// Config returns a copy of the session configuration, or nil before a successful Init
func (e *Engine) Config() *Config {
	cfg := e.config.Load()
	if cfg == nil {
		return nil
	}
	return cfg.Clone()
}
