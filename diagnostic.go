package logsink

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Reporter writes the sink's own failures to a channel that never feeds back
// into a Source. Each call produces exactly one line.
type Reporter struct {
	mu      sync.Mutex
	w       io.Writer
	closer  io.Closer
	reports atomic.Uint64
}

// NewReporter creates a reporter writing to w. A nil w selects os.Stderr.
func NewReporter(w io.Writer) *Reporter {
	if w == nil {
		w = os.Stderr
	}
	return &Reporter{w: w}
}

// NewFileReporter creates a reporter backed by a size-capped rotating file
func NewFileReporter(path string) *Reporter {
	lj := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    1, // megabytes
		MaxBackups: 3,
	}
	return &Reporter{w: lj, closer: lj}
}

// Report writes "logsink: <kind>: <err>". Failures of the underlying writer
// are discarded.
func (r *Reporter) Report(err error) {
	if r == nil || err == nil {
		return
	}
	r.internalLog("%s: %v\n", errorKind(err), err)
}

// internalLog writes a formatted diagnostic line
func (r *Reporter) internalLog(format string, args ...any) {
	defer func() {
		_ = recover()
	}()

	r.reports.Add(1)

	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintf(r.w, "logsink: "+format, args...)
}

// Count returns the number of reports written
func (r *Reporter) Count() uint64 {
	if r == nil {
		return 0
	}
	return r.reports.Load()
}

// Close releases the diagnostic file, if any
func (r *Reporter) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closer.Close()
}
