// FILE: writer.go
package logsink

import (
	"os"
	"sync"
)

// Writer owns the single handle to the active capture file. Every append is
// flushed to the OS before returning.
type Writer struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// OpenWriter opens path for appending, creating it if absent, and writes
// header (when non-empty) as the first lines. Existing content is never truncated.
func OpenWriter(path, header string) (*Writer, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, fileMode)
	if err != nil {
		return nil, fmtErrorf("%w: '%s': %w", ErrOpenFailed, path, err)
	}

	w := &Writer{path: path, file: file}

	if header != "" {
		if err := w.Append(header); err != nil {
			_ = file.Close()
			return nil, fmtErrorf("%w: header for '%s': %w", ErrOpenFailed, path, err)
		}
	}
	return w, nil
}

// Append writes line followed by a newline and syncs the file
func (w *Writer) Append(line string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.appendLocked(line)
}

// appendLocked requires w.mu
func (w *Writer) appendLocked(line string) error {
	if w.file == nil {
		return ErrNotOpen
	}

	if _, err := w.file.WriteString(line + "\n"); err != nil {
		return fmtErrorf("%w: '%s': %w", ErrWriteFailed, w.path, err)
	}
	if err := w.file.Sync(); err != nil {
		return fmtErrorf("%w: sync '%s': %w", ErrWriteFailed, w.path, err)
	}
	return nil
}

// Close writes trailer (when non-empty), syncs and releases the handle.
// The handle is released even when the trailer fails. Closing a closed
// writer is a no-op.
func (w *Writer) Close(trailer string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}

	var finalErr error
	if trailer != "" {
		finalErr = w.appendLocked(trailer)
	}
	if err := w.file.Close(); err != nil {
		finalErr = combineErrors(finalErr, fmtErrorf("failed to close '%s': %w", w.path, err))
	}
	w.file = nil
	return finalErr
}

// IsOpen reports whether the writer holds a handle
func (w *Writer) IsOpen() bool {
	if w == nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file != nil
}

// Path returns the file path the writer was opened on
func (w *Writer) Path() string {
	return w.path
}
