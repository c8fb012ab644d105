package logsink

import (
	"os"
	"time"

	"github.com/lixenwraith/logsink/formatter"
)

// renameFile is swapped in tests to simulate a locked file
var renameFile = os.Rename

// RotationPolicy decides when the active file is archived
type RotationPolicy struct {
	Enabled  bool
	MaxBytes int64
}

// NewRotationPolicy derives the policy from the configuration
func NewRotationPolicy(cfg *Config) RotationPolicy {
	return RotationPolicy{
		Enabled:  cfg.EnableSizeRotation,
		MaxBytes: cfg.MaxFileSizeBytes,
	}
}

// ShouldRotate stats path and reports whether its size reached MaxBytes.
// A file that cannot be stat'ed is not rotated.
func (p RotationPolicy) ShouldRotate(path string) bool {
	if !p.Enabled || p.MaxBytes <= 0 {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Size() >= p.MaxBytes
}

// RotationResult is the outcome of Rotate
type RotationResult struct {
	Writer    *Writer // nil when the reopen failed
	Archive   string  // empty when the rename failed
	CloseErr  error
	RenameErr error
	OpenErr   error
}

// Rotate closes w without a trailer, renames its file to the next free
// "<name>_<n><ext>" and reopens the original path with a marker line.
// A failed rename leaves the file in place and it is reopened unmarked.
func (p RotationPolicy) Rotate(w *Writer, f *formatter.Formatter, now time.Time) RotationResult {
	path := w.Path()
	var result RotationResult

	// Handle is released even on error
	result.CloseErr = w.Close("")

	archive := NextRotatedName(path)
	if err := renameFile(path, archive); err != nil {
		result.RenameErr = fmtErrorf("%w: '%s' -> '%s': %w", ErrRenameFailed, path, archive, err)
	} else {
		result.Archive = archive
	}

	// The marker only goes into a file that was actually rotated
	marker := ""
	if result.Archive != "" {
		marker = f.Marker("Rotated at", now)
	}
	nw, err := OpenWriter(path, marker)
	if err != nil {
		result.OpenErr = err
		return result
	}
	result.Writer = nw
	return result
}
