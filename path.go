// FILE: path.go
package logsink

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lixenwraith/logsink/sanitizer"
)

// Resolver computes where capture files live
type Resolver struct {
	DefaultDir  string // Used when the configuration leaves the directory empty
	FallbackDir string // Used when the configured or default directory is unusable

	report func(error)
}

// NewResolver creates a resolver with the platform default directories.
// report receives the failure that triggered a fallback and may be nil.
func NewResolver(report func(error)) *Resolver {
	return &Resolver{
		DefaultDir:  defaultDirectory(),
		FallbackDir: fallbackDirectory(),
		report:      report,
	}
}

// defaultDirectory returns "<working directory>/Logs"
func defaultDirectory() string {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return filepath.Join(cwd, logsDirName)
}

// fallbackDirectory returns a per-user writable location
func fallbackDirectory() string {
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, "logsink", logsDirName)
}

// ResolveBaseDirectory returns an existing directory for capture files.
// The configured directory is sanitized and created; on failure the fallback
// directory is used. Both failing yields ErrDirectoryUnavailable.
func (r *Resolver) ResolveBaseDirectory(cfg *Config) (string, error) {
	requested := cfg.ExportDirectory
	if strings.TrimSpace(requested) == "" {
		requested = r.DefaultDir
	}

	dir, err := sanitizeDirectory(requested)
	if err == nil {
		if err = ensureDirectory(dir); err == nil {
			return dir, nil
		}
	}

	if r.report != nil {
		r.report(fmtErrorf("%w: '%s' unusable, falling back to '%s': %w",
			ErrDirectoryUnavailable, requested, r.FallbackDir, err))
	}

	if fbErr := ensureDirectory(r.FallbackDir); fbErr != nil {
		return "", fmtErrorf("%w: fallback '%s': %w", ErrDirectoryUnavailable, r.FallbackDir, fbErr)
	}
	return r.FallbackDir, nil
}

// sanitizeDirectory replaces characters the host rejects in paths and makes the result absolute
func sanitizeDirectory(dir string) (string, error) {
	cleaned := sanitizer.New().Policy(sanitizer.PolicyPath).Sanitize(strings.TrimSpace(dir))
	if cleaned == "" {
		return "", fmtErrorf("directory is empty after sanitization")
	}

	abs, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmtErrorf("failed to resolve directory '%s': %w", cleaned, err)
	}
	return abs, nil
}

// ensureDirectory creates dir if needed and verifies it is a directory
func ensureDirectory(dir string) error {
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return fmtErrorf("failed to create directory '%s': %w", dir, err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmtErrorf("failed to stat directory '%s': %w", dir, err)
	}
	if !info.IsDir() {
		return fmtErrorf("'%s' is not a directory", dir)
	}
	return nil
}

// ResolveFileName returns the active file path inside baseDir.
// ByDate yields "<prefix>_<yyyyMMdd>.<ext>"; ByCount yields "<prefix>_<n>.<ext>"
// for the lowest n >= 1 not present in baseDir.
func ResolveFileName(baseDir string, cfg *Config, now time.Time) string {
	ext := ""
	if cfg.Extension != "" {
		ext = "." + cfg.Extension
	}

	if cfg.Naming() == NamingByCount {
		for n := 1; ; n++ {
			candidate := filepath.Join(baseDir, cfg.FilePrefix+"_"+strconv.Itoa(n)+ext)
			if !fileExists(candidate) {
				return candidate
			}
		}
	}

	return filepath.Join(baseDir, cfg.FilePrefix+"_"+now.Format(dateNameLayout)+ext)
}

// NextRotatedName returns "<name>_<n><ext>" beside path for the smallest unused n >= 1
func NextRotatedName(path string) string {
	dir, base := filepath.Split(path)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)

	for n := 1; ; n++ {
		candidate := filepath.Join(dir, name+"_"+strconv.Itoa(n)+ext)
		if !fileExists(candidate) {
			return candidate
		}
	}
}

// fileExists reports whether path names an existing entry
func fileExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
