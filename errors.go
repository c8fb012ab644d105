package logsink

import (
	"errors"
)

// Failure kinds reported by the sink. Match with errors.Is.
var (
	ErrConfigMissing        = errors.New("configuration missing")
	ErrInvalidConfig        = errors.New("invalid configuration")
	ErrDirectoryUnavailable = errors.New("directory unavailable")
	ErrOpenFailed           = errors.New("open failed")
	ErrWriteFailed          = errors.New("write failed")
	ErrRenameFailed         = errors.New("rename failed")
	ErrNotOpen              = errors.New("writer not open")
)

// errorKind returns the short name of the sentinel wrapped by err
func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrConfigMissing):
		return "config-missing"
	case errors.Is(err, ErrInvalidConfig):
		return "invalid-config"
	case errors.Is(err, ErrDirectoryUnavailable):
		return "directory-unavailable"
	case errors.Is(err, ErrOpenFailed):
		return "open-failed"
	case errors.Is(err, ErrWriteFailed):
		return "write-failed"
	case errors.Is(err, ErrRenameFailed):
		return "rename-failed"
	case errors.Is(err, ErrNotOpen):
		return "not-open"
	default:
		return "error"
	}
}
