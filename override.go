// FILE: override.go
package logsink

import (
	"fmt"
	"strconv"
	"strings"
)

// ApplyOverride applies string key-value overrides to the configuration.
// Each override should be in the format "key=value". The receiver is left
// untouched when any override fails.
//
// Example:
//
//	cfg := logsink.DefaultConfig()
//	err := cfg.ApplyOverride(
//	    "export_directory=/var/log/app",
//	    "naming_mode=count",
//	    "enable_size_rotation=true",
//	)
func (c *Config) ApplyOverride(overrides ...string) error {
	cfg := c.Clone()

	var errors []error

	for _, override := range overrides {
		key, value, err := parseKeyValue(override)
		if err != nil {
			errors = append(errors, err)
			continue
		}

		if err := applyConfigField(cfg, key, value); err != nil {
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return combineConfigErrors(errors)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	*c = *cfg
	return nil
}

// combineConfigErrors combines multiple configuration errors into a single error.
func combineConfigErrors(errors []error) error {
	if len(errors) == 0 {
		return nil
	}
	if len(errors) == 1 {
		return errors[0]
	}

	var sb strings.Builder
	sb.WriteString("logsink: multiple configuration errors:")
	for i, err := range errors {
		errMsg := strings.TrimPrefix(err.Error(), "logsink: ")
		sb.WriteString(fmt.Sprintf("\n  %d. %s", i+1, errMsg))
	}
	return fmt.Errorf("%s", sb.String())
}

// applyConfigField applies a single key-value override to a Config.
func applyConfigField(cfg *Config, key, value string) error {
	switch key {
	// Destination
	case "export_directory":
		cfg.ExportDirectory = value
	case "naming_mode":
		mode, err := ParseNamingMode(value)
		if err != nil {
			return err
		}
		cfg.NamingMode = mode.String()
	case "file_prefix":
		cfg.FilePrefix = value
	case "extension":
		cfg.Extension = value

	// Severity filters
	case "log_info", "log_warning", "log_error", "log_exception",
		"enable_size_rotation", "include_header", "also_print_to_console":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmtErrorf("invalid boolean value for %s '%s': %w", key, value, err)
		}
		setBoolField(cfg, key, boolVal)

	// Rotation
	case "max_file_size_bytes":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for max_file_size_bytes '%s': %w", value, err)
		}
		cfg.MaxFileSizeBytes = intVal
	case "max_file_size_kb":
		intVal, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmtErrorf("invalid integer value for max_file_size_kb '%s': %w", value, err)
		}
		cfg.MaxFileSizeBytes = intVal * sizeMultiplier

	// Header
	case "product_name":
		cfg.ProductName = value
	case "product_version":
		cfg.ProductVersion = value

	// Diagnostics
	case "diagnostic_file":
		cfg.DiagnosticFile = value

	default:
		return fmtErrorf("unknown configuration key '%s'", key)
	}

	return nil
}

// setBoolField maps boolean keys to their fields
func setBoolField(cfg *Config, key string, v bool) {
	switch key {
	case "log_info":
		cfg.LogInfo = v
	case "log_warning":
		cfg.LogWarning = v
	case "log_error":
		cfg.LogError = v
	case "log_exception":
		cfg.LogException = v
	case "enable_size_rotation":
		cfg.EnableSizeRotation = v
	case "include_header":
		cfg.IncludeHeader = v
	case "also_print_to_console":
		cfg.AlsoPrintToConsole = v
	}
}
