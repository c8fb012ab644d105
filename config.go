// FILE: config.go
package logsink

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/lixenwraith/config"
)

// configPrefix is the section holding sink settings in configuration files
const configPrefix = "logsink"

// Config holds all sink configuration values. A Config handed to the engine
// is treated as immutable for the rest of the session.
type Config struct {
	// Destination
	ExportDirectory string `toml:"export_directory"` // Empty selects the platform default
	NamingMode      string `toml:"naming_mode"`      // "date" or "count"
	FilePrefix      string `toml:"file_prefix"`
	Extension       string `toml:"extension"`

	// Severity filters
	LogInfo      bool `toml:"log_info"`
	LogWarning   bool `toml:"log_warning"`
	LogError     bool `toml:"log_error"`
	LogException bool `toml:"log_exception"`

	// Rotation
	EnableSizeRotation bool  `toml:"enable_size_rotation"`
	MaxFileSizeBytes   int64 `toml:"max_file_size_bytes"`

	// Header
	IncludeHeader  bool   `toml:"include_header"`
	ProductName    string `toml:"product_name"`
	ProductVersion string `toml:"product_version"`

	// Console mirror
	AlsoPrintToConsole bool `toml:"also_print_to_console"`

	// Diagnostics
	DiagnosticFile string `toml:"diagnostic_file"` // Empty writes diagnostics to stderr
}

// defaultConfig is the single source for all configurable default values
var defaultConfig = Config{
	ExportDirectory: "",
	NamingMode:      "date",
	FilePrefix:      "Log",
	Extension:       "txt",

	LogInfo:      true,
	LogWarning:   true,
	LogError:     true,
	LogException: true,

	EnableSizeRotation: false,
	MaxFileSizeBytes:   defaultMaxFileSizeBytes,

	IncludeHeader: true,

	AlsoPrintToConsole: false,
	DiagnosticFile:     "",
}

// DefaultConfig returns a copy of the default configuration
func DefaultConfig() *Config {
	copiedConfig := defaultConfig
	return &copiedConfig
}

// NewConfigFromFile loads configuration from a TOML, YAML or JSON file and
// returns a validated Config. A missing file yields ErrConfigMissing.
func NewConfigFromFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmtErrorf("config file '%s': %w", path, ErrConfigMissing)
		}
		return nil, fmtErrorf("failed to stat config file '%s': %w", path, err)
	}

	cfg := DefaultConfig()

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		err = loadKoanf(path, cfg)
	default:
		err = loadTOML(path, cfg)
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadTOML uses lixenwraith/config to read a TOML file into cfg
func loadTOML(path string, cfg *Config) error {
	loader := config.New()

	if err := loader.RegisterStruct(configPrefix+".", *cfg); err != nil {
		return fmtErrorf("failed to register config struct: %w", err)
	}

	if err := loader.Load(path, nil); err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return fmtErrorf("config file '%s': %w", path, ErrConfigMissing)
		}
		return fmtErrorf("failed to load config from %s: %w", path, err)
	}

	if err := extractConfig(loader, configPrefix+".", cfg); err != nil {
		return fmtErrorf("failed to extract config values: %w", err)
	}
	return nil
}

// loadKoanf reads a YAML or JSON file into cfg, keyed by the same toml tags
func loadKoanf(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmtErrorf("failed to read config file '%s': %w", path, err)
	}

	var parser koanf.Parser
	if strings.EqualFold(filepath.Ext(path), ".json") {
		parser = json.Parser()
	} else {
		parser = yaml.Parser()
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(data), parser); err != nil {
		return fmtErrorf("failed to parse config file '%s': %w", path, err)
	}

	if err := k.UnmarshalWithConf(configPrefix, cfg, koanf.UnmarshalConf{Tag: "toml"}); err != nil {
		return fmtErrorf("failed to decode config file '%s': %w", path, err)
	}
	return nil
}

// NewConfigFromDefaults creates a Config with default values and applies overrides
func NewConfigFromDefaults(overrides map[string]any) (*Config, error) {
	cfg := DefaultConfig()

	if err := applyOverrides(cfg, overrides); err != nil {
		return nil, fmtErrorf("failed to apply overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// extractConfig extracts values from lixenwraith/config into our Config struct
func extractConfig(loader *config.Config, prefix string, cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tomlTag := field.Tag.Get("toml")
		if tomlTag == "" {
			continue
		}

		val, found := loader.Get(prefix + tomlTag)
		if !found {
			continue
		}

		if err := setFieldValue(v.Field(i), val); err != nil {
			return fmt.Errorf("failed to set field %s: %w", field.Name, err)
		}
	}

	return nil
}

// applyOverrides applies a map of overrides to the Config struct
func applyOverrides(cfg *Config, overrides map[string]any) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()

	fieldMap := make(map[string]reflect.Value)
	for i := 0; i < t.NumField(); i++ {
		if tomlTag := t.Field(i).Tag.Get("toml"); tomlTag != "" {
			fieldMap[tomlTag] = v.Field(i)
		}
	}

	for key, value := range overrides {
		fieldValue, exists := fieldMap[key]
		if !exists {
			return fmt.Errorf("unknown config key: %s", key)
		}

		if err := setFieldValue(fieldValue, value); err != nil {
			return fmt.Errorf("failed to set %s: %w", key, err)
		}
	}

	return nil
}

// setFieldValue sets a reflect.Value with proper type conversion
func setFieldValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.String:
		strVal, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", value)
		}
		field.SetString(strVal)

	case reflect.Int64:
		switch v := value.(type) {
		case int64:
			field.SetInt(v)
		case int:
			field.SetInt(int64(v))
		case float64:
			if v != float64(int64(v)) {
				return fmt.Errorf("expected integer, got %v", v)
			}
			field.SetInt(int64(v))
		default:
			return fmt.Errorf("expected int64, got %T", value)
		}

	case reflect.Bool:
		boolVal, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		field.SetBool(boolVal)

	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if _, err := ParseNamingMode(c.NamingMode); err != nil {
		return fmtErrorf("%w: %w", ErrInvalidConfig, err)
	}

	if strings.TrimSpace(c.FilePrefix) == "" {
		return fmtErrorf("%w: file_prefix cannot be empty", ErrInvalidConfig)
	}
	if strings.ContainsAny(c.FilePrefix, `/\`) {
		return fmtErrorf("%w: file_prefix cannot contain path separators: %s", ErrInvalidConfig, c.FilePrefix)
	}

	if strings.HasPrefix(c.Extension, ".") {
		return fmtErrorf("%w: extension should not start with dot: %s", ErrInvalidConfig, c.Extension)
	}
	if strings.ContainsAny(c.Extension, `/\`) {
		return fmtErrorf("%w: extension cannot contain path separators: %s", ErrInvalidConfig, c.Extension)
	}

	if c.EnableSizeRotation && c.MaxFileSizeBytes <= 0 {
		return fmtErrorf("%w: max_file_size_bytes must be positive when rotation is enabled: %d",
			ErrInvalidConfig, c.MaxFileSizeBytes)
	}
	if c.MaxFileSizeBytes < 0 {
		return fmtErrorf("%w: max_file_size_bytes cannot be negative: %d", ErrInvalidConfig, c.MaxFileSizeBytes)
	}

	return nil
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	copiedConfig := *c
	return &copiedConfig
}

// Naming returns the parsed naming mode, falling back to ByDate for invalid values
func (c *Config) Naming() NamingMode {
	mode, err := ParseNamingMode(c.NamingMode)
	if err != nil {
		return NamingByDate
	}
	return mode
}

// severityFilter returns the filter bitmask enabled by the configuration
func (c *Config) severityFilter() uint32 {
	var mask uint32
	if c.LogInfo {
		mask |= severityBit(SeverityInfo)
	}
	if c.LogWarning {
		mask |= severityBit(SeverityWarning)
	}
	if c.LogError {
		mask |= severityBit(SeverityError)
	}
	if c.LogException {
		mask |= severityBit(SeverityException)
	}
	return mask
}

// severityBit maps a severity to its bit in the filter mask
func severityBit(s Severity) uint32 {
	return 1 << uint32(s)
}
