package logsink

import (
	"sync/atomic"
)

// Provider supplies the configuration for a capture session.
// Returning (nil, nil) means no configuration exists.
type Provider interface {
	Load() (*Config, error)
}

// ProviderFunc adapts a function to Provider
type ProviderFunc func() (*Config, error)

// Load calls f
func (f ProviderFunc) Load() (*Config, error) {
	return f()
}

// StaticProvider serves a configuration held in memory. It may be replaced
// between sessions with Set.
type StaticProvider struct {
	cfg atomic.Pointer[Config]
}

// NewStaticProvider creates a provider serving cfg. A nil cfg reports no configuration.
func NewStaticProvider(cfg *Config) *StaticProvider {
	p := &StaticProvider{}
	p.Set(cfg)
	return p
}

// Set replaces the configuration returned by later Load calls
func (p *StaticProvider) Set(cfg *Config) {
	if cfg != nil {
		cfg = cfg.Clone()
	}
	p.cfg.Store(cfg)
}

// Load returns a copy of the held configuration
func (p *StaticProvider) Load() (*Config, error) {
	cfg := p.cfg.Load()
	if cfg == nil {
		return nil, nil
	}
	return cfg.Clone(), nil
}

// FileProvider reads the configuration file on every Load, so a reload
// picks up edits made since the previous session.
type FileProvider struct {
	Path      string
	Overrides []string // "key=value" applied after the file is read
}

// NewFileProvider creates a provider reading path
func NewFileProvider(path string, overrides ...string) *FileProvider {
	return &FileProvider{Path: path, Overrides: overrides}
}

// Load reads and validates the file
func (p *FileProvider) Load() (*Config, error) {
	cfg, err := NewConfigFromFile(p.Path)
	if err != nil {
		return nil, err
	}
	if len(p.Overrides) > 0 {
		if err := cfg.ApplyOverride(p.Overrides...); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
