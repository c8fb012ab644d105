// FILE: lixenwraith/logsink/builder.go
package logsink

// Builder provides a fluent API for building sink configurations.
// It wraps a Config instance and provides chainable methods for setting values.
type Builder struct {
	cfg    *Config
	source Source
	opts   []Option
	err    error // Accumulate errors for deferred handling
}

// NewBuilder creates a new configuration builder with default values.
func NewBuilder() *Builder {
	return &Builder{
		cfg: DefaultConfig(),
	}
}

// Build validates the configuration and creates an unstarted Engine serving it.
func (b *Builder) Build() (*Engine, error) {
	if b.err != nil {
		return nil, b.err
	}
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}
	return NewEngine(NewStaticProvider(b.cfg), b.source, b.opts...), nil
}

// Config returns a copy of the configuration built so far.
func (b *Builder) Config() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.cfg.Clone(), nil
}

// Source sets the record source the engine subscribes to.
func (b *Builder) Source(src Source) *Builder {
	b.source = src
	return b
}

// Options appends engine options.
func (b *Builder) Options(opts ...Option) *Builder {
	b.opts = append(b.opts, opts...)
	return b
}

// Directory sets the export directory.
func (b *Builder) Directory(dir string) *Builder {
	b.cfg.ExportDirectory = dir
	return b
}

// Naming sets the naming mode.
func (b *Builder) Naming(mode NamingMode) *Builder {
	b.cfg.NamingMode = mode.String()
	return b
}

// NamingString sets the naming mode from a string.
func (b *Builder) NamingString(mode string) *Builder {
	if b.err != nil {
		return b
	}
	m, err := ParseNamingMode(mode)
	if err != nil {
		b.err = err
		return b
	}
	b.cfg.NamingMode = m.String()
	return b
}

// FilePrefix sets the file name stem.
func (b *Builder) FilePrefix(prefix string) *Builder {
	b.cfg.FilePrefix = prefix
	return b
}

// Extension sets the file extension, without a leading dot.
func (b *Builder) Extension(ext string) *Builder {
	b.cfg.Extension = ext
	return b
}

// Capture enables or disables a severity.
func (b *Builder) Capture(severity Severity, enabled bool) *Builder {
	switch severity {
	case SeverityInfo:
		b.cfg.LogInfo = enabled
	case SeverityWarning:
		b.cfg.LogWarning = enabled
	case SeverityError:
		b.cfg.LogError = enabled
	case SeverityException:
		b.cfg.LogException = enabled
	}
	return b
}

// SizeRotation enables rotation at maxBytes.
func (b *Builder) SizeRotation(enabled bool, maxBytes int64) *Builder {
	b.cfg.EnableSizeRotation = enabled
	b.cfg.MaxFileSizeBytes = maxBytes
	return b
}

// MaxFileSizeKB sets the rotation threshold in KB. Convenience.
func (b *Builder) MaxFileSizeKB(size int64) *Builder {
	b.cfg.MaxFileSizeBytes = size * sizeMultiplier
	return b
}

// IncludeHeader toggles the header block.
func (b *Builder) IncludeHeader(include bool) *Builder {
	b.cfg.IncludeHeader = include
	return b
}

// Product sets the name and version shown in the header.
func (b *Builder) Product(name, version string) *Builder {
	b.cfg.ProductName = name
	b.cfg.ProductVersion = version
	return b
}

// Console mirrors captured lines to the console.
func (b *Builder) Console(enable bool) *Builder {
	b.cfg.AlsoPrintToConsole = enable
	return b
}

// DiagnosticFile sends the sink's own failures to a rotating file instead of stderr.
func (b *Builder) DiagnosticFile(path string) *Builder {
	b.cfg.DiagnosticFile = path
	return b
}

// Example usage:
// engine, err := logsink.NewBuilder().
//
//	Directory("/var/log/app").
//	Naming(logsink.NamingByCount).
//	SizeRotation(true, 1<<20).
//	Source(hub).
//	Build()
//
// if err == nil {
//
//	 _ = engine.Init()
//	 defer engine.Shutdown()
//
// }
