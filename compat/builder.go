package compat

import (
	"fmt"
	"log/slog"

	"github.com/lixenwraith/logsink"
)

// Builder provides a flexible way to create adapters feeding one hub.
// It can use an existing *logsink.Hub or create a hub with a started engine
// from a *logsink.Config.
type Builder struct {
	hub    *logsink.Hub
	engine *logsink.Engine
	cfg    *logsink.Config
	opts   []logsink.Option
	err    error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithHub specifies an existing hub for the adapters.
// If this is set WithConfig is ignored.
func (b *Builder) WithHub(h *logsink.Hub) *Builder {
	if h == nil {
		b.err = fmt.Errorf("logsink/compat: provided hub cannot be nil")
		return b
	}
	b.hub = h
	return b
}

// WithConfig provides a configuration for a new engine capturing the hub.
// If neither WithHub nor WithConfig is used, the default configuration is used.
func (b *Builder) WithConfig(cfg *logsink.Config, opts ...logsink.Option) *Builder {
	b.cfg = cfg
	b.opts = opts
	return b
}

// getHub resolves the hub to be used, creating and starting an engine if necessary
func (b *Builder) getHub() (*logsink.Hub, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.hub != nil {
		return b.hub, nil
	}

	cfg := b.cfg
	if cfg == nil {
		cfg = logsink.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	h := logsink.NewHub()
	e := logsink.NewEngine(logsink.NewStaticProvider(cfg), h, b.opts...)
	if err := e.Init(); err != nil {
		return nil, err
	}

	// Cache for subsequent builds with this builder
	b.hub = h
	b.engine = e
	return h, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	h, err := b.getHub()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(h, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	h, err := b.getHub()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(h, opts...), nil
}

// BuildSlog creates a *slog.Logger backed by the hub
func (b *Builder) BuildSlog(level slog.Leveler) (*slog.Logger, error) {
	h, err := b.getHub()
	if err != nil {
		return nil, err
	}
	return slog.New(NewSlogHandler(h, level)), nil
}

// GetHub returns the hub the adapters emit into
func (b *Builder) GetHub() (*logsink.Hub, error) {
	return b.getHub()
}

// Engine returns the engine created from WithConfig, or nil when a hub was supplied.
// The caller owns its Shutdown.
func (b *Builder) Engine() *logsink.Engine {
	return b.engine
}

// --- Example Usage ---
//
//	hub := logsink.NewHub()
//	engine, _ := logsink.NewBuilder().Directory("/var/log/app").Source(hub).Build()
//	_ = engine.Init()
//	defer engine.Shutdown()
//
//	builder := compat.NewBuilder().WithHub(hub)
//	gnetLogger, _ := builder.BuildGnet()
//	fasthttpLogger, _ := builder.BuildFastHTTP()
//
//	go gnet.Run(events, "tcp://:9000", gnet.WithLogger(gnetLogger))
//
//	server := &fasthttp.Server{Handler: handler, Logger: fasthttpLogger}
//	go server.ListenAndServe(":8080")
