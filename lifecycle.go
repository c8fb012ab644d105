package logsink

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
)

// Controller translates host lifecycle signals into engine Init and Shutdown calls
type Controller struct {
	engine *Engine

	mu          sync.Mutex
	hostRunning bool // Between Start and Stop/Quitting
}

// NewController creates a controller driving engine
func NewController(engine *Engine) *Controller {
	return &Controller{engine: engine}
}

// Handle applies one lifecycle signal. Redundant or out-of-order signals are
// absorbed by the engine's idempotent Init and Shutdown.
func (c *Controller) Handle(sig Signal) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch sig {
	case SignalStart:
		c.hostRunning = true
		return c.engine.Init()
	case SignalStop, SignalQuitting:
		c.hostRunning = false
		return c.engine.Shutdown()
	case SignalBeforeReload:
		return c.engine.Shutdown()
	case SignalAfterReload:
		// A reload while the host is not running must not start capture
		if !c.hostRunning {
			return nil
		}
		return c.engine.Init()
	default:
		return fmtErrorf("unknown lifecycle signal: %v", sig)
	}
}

// Reload runs a before-reload/after-reload pair
func (c *Controller) Reload() error {
	err := c.Handle(SignalBeforeReload)
	return combineErrors(err, c.Handle(SignalAfterReload))
}

// HostRunning reports whether a start signal is in effect
func (c *Controller) HostRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hostRunning
}

// runOptions holds Run settings
type runOptions struct {
	reloadSignals []os.Signal
	quitSignals   []os.Signal
	watchPath     string
	debounce      time.Duration
	sigChan       <-chan os.Signal
}

// RunOption configures Controller.Run
type RunOption func(*runOptions)

// WithReloadSignals sets the OS signals that trigger a reload
func WithReloadSignals(sigs ...os.Signal) RunOption {
	return func(o *runOptions) {
		o.reloadSignals = sigs
	}
}

// WithQuitSignals sets the OS signals that end Run
func WithQuitSignals(sigs ...os.Signal) RunOption {
	return func(o *runOptions) {
		o.quitSignals = sigs
	}
}

// WithConfigWatch reloads whenever the file at path changes
func WithConfigWatch(path string, debounce time.Duration) RunOption {
	return func(o *runOptions) {
		o.watchPath = path
		o.debounce = debounce
	}
}

// withSignalChannel replaces OS signal delivery, for tests
func withSignalChannel(ch <-chan os.Signal) RunOption {
	return func(o *runOptions) {
		o.sigChan = ch
	}
}

// Run sends Start, then reloads on reload signals or configuration changes
// until ctx is done or a quit signal arrives, and finally sends Quitting.
// A failed Init does not end Run; the failure has already been reported.
func (c *Controller) Run(ctx context.Context, opts ...RunOption) error {
	o := &runOptions{
		reloadSignals: []os.Signal{syscall.SIGHUP},
		quitSignals:   []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	}
	for _, opt := range opts {
		opt(o)
	}

	_ = c.Handle(SignalStart)

	sigCh := o.sigChan
	watched := append(append([]os.Signal{}, o.reloadSignals...), o.quitSignals...)
	// Notify with no signals would relay every signal
	if sigCh == nil && len(watched) > 0 {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, watched...)
		defer signal.Stop(ch)
		sigCh = ch
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	reload := make(chan struct{}, 1)
	requestReload := func() {
		select {
		case reload <- struct{}{}:
		default:
		}
	}

	if o.watchPath != "" {
		w, err := WatchConfig(o.watchPath, requestReload, c.engine.report, o.debounce)
		if err != nil {
			c.engine.report(err)
		} else {
			g.Go(func() error { return w.Run(gctx) })
		}
	}

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case sig := <-sigCh:
				if containsSignal(o.reloadSignals, sig) {
					requestReload()
					continue
				}
				cancel()
				return nil
			case <-reload:
				_ = c.Reload()
			}
		}
	})

	err := g.Wait()
	return combineErrors(err, c.Handle(SignalQuitting))
}

// containsSignal reports whether sig is in sigs
func containsSignal(sigs []os.Signal, sig os.Signal) bool {
	for _, s := range sigs {
		if s == sig {
			return true
		}
	}
	return false
}
