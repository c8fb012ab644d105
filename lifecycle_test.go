// FILE: lixenwraith/logsink/lifecycle_test.go
package logsink

import (
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestController returns a controller over an unstarted engine in a temp directory
func createTestController(t *testing.T) (*Controller, *Engine, *Hub, *StaticProvider, string) {
	t.Helper()
	tmpDir := t.TempDir()
	provider := NewStaticProvider(testConfig(tmpDir))
	hub := NewHub()
	engine := NewEngine(provider, hub, WithDiagnostics(&syncBuffer{}))
	t.Cleanup(func() { _ = engine.Shutdown() })
	return NewController(engine), engine, hub, provider, tmpDir
}

func TestControllerSignals(t *testing.T) {
	c, engine, _, _, _ := createTestController(t)

	require.NoError(t, c.Handle(SignalStart))
	assert.Equal(t, StateRunning, engine.State())
	assert.True(t, c.HostRunning())

	// Redundant start
	require.NoError(t, c.Handle(SignalStart))
	assert.Equal(t, uint64(1), engine.Stats().Sessions)

	require.NoError(t, c.Handle(SignalStop))
	assert.Equal(t, StateStopped, engine.State())
	assert.False(t, c.HostRunning())

	// Redundant stop
	require.NoError(t, c.Handle(SignalQuitting))
	assert.Equal(t, StateStopped, engine.State())

	assert.Error(t, c.Handle(Signal(99)))
}

func TestControllerReload(t *testing.T) {
	t.Run("reload while running restarts", func(t *testing.T) {
		c, engine, hub, _, _ := createTestController(t)
		require.NoError(t, c.Handle(SignalStart))
		first := engine.SessionID()

		require.NoError(t, c.Handle(SignalBeforeReload))
		assert.Equal(t, StateStopped, engine.State())
		assert.Equal(t, 0, hub.Len())

		require.NoError(t, c.Handle(SignalAfterReload))
		assert.Equal(t, StateRunning, engine.State())
		assert.NotEqual(t, first, engine.SessionID())
		assert.Equal(t, 1, hub.Len(), "exactly one subscription after reload")
	})

	t.Run("reload while host stopped stays stopped", func(t *testing.T) {
		c, engine, _, _, _ := createTestController(t)
		require.NoError(t, c.Reload())
		assert.NotEqual(t, StateRunning, engine.State())
	})

	t.Run("out of order signals", func(t *testing.T) {
		c, engine, hub, _, _ := createTestController(t)
		require.NoError(t, c.Handle(SignalAfterReload))
		require.NoError(t, c.Handle(SignalBeforeReload))
		require.NoError(t, c.Handle(SignalStart))
		require.NoError(t, c.Handle(SignalAfterReload))
		require.NoError(t, c.Handle(SignalStart))
		assert.Equal(t, StateRunning, engine.State())
		assert.Equal(t, 1, hub.Len())
	})
}

func TestControllerRun(t *testing.T) {
	t.Run("context cancel quits", func(t *testing.T) {
		c, engine, hub, _, _ := createTestController(t)
		ctx, cancel := context.WithCancel(context.Background())

		sigCh := make(chan os.Signal)
		done := make(chan error, 1)
		go func() { done <- c.Run(ctx, withSignalChannel(sigCh)) }()

		require.Eventually(t, func() bool { return engine.State() == StateRunning }, time.Second, 5*time.Millisecond)
		hub.Info("while running")

		cancel()
		require.NoError(t, <-done)
		assert.Equal(t, StateStopped, engine.State())
		lines := readLines(t, engine.ActivePath())
		require.Len(t, lines, 3)
		assert.Contains(t, lines[0], "[Info] while running")
	})

	t.Run("reload and quit signals", func(t *testing.T) {
		c, engine, _, _, _ := createTestController(t)

		sigCh := make(chan os.Signal, 1)
		done := make(chan error, 1)
		go func() { done <- c.Run(context.Background(), withSignalChannel(sigCh)) }()

		require.Eventually(t, func() bool { return engine.State() == StateRunning }, time.Second, 5*time.Millisecond)

		sigCh <- syscall.SIGHUP
		require.Eventually(t, func() bool { return engine.Stats().Sessions == 2 }, time.Second, 5*time.Millisecond)
		assert.Equal(t, StateRunning, engine.State())

		sigCh <- syscall.SIGTERM
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("Run did not return after quit signal")
		}
		assert.Equal(t, StateStopped, engine.State())
	})

	t.Run("config file change reloads", func(t *testing.T) {
		tmpDir := t.TempDir()
		cfgPath := filepath.Join(tmpDir, "sink.yaml")
		first := filepath.Join(tmpDir, "first")
		second := filepath.Join(tmpDir, "second")
		require.NoError(t, os.WriteFile(cfgPath, []byte("logsink:\n  export_directory: "+first+"\n"), 0644))

		engine := NewEngine(NewFileProvider(cfgPath), nil, WithDiagnostics(&syncBuffer{}))
		c := NewController(engine)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() {
			done <- c.Run(ctx, withSignalChannel(make(chan os.Signal)), WithConfigWatch(cfgPath, 20*time.Millisecond))
		}()

		require.Eventually(t, func() bool { return engine.State() == StateRunning }, time.Second, 5*time.Millisecond)
		assert.Equal(t, first, filepath.Dir(engine.ActivePath()))

		require.NoError(t, os.WriteFile(cfgPath, []byte("logsink:\n  export_directory: "+second+"\n"), 0644))
		require.Eventually(t, func() bool {
			return filepath.Dir(engine.ActivePath()) == second
		}, 3*time.Second, 10*time.Millisecond)

		cancel()
		require.NoError(t, <-done)
		assert.Equal(t, StateStopped, engine.State())
	})
}
