package compat

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/logsink"
)

type captured struct {
	severity logsink.Severity
	message  string
	context  string
}

// createTestHub returns a hub with a recorder subscribed
func createTestHub(t *testing.T) (*logsink.Hub, *[]captured) {
	t.Helper()
	hub := logsink.NewHub()
	var records []captured
	hub.Subscribe(func(s logsink.Severity, msg, ctx string) {
		records = append(records, captured{s, msg, ctx})
	})
	return hub, &records
}

// TestCompatBuilder verifies the compatibility builder can be initialized correctly
func TestCompatBuilder(t *testing.T) {
	t.Run("with existing hub", func(t *testing.T) {
		hub, records := createTestHub(t)
		builder := NewBuilder().WithHub(hub)

		gnetAdapter, err := builder.BuildGnet()
		require.NoError(t, err)
		assert.Equal(t, hub, gnetAdapter.hub)
		assert.Nil(t, builder.Engine())

		gnetAdapter.Infof("up")
		assert.Len(t, *records, 1)
	})

	t.Run("nil hub", func(t *testing.T) {
		_, err := NewBuilder().WithHub(nil).BuildFastHTTP()
		assert.Error(t, err)
	})

	t.Run("with config", func(t *testing.T) {
		tmpDir := t.TempDir()
		cfg := logsink.DefaultConfig()
		cfg.ExportDirectory = tmpDir
		cfg.IncludeHeader = false

		builder := NewBuilder().WithConfig(cfg, logsink.WithDiagnostics(os.Stderr))
		adapter, err := builder.BuildFastHTTP()
		require.NoError(t, err)

		engine := builder.Engine()
		require.NotNil(t, engine)
		defer engine.Shutdown()
		assert.Equal(t, logsink.StateRunning, engine.State())

		// Second build reuses the engine
		_, err = builder.BuildGnet()
		require.NoError(t, err)
		assert.Equal(t, engine, builder.Engine())

		adapter.Printf("served %d requests", 3)
		require.NoError(t, engine.Shutdown())

		data, err := os.ReadFile(engine.ActivePath())
		require.NoError(t, err)
		assert.Contains(t, string(data), "[Info] served 3 requests")
		assert.Equal(t, tmpDir, filepath.Dir(engine.ActivePath()))
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := logsink.DefaultConfig()
		cfg.NamingMode = "hourly"
		_, err := NewBuilder().WithConfig(cfg).BuildGnet()
		assert.ErrorIs(t, err, logsink.ErrInvalidConfig)
	})
}

// TestGnetAdapter tests severity mapping and the fatal handler
func TestGnetAdapter(t *testing.T) {
	hub, records := createTestHub(t)

	var fatalMsg string
	adapter := NewGnetAdapter(hub, WithFatalHandler(func(msg string) {
		fatalMsg = msg
	}))

	adapter.Debugf("gnet debug id=%d", 1)
	adapter.Infof("gnet info id=%d", 2)
	adapter.Warnf("gnet warn id=%d", 3)
	adapter.Errorf("gnet error id=%d", 4)
	adapter.Fatalf("gnet fatal id=%d", 5)

	expected := []captured{
		{logsink.SeverityInfo, "gnet: gnet info id=2", ""},
		{logsink.SeverityWarning, "gnet: gnet warn id=3", ""},
		{logsink.SeverityError, "gnet: gnet error id=4", "source=gnet"},
		{logsink.SeverityException, "gnet: gnet fatal id=5", "source=gnet fatal=true"},
	}
	assert.Equal(t, expected, *records)
	assert.Equal(t, "gnet fatal id=5", fatalMsg)

	t.Run("debug enabled", func(t *testing.T) {
		hub, records := createTestHub(t)
		NewGnetAdapter(hub, WithDebug(true)).Debugf("poll %s", "tick")
		require.Len(t, *records, 1)
		assert.Equal(t, logsink.SeverityInfo, (*records)[0].severity)
	})
}

// TestFastHTTPAdapter tests severity detection
func TestFastHTTPAdapter(t *testing.T) {
	hub, records := createTestHub(t)
	adapter := NewFastHTTPAdapter(hub)

	testMessages := []string{
		"this is some informational message",
		"a debug message for the developers",
		"warning: something might be wrong",
		"an error occurred while processing",
		"request failed: connection timeout",
		"recovered from panic in handler",
	}
	for _, msg := range testMessages {
		adapter.Printf("%s", msg)
	}

	expected := []logsink.Severity{
		logsink.SeverityInfo,
		logsink.SeverityInfo,
		logsink.SeverityWarning,
		logsink.SeverityError,
		logsink.SeverityError,
		logsink.SeverityException,
	}
	require.Len(t, *records, len(expected))
	for i, sev := range expected {
		assert.Equal(t, sev, (*records)[i].severity, testMessages[i])
		assert.Equal(t, testMessages[i], (*records)[i].message)
	}
	assert.Equal(t, "source=fasthttp", (*records)[3].context)

	t.Run("custom detector", func(t *testing.T) {
		hub, records := createTestHub(t)
		NewFastHTTPAdapter(hub, WithSeverityDetector(func(string) logsink.Severity {
			return logsink.SeverityWarning
		})).Printf("anything")
		assert.Equal(t, logsink.SeverityWarning, (*records)[0].severity)
	})
}

// TestSlogHandler tests level mapping, attributes and groups
func TestSlogHandler(t *testing.T) {
	hub, records := createTestHub(t)
	logger := slog.New(NewSlogHandler(hub, slog.LevelInfo))

	logger.Debug("hidden")
	logger.Info("started", "port", 8080)
	logger.With("component", "db").WithGroup("pool").Warn("saturated", "open", 10)
	logger.Error("query failed", "err", errors.New("timeout"))
	logger.Info("grouped", slog.Group("req", "id", "abc", "method", "GET"))

	require.Len(t, *records, 4)

	assert.Equal(t, captured{logsink.SeverityInfo, "started port=8080", ""}, (*records)[0])
	assert.Equal(t, captured{logsink.SeverityWarning, "saturated component=db pool.open=10", ""}, (*records)[1])

	assert.Equal(t, logsink.SeverityError, (*records)[2].severity)
	assert.Equal(t, "query failed err=timeout", (*records)[2].message)
	assert.True(t, strings.Contains((*records)[2].context, "compat_test.go:"), (*records)[2].context)

	assert.Equal(t, "grouped req.id=abc req.method=GET", (*records)[3].message)
}

func TestSeverityForLevel(t *testing.T) {
	assert.Equal(t, logsink.SeverityInfo, SeverityForLevel(slog.LevelDebug))
	assert.Equal(t, logsink.SeverityInfo, SeverityForLevel(slog.LevelInfo))
	assert.Equal(t, logsink.SeverityWarning, SeverityForLevel(slog.LevelWarn))
	assert.Equal(t, logsink.SeverityError, SeverityForLevel(slog.LevelError+4))
}
