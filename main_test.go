package logsink

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("gopkg.in/natefinch/lumberjack%2ev2.(*Logger).millRun"),
		goleak.IgnoreAnyFunction("os/signal.loop"),
	)
}

// syncBuffer is a goroutine-safe bytes.Buffer for capturing diagnostics
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// fixedClock returns a clock pinned to t
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// testConfig returns a header-less configuration writing into dir
func testConfig(dir string) *Config {
	cfg := DefaultConfig()
	cfg.ExportDirectory = dir
	cfg.IncludeHeader = false
	return cfg
}

// createTestEngine creates and starts an engine in a temp directory
func createTestEngine(t *testing.T, modify func(*Config)) (*Engine, *Hub, *syncBuffer, string) {
	t.Helper()
	tmpDir := t.TempDir()

	cfg := testConfig(tmpDir)
	if modify != nil {
		modify(cfg)
	}

	hub := NewHub()
	diag := &syncBuffer{}
	engine := NewEngine(NewStaticProvider(cfg), hub,
		WithDiagnostics(diag),
		WithFallbackDirectory(filepath.Join(tmpDir, "fallback")),
	)
	require.NoError(t, engine.Init())
	t.Cleanup(func() { _ = engine.Shutdown() })

	return engine, hub, diag, tmpDir
}

// readLines returns the file's lines without the final empty element
func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

// listFiles returns the names of regular files in dir
func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	return names
}
