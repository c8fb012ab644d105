package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/logsink"
)

type fixedStats logsink.Stats

func (f fixedStats) Stats() logsink.Stats { return logsink.Stats(f) }

func TestCollector(t *testing.T) {
	c := NewCollector(fixedStats{
		State:          logsink.StateRunning,
		Sessions:       2,
		RecordsWritten: 10,
		BytesWritten:   420,
		Rotations:      1,
	})

	t.Run("registers", func(t *testing.T) {
		reg := prometheus.NewPedanticRegistry()
		require.NoError(t, reg.Register(c))
	})

	t.Run("metric count", func(t *testing.T) {
		assert.Equal(t, 13, testutil.CollectAndCount(c))
	})

	t.Run("values", func(t *testing.T) {
		expected := `
# HELP logsink_records_written_total Number of records written to the capture file
# TYPE logsink_records_written_total counter
logsink_records_written_total 10
# HELP logsink_rotations_total Number of completed size rotations
# TYPE logsink_rotations_total counter
logsink_rotations_total 1
# HELP logsink_state Engine lifecycle state, 1 for the current state
# TYPE logsink_state gauge
logsink_state{state="initializing"} 0
logsink_state{state="running"} 1
logsink_state{state="stopped"} 0
logsink_state{state="unstarted"} 0
`
		err := testutil.CollectAndCompare(c, strings.NewReader(expected),
			"logsink_records_written_total", "logsink_rotations_total", "logsink_state")
		assert.NoError(t, err)
	})
}

func TestCollectorWithEngine(t *testing.T) {
	tmpDir := t.TempDir()
	hub := logsink.NewHub()
	engine, err := logsink.NewBuilder().
		Directory(tmpDir).
		IncludeHeader(false).
		Capture(logsink.SeverityInfo, false).
		Source(hub).
		Build()
	require.NoError(t, err)
	require.NoError(t, engine.Init())
	defer engine.Shutdown()

	hub.Info("filtered")
	hub.Warning("kept")

	c := NewCollector(engine)
	expected := `
# HELP logsink_records_filtered_total Number of records rejected by the severity filter
# TYPE logsink_records_filtered_total counter
logsink_records_filtered_total 1
# HELP logsink_records_written_total Number of records written to the capture file
# TYPE logsink_records_written_total counter
logsink_records_written_total 1
`
	assert.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"logsink_records_filtered_total", "logsink_records_written_total"))
}
