// Package metrics exposes capture engine counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lixenwraith/logsink"
)

const namespace = "logsink"

// StatsSource is implemented by *logsink.Engine
type StatsSource interface {
	Stats() logsink.Stats
}

// Collector reads a fresh Stats snapshot on every scrape
type Collector struct {
	src StatsSource

	sessions        *prometheus.Desc
	recordsWritten  *prometheus.Desc
	recordsFiltered *prometheus.Desc
	recordsDropped  *prometheus.Desc
	bytesWritten    *prometheus.Desc
	rotations       *prometheus.Desc
	renameFailures  *prometheus.Desc
	writeFailures   *prometheus.Desc
	diagnostics     *prometheus.Desc
	state           *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector over src
func NewCollector(src StatsSource) *Collector {
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, labels, nil)
	}
	return &Collector{
		src:             src,
		sessions:        desc("sessions_total", "Number of successful capture session starts"),
		recordsWritten:  desc("records_written_total", "Number of records written to the capture file"),
		recordsFiltered: desc("records_filtered_total", "Number of records rejected by the severity filter"),
		recordsDropped:  desc("records_dropped_total", "Number of accepted records not written because no file was open"),
		bytesWritten:    desc("bytes_written_total", "Number of record bytes written, including newlines"),
		rotations:       desc("rotations_total", "Number of completed size rotations"),
		renameFailures:  desc("rename_failures_total", "Number of failed archive renames"),
		writeFailures:   desc("write_failures_total", "Number of failed appends"),
		diagnostics:     desc("diagnostics_total", "Number of lines written to the diagnostic channel"),
		state:           desc("state", "Engine lifecycle state, 1 for the current state", "state"),
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.sessions
	ch <- c.recordsWritten
	ch <- c.recordsFiltered
	ch <- c.recordsDropped
	ch <- c.bytesWritten
	ch <- c.rotations
	ch <- c.renameFailures
	ch <- c.writeFailures
	ch <- c.diagnostics
	ch <- c.state
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Stats()

	counter := func(d *prometheus.Desc, v uint64) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v))
	}
	counter(c.sessions, s.Sessions)
	counter(c.recordsWritten, s.RecordsWritten)
	counter(c.recordsFiltered, s.RecordsFiltered)
	counter(c.recordsDropped, s.RecordsDropped)
	counter(c.bytesWritten, s.BytesWritten)
	counter(c.rotations, s.Rotations)
	counter(c.renameFailures, s.RenameFailures)
	counter(c.writeFailures, s.WriteFailures)
	counter(c.diagnostics, s.Diagnostics)

	for _, st := range []logsink.State{logsink.StateUnstarted, logsink.StateInitializing, logsink.StateRunning, logsink.StateStopped} {
		v := 0.0
		if st == s.State {
			v = 1
		}
		ch <- prometheus.MustNewConstMetric(c.state, prometheus.GaugeValue, v, st.String())
	}
}
