// FILE: state.go
package logsink

import (
	"sync/atomic"
)

// counters holds the engine's running totals
type counters struct {
	sessions        atomic.Uint64
	recordsWritten  atomic.Uint64
	recordsFiltered atomic.Uint64
	recordsDropped  atomic.Uint64
	bytesWritten    atomic.Uint64
	rotations       atomic.Uint64
	renameFailures  atomic.Uint64
	writeFailures   atomic.Uint64
	diagnostics     atomic.Uint64
}

// Stats is a point-in-time snapshot of engine counters
type Stats struct {
	State      State
	ActivePath string
	SessionID  string

	Sessions        uint64 // Successful Init calls
	RecordsWritten  uint64
	RecordsFiltered uint64 // Rejected by severity filter
	RecordsDropped  uint64 // Accepted but not written: stopping, or no handle after a failed rotation
	BytesWritten    uint64
	Rotations       uint64
	RenameFailures  uint64
	WriteFailures   uint64
	Diagnostics     uint64 // Lines written to the diagnostic channel
}

// Stats returns a snapshot of the engine counters
func (e *Engine) Stats() Stats {
	return Stats{
		State:      e.State(),
		ActivePath: e.ActivePath(),
		SessionID:  e.SessionID(),

		Sessions:        e.stats.sessions.Load(),
		RecordsWritten:  e.stats.recordsWritten.Load(),
		RecordsFiltered: e.stats.recordsFiltered.Load(),
		RecordsDropped:  e.stats.recordsDropped.Load(),
		BytesWritten:    e.stats.bytesWritten.Load(),
		Rotations:       e.stats.rotations.Load(),
		RenameFailures:  e.stats.renameFailures.Load(),
		WriteFailures:   e.stats.writeFailures.Load(),
		Diagnostics:     e.stats.diagnostics.Load(),
	}
}
