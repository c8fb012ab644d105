// FILE: lixenwraith/logsink/record.go
package logsink

import (
	"sync"
)

// listenerEntry pairs a subscriber with its registration id
type listenerEntry struct {
	id uint64
	fn Listener
}

// Hub is an in-process Source. Emit delivers synchronously on the calling
// goroutine to every subscriber in registration order.
type Hub struct {
	mu         sync.RWMutex
	listeners  []listenerEntry
	nextID     uint64
	traceDepth int
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{traceDepth: defaultTraceDepth}
}

// Subscribe registers fn. The returned function removes it and may be called repeatedly.
func (h *Hub) Subscribe(fn Listener) func() {
	if fn == nil {
		return func() {}
	}

	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.listeners = append(h.listeners, listenerEntry{id: id, fn: fn})
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { h.remove(id) })
	}
}

// remove drops the listener registered under id
func (h *Hub) remove(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for i, entry := range h.listeners {
		if entry.id == id {
			// Copy-on-write so in-flight Emit snapshots stay valid
			next := make([]listenerEntry, 0, len(h.listeners)-1)
			next = append(next, h.listeners[:i]...)
			next = append(next, h.listeners[i+1:]...)
			h.listeners = next
			return
		}
	}
}

// Emit delivers a record to every current subscriber
func (h *Hub) Emit(severity Severity, message, context string) {
	h.mu.RLock()
	snapshot := h.listeners
	h.mu.RUnlock()

	for _, entry := range snapshot {
		entry.fn(severity, message, context)
	}
}

// Len returns the number of subscribers
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}

// SetTraceDepth sets how many callers Error records as context (0-10, 0 disables)
func (h *Hub) SetTraceDepth(depth int) {
	if depth < 0 {
		depth = 0
	}
	if depth > 10 {
		depth = 10
	}
	h.mu.Lock()
	h.traceDepth = depth
	h.mu.Unlock()
}

// getTraceDepth returns the configured trace depth
func (h *Hub) getTraceDepth() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.traceDepth
}
