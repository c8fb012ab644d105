package logsink

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	severity Severity
	message  string
	context  string
}

// recorder collects records delivered by a hub
type recorder struct {
	mu      sync.Mutex
	records []captured
}

func (r *recorder) listen(severity Severity, message, context string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, captured{severity, message, context})
}

func (r *recorder) all() []captured {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]captured(nil), r.records...)
}

func TestHubSubscribe(t *testing.T) {
	hub := NewHub()
	var a, b recorder

	unsubA := hub.Subscribe(a.listen)
	hub.Subscribe(b.listen)
	assert.Equal(t, 2, hub.Len())

	hub.Emit(SeverityWarning, "one", "")
	unsubA()
	unsubA()
	assert.Equal(t, 1, hub.Len())
	hub.Emit(SeverityInfo, "two", "")

	assert.Len(t, a.all(), 1)
	assert.Len(t, b.all(), 2)
	assert.Equal(t, captured{SeverityWarning, "one", ""}, b.all()[0])

	// nil listener is ignored
	hub.Subscribe(nil)()
	assert.Equal(t, 1, hub.Len())
}

func TestHubUnsubscribeDuringEmit(t *testing.T) {
	hub := NewHub()
	var calls int
	var unsub func()
	unsub = hub.Subscribe(func(Severity, string, string) {
		calls++
		unsub()
	})

	hub.Emit(SeverityInfo, "first", "")
	hub.Emit(SeverityInfo, "second", "")
	assert.Equal(t, 1, calls)
}

func TestHubHelpers(t *testing.T) {
	hub := NewHub()
	var r recorder
	hub.Subscribe(r.listen)

	hub.Info("count", 3)
	hub.Warningf("disk at %d%%", 91)
	hub.Error("failed", errors.New("boom"))
	hub.Errorf("code %d", 7)
	hub.ErrorWithContext("explicit", "given context")
	hub.Exception(errors.New("unhandled"))
	hub.Exception(nil)

	records := r.all()
	require.Len(t, records, 6)

	assert.Equal(t, captured{SeverityInfo, "count 3", ""}, records[0])
	assert.Equal(t, captured{SeverityWarning, "disk at 91%", ""}, records[1])

	assert.Equal(t, SeverityError, records[2].severity)
	assert.Equal(t, "failed boom", records[2].message)
	assert.Contains(t, records[2].context, "TestHubHelpers")

	assert.Equal(t, "code 7", records[3].message)
	assert.Contains(t, records[3].context, "TestHubHelpers")

	assert.Equal(t, "given context", records[4].context)

	assert.Equal(t, SeverityException, records[5].severity)
	assert.Equal(t, "unhandled", records[5].message)
	assert.True(t, strings.Contains(records[5].context, "goroutine"))
}

func TestHubTraceDepth(t *testing.T) {
	hub := NewHub()
	var r recorder
	hub.Subscribe(r.listen)

	hub.SetTraceDepth(0)
	hub.Error("no trace")
	hub.SetTraceDepth(1)
	hub.Error("one frame")

	hub.ErrorTrace(2, "two frames")

	records := r.all()
	require.Len(t, records, 3)
	assert.Empty(t, records[0].context)
	assert.Equal(t, "TestHubTraceDepth", records[1].context)
	assert.Equal(t, "tRunner -> TestHubTraceDepth", records[2].context)
}

func TestHubConcurrentEmit(t *testing.T) {
	hub := NewHub()
	var r recorder
	hub.Subscribe(r.listen)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				hub.Info("x")
			}
		}()
	}
	wg.Wait()
	assert.Len(t, r.all(), 1000)
}
