// FILE: example/reconfig/main.go
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/logsink"
)

// Simulate rapid host reloads while records keep arriving
func main() {
	var count atomic.Int64

	dir, err := os.MkdirTemp("", "logsink-reconfig")
	if err != nil {
		fmt.Printf("Temp dir error: %v\n", err)
		return
	}

	cfg := logsink.DefaultConfig()
	cfg.ExportDirectory = dir
	cfg.NamingMode = "count"
	provider := logsink.NewStaticProvider(cfg)

	hub := logsink.NewHub()
	engine := logsink.NewEngine(provider, hub)
	ctrl := logsink.NewController(engine)

	if err := ctrl.Handle(logsink.SignalStart); err != nil {
		fmt.Printf("Start error: %v\n", err)
		return
	}

	// Log something constantly
	stop := make(chan struct{})
	go func() {
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			hub.Info("Test log", i)
			count.Add(1)
			time.Sleep(time.Millisecond)
		}
	}()

	// Trigger multiple reloads rapidly, each with a different prefix
	for i := 0; i < 10; i++ {
		next := cfg.Clone()
		next.FilePrefix = fmt.Sprintf("Reload%d", i)
		provider.Set(next)
		if err := ctrl.Reload(); err != nil {
			fmt.Printf("Reload error: %v\n", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	close(stop)
	_ = ctrl.Handle(logsink.SignalQuitting)

	stats := engine.Stats()
	files, _ := filepath.Glob(filepath.Join(dir, "*"))
	fmt.Printf("Attempted: %d, written: %d, dropped: %d, sessions: %d, files: %d\n",
		count.Load(), stats.RecordsWritten, stats.RecordsDropped, stats.Sessions, len(files))
	fmt.Printf("Output in %s\n", dir)
}
