// FILE: examples/fasthttp/main.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/lixenwraith/logsink"
	"github.com/lixenwraith/logsink/compat"
)

func main() {
	hub := logsink.NewHub()
	engine, err := logsink.NewBuilder().
		Directory("/var/log/fasthttp").
		Capture(logsink.SeverityInfo, false).
		Console(true).
		Source(hub).
		Build()
	if err != nil {
		panic(err)
	}
	if err := engine.Init(); err != nil {
		panic(err)
	}
	defer engine.Shutdown()

	// Create fasthttp adapter with custom severity detection
	fasthttpAdapter := compat.NewFastHTTPAdapter(
		hub,
		compat.WithSeverityDetector(customSeverityDetector),
	)

	// Configure fasthttp server
	server := &fasthttp.Server{
		Handler: requestHandler,
		Logger:  fasthttpAdapter,

		// Other server settings
		Name:              "MyServer",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	// Start server
	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		hub.Exception(err)
	}
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("text/plain")
	fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
}

func customSeverityDetector(msg string) logsink.Severity {
	// fasthttp message patterns
	if strings.Contains(msg, "connection cannot be served") {
		return logsink.SeverityWarning
	}
	if strings.Contains(msg, "error when serving connection") {
		return logsink.SeverityError
	}

	// Use default detection
	return compat.DetectSeverity(msg)
}
