package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v3"

	"github.com/lixenwraith/logsink"
	"github.com/lixenwraith/logsink/compat"
	"github.com/lixenwraith/logsink/metrics"
)

// createCommands creates all subcommands
func createCommands() []*cli.Command {
	return []*cli.Command{
		createRunCommand(),
		createResolveCommand(),
		createStressCommand(),
	}
}

// configFlags are shared by commands that load a configuration file
func configFlags(required bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "config",
			Aliases:  []string{"c"},
			Usage:    "configuration file (.toml, .yaml, .yml or .json)",
			Required: required,
		},
		&cli.StringSliceFlag{
			Name:  "set",
			Usage: "override a configuration key, as key=value",
		},
	}
}

func createRunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "capture stdin lines until EOF or a quit signal",
		Flags: append(configFlags(true),
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "reload when the configuration file changes",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "serve Prometheus metrics on this address",
			},
			&cli.StringFlag{
				Name:  "severity",
				Usage: "severity for every line; detected from content when empty",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cmdRun(ctx, cmd, stdinReader(cmd))
		},
	}
}

func createResolveCommand() *cli.Command {
	return &cli.Command{
		Name:  "resolve",
		Usage: "print the directory and file the configuration resolves to",
		Flags: configFlags(true),
		Action: func(_ context.Context, cmd *cli.Command) error {
			return cmdResolve(cmd, stdoutWriter(cmd), time.Now())
		},
	}
}

func createStressCommand() *cli.Command {
	return &cli.Command{
		Name:  "stress",
		Usage: "emit random records concurrently to exercise rotation",
		Flags: append(configFlags(false),
			&cli.StringFlag{
				Name:  "dir",
				Usage: "export directory when no configuration file is given",
				Value: "./stress_logs",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "concurrent emitters",
				Value: 50,
			},
			&cli.IntFlag{
				Name:  "records",
				Usage: "records per worker",
				Value: 1000,
			},
			&cli.IntFlag{
				Name:  "max-size-kb",
				Usage: "rotation threshold",
				Value: 64,
			},
		),
		Action: func(_ context.Context, cmd *cli.Command) error {
			return cmdStress(cmd, stdoutWriter(cmd))
		},
	}
}

// stdinReader returns the root command's reader, defaulting to os.Stdin
func stdinReader(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}
	return os.Stdin
}

// stdoutWriter returns the root command's writer, defaulting to os.Stdout
func stdoutWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

// loadConfig reads --config and applies --set, or returns defaults when no file is given
func loadConfig(cmd *cli.Command) (*logsink.Config, error) {
	path := cmd.String("config")
	if path == "" {
		cfg := logsink.DefaultConfig()
		if err := cfg.ApplyOverride(cmd.StringSlice("set")...); err != nil {
			return nil, newUsageError("%v", err)
		}
		return cfg, nil
	}
	return logsink.NewFileProvider(path, cmd.StringSlice("set")...).Load()
}

// cmdRun captures lines from in until EOF or a quit signal
func cmdRun(ctx context.Context, cmd *cli.Command, in io.Reader) error {
	var forced *logsink.Severity
	if s := cmd.String("severity"); s != "" {
		sev, err := logsink.ParseSeverity(s)
		if err != nil {
			return newUsageError("%v", err)
		}
		forced = &sev
	}

	path := cmd.String("config")
	hub := logsink.NewHub()
	engine := logsink.NewEngine(logsink.NewFileProvider(path, cmd.StringSlice("set")...), hub)
	ctrl := logsink.NewController(engine)

	// Fail fast on a configuration that cannot start
	if err := ctrl.Handle(logsink.SignalStart); err != nil {
		_ = ctrl.Handle(logsink.SignalQuitting)
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if addr := cmd.String("metrics-addr"); addr != "" {
		stop, err := serveMetrics(ctx, addr, engine)
		if err != nil {
			_ = ctrl.Handle(logsink.SignalQuitting)
			return err
		}
		defer stop()
	}

	opts := []logsink.RunOption{}
	if cmd.Bool("watch") {
		opts = append(opts, logsink.WithConfigWatch(path, 0))
	}

	// The reader may block past shutdown; EOF ends the run
	go func() {
		defer cancel()
		pumpLines(in, hub, forced)
	}()

	err := ctrl.Run(ctx, opts...)
	printSummary(stdoutWriter(cmd), engine.Stats())
	return err
}

// pumpLines emits every non-empty line of in as a record
func pumpLines(in io.Reader, hub *logsink.Hub, forced *logsink.Severity) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		severity := compat.DetectSeverity(line)
		if forced != nil {
			severity = *forced
		}
		hub.Emit(severity, line, "")
	}
}

// serveMetrics exposes the engine's collector on addr until stop is called
func serveMetrics(ctx context.Context, addr string, engine *logsink.Engine) (stop func(), err error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(metrics.NewCollector(engine)); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Surface an immediate bind failure
	select {
	case err := <-errCh:
		if err != nil {
			return nil, fmt.Errorf("metrics server: %w", err)
		}
	case <-time.After(50 * time.Millisecond):
	}

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}, nil
}

// cmdResolve prints where a session with this configuration would write
func cmdResolve(cmd *cli.Command, w io.Writer, now time.Time) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	warn := color.New(color.FgYellow)
	resolver := logsink.NewResolver(func(err error) {
		warn.Fprintf(w, "warning: %v\n", err)
	})

	dir, err := resolver.ResolveBaseDirectory(cfg)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "directory: %s\n", dir)
	fmt.Fprintf(w, "file:      %s\n", logsink.ResolveFileName(dir, cfg, now))
	return nil
}

// cmdStress drives an engine from many goroutines and reports the outcome
func cmdStress(cmd *cli.Command, w io.Writer) error {
	workers := cmd.Int("workers")
	records := cmd.Int("records")
	if workers <= 0 || records <= 0 {
		return newUsageError("workers and records must be positive")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.String("config") == "" {
		cfg.ExportDirectory = cmd.String("dir")
		cfg.EnableSizeRotation = true
		cfg.MaxFileSizeBytes = int64(cmd.Int("max-size-kb")) * 1024
		cfg.NamingMode = logsink.NamingByCount.String()
	}

	hub := logsink.NewHub()
	engine := logsink.NewEngine(logsink.NewStaticProvider(cfg), hub)
	if err := engine.Init(); err != nil {
		return err
	}

	fmt.Fprintf(w, "stress: %d workers x %d records into %s\n", workers, records, engine.ActivePath())

	severities := []logsink.Severity{
		logsink.SeverityInfo,
		logsink.SeverityWarning,
		logsink.SeverityError,
		logsink.SeverityException,
	}

	var wg sync.WaitGroup
	var emitted atomic.Int64
	start := time.Now()
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for seq := 0; seq < records; seq++ {
				sev := severities[rand.IntN(len(severities))]
				msg := fmt.Sprintf("wkr=%d seq=%d %s", worker, seq, randomMessage(rand.IntN(200)+10))
				hub.Emit(sev, msg, "stress")
				emitted.Add(1)
			}
		}(i)
	}
	wg.Wait()
	elapsed := time.Since(start)

	if err := engine.Shutdown(); err != nil {
		return err
	}

	stats := engine.Stats()
	printSummary(w, stats)
	if elapsed > 0 {
		fmt.Fprintf(w, "rate: %.0f records/s\n", float64(emitted.Load())/elapsed.Seconds())
	}
	if stats.RecordsWritten != uint64(emitted.Load()) {
		return fmt.Errorf("wrote %d of %d records", stats.RecordsWritten, emitted.Load())
	}
	return nil
}

// randomMessage returns size random alphanumeric characters
func randomMessage(size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(chars[rand.IntN(len(chars))])
	}
	return sb.String()
}

// printSummary writes the session counters
func printSummary(w io.Writer, s logsink.Stats) {
	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed)

	ok.Fprintf(w, "written: %d records, %d bytes, %d rotations\n", s.RecordsWritten, s.BytesWritten, s.Rotations)
	if s.RecordsFiltered > 0 {
		fmt.Fprintf(w, "filtered: %d\n", s.RecordsFiltered)
	}
	if s.RecordsDropped > 0 || s.WriteFailures > 0 || s.RenameFailures > 0 {
		bad.Fprintf(w, "dropped: %d, write failures: %d, rename failures: %d\n",
			s.RecordsDropped, s.WriteFailures, s.RenameFailures)
	}
}
