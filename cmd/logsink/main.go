// logsink captures log records into rotating text files.
//
// Usage:
//
//	logsink [global options] <command> [command options]
//
// Commands:
//
//	run        capture stdin lines until EOF or SIGINT/SIGTERM, reloading on SIGHUP
//	resolve    print the directory and file a configuration resolves to
//	stress     emit random records from many goroutines to exercise rotation
//
// Exit codes:
//
//	0: success
//	1: command failed
//	2: usage error
//
// Examples:
//
//	tail -F app.out | logsink run --config sink.toml --watch
//	logsink run --config sink.yaml --set naming_mode=count --metrics-addr :9102
//	logsink resolve --config sink.toml
//	logsink stress --dir ./stress --workers 50 --records 2000 --max-size-kb 64
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
)

// Version information, injected with -ldflags "-X main.Version=..."
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(context.Background(), os.Args))
}

// createApp creates the CLI application
func createApp() *cli.Command {
	return &cli.Command{
		Name:     "logsink",
		Usage:    "capture log records into rotating text files",
		Version:  fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Commands: createCommands(),
		// Exit codes are mapped in run
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(os.Stderr, err)
			}
		},
	}
}

// run executes the app and maps errors to exit codes
func run(ctx context.Context, args []string) int {
	app := createApp()

	if err := app.Run(ctx, args); err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			color.New(color.FgYellow).Fprintf(os.Stderr, "usage error: %v\n", usageErr)
			return 2
		}
		if isCLIUsageError(err) {
			return 2
		}
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// usageError marks invalid arguments
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func newUsageError(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// isCLIUsageError recognizes flag and command errors raised by urfave/cli
func isCLIUsageError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "flag provided but not defined") ||
		strings.Contains(msg, "No help topic for") ||
		strings.Contains(msg, "Required flag")
}
