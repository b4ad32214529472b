// Command activities-demo loads a declarative pipeline file, builds an
// activities scheduler from it, runs it, and reports each task's outcome.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/leetcoder91/activities/internal/config"
	"github.com/leetcoder91/activities/internal/ctxlog"
	"github.com/leetcoder91/activities/internal/demoaction"
	"github.com/leetcoder91/activities/internal/pipeline"
	"github.com/leetcoder91/activities/internal/scheduler"
	"github.com/leetcoder91/activities/internal/task"
)

// ExitError carries the process exit code a failed run should use.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(outW io.Writer, args []string) error {
	flagSet := flag.NewFlagSet("activities-demo", flag.ContinueOnError)
	flagSet.SetOutput(outW)
	flagSet.Usage = func() {
		fmt.Fprint(outW, `
activities-demo - runs a declarative activity pipeline.

Usage:
  activities-demo [options] PIPELINE_PATH

Arguments:
  PIPELINE_PATH
    Path to a single .hcl file or a directory of .hcl files describing
    the pipeline's steps.

Options:
`)
		flagSet.PrintDefaults()
	}

	parallelFlag := flagSet.Bool("parallel", true, "run the pipeline's steps in parallel instead of sequentially")
	logLevelFlag := flagSet.String("log-level", "info", "log level: debug, info, warn, or error")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() != 1 {
		flagSet.Usage()
		return nil
	}
	path := flagSet.Arg(0)

	level, err := parseLevel(*logLevelFlag)
	if err != nil {
		return &ExitError{Code: 2, Message: err.Error()}
	}
	logger := slog.New(slog.NewTextHandler(outW, &slog.HandlerOptions{Level: level}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	steps, err := pipeline.Load(path)
	if err != nil {
		return fmt.Errorf("activities-demo: %w", err)
	}

	sched := scheduler.New(config.Load())
	defer sched.Shutdown()

	registry := pipeline.Registry{
		"print":    demoaction.NewPrint,
		"http_get": demoaction.NewHTTPGet,
	}
	if _, err := pipeline.Build(ctx, sched, steps, registry); err != nil {
		return fmt.Errorf("activities-demo: %w", err)
	}

	sched.Subscribe(func(t *task.Task, outcome task.Outcome, taskErr error) {
		if taskErr != nil {
			fmt.Fprintf(outW, "%s: %s (%v)\n", t.Name(), outcome, taskErr)
			return
		}
		fmt.Fprintf(outW, "%s: %s\n", t.Name(), outcome)
	})

	runErr := sched.ExecuteAll(ctx, *parallelFlag)
	if runErr != nil {
		fmt.Fprintf(outW, "pipeline finished with errors: %v\n", runErr)
		return &ExitError{Code: 1, Message: runErr.Error()}
	}

	fmt.Fprintln(outW, "pipeline finished successfully")
	return nil
}

func parseLevel(name string) (slog.Level, error) {
	switch name {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log-level %q: must be debug, info, warn, or error", name)
	}
}
