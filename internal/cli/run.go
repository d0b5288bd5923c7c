package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"

	"github.com/aretw0/colorsort"
	"github.com/aretw0/colorsort/internal/presentation/tui"
	"github.com/aretw0/colorsort/pkg/domain"
	"github.com/aretw0/colorsort/pkg/observability"
)

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	ConfigPath string
	Headless   bool
	JSON       bool
	Report     bool
	Trace      bool
	LogLevel   string

	// Output defaults to os.Stdout, Logs to os.Stderr.
	Output io.Writer
	Logs   io.Writer
}

// RunResult is the JSON document printed in JSON mode.
type RunResult struct {
	Name     string             `json:"name"`
	Analysis colorsort.Analysis `json:"analysis"`
	State    domain.SystemState `json:"state"`
}

// Execute runs one simulation to completion and prints the outcome.
func Execute(ctx context.Context, opts RunOptions) error {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	logs := opts.Logs
	if logs == nil {
		logs = os.Stderr
	}

	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	logger, err := createLogger(logs, opts.LogLevel, opts.JSON)
	if err != nil {
		return err
	}

	sim, err := cfg.New(
		colorsort.WithLogger(logger),
		colorsort.WithLifecycleHooks(observability.LoggingHooks(logger)),
	)
	if err != nil {
		return err
	}

	interactive := false
	if f, ok := out.(*os.File); ok {
		interactive = tui.IsTerminal(f)
	}
	quiet := opts.JSON || opts.Headless

	if !quiet && interactive {
		tui.PrintBanner(out, colorsort.Version)
	}

	if opts.JSON {
		if err := sim.Start(ctx); err != nil {
			return handleExecutionError(err)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(RunResult{Name: cfg.Name, Analysis: sim.Analyze(), State: sim.State()})
	}

	if opts.Report {
		r := &colorsort.Runner{
			Output:   out,
			Headless: opts.Headless,
			Trace:    opts.Trace,
			Title:    cfg.Name,
		}
		if interactive {
			r.Renderer = tui.NewRenderer()
		}
		return handleExecutionError(r.Run(ctx, sim))
	}

	painter := tui.NewStackPainter(termenv.Ascii)
	if interactive {
		painter = tui.NewStackPainter(termenv.NewOutput(out).ColorProfile())
	}
	if !quiet {
		printSystemMessage(out, "Running %q with %d processes", cfg.Name, len(sim.Distribution()))
		for _, p := range sim.State().Processes {
			fmt.Fprintln(out, painter.Line(p))
		}
	}

	if err := sim.Start(ctx); err != nil {
		return handleExecutionError(err)
	}

	st := sim.State()
	if opts.Trace {
		history, err := sim.History(ctx)
		if err != nil {
			return err
		}
		for _, snap := range history {
			fmt.Fprintf(out, "#%d potential=%d exchanges=%d pending=%d\n",
				snap.Iteration, snap.Potential, snap.TotalExchanges, len(snap.PendingMessages))
		}
	}
	if !quiet {
		for _, p := range st.Processes {
			fmt.Fprintln(out, painter.Line(p))
		}
	}
	printSystemMessage(out, "%s (%s) after %d iterations, %d exchanges, potential %d",
		st.Status, st.Reason, st.Iteration, st.TotalExchanges, st.Potential)
	return nil
}

// handleExecutionError treats interruption as a clean exit.
func handleExecutionError(err error) error {
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
