package colorsort

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Runner drives a simulation and writes its progress and summary to Output.
// This allows for easy testing and integration with different frontends.
type Runner struct {
	Output   io.Writer
	Headless bool
	Trace    bool
	Title    string
	Renderer ContentRenderer
}

// ContentRenderer transforms markdown before it is written.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a Runner writing to w.
func NewRunner(w io.Writer) *Runner {
	return &Runner{Output: w}
}

// Run starts the simulation and reports the outcome.
func (r *Runner) Run(ctx context.Context, sim *Simulation) error {
	if r.Output == nil {
		return fmt.Errorf("output writer must be set (use os.Stdout)")
	}

	if !r.Headless {
		fmt.Fprintln(r.Output, "--- colorsort ---")
		for _, id := range sim.Distribution().IDs() {
			fmt.Fprintf(r.Output, "%s: %s\n", id, FormatStack(sim.Distribution()[id]))
		}
	}

	if err := sim.Start(ctx); err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	if r.Trace {
		history, err := sim.History(ctx)
		if err != nil {
			return fmt.Errorf("failed to read history: %w", err)
		}
		for _, snap := range history {
			fmt.Fprintf(r.Output, "#%d potential=%d exchanges=%d pending=%d\n",
				snap.Iteration, snap.Potential, snap.TotalExchanges, len(snap.PendingMessages))
		}
	}

	if r.Headless {
		st := sim.State()
		fmt.Fprintf(r.Output, "%s %s iterations=%d exchanges=%d potential=%d\n",
			st.Status, st.Reason, st.Iteration, st.TotalExchanges, st.Potential)
		return nil
	}

	report := Report(r.Title, sim.State(), sim.Analyze())
	if r.Renderer != nil {
		if rendered, err := r.Renderer(report); err == nil {
			report = rendered
		}
	}
	fmt.Fprintln(r.Output, strings.TrimSpace(report))
	return nil
}
