package cli

import (
	"fmt"
	"io"

	"github.com/aretw0/colorsort"
)

// Validate checks a configuration file and prints what a run would face.
func Validate(w io.Writer, path string) error {
	cfg, err := loadConfig(path)
	if err != nil {
		return err
	}

	a := colorsort.Analyze(cfg.Distribution())
	fmt.Fprintf(w, "Config %q is valid: %d processes, %d tokens, %d colors.\n",
		cfg.Name, len(cfg.Processes), a.Tokens, len(a.Totals))
	if a.Feasible {
		fmt.Fprintf(w, "Feasible: every process can end with %d tokens of its own color.\n", a.Share)
	} else {
		fmt.Fprintln(w, "Not feasible: processes will settle for a dominant color.")
	}
	fmt.Fprintf(w, "Initial potential: %d\n", a.Potential)
	return nil
}
