package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the colorsort banner to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()
	lines := []struct {
		text string
		hex  string
	}{
		{"              _                            _   ", "#ef4444"},
		{"   ___ ___   | | ___  _ __ ___  ___  _ __ | |_ ", "#f59e0b"},
		{"  / __/ _ \\  | |/ _ \\| '__/ __|/ _ \\| '__|| __|", "#22c55e"},
		{" | (_| (_) | | | (_) | |  \\__ \\ (_) | |   | |_ ", "#3b82f6"},
		{"  \\___\\___/  |_|\\___/|_|  |___/\\___/|_|    \\__|", "#a855f7"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.hex)))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, termenv.String("  v"+v).Faint())
	}
	fmt.Fprintln(w)
}
