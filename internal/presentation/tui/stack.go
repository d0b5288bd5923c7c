package tui

import (
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/aretw0/colorsort/pkg/domain"
)

// swatches maps common color names and initials to display colors.
var swatches = map[string]string{
	"r": "#ef4444", "red": "#ef4444",
	"g": "#22c55e", "green": "#22c55e",
	"b": "#3b82f6", "blue": "#3b82f6",
	"y": "#eab308", "yellow": "#eab308",
	"o": "#f97316", "orange": "#f97316",
	"p": "#a855f7", "purple": "#a855f7",
	"c": "#06b6d4", "cyan": "#06b6d4",
	"m": "#ec4899", "magenta": "#ec4899",
	"w": "#f8fafc", "white": "#f8fafc",
	"k": "#64748b", "black": "#64748b",
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// StackPainter renders token stacks, colored when the profile allows it.
type StackPainter struct {
	profile termenv.Profile
}

// NewStackPainter creates a painter for the given profile.
// Use termenv.Ascii for plain output.
func NewStackPainter(profile termenv.Profile) *StackPainter {
	return &StackPainter{profile: profile}
}

// Paint renders each token as its name on a matching foreground.
// Unknown colors are printed as-is. An empty stack renders as "-".
func (sp *StackPainter) Paint(stack []domain.Color) string {
	if len(stack) == 0 {
		return "-"
	}
	parts := make([]string, len(stack))
	for i, c := range stack {
		s := termenv.String(string(c))
		if hex, ok := swatches[strings.ToLower(string(c))]; ok {
			s = s.Foreground(sp.profile.Color(hex))
		}
		parts[i] = s.String()
	}
	return strings.Join(parts, " ")
}

// Line renders one process as "ID: stack" with a done marker.
func (sp *StackPainter) Line(p domain.Process) string {
	mark := " "
	if p.Done {
		mark = termenv.String("✓").Foreground(sp.profile.Color("#22c55e")).String()
	}
	return mark + " " + string(p.ID) + ": " + sp.Paint(p.Stack)
}
