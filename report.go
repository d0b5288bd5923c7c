package colorsort

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/colorsort/pkg/domain"
)

// Report renders a markdown summary of a run.
func Report(title string, st domain.SystemState, a Analysis) string {
	var b strings.Builder
	if title == "" {
		title = "colorsort run"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	outcome := string(st.Status)
	if st.Reason != "" {
		outcome = fmt.Sprintf("%s (%s)", st.Status, st.Reason)
	}
	fmt.Fprintf(&b, "- **Outcome**: %s\n", outcome)
	fmt.Fprintf(&b, "- **Feasible**: %t", a.Feasible)
	if a.Feasible {
		fmt.Fprintf(&b, " (%d tokens per process)", a.Share)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "- **Iterations**: %d\n", st.Iteration)
	fmt.Fprintf(&b, "- **Exchanges**: %d\n", st.TotalExchanges)
	fmt.Fprintf(&b, "- **Potential**: %d (initial %d)\n\n", st.Potential, a.Potential)

	b.WriteString("| Process | Stack | Wanted | Done |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, p := range st.Processes {
		wanted := string(p.Wanted)
		if wanted == "" {
			wanted = "-"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %t |\n", p.ID, FormatStack(p.Stack), wanted, p.Done)
	}

	totals := st.ColorTotals()
	colors := make([]string, 0, len(totals))
	for c := range totals {
		colors = append(colors, string(c))
	}
	sort.Strings(colors)
	b.WriteString("\n## Tokens\n\n")
	for _, c := range colors {
		fmt.Fprintf(&b, "- %s: %d\n", c, totals[domain.Color(c)])
	}
	return b.String()
}

// FormatStack joins a stack for display. An empty stack renders as "-".
func FormatStack(stack []domain.Color) string {
	if len(stack) == 0 {
		return "-"
	}
	parts := make([]string, len(stack))
	for i, c := range stack {
		parts[i] = string(c)
	}
	return strings.Join(parts, " ")
}
