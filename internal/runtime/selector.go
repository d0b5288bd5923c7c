package runtime

import "github.com/aretw0/colorsort/pkg/domain"

// conflict is a color claimed by several active processes.
type conflict struct {
	color     domain.Color
	claimants []int
}

// pickColor returns the most represented color of the stack, skipping
// excluded colors. Ties go to the color the process at idx ranks first.
func (t *table) pickColor(idx int, exclude func(domain.Color) bool) domain.Color {
	p := t.procs[idx]
	counts := p.Counts()
	best := domain.NoColor
	bestCount := 0
	for _, c := range p.Stack {
		if exclude != nil && exclude(c) {
			continue
		}
		n := counts[c]
		if n > bestCount || (n == bestCount && t.palette.Rank(idx, c) < t.palette.Rank(idx, best)) {
			best, bestCount = c, n
		}
	}
	return best
}

// dominant is the most represented color, ignoring concessions.
func (t *table) dominant(idx int) domain.Color {
	return t.pickColor(idx, nil)
}

// target is the color a process is working towards.
func (t *table) target(idx int) domain.Color {
	if w := t.procs[idx].Wanted; w != domain.NoColor {
		return w
	}
	return t.dominant(idx)
}

// computeWanted sets the wanted color of the process at idx.
// Conceded colors are skipped while the process holds anything else.
// An empty stack leaves no wanted color.
func (t *table) computeWanted(idx int) {
	p := t.procs[idx]
	c := t.pickColor(idx, p.HasYielded)
	if c == domain.NoColor {
		c = t.dominant(idx)
	}
	p.Wanted = c
}

// detectConflicts groups active processes by wanted color and returns the
// colors claimed more than once, in palette order.
func (t *table) detectConflicts() []conflict {
	claims := make(map[domain.Color][]int)
	var order []domain.Color
	for i, p := range t.procs {
		if p.Done || p.Wanted == domain.NoColor {
			continue
		}
		if _, seen := claims[p.Wanted]; !seen {
			order = append(order, p.Wanted)
		}
		claims[p.Wanted] = append(claims[p.Wanted], i)
	}

	var out []conflict
	for _, c := range t.orderColors(order) {
		if len(claims[c]) >= 2 {
			out = append(out, conflict{color: c, claimants: claims[c]})
		}
	}
	return out
}

// resolveConflicts keeps every conflicted color with its highest-priority
// claimant and moves the others to their next best color.
// It returns the number of conflicts found.
func (t *table) resolveConflicts() int {
	conflicts := t.detectConflicts()
	for _, cf := range conflicts {
		winner := cf.claimants[0]
		for _, i := range cf.claimants[1:] {
			if t.palette.Rank(i, cf.color) < t.palette.Rank(winner, cf.color) {
				winner = i
			}
		}
		for _, i := range cf.claimants {
			if i == winner {
				continue
			}
			p := t.procs[i]
			alt := t.pickColor(i, func(c domain.Color) bool {
				return c == cf.color || p.HasYielded(c)
			})
			if alt == domain.NoColor {
				continue
			}
			p.Wanted = alt
			p.Yielded = append(p.Yielded, cf.color)
		}
	}
	return len(conflicts)
}

// orderColors sorts colors by palette position, unknown colors last in
// their original order.
func (t *table) orderColors(colors []domain.Color) []domain.Color {
	out := make([]domain.Color, 0, len(colors))
	for _, pc := range t.palette {
		for _, c := range colors {
			if c == pc {
				out = append(out, c)
			}
		}
	}
	for _, c := range colors {
		if !t.palette.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}
