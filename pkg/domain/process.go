package domain

import "sort"

// ProcessID identifies a process.
type ProcessID string

// NoProcess marks an unset partner.
const NoProcess ProcessID = ""

// Process is a participant of the protocol holding a stack of tokens.
type Process struct {
	ID ProcessID `json:"id"`

	// Stack holds the tokens. Order only matters for deterministic removal.
	Stack []Color `json:"stack"`

	// Wanted is the color the process currently collects.
	Wanted Color `json:"wanted,omitempty"`

	// Partner is the process it currently asks for tokens.
	Partner ProcessID `json:"partner,omitempty"`

	// Done is monotonic within a run.
	Done bool `json:"done"`

	// Yielded lists colors conceded to higher-priority processes during conflict resolution.
	Yielded []Color `json:"yielded,omitempty"`

	// Requesting is set while a REQUEST sent by this process is still queued.
	Requesting bool `json:"requesting"`
}

// Count returns how many tokens of color c the process holds.
func (p *Process) Count(c Color) int {
	n := 0
	for _, t := range p.Stack {
		if t == c {
			n++
		}
	}
	return n
}

// Counts returns the per-color token counts of the stack.
func (p *Process) Counts() map[Color]int {
	counts := make(map[Color]int)
	for _, t := range p.Stack {
		counts[t]++
	}
	return counts
}

// Monochrome reports whether the stack holds at most one distinct color.
func (p *Process) Monochrome() bool {
	for _, t := range p.Stack {
		if t != p.Stack[0] {
			return false
		}
	}
	return true
}

// HasYielded reports whether c was conceded during conflict resolution.
func (p *Process) HasYielded(c Color) bool {
	for _, y := range p.Yielded {
		if y == c {
			return true
		}
	}
	return false
}

// Take removes the first token equal to c and different from keep.
// It reports whether a token was removed.
func (p *Process) Take(c, keep Color) bool {
	if c == keep {
		return false
	}
	for i, t := range p.Stack {
		if t == c {
			p.Stack = append(p.Stack[:i], p.Stack[i+1:]...)
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the process.
func (p Process) Clone() Process {
	c := p
	c.Stack = append([]Color(nil), p.Stack...)
	c.Yielded = append([]Color(nil), p.Yielded...)
	return c
}

// SortIDs orders process IDs naturally: shorter IDs first, then lexicographically,
// so that "P2" sorts before "P10".
func SortIDs(ids []ProcessID) {
	sort.Slice(ids, func(i, j int) bool {
		if len(ids[i]) != len(ids[j]) {
			return len(ids[i]) < len(ids[j])
		}
		return ids[i] < ids[j]
	})
}
