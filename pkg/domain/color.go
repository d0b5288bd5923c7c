package domain

// Color identifies a token color. Values are opaque beyond equality.
type Color string

// NoColor marks an unset wanted color.
const NoColor Color = ""

// Palette is the ordered set of colors of a run.
// The order defines the priority rotation used to break ties between processes.
type Palette []Color

// Index returns the position of c in the palette, or -1.
func (p Palette) Index(c Color) int {
	for i, pc := range p {
		if pc == c {
			return i
		}
	}
	return -1
}

// Contains reports whether c belongs to the palette.
func (p Palette) Contains(c Color) bool {
	return p.Index(c) >= 0
}

// Rank returns the preference rank of c for the process at position idx.
// Rank 0 is the first preference. Every process starts its rotation at a
// different color so that, absent contention, processes drift apart.
// Colors outside the palette rank last.
func (p Palette) Rank(idx int, c Color) int {
	n := len(p)
	ci := p.Index(c)
	if n == 0 || ci < 0 {
		return n
	}
	return ((ci-idx)%n + n) % n
}

// ParseColors converts raw strings into colors.
func ParseColors(raw []string) []Color {
	out := make([]Color, len(raw))
	for i, s := range raw {
		out[i] = Color(s)
	}
	return out
}
