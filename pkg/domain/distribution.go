package domain

import "fmt"

// Distribution assigns an initial token stack to every process.
type Distribution map[ProcessID][]Color

// IDs returns the process IDs in natural order.
func (d Distribution) IDs() []ProcessID {
	ids := make([]ProcessID, 0, len(d))
	for id := range d {
		ids = append(ids, id)
	}
	SortIDs(ids)
	return ids
}

// Clone returns a deep copy of the distribution.
func (d Distribution) Clone() Distribution {
	if d == nil {
		return nil
	}
	out := make(Distribution, len(d))
	for id, stack := range d {
		out[id] = append([]Color(nil), stack...)
	}
	return out
}

// Totals counts tokens per color across all processes.
func (d Distribution) Totals() map[Color]int {
	totals := make(map[Color]int)
	for _, stack := range d {
		for _, c := range stack {
			totals[c]++
		}
	}
	return totals
}

// Size returns the total number of tokens.
func (d Distribution) Size() int {
	n := 0
	for _, stack := range d {
		n += len(stack)
	}
	return n
}

// Palette derives a palette from the distribution, ordering colors by first
// appearance when scanning processes in natural order.
func (d Distribution) Palette() Palette {
	var p Palette
	seen := make(map[Color]bool)
	for _, id := range d.IDs() {
		for _, c := range d[id] {
			if !seen[c] {
				seen[c] = true
				p = append(p, c)
			}
		}
	}
	return p
}

// Validate rejects distributions the engine cannot run.
// An empty palette accepts any color.
func (d Distribution) Validate(palette Palette) error {
	if len(d) == 0 || d.Size() == 0 {
		return ErrEmptyDistribution
	}
	for _, id := range d.IDs() {
		if id == NoProcess {
			return fmt.Errorf("process with empty id: %w", ErrEmptyDistribution)
		}
		for _, c := range d[id] {
			if c == NoColor || (len(palette) > 0 && !palette.Contains(c)) {
				return fmt.Errorf("process %s holds %q: %w", id, c, ErrUnknownColor)
			}
		}
	}
	return nil
}
