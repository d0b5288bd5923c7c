package runtime

import (
	"sort"

	"github.com/aretw0/colorsort/pkg/domain"
)

// Analysis summarises the convergence prospects of a distribution.
type Analysis struct {
	Feasible  bool                 `json:"feasible"`
	Share     int                  `json:"share"`
	Potential int                  `json:"potential"`
	Tokens    int                  `json:"tokens"`
	Totals    map[domain.Color]int `json:"totals"`
}

// Analyze reports feasibility and potential of a distribution without running it.
func Analyze(dist domain.Distribution) Analysis {
	t := newTable(dist, dist.Palette())
	feasible, share := t.feasible()
	return Analysis{
		Feasible:  feasible,
		Share:     share,
		Potential: t.potential(),
		Tokens:    dist.Size(),
		Totals:    dist.Totals(),
	}
}

// feasible reports whether every process can end with exactly total/n
// tokens of one distinct color, and returns that share.
func (t *table) feasible() (bool, int) {
	n := len(t.procs)
	if n == 0 {
		return false, 0
	}
	totals := make(map[domain.Color]int)
	total := 0
	for _, p := range t.procs {
		for _, c := range p.Stack {
			totals[c]++
			total++
		}
	}
	if len(totals) < n || total%n != 0 {
		return false, 0
	}
	share := total / n

	counts := make([]int, 0, len(totals))
	for _, k := range totals {
		counts = append(counts, k)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))

	// Greedy: the largest colors fill one process each; nothing may be left over.
	assigned := 0
	for _, k := range counts {
		if assigned == n {
			return false, 0
		}
		if k != share {
			return false, 0
		}
		assigned++
	}
	return assigned == n, share
}

// isComplete is the per-process termination test.
func (t *table) isComplete(i int, feasible bool, share int, limits Limits) bool {
	p := t.procs[i]
	if len(p.Stack) == 0 {
		return true
	}
	if feasible {
		return p.Monochrome() && len(p.Stack) == share
	}

	own := t.target(i)
	for j, q := range t.procs {
		if j == i || q.Done {
			continue
		}
		qt := t.target(j)
		// Someone still holds our color without wanting it.
		if qt != own && q.Count(own) > 0 {
			return false
		}
		// We still hold a spare token someone else wants.
		if qt != domain.NoColor && qt != own && p.Count(qt) > 0 {
			return false
		}
	}

	counts := p.Counts()
	top := 0
	for _, k := range counts {
		if k > top {
			top = k
		}
	}
	threshold := limits.DefaultThreshold
	if len(counts) == 2 {
		threshold = limits.TwoColorThreshold
	}
	return float64(top)/float64(len(p.Stack)) >= threshold
}

// potential is the number of tokens not matching their holder's dominant color.
func (t *table) potential() int {
	phi := 0
	for _, p := range t.procs {
		top := 0
		for _, k := range p.Counts() {
			if k > top {
				top = k
			}
		}
		phi += len(p.Stack) - top
	}
	return phi
}
