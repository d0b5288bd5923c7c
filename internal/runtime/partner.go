package runtime

import "github.com/aretw0/colorsort/pkg/domain"

// Partner scoring weights.
const (
	weightHeld   = 3  // per candidate token of the wanted color
	penaltyRival = 20 // candidate chases the same color
	weightMutual = 2  // per own spare token the candidate wants
)

// scorePartner rates candidate j as a partner for process i.
func (t *table) scorePartner(i, j int) int {
	p, c := t.procs[i], t.procs[j]
	score := 0
	if p.Wanted != domain.NoColor {
		score += weightHeld * c.Count(p.Wanted)
		if c.Wanted == p.Wanted {
			score -= penaltyRival
		}
	}
	if c.Wanted != domain.NoColor && c.Wanted != p.Wanted {
		score += weightMutual * p.Count(c.Wanted)
	}
	return score
}

// choosePartner picks the best scoring active partner of process i.
// Without any positive score it rotates to the candidate following the
// current partner. Without candidates the partner is cleared.
func (t *table) choosePartner(i int) {
	p := t.procs[i]

	var candidates []int
	for j, c := range t.procs {
		if j != i && !c.Done {
			candidates = append(candidates, j)
		}
	}
	if len(candidates) == 0 {
		p.Partner = domain.NoProcess
		return
	}

	best, bestScore := -1, 0
	for _, j := range candidates {
		if s := t.scorePartner(i, j); s > bestScore {
			best, bestScore = j, s
		}
	}
	if best >= 0 {
		p.Partner = t.procs[best].ID
		return
	}

	// Round-robin after the current partner, or after the process itself.
	from := i
	if cur, ok := t.index(p.Partner); ok {
		from = cur
	}
	next := candidates[0]
	for _, j := range candidates {
		if j > from {
			next = j
			break
		}
	}
	p.Partner = t.procs[next].ID
}
