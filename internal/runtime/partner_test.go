package runtime

import (
	"testing"

	"github.com/aretw0/colorsort/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestScorePartner(t *testing.T) {
	tb := newTable(domain.Distribution{
		"P1": stack("RRGGB"),
		"P2": stack("RRRB"),
		"P3": stack("RG"),
	}, rgb)
	tb.procs[0].Wanted = "R"
	tb.procs[1].Wanted = "B"
	tb.procs[2].Wanted = "R"

	// 3 x 3 held R + 2 x 1 spare B.
	assert.Equal(t, 11, tb.scorePartner(0, 1))
	// 3 x 1 held R - 20 rival.
	assert.Equal(t, -17, tb.scorePartner(0, 2))
}

func TestScorePartner_OwnWantedIsNotSpare(t *testing.T) {
	tb := newTable(domain.Distribution{
		"P1": stack("GG"),
		"P2": stack("B"),
	}, rgb)
	tb.procs[0].Wanted = "G"
	tb.procs[1].Wanted = "G"

	assert.Equal(t, -20, tb.scorePartner(0, 1))
}

func TestChoosePartner_BestScore(t *testing.T) {
	tb := newTable(domain.Distribution{
		"P1": stack("RRRGGGBBBR"),
		"P2": stack("GGGRRBBBRR"),
		"P3": stack("BBBBRGGGGR"),
	}, rgb)
	tb.procs[0].Wanted = "R"
	tb.procs[1].Wanted = "G"
	tb.procs[2].Wanted = "B"

	tb.choosePartner(0)
	tb.choosePartner(1)
	tb.choosePartner(2)

	assert.Equal(t, domain.ProcessID("P2"), tb.procs[0].Partner)
	assert.Equal(t, domain.ProcessID("P3"), tb.procs[1].Partner)
	assert.Equal(t, domain.ProcessID("P2"), tb.procs[2].Partner)
}

func TestChoosePartner_RoundRobinFallback(t *testing.T) {
	tb := newTable(domain.Distribution{
		"P1": stack("R"),
		"P2": stack("G"),
		"P3": stack("G"),
		"P4": stack("B"),
	}, rgb)
	for i := range tb.procs {
		tb.procs[i].Wanted = tb.procs[i].Stack[0]
	}
	tb.procs[0].Wanted = "Y" // nobody holds it

	tb.choosePartner(0)
	assert.Equal(t, domain.ProcessID("P2"), tb.procs[0].Partner)
	tb.choosePartner(0)
	assert.Equal(t, domain.ProcessID("P3"), tb.procs[0].Partner)

	tb.procs[3].Done = true
	tb.choosePartner(0)
	assert.Equal(t, domain.ProcessID("P2"), tb.procs[0].Partner, "rotation wraps around active candidates")
}

func TestChoosePartner_NoCandidates(t *testing.T) {
	tb := newTable(domain.Distribution{
		"P1": stack("R"),
		"P2": stack("G"),
	}, rgb)
	tb.procs[0].Partner = "P2"
	tb.procs[1].Done = true

	tb.choosePartner(0)
	assert.Equal(t, domain.NoProcess, tb.procs[0].Partner)
}
