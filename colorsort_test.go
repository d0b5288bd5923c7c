package colorsort_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/colorsort"
	"github.com/aretw0/colorsort/pkg/adapters/memory"
	"github.com/aretw0/colorsort/pkg/domain"
)

func scenarioB() domain.Distribution {
	return domain.Distribution{
		"P1": {"R"},
		"P2": {"G"},
		"P3": {"R"},
	}
}

func TestSimulation_Lifecycle(t *testing.T) {
	store := memory.NewHistoryStore()
	var completed bool
	sim, err := colorsort.New(scenarioB(),
		colorsort.WithName("scenario-b"),
		colorsort.WithPalette("R", "G", "B"),
		colorsort.WithHistoryStore(store),
		colorsort.WithLifecycleHooks(domain.LifecycleHooks{
			OnCompleted: func(context.Context, *domain.CompletionEvent) { completed = true },
		}),
	)
	require.NoError(t, err)
	assert.Equal(t, "scenario-b", sim.Name)
	assert.Equal(t, colorsort.DefaultLimits(), sim.Limits())

	ctx := context.Background()
	require.NoError(t, sim.Start(ctx))
	assert.True(t, completed)

	st := sim.State()
	assert.True(t, st.Complete)
	assert.Zero(t, sim.Potential())

	n, err := store.Len(ctx)
	require.NoError(t, err)
	history, err := sim.History(ctx)
	require.NoError(t, err)
	assert.Len(t, history, n, "history is served from the injected store")

	require.NoError(t, sim.Reset(ctx, nil))
	assert.Equal(t, domain.StatusIdle, sim.State().Status)
	assert.Equal(t, scenarioB(), sim.Distribution())
}

func TestNew_RejectsInvalidInput(t *testing.T) {
	_, err := colorsort.New(domain.Distribution{})
	assert.ErrorIs(t, err, domain.ErrEmptyDistribution)

	_, err = colorsort.New(scenarioB(), colorsort.WithPalette("R"))
	assert.ErrorIs(t, err, domain.ErrUnknownColor)

	_, err = colorsort.New(scenarioB(), colorsort.WithLimits(colorsort.Limits{DefaultThreshold: 2}))
	assert.Error(t, err)
}

func TestSimulation_Analyze(t *testing.T) {
	sim, err := colorsort.New(scenarioB())
	require.NoError(t, err)

	a := sim.Analyze()
	assert.False(t, a.Feasible, "two processes would need the same color")
	assert.Equal(t, 3, a.Tokens)
	assert.Zero(t, a.Potential)
}

func TestRunner_Headless(t *testing.T) {
	sim, err := colorsort.New(scenarioB())
	require.NoError(t, err)

	var out bytes.Buffer
	r := colorsort.NewRunner(&out)
	r.Headless = true
	require.NoError(t, r.Run(context.Background(), sim))

	assert.Equal(t, "completed converged iterations=3 exchanges=0 potential=0\n", out.String())
}

func TestRunner_Report(t *testing.T) {
	sim, err := colorsort.New(scenarioB())
	require.NoError(t, err)

	var out bytes.Buffer
	var rendered string
	r := &colorsort.Runner{
		Output: &out,
		Trace:  true,
		Title:  "Scenario B",
		Renderer: func(md string) (string, error) {
			rendered = md
			return strings.ToUpper(md), nil
		},
	}
	require.NoError(t, r.Run(context.Background(), sim))

	assert.Contains(t, rendered, "# Scenario B")
	assert.Contains(t, rendered, "| P2 | G | - | true |")
	assert.Contains(t, rendered, "- R: 2")
	assert.Contains(t, out.String(), "--- colorsort ---")
	assert.Contains(t, out.String(), "#3 potential=0")
	assert.Contains(t, out.String(), "**OUTCOME**: COMPLETED (CONVERGED)")
}

func TestRunner_RequiresOutput(t *testing.T) {
	sim, err := colorsort.New(scenarioB())
	require.NoError(t, err)
	assert.Error(t, (&colorsort.Runner{}).Run(context.Background(), sim))
}

func TestFormatStack(t *testing.T) {
	assert.Equal(t, "-", colorsort.FormatStack(nil))
	assert.Equal(t, "R G", colorsort.FormatStack([]domain.Color{"R", "G"}))
}
