package runtime_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/colorsort/internal/runtime"
	"github.com/aretw0/colorsort/pkg/domain"
)

var rgb = domain.Palette{"R", "G", "B"}

func colors(s string) []domain.Color {
	out := make([]domain.Color, 0, len(s))
	for _, r := range s {
		out = append(out, domain.Color(string(r)))
	}
	return out
}

func scenarioA() domain.Distribution {
	return domain.Distribution{
		"P1": colors("RRRGGGBBBR"),
		"P2": colors("GGGRRBBBRR"),
		"P3": colors("BBBBRGGGGR"),
	}
}

func runToEnd(t *testing.T, dist domain.Distribution, opts ...runtime.EngineOption) (*runtime.Engine, domain.SystemState) {
	t.Helper()
	e, err := runtime.NewEngine(dist, opts...)
	require.NoError(t, err)
	require.NoError(t, e.Start(context.Background()))
	return e, e.State()
}

func TestEngine_ScenarioA_Converges(t *testing.T) {
	e, st := runToEnd(t, scenarioA(), runtime.WithPalette(rgb))

	assert.True(t, st.Complete)
	assert.Equal(t, domain.StatusCompleted, st.Status)
	assert.Equal(t, domain.ReasonConverged, st.Reason)
	assert.False(t, st.Forced())
	assert.Zero(t, st.Potential)
	assert.Zero(t, e.Potential())
	assert.Empty(t, st.PendingMessages)
	assert.Positive(t, st.TotalExchanges)

	seen := map[domain.Color]bool{}
	for _, p := range st.Processes {
		assert.True(t, p.Done, p.ID)
		assert.Len(t, p.Stack, 10, p.ID)
		assert.True(t, p.Monochrome(), "%s holds %v", p.ID, p.Stack)
		seen[p.Stack[0]] = true
	}
	assert.Len(t, seen, 3, "each process ends with a distinct color")

	want := map[domain.Color]int{"R": 10, "G": 10, "B": 10}
	assert.Equal(t, want, st.ColorTotals())
}

func TestEngine_ScenarioA_DerivedPalette(t *testing.T) {
	_, st := runToEnd(t, scenarioA())
	assert.Equal(t, domain.ReasonConverged, st.Reason)
	assert.Zero(t, st.Potential)
}

func TestEngine_ScenarioB_NoExchanges(t *testing.T) {
	dist := domain.Distribution{
		"P1": colors("R"),
		"P2": colors("G"),
		"P3": colors("R"),
	}
	_, st := runToEnd(t, dist, runtime.WithPalette(rgb))

	assert.True(t, st.Complete)
	assert.Equal(t, domain.ReasonConverged, st.Reason)
	assert.Zero(t, st.TotalExchanges)
	for _, p := range st.Processes {
		assert.Equal(t, dist[p.ID], p.Stack, p.ID)
		assert.True(t, p.Done, p.ID)
	}
	assert.Equal(t, map[domain.Color]int{"R": 2, "G": 1}, st.ColorTotals())
}

func TestEngine_ScenarioC_EmptyProcess(t *testing.T) {
	dist := domain.Distribution{
		"P1": nil,
		"P2": colors("G"),
		"P3": colors("RG"),
	}
	_, st := runToEnd(t, dist, runtime.WithPalette(rgb))

	assert.True(t, st.Complete)
	p1, ok := st.Process("P1")
	require.True(t, ok)
	assert.True(t, p1.Done)
	assert.Empty(t, p1.Stack)
	assert.Equal(t, map[domain.Color]int{"R": 1, "G": 2}, st.ColorTotals())
}

func TestEngine_ForcedCompletion(t *testing.T) {
	tests := []struct {
		name      string
		dist      domain.Distribution
		palette   domain.Palette
		limits    runtime.Limits
		reason    domain.CompletionReason
		iteration int
	}{
		{
			name:      "stagnation",
			dist:      domain.Distribution{"P1": colors("BR"), "P2": colors("BG")},
			palette:   rgb,
			reason:    domain.ReasonStagnation,
			iteration: 50,
		},
		{
			name:      "stalled",
			dist:      domain.Distribution{"P1": colors("RG"), "P2": colors("R")},
			reason:    domain.ReasonStalled,
			iteration: 1,
		},
		{
			name:      "iteration limit",
			dist:      scenarioA(),
			palette:   rgb,
			limits:    runtime.Limits{MaxIterations: 5},
			reason:    domain.ReasonIterationLimit,
			iteration: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var completed []*domain.CompletionEvent
			hooks := domain.LifecycleHooks{
				OnCompleted: func(_ context.Context, ev *domain.CompletionEvent) {
					completed = append(completed, ev)
				},
			}
			e, st := runToEnd(t, tt.dist,
				runtime.WithPalette(tt.palette),
				runtime.WithLimits(tt.limits),
				runtime.WithLifecycleHooks(hooks),
			)

			assert.True(t, st.Complete)
			assert.True(t, st.Forced())
			assert.Equal(t, domain.StatusForceCompleted, st.Status)
			assert.Equal(t, tt.reason, st.Reason)
			assert.Equal(t, tt.iteration, st.Iteration)
			assert.Empty(t, st.PendingMessages, "forced completion leaves nothing in flight")
			for _, p := range st.Processes {
				assert.True(t, p.Done, p.ID)
			}
			require.NoError(t, domain.CheckConservation(tt.dist.Totals(), st))

			require.Len(t, completed, 1)
			assert.True(t, completed[0].Forced)
			assert.Equal(t, tt.reason, completed[0].Reason)

			history, err := e.History(context.Background())
			require.NoError(t, err)
			require.Len(t, history, tt.iteration+1, "one snapshot per iteration plus the final one")
			assert.Equal(t, st, history[len(history)-1])
		})
	}
}

func TestEngine_HistoryInvariants(t *testing.T) {
	dists := map[string]domain.Distribution{
		"scenario A": scenarioA(),
		"uneven": {
			"P1": colors("RRGB"),
			"P2": colors("GGR"),
			"P3": colors("BRRG"),
			"P4": colors("G"),
		},
		"single process": {"P1": colors("RGB")},
		"many colors":    {"P1": colors("RGBY"), "P2": colors("YBGR")},
	}

	for name, dist := range dists {
		t.Run(name, func(t *testing.T) {
			e, st := runToEnd(t, dist)
			require.True(t, st.Complete)
			assert.LessOrEqual(t, st.Iteration, e.Limits().MaxIterations)

			history, err := e.History(context.Background())
			require.NoError(t, err)
			require.NotEmpty(t, history)
			totals := dist.Totals()
			for _, snap := range history {
				require.NoError(t, domain.CheckConservation(totals, snap), "iteration %d", snap.Iteration)
				assert.GreaterOrEqual(t, snap.Potential, 0)
			}
		})
	}
}

func TestEngine_Deterministic(t *testing.T) {
	e1, st1 := runToEnd(t, scenarioA(), runtime.WithPalette(rgb))
	e2, st2 := runToEnd(t, scenarioA(), runtime.WithPalette(rgb))

	if diff := cmp.Diff(st1, st2); diff != "" {
		t.Errorf("final state mismatch (-first +second):\n%s", diff)
	}

	h1, err := e1.History(context.Background())
	require.NoError(t, err)
	h2, err := e2.History(context.Background())
	require.NoError(t, err)
	if diff := cmp.Diff(h1, h2); diff != "" {
		t.Errorf("history mismatch (-first +second):\n%s", diff)
	}
	assert.Len(t, h1, st1.Iteration)
}

func TestEngine_StartAfterCompletionRestarts(t *testing.T) {
	var resets int
	hooks := domain.LifecycleHooks{
		OnReset: func(context.Context, *domain.RunEvent) { resets++ },
	}
	e, first := runToEnd(t, scenarioA(), runtime.WithPalette(rgb), runtime.WithLifecycleHooks(hooks))

	require.NoError(t, e.Start(context.Background()))
	second := e.State()

	assert.Equal(t, 1, resets)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("rerun diverged (-first +second):\n%s", diff)
	}
}

func TestEngine_Reset(t *testing.T) {
	ctx := context.Background()
	e, _ := runToEnd(t, scenarioA(), runtime.WithPalette(rgb))

	t.Run("nil reuses the distribution", func(t *testing.T) {
		require.NoError(t, e.Reset(ctx, nil))
		st := e.State()
		assert.Equal(t, domain.StatusIdle, st.Status)
		assert.False(t, st.Complete)
		assert.Zero(t, st.Iteration)
		assert.Zero(t, st.TotalExchanges)
		for _, p := range st.Processes {
			assert.Equal(t, scenarioA()[p.ID], p.Stack)
			assert.False(t, p.Done)
			assert.Empty(t, p.Yielded)
		}
		history, err := e.History(ctx)
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("new distribution", func(t *testing.T) {
		dist := domain.Distribution{"P1": colors("R"), "P2": colors("G")}
		require.NoError(t, e.Reset(ctx, dist))
		assert.Equal(t, dist, e.Distribution())
		require.NoError(t, e.Start(ctx))
		assert.Equal(t, domain.ReasonConverged, e.State().Reason)
	})

	t.Run("invalid distribution keeps the old one", func(t *testing.T) {
		before := e.Distribution()
		err := e.Reset(ctx, domain.Distribution{"P1": colors("RX")})
		assert.ErrorIs(t, err, domain.ErrUnknownColor)
		assert.Equal(t, before, e.Distribution())
	})
}

func TestNewEngine_Validation(t *testing.T) {
	tests := []struct {
		name string
		dist domain.Distribution
		opts []runtime.EngineOption
		want error
	}{
		{"no processes", domain.Distribution{}, nil, domain.ErrEmptyDistribution},
		{"no tokens", domain.Distribution{"P1": nil, "P2": nil}, nil, domain.ErrEmptyDistribution},
		{"color outside palette", domain.Distribution{"P1": colors("RY")}, []runtime.EngineOption{runtime.WithPalette(rgb)}, domain.ErrUnknownColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runtime.NewEngine(tt.dist, tt.opts...)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := runtime.NewEngine(scenarioA(), runtime.WithLimits(runtime.Limits{TwoColorThreshold: 1.5}))
	assert.Error(t, err)
}

func TestEngine_LifecycleEvents(t *testing.T) {
	var mu sync.Mutex
	var events []domain.EventType
	record := func(et domain.EventType) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, et)
	}
	hooks := domain.LifecycleHooks{
		OnInitialized:      func(_ context.Context, ev *domain.RunEvent) { record(ev.Type) },
		OnStarting:         func(_ context.Context, ev *domain.RunEvent) { record(ev.Type) },
		OnIterationChecked: func(_ context.Context, ev *domain.IterationEvent) { record(ev.Type) },
		OnCompleted:        func(_ context.Context, ev *domain.CompletionEvent) { record(ev.Type) },
	}

	_, st := runToEnd(t, scenarioA(), runtime.WithPalette(rgb), runtime.WithLifecycleHooks(hooks))
	require.Equal(t, domain.ReasonConverged, st.Reason)

	checks := st.Iteration / runtime.DefaultLimits().CheckInterval
	want := []domain.EventType{domain.EventInitialized, domain.EventStarting}
	for i := 0; i < checks; i++ {
		want = append(want, domain.EventIterationChecked)
	}
	want = append(want, domain.EventCompleted)
	assert.Equal(t, want, events)
}

func TestEngine_HooksMayCallBack(t *testing.T) {
	var e *runtime.Engine
	var observed domain.SystemState
	hooks := domain.LifecycleHooks{
		OnCompleted: func(context.Context, *domain.CompletionEvent) {
			observed = e.State()
		},
	}
	var err error
	e, err = runtime.NewEngine(scenarioA(), runtime.WithLifecycleHooks(hooks))
	require.NoError(t, err)
	require.NoError(t, e.Start(context.Background()))
	assert.True(t, observed.Complete)
}

func slowEngine(t *testing.T, started chan<- struct{}) *runtime.Engine {
	t.Helper()
	hooks := domain.LifecycleHooks{
		OnStarting: func(context.Context, *domain.RunEvent) {
			select {
			case started <- struct{}{}:
			default:
			}
		},
	}
	e, err := runtime.NewEngine(scenarioA(),
		runtime.WithPalette(rgb),
		runtime.WithLimits(runtime.Limits{StepDelay: 5 * time.Millisecond}),
		runtime.WithLifecycleHooks(hooks),
	)
	require.NoError(t, err)
	return e
}

func TestEngine_AlreadyRunning(t *testing.T) {
	started := make(chan struct{}, 1)
	e := slowEngine(t, started)

	done := make(chan error, 1)
	go func() { done <- e.Start(context.Background()) }()
	<-started

	assert.ErrorIs(t, e.Start(context.Background()), domain.ErrAlreadyRunning)
	assert.Equal(t, domain.StatusRunning, e.State().Status)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("run did not finish")
	}
	assert.Equal(t, domain.ReasonConverged, e.State().Reason)
}

func TestEngine_ResetAbortsRun(t *testing.T) {
	started := make(chan struct{}, 1)
	e := slowEngine(t, started)

	done := make(chan error, 1)
	go func() { done <- e.Start(context.Background()) }()
	<-started

	require.NoError(t, e.Reset(context.Background(), nil))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, domain.ErrRunAborted)
	case <-time.After(5 * time.Second):
		t.Fatal("run was not aborted")
	}
	st := e.State()
	assert.Equal(t, domain.StatusIdle, st.Status)
	assert.Zero(t, st.Iteration)
}

func TestEngine_ContextCancel(t *testing.T) {
	started := make(chan struct{}, 1)
	e := slowEngine(t, started)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Start(ctx) }()
	<-started
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("run ignored cancellation")
	}
	assert.Equal(t, domain.StatusIdle, e.State().Status)
}
