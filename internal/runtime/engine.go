package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/colorsort/internal/logging"
	"github.com/aretw0/colorsort/pkg/adapters/memory"
	"github.com/aretw0/colorsort/pkg/domain"
	"github.com/aretw0/colorsort/pkg/ports"
)

// run is the state owned by a single run. Reset replaces it wholesale.
type run struct {
	*table
	id          int
	queue       *Queue
	totals      map[domain.Color]int
	feasibleRun bool
	share       int
	exchanges   int
	iteration   int
	best        int
	stagnant    int
	status      domain.RunStatus
	reason      domain.CompletionReason
}

// Engine is the simulation driver. It owns the process table, the message
// queue and the run history, and is the only writer of all three.
// Every exported method is safe for concurrent use; the run loop itself is
// single-threaded and releases the lock between iterations.
type Engine struct {
	mu      sync.Mutex
	logger  *slog.Logger
	hooks   []domain.LifecycleHooks
	limits  Limits
	palette domain.Palette
	history ports.HistoryStore

	initial domain.Distribution
	run     *run
	runs    int
	outbox  []func()
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks. It may be used several times.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = append(e.hooks, hooks)
	}
}

// WithLimits overrides the tuning values. Zero fields keep their defaults.
func WithLimits(l Limits) EngineOption {
	return func(e *Engine) {
		e.limits = l.WithDefaults()
	}
}

// WithPalette fixes the palette. Distributions holding other colors are rejected.
func WithPalette(p domain.Palette) EngineOption {
	return func(e *Engine) {
		e.palette = append(domain.Palette(nil), p...)
	}
}

// WithHistoryStore sets where run snapshots are appended.
func WithHistoryStore(s ports.HistoryStore) EngineOption {
	return func(e *Engine) {
		if s != nil {
			e.history = s
		}
	}
}

// NewEngine creates an idle engine over the given distribution.
func NewEngine(dist domain.Distribution, opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		logger:  logging.NewNop(),
		limits:  DefaultLimits(),
		history: memory.NewHistoryStore(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.limits.Validate(); err != nil {
		return nil, fmt.Errorf("invalid limits: %w", err)
	}
	if err := dist.Validate(e.palette); err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.initial = dist.Clone()
	e.newRun(context.Background())
	e.mu.Unlock()
	e.flush()
	return e, nil
}

// Limits returns the tuning values in use.
func (e *Engine) Limits() Limits {
	return e.limits
}

// Start runs the protocol until every process is done and the queue is
// empty, or until a safety valve forces completion.
// It returns domain.ErrAlreadyRunning if a run is in progress and
// domain.ErrRunAborted if a Reset discarded the run.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.run.status == domain.StatusRunning {
		e.mu.Unlock()
		return domain.ErrAlreadyRunning
	}
	if e.run.status != domain.StatusIdle {
		// A finished run restarts from the configured distribution.
		e.resetLocked(ctx)
	}
	r := e.run
	r.status = domain.StatusRunning
	e.seed(ctx)
	e.mu.Unlock()
	e.flush()

	e.logger.InfoContext(ctx, "run started", "run_id", r.id, "processes", len(r.procs), "feasible", r.feasibleRun)

	for {
		var finished bool
		err := e.locked(func() error {
			if e.run != r {
				return domain.ErrRunAborted
			}
			if err := ctx.Err(); err != nil {
				e.resetLocked(ctx)
				return err
			}
			var err error
			finished, err = e.step(ctx)
			return err
		})
		if err != nil {
			return err
		}
		if finished {
			return nil
		}
		if d := e.limits.StepDelay; d > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(d):
			}
		}
	}
}

// Reset discards all run state and reinitializes from dist. A nil dist
// reuses the previous distribution. A run in progress is aborted.
func (e *Engine) Reset(ctx context.Context, dist domain.Distribution) error {
	if dist != nil {
		if err := dist.Validate(e.palette); err != nil {
			return err
		}
	}
	return e.locked(func() error {
		if dist != nil {
			e.initial = dist.Clone()
		}
		e.resetLocked(ctx)
		return nil
	})
}

// State returns a point-in-time snapshot.
func (e *Engine) State() domain.SystemState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// History returns every snapshot recorded during the current run.
func (e *Engine) History(ctx context.Context) ([]domain.SystemState, error) {
	return e.history.List(ctx)
}

// Potential returns the current potential.
func (e *Engine) Potential() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.run.potential()
}

// Distribution returns a copy of the configured initial distribution.
func (e *Engine) Distribution() domain.Distribution {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initial.Clone()
}

// locked runs fn under the engine lock and delivers queued events afterwards,
// so hooks may call back into the engine.
func (e *Engine) locked(fn func() error) error {
	e.mu.Lock()
	err := fn()
	e.mu.Unlock()
	e.flush()
	return err
}

func (e *Engine) flush() {
	e.mu.Lock()
	events := e.outbox
	e.outbox = nil
	e.mu.Unlock()
	for _, ev := range events {
		ev()
	}
}

func (e *Engine) resetLocked(ctx context.Context) {
	prev := e.run.id
	e.newRun(ctx)
	e.emitRun(ctx, domain.EventReset)
	e.logger.DebugContext(ctx, "engine reset", "previous_run", prev, "run_id", e.run.id)
}

// newRun builds fresh run state from the configured distribution.
func (e *Engine) newRun(ctx context.Context) {
	palette := e.palette
	if len(palette) == 0 {
		palette = e.initial.Palette()
	}
	e.runs++
	r := &run{
		table:  newTable(e.initial, palette),
		id:     e.runs,
		queue:  NewQueue(),
		totals: e.initial.Totals(),
		status: domain.StatusIdle,
	}
	r.feasibleRun, r.share = r.feasible()
	e.run = r
	if err := e.history.Clear(ctx); err != nil {
		e.logger.WarnContext(ctx, "failed to clear history", "err", err)
	}
	e.emitRun(ctx, domain.EventInitialized)
}

// seed performs the initial completion check and issues the first requests.
func (e *Engine) seed(ctx context.Context) {
	r := e.run
	for i := range r.procs {
		if r.isComplete(i, r.feasibleRun, r.share, e.limits) {
			e.markDone(i)
		}
	}
	for i, p := range r.procs {
		if !p.Done {
			r.computeWanted(i)
		}
	}
	r.resolveConflicts()
	for i, p := range r.procs {
		if !p.Done {
			r.choosePartner(i)
			e.request(i)
		}
	}
	r.best = r.potential()
	e.emitRun(ctx, domain.EventStarting)
}

// step performs one loop iteration. It reports whether the run ended.
func (e *Engine) step(ctx context.Context) (bool, error) {
	r := e.run

	if r.queue.Len() == 0 {
		if r.allDone() {
			e.finish(ctx, domain.ReasonConverged)
			return true, nil
		}
		issued := false
		for i, p := range r.procs {
			if !p.Done && !p.Requesting && e.refresh(i) {
				issued = true
			}
		}
		if !issued {
			e.forceComplete(ctx, domain.ReasonStalled)
			return true, nil
		}
		return false, nil
	}

	m, _ := r.queue.Pop()
	e.dispatch(ctx, m)
	r.iteration++

	snap := e.snapshot()
	if err := domain.CheckConservation(r.totals, snap); err != nil {
		e.logger.ErrorContext(ctx, "conservation check failed", "err", err, "iteration", r.iteration)
		e.emitWarning(ctx, "conservation check failed", err)
		r.status = domain.StatusIdle
		return true, fmt.Errorf("iteration %d: %w", r.iteration, err)
	}
	if err := e.history.Append(ctx, snap); err != nil {
		return true, fmt.Errorf("failed to record history: %w", err)
	}

	if r.queue.Len() == 0 && r.allDone() {
		e.finish(ctx, domain.ReasonConverged)
		return true, nil
	}

	if r.iteration%e.limits.CheckInterval == 0 && e.checkpoint(ctx) {
		return true, nil
	}

	if r.iteration >= e.limits.MaxIterations {
		r.resolveConflicts()
		e.emitWarning(ctx, fmt.Sprintf("iteration limit %d reached", e.limits.MaxIterations), nil)
		e.forceComplete(ctx, domain.ReasonIterationLimit)
		return true, nil
	}
	return false, nil
}

// checkpoint re-resolves conflicts and tracks potential. It reports whether
// stagnation forced completion.
func (e *Engine) checkpoint(ctx context.Context) bool {
	r := e.run
	conflicts := r.resolveConflicts()
	phi := r.potential()
	if phi < r.best {
		r.best = phi
		r.stagnant = 0
	} else {
		r.stagnant++
	}

	ev := &domain.IterationEvent{
		EventBase:      e.base(domain.EventIterationChecked),
		Iteration:      r.iteration,
		Potential:      phi,
		BestPotential:  r.best,
		StagnantChecks: r.stagnant,
		Conflicts:      conflicts,
		Exchanges:      r.exchanges,
	}
	e.each(func(h domain.LifecycleHooks) {
		if h.OnIterationChecked != nil {
			h.OnIterationChecked(ctx, ev)
		}
	})

	if r.stagnant >= e.limits.StagnationChecks {
		e.emitWarning(ctx, fmt.Sprintf("potential stagnant at %d for %d checks", phi, r.stagnant), nil)
		e.forceComplete(ctx, domain.ReasonStagnation)
		return true
	}
	return false
}

// forceComplete delivers tokens still in flight, drops every other message
// and terminates all remaining processes.
func (e *Engine) forceComplete(ctx context.Context, reason domain.CompletionReason) {
	r := e.run
	for _, m := range r.queue.Drain() {
		if !m.CarriesToken() {
			continue
		}
		if to, ok := r.index(m.To); ok {
			r.procs[to].Stack = append(r.procs[to].Stack, m.Color)
			r.exchanges++
		} else if from, ok := r.index(m.From); ok {
			r.procs[from].Stack = append(r.procs[from].Stack, m.Color)
		}
	}
	for _, p := range r.procs {
		p.Done = true
		p.Requesting = false
	}
	r.status = domain.StatusForceCompleted
	r.reason = reason

	if err := e.history.Append(ctx, e.snapshot()); err != nil {
		e.logger.WarnContext(ctx, "failed to record final snapshot", "err", err)
	}
	e.logger.WarnContext(ctx, "run force-completed", "run_id", r.id, "reason", reason, "iteration", r.iteration)
	e.emitCompleted(ctx, true)
}

func (e *Engine) finish(ctx context.Context, reason domain.CompletionReason) {
	r := e.run
	r.status = domain.StatusCompleted
	r.reason = reason
	e.logger.InfoContext(ctx, "run completed", "run_id", r.id, "iteration", r.iteration, "exchanges", r.exchanges)
	e.emitCompleted(ctx, false)
}

// snapshot copies the live state. Callers hold the lock.
func (e *Engine) snapshot() domain.SystemState {
	r := e.run
	return domain.SystemState{
		Processes:       r.snapshotProcs(),
		PendingMessages: r.queue.Snapshot(),
		TotalExchanges:  r.exchanges,
		Complete:        e.complete(),
		Status:          r.status,
		Iteration:       r.iteration,
		Potential:       r.potential(),
		Reason:          r.reason,
	}
}

// complete is true once the run ended, or when the oracle accepts every
// process with no token in flight.
func (e *Engine) complete() bool {
	r := e.run
	if r.status == domain.StatusCompleted || r.status == domain.StatusForceCompleted {
		return true
	}
	for _, m := range r.queue.items {
		if m.CarriesToken() {
			return false
		}
	}
	for i, p := range r.procs {
		if !p.Done && !r.isComplete(i, r.feasibleRun, r.share, e.limits) {
			return false
		}
	}
	return true
}
