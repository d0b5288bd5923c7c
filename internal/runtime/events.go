package runtime

import (
	"context"
	"time"

	"github.com/aretw0/colorsort/pkg/domain"
)

func (e *Engine) base(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, RunID: e.run.id}
}

// each queues fn for every registered hook set. Queued callbacks run once
// the engine lock is released.
func (e *Engine) each(fn func(domain.LifecycleHooks)) {
	if len(e.hooks) == 0 {
		return
	}
	hooks := e.hooks
	e.outbox = append(e.outbox, func() {
		for _, h := range hooks {
			fn(h)
		}
	})
}

func (e *Engine) emitRun(ctx context.Context, t domain.EventType) {
	r := e.run
	ev := &domain.RunEvent{
		EventBase: e.base(t),
		Processes: len(r.procs),
		Tokens:    e.initial.Size(),
		Feasible:  r.feasibleRun,
	}
	e.each(func(h domain.LifecycleHooks) {
		var fn func(context.Context, *domain.RunEvent)
		switch t {
		case domain.EventInitialized:
			fn = h.OnInitialized
		case domain.EventStarting:
			fn = h.OnStarting
		case domain.EventReset:
			fn = h.OnReset
		}
		if fn != nil {
			fn(ctx, ev)
		}
	})
}

func (e *Engine) emitCompleted(ctx context.Context, forced bool) {
	r := e.run
	ev := &domain.CompletionEvent{
		EventBase: e.base(domain.EventCompleted),
		Iteration: r.iteration,
		Exchanges: r.exchanges,
		Potential: r.potential(),
		Forced:    forced,
		Reason:    r.reason,
	}
	e.each(func(h domain.LifecycleHooks) {
		if h.OnCompleted != nil {
			h.OnCompleted(ctx, ev)
		}
	})
}

func (e *Engine) emitWarning(ctx context.Context, msg string, err error) {
	ev := &domain.WarningEvent{
		EventBase: e.base(domain.EventWarning),
		Message:   msg,
		Err:       err,
	}
	e.each(func(h domain.LifecycleHooks) {
		if h.OnWarning != nil {
			h.OnWarning(ctx, ev)
		}
	})
}
