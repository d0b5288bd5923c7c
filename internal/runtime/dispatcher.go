package runtime

import (
	"context"

	"github.com/aretw0/colorsort/pkg/domain"
)

// dispatch applies one message to the process table.
// Messages naming unknown processes are dropped.
func (e *Engine) dispatch(ctx context.Context, m domain.Message) {
	r := e.run
	switch m.Kind {
	case domain.KindRequest:
		from, okFrom := r.index(m.From)
		to, okTo := r.index(m.To)
		if !okFrom || !okTo {
			e.drop(ctx, m)
			return
		}
		r.procs[from].Requesting = false
		e.onRequest(ctx, from, to, m.Color)

	case domain.KindSend:
		to, ok := r.index(m.To)
		if !ok {
			// The token must not vanish: keep it with the sender when possible.
			if from, ok := r.index(m.From); ok {
				r.procs[from].Stack = append(r.procs[from].Stack, m.Color)
			}
			e.drop(ctx, m)
			return
		}
		e.onSend(ctx, to, m.Color)

	case domain.KindDone:
		from, ok := r.index(m.From)
		if !ok {
			e.drop(ctx, m)
			return
		}
		e.markDone(from)

	default:
		e.drop(ctx, m)
	}
}

// onRequest lets recipient to answer a request from process from.
func (e *Engine) onRequest(ctx context.Context, from, to int, c domain.Color) {
	r := e.run
	rcpt := r.procs[to]
	if rcpt.Done {
		return
	}
	if rcpt.Take(c, rcpt.Wanted) {
		r.queue.Push(domain.KindSend, rcpt.ID, r.procs[from].ID, c)
	}
	e.settle(to)
}

// onSend delivers a token. Done recipients still receive it.
func (e *Engine) onSend(ctx context.Context, to int, c domain.Color) {
	r := e.run
	r.procs[to].Stack = append(r.procs[to].Stack, c)
	r.exchanges++
	e.settle(to)
}

// settle re-evaluates completion of process i after a mutation and, if it
// is still active, points it at its next request.
func (e *Engine) settle(i int) {
	r := e.run
	if r.procs[i].Done {
		return
	}
	if r.isComplete(i, r.feasibleRun, r.share, e.limits) {
		e.markDone(i)
		return
	}
	e.refresh(i)
}

// refresh recomputes wanted color and partner of process i and issues a
// request. It reports whether a request was queued.
func (e *Engine) refresh(i int) bool {
	r := e.run
	r.computeWanted(i)
	r.choosePartner(i)
	return e.request(i)
}

// request queues a REQUEST for the wanted color unless one is outstanding.
func (e *Engine) request(i int) bool {
	r := e.run
	p := r.procs[i]
	if p.Done || p.Requesting || p.Partner == domain.NoProcess || p.Wanted == domain.NoColor {
		return false
	}
	r.queue.Push(domain.KindRequest, p.ID, p.Partner, p.Wanted)
	p.Requesting = true
	return true
}

// markDone terminates process i and broadcasts DONE to the other active processes.
func (e *Engine) markDone(i int) {
	r := e.run
	p := r.procs[i]
	if p.Done {
		return
	}
	p.Done = true
	for j, q := range r.procs {
		if j != i && !q.Done {
			r.queue.Push(domain.KindDone, p.ID, q.ID, domain.NoColor)
		}
	}
}

func (e *Engine) drop(ctx context.Context, m domain.Message) {
	e.logger.DebugContext(ctx, "dropping message", "kind", m.Kind, "from", m.From, "to", m.To, "seq", m.Seq)
}
