package runtime

import "github.com/aretw0/colorsort/pkg/domain"

// Queue is the FIFO of in-flight protocol messages.
// Sequence numbers increase monotonically for the lifetime of the queue.
type Queue struct {
	items []domain.Message
	seq   uint64
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push stamps and appends a message.
func (q *Queue) Push(kind domain.MessageKind, from, to domain.ProcessID, color domain.Color) domain.Message {
	q.seq++
	m := domain.Message{Kind: kind, From: from, To: to, Color: color, Seq: q.seq}
	if kind == domain.KindDone {
		m.Color = domain.NoColor
	}
	q.items = append(q.items, m)
	return m
}

// Pop removes the front message.
func (q *Queue) Pop() (domain.Message, bool) {
	if len(q.items) == 0 {
		return domain.Message{}, false
	}
	m := q.items[0]
	q.items[0] = domain.Message{}
	q.items = q.items[1:]
	return m, true
}

// Len returns the number of queued messages.
func (q *Queue) Len() int {
	return len(q.items)
}

// Snapshot copies the queued messages.
func (q *Queue) Snapshot() []domain.Message {
	return append([]domain.Message(nil), q.items...)
}

// Drain empties the queue and returns what it held.
func (q *Queue) Drain() []domain.Message {
	out := q.items
	q.items = nil
	return out
}
