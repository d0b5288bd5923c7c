package runtime

import "github.com/aretw0/colorsort/pkg/domain"

// table is the live process set of a run, ordered naturally by ID.
// The position of a process in the table is its priority index.
type table struct {
	procs   []*domain.Process
	byID    map[domain.ProcessID]int
	palette domain.Palette
}

func newTable(dist domain.Distribution, palette domain.Palette) *table {
	ids := dist.IDs()
	t := &table{
		procs:   make([]*domain.Process, len(ids)),
		byID:    make(map[domain.ProcessID]int, len(ids)),
		palette: palette,
	}
	for i, id := range ids {
		t.procs[i] = &domain.Process{
			ID:    id,
			Stack: append([]domain.Color(nil), dist[id]...),
		}
		t.byID[id] = i
	}
	return t
}

func (t *table) index(id domain.ProcessID) (int, bool) {
	i, ok := t.byID[id]
	return i, ok
}

func (t *table) allDone() bool {
	for _, p := range t.procs {
		if !p.Done {
			return false
		}
	}
	return true
}

func (t *table) snapshotProcs() []domain.Process {
	out := make([]domain.Process, len(t.procs))
	for i, p := range t.procs {
		out[i] = p.Clone()
	}
	return out
}
