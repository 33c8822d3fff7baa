package task

import (
	"cmp"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Registry keeps tasks addressable by id for the status API.
type Registry struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*Tracked
}

func NewRegistry() *Registry {
	return &Registry{tasks: map[uuid.UUID]*Tracked{}}
}

func (r *Registry) Add(t *Tracked) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[t.ID] = t
}

func (r *Registry) Get(id string) (*Tracked, bool) {
	u, err := uuid.Parse(id)
	if err != nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[u]
	return t, ok
}

// List returns the tasks ordered by name, then id.
func (r *Registry) List() []*Tracked {
	r.mu.RLock()
	out := make([]*Tracked, 0, len(r.tasks))
	for _, t := range r.tasks {
		out = append(out, t)
	}
	r.mu.RUnlock()
	slices.SortFunc(out, func(a, b *Tracked) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID.String(), b.ID.String()))
	})
	return out
}
