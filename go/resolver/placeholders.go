package resolver

import (
	"maps"
	"sync"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

var ErrPlaceholdersExhausted = errors.New("placeholder ids exhausted")

const (
	DefaultPlaceholderMargin = 16
	MaxLegacyID              = 255
	MaxExtendedID            = 4095
	MaxWideID                = 65535
)

// Placeholders hands out stable legacy ids for blocks that have none.
// The first name seen gets start, the next start+1, and so on, stepping over
// ids an id table already assigns.
type Placeholders struct {
	mu      sync.Mutex
	next    int
	ceiling int
	byName  map[string]int
	taken   []func(int) bool
}

func NewPlaceholders(start, ceiling int) *Placeholders {
	return &Placeholders{next: start, ceiling: ceiling, byName: map[string]int{}}
}

// Avoid keeps ids for which taken reports true out of future allocations.
func (p *Placeholders) Avoid(taken func(int) bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.taken = append(p.taken, taken)
}

func (p *Placeholders) occupied(id int) bool {
	return lo.ContainsBy(p.taken, func(taken func(int) bool) bool { return taken(id) })
}

func (p *Placeholders) Get(name string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if id, ok := p.byName[name]; ok {
		return id, nil
	}
	for p.next <= p.ceiling && p.occupied(p.next) {
		p.next++
	}
	if p.next > p.ceiling {
		return 0, errors.Wrapf(ErrPlaceholdersExhausted, "assigning %s past %d", name, p.ceiling)
	}
	id := p.next
	p.next++
	p.byName[name] = id
	return id, nil
}

// Assigned returns a snapshot of every allocation so far.
func (p *Placeholders) Assigned() map[string]int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return maps.Clone(p.byName)
}
