package mapping

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/pkg/errors"

	"github.com/rmmh/chunkport/go/blocks"
	"github.com/rmmh/chunkport/go/state"
)

var (
	ErrAmbiguous   = errors.New("ambiguous mapping")
	ErrUnsupported = errors.New("state not supported by block type")
)

// Table holds the registered entries for one game version. Registration
// order is recorded as each entry's Priority; once sealed, a Table is
// read-only and safe for concurrent use.
type Table struct {
	version blocks.Version
	extra   *state.Group

	guard   blocks.Version
	next    int
	entries []*Entry
	sealed  bool

	to   map[string][]*Entry
	from map[blocks.Type][]*Entry
}

func NewTable(v blocks.Version) *Table {
	return &Table{version: v, guard: blocks.V1_0}
}

func (t *Table) Version() blocks.Version { return t.version }

// SetExtra layers g's defaults under every entry's states, for the keys
// each type supports. g should only contain Default entries.
func (t *Table) SetExtra(g *state.Group) {
	t.extra = g
}

// Since keeps the registrations made in fn only when the table's version is
// at least v. Skipped registrations still consume priorities.
func (t *Table) Since(v blocks.Version, fn func()) {
	prev := t.guard
	if v.Less(prev) {
		v = prev
	}
	t.guard = v
	fn()
	t.guard = prev
}

func (t *Table) Register(ms ...BlockMapping) {
	t.register(Canonical, Canonical, ms)
}

// RegisterDuplicateInput adds entries that to() only uses when no canonical
// entry claims the same key, while from() still treats them as canonical.
func (t *Table) RegisterDuplicateInput(ms ...BlockMapping) {
	t.register(Alias, Canonical, ms)
}

// RegisterDuplicateOutput is the mirror: to() treats the entries as
// canonical, from() only falls back to them.
func (t *Table) RegisterDuplicateOutput(ms ...BlockMapping) {
	t.register(Canonical, Alias, ms)
}

func (t *Table) register(to, from Rank, ms []BlockMapping) {
	if t.sealed {
		panic("mapping: register on sealed table")
	}
	for _, m := range ms {
		for _, e := range m.entries {
			e.ToRank, e.FromRank = to, from
			e.Priority = t.next
			t.next++
			if t.version.Less(t.guard) || t.version.Less(e.Type.Since()) {
				continue
			}
			t.entries = append(t.entries, &e)
		}
	}
}

func toOrder(a, b *Entry) int {
	return cmp.Or(
		cmp.Compare(a.ToRank, b.ToRank),
		cmp.Compare(wildcard(a), wildcard(b)),
		cmp.Compare(a.Priority, b.Priority),
	)
}

func fromOrder(a, b *Entry) int {
	return cmp.Or(
		cmp.Compare(a.FromRank, b.FromRank),
		cmp.Compare(len(b.Fixed), len(a.Fixed)),
		cmp.Compare(a.Priority, b.Priority),
	)
}

func wildcard(e *Entry) int {
	if e.Data == AnyData {
		return 1
	}
	return 0
}

// Seal indexes the entries and checks them. Two canonical entries may not
// claim the same input key, nor the same type with the same fixed states.
func (t *Table) Seal() error {
	if t.sealed {
		return nil
	}
	t.to = map[string][]*Entry{}
	t.from = map[blocks.Type][]*Entry{}
	for _, e := range t.entries {
		if err := checkSupported(e); err != nil {
			return err
		}
		t.to[e.ID] = append(t.to[e.ID], e)
		t.from[e.Type] = append(t.from[e.Type], e)
	}
	for _, es := range t.to {
		slices.SortFunc(es, toOrder)
		for i, a := range es {
			for _, b := range es[i+1:] {
				if a.ToRank == Canonical && b.ToRank == Canonical && a.Data == b.Data {
					return errors.Wrapf(ErrAmbiguous, "%s and %s", a, b)
				}
			}
		}
	}
	for _, es := range t.from {
		slices.SortFunc(es, fromOrder)
		for i, a := range es {
			for _, b := range es[i+1:] {
				if a.FromRank == Canonical && b.FromRank == Canonical && a.Fixed.Equal(b.Fixed) {
					return errors.Wrapf(ErrAmbiguous, "%s and %s", a, b)
				}
			}
		}
	}
	t.sealed = true
	return nil
}

func checkSupported(e *Entry) error {
	if e.Type.IsCustom() {
		return nil
	}
	check := func(k *state.Key) error {
		if !e.Type.Supports(k) {
			return errors.Wrapf(ErrUnsupported, "%s: %s", e, k)
		}
		return nil
	}
	for k := range e.Fixed {
		if err := check(k); err != nil {
			return err
		}
	}
	if e.Group != nil {
		for _, k := range e.Group.Keys() {
			if err := check(k); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *Table) mustSealed() {
	if !t.sealed {
		panic("mapping: lookup on unsealed table")
	}
}

// Lookup finds the entry to() uses for id:data, without the data 0 retry.
func (t *Table) Lookup(id string, data int) (*Entry, bool) {
	t.mustSealed()
	for _, e := range t.to[normalize(id)] {
		if e.matchesData(data) {
			return e, true
		}
	}
	return nil, false
}

// Reverse finds the entry from() uses for b.
func (t *Table) Reverse(b blocks.Block) (*Entry, bool) {
	t.mustSealed()
	for _, e := range t.from[b.Type] {
		if e.matchesFixed(b.States) {
			return e, true
		}
	}
	return nil, false
}

// To resolves a legacy id. Without a data value, named states are decoded
// through the entry's group instead. Data values nothing claims retry as 0,
// with the group still decoding the original value.
func (t *Table) To(id string, data int, hasData bool, named map[string]state.Value) (blocks.Block, bool) {
	e, ok := t.Lookup(id, data)
	if !ok && data != 0 {
		e, ok = t.Lookup(id, 0)
	}
	if !ok {
		return blocks.Block{}, false
	}
	states := state.Set{}
	if t.extra != nil {
		for k, v := range t.extra.Decode(0) {
			if e.Type.Supports(k) {
				states[k] = v
			}
		}
	}
	if e.Group != nil {
		var decoded state.Set
		if !hasData && len(named) > 0 {
			decoded = e.Group.DecodeNamed(named)
		} else {
			decoded = e.Group.Decode(data)
		}
		for k, v := range decoded {
			states[k] = v
		}
	}
	for k, v := range e.Fixed {
		states[k] = v
	}
	return blocks.Of(e.Type, states), true
}

// From resolves b to a legacy id and data value.
func (t *Table) From(b blocks.Block) (string, int, bool) {
	e, ok := t.Reverse(b)
	if !ok {
		return "", 0, false
	}
	data := max(e.Data, 0)
	if e.Group != nil {
		data |= e.Group.Encode(b.States)
	}
	return e.ID, data, true
}

// Entries lists the live entries in priority order.
func (t *Table) Entries() []*Entry {
	out := slices.Clone(t.entries)
	slices.SortFunc(out, func(a, b *Entry) int { return cmp.Compare(a.Priority, b.Priority) })
	return out
}

func (t *Table) String() string {
	return fmt.Sprintf("table %s (%d entries)", t.version, len(t.entries))
}
