package mapping

import (
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/rmmh/chunkport/go/blocks"
	"github.com/rmmh/chunkport/go/state"
)

// AnyData marks an entry that matches every data value of its id.
const AnyData = -1

// Rank orders entries that compete for the same key in one direction.
type Rank uint8

const (
	Canonical Rank = iota
	Alias
)

func (r Rank) String() string {
	if r == Canonical {
		return "canonical"
	}
	return "alias"
}

// Entry is one expanded registration. Priority is assigned from the table's
// declaration counter and breaks the remaining ties, lowest first.
type Entry struct {
	ID       string
	Data     int
	Mask     int
	Type     blocks.Type
	Fixed    state.Set
	Group    *state.Group
	ToRank   Rank
	FromRank Rank
	Priority int
}

func (e *Entry) String() string {
	var sb strings.Builder
	sb.WriteString(e.ID)
	if e.Data != AnyData {
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(e.Data))
	}
	sb.WriteString(" <-> ")
	sb.WriteString(blocks.Of(e.Type, e.Fixed).String())
	if e.Group != nil {
		sb.WriteString(" via ")
		sb.WriteString(e.Group.Name())
	}
	return sb.String()
}

// matchesData reports whether e is keyed on data.
func (e *Entry) matchesData(data int) bool {
	return e.Data == AnyData || e.Data == data&^e.Mask
}

func (e *Entry) matchesFixed(s state.Set) bool {
	for k, v := range e.Fixed {
		if s.Get(k) != v {
			return false
		}
	}
	return true
}

// Outcome is one result of a flatten: a type plus the states the data value
// pins down.
type Outcome struct {
	Type  blocks.Type
	Fixed state.Set
}

type Option func(*Entry)

// WithGroup delegates the states not fixed by the entry to g.
func WithGroup(g *state.Group) Option {
	return func(e *Entry) {
		e.Group = g
	}
}

// WithState pins k to v on both sides of the mapping.
func WithState(k *state.Key, v state.Value) Option {
	return func(e *Entry) {
		e.Fixed = e.Fixed.Clone()
		e.Fixed[k] = v
	}
}

// BlockMapping is a declaration that expands into one or more entries.
type BlockMapping struct {
	entries []Entry
}

func (m BlockMapping) Entries() []Entry {
	return slices.Clone(m.entries)
}

func normalize(id string) string {
	id = strings.ToLower(id)
	if !strings.Contains(id, ":") {
		return blocks.Namespace + id
	}
	return id
}

func build(id string, data int, t blocks.Type, fixed state.Set, opts []Option) Entry {
	e := Entry{ID: normalize(id), Data: data, Type: t, Fixed: fixed.Clone()}
	for _, opt := range opts {
		opt(&e)
	}
	if e.Group != nil && data != AnyData {
		e.Mask = e.Group.Mask()
	}
	return e
}

// Of maps every data value of id to t.
func Of(id string, t blocks.Type, opts ...Option) BlockMapping {
	return BlockMapping{[]Entry{build(id, AnyData, t, nil, opts)}}
}

// OfData maps exactly id:data to t.
func OfData(id string, data int, t blocks.Type, opts ...Option) BlockMapping {
	return BlockMapping{[]Entry{build(id, data, t, nil, opts)}}
}

// Flatten lets the data value of id select among several outcomes. With a
// group, the group's bits are masked off before selecting.
func Flatten(id string, outcomes map[int]Outcome, opts ...Option) BlockMapping {
	var m BlockMapping
	for _, data := range slices.Sorted(maps.Keys(outcomes)) {
		o := outcomes[data]
		m.entries = append(m.entries, build(id, data, o.Type, o.Fixed, opts))
	}
	return m
}

// Group maps several legacy ids onto their types through one shared group.
func Group(types map[string]blocks.Type, g *state.Group, opts ...Option) BlockMapping {
	opts = append(slices.Clip(opts), WithGroup(g))
	var m BlockMapping
	for _, id := range slices.Sorted(maps.Keys(types)) {
		m.entries = append(m.entries, build(id, AnyData, types[id], nil, opts))
	}
	return m
}
