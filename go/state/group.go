package state

import (
	"fmt"
	"slices"
)

type guard struct {
	key   *Key
	value Value
}

// entry maps the raw value at data[offset:offset+width] to one value per
// key. A nil row is a hole and decodes to the keys' defaults. Width 0
// entries have a single row and contribute no bits.
type entry struct {
	keys   []*Key
	offset int
	width  int
	rows   [][]Value
	guards []guard
}

func (e *entry) applies(s Set) bool {
	for _, g := range e.guards {
		if s.Get(g.key) != g.value {
			return false
		}
	}
	return true
}

func (e *entry) defaults() []Value {
	out := make([]Value, len(e.keys))
	for i, k := range e.keys {
		out[i] = k.def
	}
	return out
}

func (e *entry) decode(raw int) []Value {
	if raw < len(e.rows) && e.rows[raw] != nil {
		return e.rows[raw]
	}
	return e.defaults()
}

// raw index written for vals: its own row, else the defaults' row, else 0
func (e *entry) rawFor(vals []Value) int {
	if i := slices.IndexFunc(e.rows, func(r []Value) bool { return r != nil && slices.Equal(r, vals) }); i >= 0 {
		return i
	}
	def := e.defaults()
	if i := slices.IndexFunc(e.rows, func(r []Value) bool { return r != nil && slices.Equal(r, def) }); i >= 0 {
		return i
	}
	return 0
}

func (e *entry) lookup(s Set) []Value {
	vals := make([]Value, len(e.keys))
	for i, k := range e.keys {
		vals[i] = s.Get(k)
	}
	return vals
}

func (e *entry) decided(s Set) bool {
	for _, k := range e.keys {
		if _, ok := s[k]; ok {
			return true
		}
	}
	return false
}

// Group converts between a packed data value and a set of typed states.
// A Group is immutable once built and safe for concurrent use.
type Group struct {
	name     string
	entries  []entry
	keys     []*Key
	defaults Set
}

func (g *Group) Name() string   { return g.name }
func (g *Group) Keys() []*Key   { return g.keys }
func (g *Group) String() string { return g.name }

// Mask is the union of all bits any entry can write.
func (g *Group) Mask() int {
	m := 0
	for _, e := range g.entries {
		m |= (1<<e.width - 1) << e.offset
	}
	return m
}

func (g *Group) fill(out Set) Set {
	for _, k := range g.keys {
		if _, ok := out[k]; !ok {
			out[k] = k.def
		}
	}
	return out
}

// Decode unpacks data. Entries are applied in order and the first entry
// that applies to a key decides it; raw values outside an entry's table
// decode to the key defaults.
func (g *Group) Decode(data int) Set {
	out := make(Set, len(g.keys))
	for i := range g.entries {
		e := &g.entries[i]
		if e.decided(out) || !e.applies(out) {
			continue
		}
		row := e.decode((data >> e.offset) & (1<<e.width - 1))
		for j, k := range e.keys {
			out[k] = row[j]
		}
	}
	return g.fill(out)
}

// Complete fills in defaults and replaces values the group can't store with
// what a Decode would give back. Decode(Encode(s)) == Complete(s).
func (g *Group) Complete(s Set) Set {
	out := make(Set, len(g.keys))
	for i := range g.entries {
		e := &g.entries[i]
		if e.decided(out) || !e.applies(out) {
			continue
		}
		row := e.decode(e.rawFor(e.lookup(s)))
		for j, k := range e.keys {
			out[k] = row[j]
		}
	}
	return g.fill(out)
}

// Encode packs s. States missing from s take their defaults.
func (g *Group) Encode(s Set) int {
	full := g.Complete(s)
	seen := make(Set, len(g.keys))
	data := 0
	for i := range g.entries {
		e := &g.entries[i]
		if e.decided(seen) || !e.applies(seen) {
			continue
		}
		for _, k := range e.keys {
			seen[k] = full[k]
		}
		data |= e.rawFor(e.lookup(full)) << e.offset
	}
	return data
}

// DecodeNamed builds a set from explicitly named wire states, for
// identifiers that carry states instead of a data value.
func (g *Group) DecodeNamed(named map[string]Value) Set {
	out := make(Set, len(g.keys))
	for _, k := range g.keys {
		if raw, ok := named[k.Name]; ok {
			if v, ok := k.Coerce(raw); ok {
				out[k] = v
				continue
			}
		}
		out[k] = g.defaults[k]
	}
	return out
}

// Builder declares a Group. Declaration order is significant: earlier
// entries win, and guards may only reference keys declared before them.
type Builder struct {
	g      *Group
	guards []guard
}

func NewGroup(name string) *Builder {
	return &Builder{g: &Group{name: name, defaults: Set{}}}
}

func (b *Builder) fail(format string, args ...any) {
	panic(fmt.Sprintf("group %s: ", b.g.name) + fmt.Sprintf(format, args...))
}

func (b *Builder) add(e entry) *Builder {
	if e.offset < 0 || e.width < 0 || e.offset+e.width > 16 {
		b.fail("bad bit range %d+%d for %v", e.offset, e.width, e.keys)
	}
	if len(e.rows) > 1<<e.width {
		b.fail("%d rows don't fit %d bits for %v", len(e.rows), e.width, e.keys)
	}
	for _, row := range e.rows {
		if row == nil {
			continue
		}
		if len(row) != len(e.keys) {
			b.fail("row %v doesn't match %v", row, e.keys)
		}
		for i, v := range row {
			if !e.keys[i].Valid(v) {
				b.fail("%v is not a valid %s", v, e.keys[i])
			}
		}
	}
	for _, gd := range b.guards {
		if !slices.Contains(b.g.keys, gd.key) {
			b.fail("guard on undeclared state %s", gd.key)
		}
	}
	e.guards = slices.Clone(b.guards)
	for i, k := range e.keys {
		if slices.Contains(b.g.keys, k) {
			continue
		}
		b.g.keys = append(b.g.keys, k)
		if e.width == 0 {
			b.g.defaults[k] = e.rows[0][i]
		} else {
			b.g.defaults[k] = k.def
		}
	}
	b.g.entries = append(b.g.entries, e)
	return b
}

// Bits maps the raw value at data[offset:offset+width] through values;
// zero Values are holes.
func (b *Builder) Bits(k *Key, offset, width int, values ...Value) *Builder {
	if len(values) == 0 {
		b.fail("%s needs a value table", k)
	}
	rows := make([][]Value, len(values))
	for i, v := range values {
		if !v.IsZero() {
			rows[i] = []Value{v}
		}
	}
	return b.add(entry{keys: []*Key{k}, offset: offset, width: width, rows: rows})
}

// Int stores an integer state as raw+base; raw values outside the key's
// range are holes.
func (b *Builder) Int(k *Key, offset, width, base int) *Builder {
	if k.kind != KindInt || width > 8 {
		b.fail("%s can't be stored as a %d bit int", k, width)
	}
	rows := make([][]Value, 1<<width)
	for raw := range rows {
		if v := Int(raw + base); k.Valid(v) {
			rows[raw] = []Value{v}
		}
	}
	return b.add(entry{keys: []*Key{k}, offset: offset, width: width, rows: rows})
}

// Flag is a one-bit boolean, set meaning true.
func (b *Builder) Flag(k *Key, bit int) *Builder {
	return b.Bits(k, bit, 1, Bool(false), Bool(true))
}

// Enum is shorthand for Bits over enum symbols; "" is a hole.
func (b *Builder) Enum(k *Key, offset, width int, symbols ...string) *Builder {
	values := make([]Value, len(symbols))
	for i, s := range symbols {
		if s != "" {
			values[i] = Enum(s)
		}
	}
	return b.Bits(k, offset, width, values...)
}

// Joint maps one raw field onto several keys at once, for packings where
// the keys aren't independent bit ranges. A nil row is a hole.
func (b *Builder) Joint(offset, width int, keys []*Key, rows ...[]Value) *Builder {
	return b.add(entry{keys: keys, offset: offset, width: width, rows: rows})
}

// Default supplies an output-only value; it contributes no bits.
func (b *Builder) Default(k *Key, v Value) *Builder {
	return b.add(entry{keys: []*Key{k}, rows: [][]Value{{v}}})
}

// When scopes the entries declared in fn to data where k decodes to v.
func (b *Builder) When(k *Key, v Value, fn func(*Builder)) *Builder {
	b.guards = append(b.guards, guard{key: k, value: v})
	fn(b)
	b.guards = b.guards[:len(b.guards)-1]
	return b
}

func (b *Builder) Build() *Group {
	return b.g
}

// Syms is a row of enum values, for Joint.
func Syms(symbols ...string) []Value {
	out := make([]Value, len(symbols))
	for i, s := range symbols {
		out[i] = Enum(s)
	}
	return out
}
