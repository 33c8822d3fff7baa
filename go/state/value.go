package state

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

type Kind uint8

const (
	KindBool Kind = iota + 1
	KindInt
	KindEnum
)

// Value is one typed state value. The zero Value is "unset".
type Value struct {
	kind Kind
	i    int
	s    string
}

func Bool(b bool) Value {
	if b {
		return Value{kind: KindBool, i: 1}
	}
	return Value{kind: KindBool}
}

func Int(i int) Value     { return Value{kind: KindInt, i: i} }
func Enum(s string) Value { return Value{kind: KindEnum, s: s} }

func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsZero() bool   { return v.kind == 0 }
func (v Value) Bool() bool     { return v.kind == KindBool && v.i != 0 }
func (v Value) Int() int       { return v.i }
func (v Value) Symbol() string { return v.s }

func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.i != 0)
	case KindInt:
		return strconv.Itoa(v.i)
	case KindEnum:
		return v.s
	}
	return "<unset>"
}

// Parse reads the untyped text form used by wire identifiers:
// booleans first, then integers, then a lowercased symbol.
func Parse(s string) Value {
	switch s {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if n, err := strconv.Atoi(s); err == nil {
		return Int(n)
	}
	return Enum(strings.ToLower(s))
}

// Key is a named state field together with its domain and default.
// Keys are compared by identity; two keys may share a name (age 0..7 and
// age 0..15 are different keys).
type Key struct {
	Name     string
	kind     Kind
	min, max int
	symbols  []string
	def      Value
}

func NewBool(name string, def bool) *Key {
	return &Key{Name: name, kind: KindBool, min: 0, max: 1, def: Bool(def)}
}

func NewInt(name string, min, max, def int) *Key {
	if def < min || def > max {
		panic(fmt.Sprintf("state %s: default %d outside %d..%d", name, def, min, max))
	}
	return &Key{Name: name, kind: KindInt, min: min, max: max, def: Int(def)}
}

func NewEnum(name string, def string, symbols ...string) *Key {
	if !slices.Contains(symbols, def) {
		panic(fmt.Sprintf("state %s: default %q not in %v", name, def, symbols))
	}
	return &Key{Name: name, kind: KindEnum, symbols: symbols, def: Enum(def)}
}

func (k *Key) Kind() Kind        { return k.kind }
func (k *Key) Default() Value    { return k.def }
func (k *Key) String() string    { return k.Name }
func (k *Key) Range() (int, int) { return k.min, k.max }

func (k *Key) Valid(v Value) bool {
	if v.kind != k.kind {
		return false
	}
	switch k.kind {
	case KindBool:
		return true
	case KindInt:
		return v.i >= k.min && v.i <= k.max
	case KindEnum:
		return slices.Contains(k.symbols, v.s)
	}
	return false
}

// Coerce accepts a loosely typed wire value for this key, e.g. the enum
// "true" for a boolean key.
func (k *Key) Coerce(v Value) (Value, bool) {
	if k.Valid(v) {
		return v, true
	}
	return k.Parse(v.String())
}

func (k *Key) Parse(s string) (Value, bool) {
	var v Value
	switch k.kind {
	case KindBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return Value{}, false
		}
		v = Bool(b)
	case KindInt:
		n, err := strconv.Atoi(s)
		if err != nil {
			return Value{}, false
		}
		v = Int(n)
	case KindEnum:
		v = Enum(strings.ToLower(s))
	}
	return v, k.Valid(v)
}

// Values enumerates the whole domain.
func (k *Key) Values() []Value {
	var out []Value
	switch k.kind {
	case KindBool:
		out = []Value{Bool(false), Bool(true)}
	case KindInt:
		for i := k.min; i <= k.max; i++ {
			out = append(out, Int(i))
		}
	case KindEnum:
		for _, s := range k.symbols {
			out = append(out, Enum(s))
		}
	}
	return out
}

// Set is a concrete state assignment.
type Set map[*Key]Value

func (s Set) Clone() Set {
	if s == nil {
		return Set{}
	}
	return maps.Clone(s)
}

func (s Set) Equal(o Set) bool { return maps.Equal(s, o) }

// Get returns the assigned value, or the key's default.
func (s Set) Get(k *Key) Value {
	if v, ok := s[k]; ok {
		return v
	}
	return k.def
}

// Named flattens the set to its wire form.
func (s Set) Named() map[string]Value {
	out := make(map[string]Value, len(s))
	for k, v := range s {
		out[k.Name] = v
	}
	return out
}

// String renders "a=1,b=true" sorted by key name.
func (s Set) String() string {
	parts := make([]string, 0, len(s))
	for k, v := range s {
		parts = append(parts, k.Name+"="+v.String())
	}
	slices.Sort(parts)
	return strings.Join(parts, ",")
}
