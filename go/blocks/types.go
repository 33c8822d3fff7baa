package blocks

import (
	"slices"
	"strings"

	"github.com/rmmh/chunkport/go/state"
)

const Namespace = "minecraft:"

type vanillaDef struct {
	name  string
	since Version
	keys  []*state.Key
}

// index 0 is reserved so the zero Type is never a vanilla block
var vanilla = []vanillaDef{{}}

var byName map[string]Type

func def(name string, keys ...*state.Key) Type {
	return defSince(V1_0, name, keys...)
}

func defSince(v Version, name string, keys ...*state.Key) Type {
	vanilla = append(vanilla, vanillaDef{name: name, since: v, keys: keys})
	return Type{id: uint16(len(vanilla) - 1)}
}

func init() {
	byName = make(map[string]Type, len(vanilla))
	for i := 1; i < len(vanilla); i++ {
		if _, dup := byName[vanilla[i].name]; dup {
			panic("duplicate vanilla block " + vanilla[i].name)
		}
		byName[vanilla[i].name] = Type{id: uint16(i)}
	}
}

// Type identifies a kind of block: either one of the known vanilla kinds,
// or a custom kind carrying its raw namespaced name.
type Type struct {
	id     uint16
	custom string
}

func Custom(name string) Type { return Type{custom: name} }

// Lookup finds a vanilla type by name, with or without the namespace.
func Lookup(name string) (Type, bool) {
	t, ok := byName[strings.TrimPrefix(name, Namespace)]
	return t, ok
}

func Vanilla() []Type {
	out := make([]Type, 0, len(vanilla)-1)
	for i := 1; i < len(vanilla); i++ {
		out = append(out, Type{id: uint16(i)})
	}
	return out
}

func (t Type) IsZero() bool   { return t.id == 0 && t.custom == "" }
func (t Type) IsCustom() bool { return t.id == 0 && t.custom != "" }

// Name is the bare vanilla name ("stone") or the raw custom name.
func (t Type) Name() string {
	if t.id == 0 {
		return t.custom
	}
	return vanilla[t.id].name
}

// Identifier is the namespaced name used by flattened versions.
func (t Type) Identifier() string {
	if t.id == 0 {
		return t.custom
	}
	return Namespace + vanilla[t.id].name
}

func (t Type) String() string { return t.Identifier() }

func (t Type) Since() Version {
	if t.id == 0 {
		return V1_0
	}
	return vanilla[t.id].since
}

func (t Type) Keys() []*state.Key {
	if t.id == 0 {
		return nil
	}
	return vanilla[t.id].keys
}

func (t Type) Supports(k *state.Key) bool {
	return slices.Contains(t.Keys(), k)
}

// KeyNamed resolves a wire state name against this type's keys.
func (t Type) KeyNamed(name string) (*state.Key, bool) {
	for _, k := range t.Keys() {
		if k.Name == name {
			return k, true
		}
	}
	return nil, false
}
