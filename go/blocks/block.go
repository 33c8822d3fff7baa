package blocks

import (
	"maps"
	"slices"
	"strings"

	"github.com/rmmh/chunkport/go/state"
)

// Block is the typed form of a block: a Type plus its state assignment.
// Custom blocks have no typed keys, so their wire states ride along in Props.
type Block struct {
	Type   Type
	States state.Set
	Props  map[string]state.Value
}

func Of(t Type, states state.Set) Block {
	return Block{Type: t, States: states}
}

func (b Block) Equal(o Block) bool {
	return b.Type == o.Type && maps.Equal(b.States, o.States) && maps.Equal(b.Props, o.Props)
}

// With returns a copy of b with k set to v.
func (b Block) With(k *state.Key, v state.Value) Block {
	b.States = b.States.Clone()
	b.States[k] = v
	return b
}

// Key is a canonical string for b, suitable as a map key.
func (b Block) Key() string {
	return b.String()
}

func (b Block) String() string {
	parts := make([]string, 0, len(b.States)+len(b.Props))
	for k, v := range b.States {
		parts = append(parts, k.Name+"="+v.String())
	}
	for k, v := range b.Props {
		parts = append(parts, k+"="+v.String())
	}
	if len(parts) == 0 {
		return b.Type.Identifier()
	}
	slices.Sort(parts)
	return b.Type.Identifier() + "[" + strings.Join(parts, ",") + "]"
}
