package resolver

import (
	"github.com/pkg/errors"

	"github.com/rmmh/chunkport/go/blocks"
	"github.com/rmmh/chunkport/go/state"
)

const cauldronSplit = 2679

// Modern resolves flattened "namespace:name[k=v,...]" identifiers. Names
// from older releases are migrated to current ones on the way in and back
// on the way out.
type Modern struct {
	version     blocks.Version
	dataVersion int
}

func NewModern(v blocks.Version) (*Modern, error) {
	if !v.Flattened() {
		return nil, errors.Errorf("%s predates named block states", v)
	}
	return &Modern{version: v, dataVersion: DataVersion(v)}, nil
}

func (m *Modern) Version() blocks.Version { return m.version }
func (m *Modern) DataVersion() int        { return m.dataVersion }

func (m *Modern) To(id blocks.Identifier) (blocks.Block, bool) {
	orig := qualify(id.ID)
	name := Migrate(orig, m.dataVersion, LatestDataVersion)
	t, ok := blocks.Lookup(name)
	if !ok || m.version.Less(t.Since()) {
		return blocks.Block{}, false
	}
	// empty cauldrons kept their name
	if t == blocks.WaterCauldron && name != orig && id.States["level"].Int() == 0 {
		return blocks.Of(blocks.Cauldron, state.Set{}), true
	}
	states := make(state.Set, len(t.Keys()))
	for _, k := range t.Keys() {
		states[k] = k.Default()
		if raw, ok := id.States[k.Name]; ok {
			if v, ok := k.Coerce(raw); ok {
				states[k] = v
			}
		}
	}
	return blocks.Of(t, states), true
}

func (m *Modern) From(b blocks.Block) (blocks.Identifier, bool, error) {
	if b.Type.IsCustom() {
		return blocks.Identifier{ID: b.Type.Name(), States: b.Props}, true, nil
	}
	if b.Type.IsZero() || m.version.Less(b.Type.Since()) {
		return blocks.Identifier{}, false, nil
	}
	id := blocks.Identifier{ID: Migrate(b.Type.Identifier(), LatestDataVersion, m.dataVersion)}
	if keys := b.Type.Keys(); len(keys) > 0 {
		id.States = make(map[string]state.Value, len(keys))
		for _, k := range keys {
			id.States[k.Name] = b.States.Get(k)
		}
	}
	if b.Type == blocks.Cauldron && m.dataVersion < cauldronSplit {
		id = id.WithState("level", state.Int(0))
	}
	return id, true, nil
}
