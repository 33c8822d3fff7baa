package region

import (
	"encoding/binary"
	"maps"
	"slices"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/rmmh/chunkport/go/blocks"
	"github.com/rmmh/chunkport/go/palette"
	"github.com/rmmh/chunkport/go/state"
)

// Section is one 16x16x16 slice of a chunk, in either storage form:
// legacy byte arrays (Arrays) or a flattened palette with indices.
type Section struct {
	Y          int8
	Arrays     palette.Arrays
	BlockLight []byte
	SkyLight   []byte

	Palette []blocks.Identifier
	// Indices into Palette, or nil when every block is Palette[0]. ReadChunk
	// rejects indices past the end of Palette.
	Indices []uint16

	states []byte
}

func (s *Section) ByteArray(name string) ([]byte, bool) {
	b, ok := s.Arrays[name]
	return b, ok
}

func (s *Section) Flattened() bool { return s.Palette != nil }

// Blocks returns the flattened section as a palette.
func (s *Section) Blocks() *palette.Palette[blocks.Identifier] {
	if len(s.Palette) == 0 {
		return palette.Filled(blocks.NewIdentifier("minecraft:air"), identifierKey)
	}
	p := palette.Filled(s.Palette[0], identifierKey)
	for i, idx := range s.Indices {
		p.SetAt(i, s.Palette[idx])
	}
	return p
}

// SetBlocks stores p as a flattened palette, dropping any legacy arrays.
func (s *Section) SetBlocks(p *palette.Palette[blocks.Identifier]) {
	s.Arrays = nil
	s.Palette = p.Values()
	s.Indices = nil
	if len(s.Palette) < 2 {
		return
	}
	at := make(map[string]uint16, len(s.Palette))
	for i, id := range s.Palette {
		at[id.String()] = uint16(i)
	}
	s.Indices = make([]uint16, palette.Size)
	for i := range s.Indices {
		s.Indices[i] = at[p.At(i).String()]
	}
}

func identifierKey(id blocks.Identifier) any { return id.String() }

// Chunk is the subset of a chunk's NBT that conversion touches.
type Chunk struct {
	X, Z        int
	DataVersion int
	// Status is empty for chunks older than 1.13
	Status   string
	Sections []*Section
}

// Full reports whether the chunk finished generating. Proto-chunks are
// left alone.
func (c *Chunk) Full() bool {
	return c.Status == "" || c.Status == "full" || c.Status == "minecraft:full" || c.Status == "postprocessed"
}

type paletteEntry struct {
	name  string
	props map[string]state.Value
}

// ReadChunk parses a decompressed chunk payload. Both the pre-1.18 layout
// (Level.Sections) and the 1.18 one (sections.block_states) are accepted.
func ReadChunk(buf []byte) (*Chunk, error) {
	c := &Chunk{}
	var secs []*Section
	var pals [][]paletteEntry
	section := func(i int) *Section {
		for len(secs) <= i {
			secs = append(secs, &Section{})
			pals = append(pals, nil)
		}
		return secs[i]
	}

	err := NbtWalk(buf, func(path []string, idxes []int, ty NbtType, value []byte) {
		if len(path) == 0 {
			return
		}
		last := path[len(path)-1]
		if len(path) <= 2 && ty == TagInt {
			switch last {
			case "xPos":
				c.X = int(int32(binary.BigEndian.Uint32(value)))
			case "zPos":
				c.Z = int(int32(binary.BigEndian.Uint32(value)))
			case "DataVersion":
				c.DataVersion = int(binary.BigEndian.Uint32(value))
			}
			return
		}
		if len(path) <= 2 && last == "Status" && ty == TagString {
			c.Status = string(value)
			return
		}
		if !(path[0] == "sections" || len(path) > 1 && path[0] == "Level" && path[1] == "Sections") || len(idxes) == 0 {
			return
		}
		s := section(idxes[0])
		penult := path[len(path)-2]
		if len(idxes) == 2 && len(path) > 4 && (path[3] == "Palette" || path[3] == "palette") {
			cpal := &pals[idxes[0]]
			for len(*cpal) <= idxes[1] {
				*cpal = append(*cpal, paletteEntry{})
			}
			entry := &(*cpal)[idxes[1]]
			if last == "Name" && len(path) == 6 {
				entry.name = string(value)
			} else if len(path) == 7 && path[5] == "Properties" && ty == TagString {
				if entry.props == nil {
					entry.props = map[string]state.Value{}
				}
				entry.props[last] = state.Parse(string(value))
			}
			return
		}
		switch {
		case ty == TagByteArray:
			// value aliases the decompression buffer
			b := slices.Clone(value)
			switch last {
			case "BlockLight":
				s.BlockLight = b
			case "SkyLight":
				s.SkyLight = b
			case palette.TagBlocks, palette.TagAdd, palette.TagData, palette.TagBlocks16:
				if s.Arrays == nil {
					s.Arrays = palette.Arrays{}
				}
				s.Arrays[last] = b
			}
		case ty == TagLongArray && (last == "BlockStates" || last == "data" && penult == "block_states"):
			s.states = slices.Clone(value)
		case ty == TagByte && last == "Y":
			s.Y = int8(value[0])
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, "walking chunk nbt")
	}

	spanning := c.DataVersion <= SpanningDataVersion
	for i, s := range secs {
		if len(pals[i]) == 0 {
			continue
		}
		s.Palette = lo.Map(pals[i], func(e paletteEntry, _ int) blocks.Identifier {
			return blocks.Identifier{ID: e.name, States: e.props}
		})
		if len(s.states) > 0 {
			idx, err := UnpackStates(s.states, StateBits(len(s.Palette)), spanning)
			if err != nil {
				return nil, errors.Wrapf(err, "section %d", s.Y)
			}
			if v, bad := lo.Find(idx, func(v uint16) bool { return int(v) >= len(s.Palette) }); bad {
				return nil, errors.Wrapf(palette.ErrMalformed, "section %d: index %d outside a palette of %d", s.Y, v, len(s.Palette))
			}
			s.Indices = idx
			s.states = nil
		}
	}
	// sections without blocks (lighting only) are kept so light survives
	c.Sections = secs
	return c, nil
}

// WriteChunk serializes c in the pre-1.18 Level layout. Flattened sections
// are packed with StateBits wide entries; c.DataVersion decides whether
// entries span longs.
func WriteChunk(c *Chunk) ([]byte, error) {
	w := &NbtWriter{}
	w.Compound("")
	if c.DataVersion > 0 {
		w.Int("DataVersion", int32(c.DataVersion))
	}
	w.Compound("Level")
	w.Int("xPos", int32(c.X))
	w.Int("zPos", int32(c.Z))
	if c.Status != "" {
		w.String("Status", c.Status)
	}
	w.List("Sections", TagCompound, len(c.Sections))
	for _, s := range c.Sections {
		w.Compound("")
		w.Byte("Y", s.Y)
		if s.Flattened() {
			if err := writePalette(w, s, c.DataVersion <= SpanningDataVersion); err != nil {
				return nil, errors.Wrapf(err, "section %d", s.Y)
			}
		} else {
			for _, name := range slices.Sorted(maps.Keys(s.Arrays)) {
				w.ByteArray(name, s.Arrays[name])
			}
		}
		if s.BlockLight != nil {
			w.ByteArray("BlockLight", s.BlockLight)
		}
		if s.SkyLight != nil {
			w.ByteArray("SkyLight", s.SkyLight)
		}
		w.End()
	}
	w.End()
	w.End()
	return w.Bytes(), nil
}

func writePalette(w *NbtWriter, s *Section, spanning bool) error {
	w.List("Palette", TagCompound, len(s.Palette))
	for _, id := range s.Palette {
		if _, ok := id.Data(); ok {
			return errors.Errorf("%s carries a data value in a flattened palette", id)
		}
		w.Compound("")
		w.String("Name", id.ID)
		if len(id.States) > 0 {
			w.Compound("Properties")
			for _, k := range slices.Sorted(maps.Keys(id.States)) {
				w.String(k, id.States[k].String())
			}
			w.End()
		}
		w.End()
	}
	indices := s.Indices
	if indices == nil {
		indices = make([]uint16, palette.Size)
	}
	for _, idx := range indices {
		if int(idx) >= len(s.Palette) {
			return errors.Errorf("index %d outside a palette of %d", idx, len(s.Palette))
		}
	}
	w.LongArray("BlockStates", PackStates(indices, StateBits(len(s.Palette)), spanning))
	return nil
}
