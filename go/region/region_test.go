package region

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/rmmh/chunkport/go/blocks"
	"github.com/rmmh/chunkport/go/palette"
	"github.com/rmmh/chunkport/go/state"
)

type visit struct {
	path string
	ty   NbtType
	val  string
}

func walk(t *testing.T, buf []byte) []visit {
	t.Helper()
	var out []visit
	err := NbtWalk(buf, func(path []string, idxes []int, ty NbtType, value []byte) {
		p := ""
		for i, s := range path {
			if i > 0 {
				p += "."
			}
			p += s
		}
		out = append(out, visit{p, ty, string(value)})
	})
	require.NoError(t, err)
	return out
}

func TestNbtWriterWalk(t *testing.T) {
	w := &NbtWriter{}
	w.Compound("")
	w.Int("DataVersion", 1343)
	w.List("items", TagCompound, 2)
	w.Compound("")
	w.String("K", "a")
	w.End()
	w.Compound("")
	w.List("inner", TagByteArray, 1)
	w.ByteArray("", []byte{1, 2})
	w.End()
	w.List("empty", TagCompound, 0)
	w.Byte("after", 7)
	w.End()

	require.Equal(t, []visit{
		{"", TagCompound, ""},
		{"DataVersion", TagInt, string([]byte{0, 0, 5, 0x3f})},
		{"items", TagList, ""},
		{"items.0", TagCompound, ""},
		{"items.0.K", TagString, "a"},
		{"items.1", TagCompound, ""},
		{"items.1.inner", TagList, ""},
		{"items.1.inner.0", TagByteArray, "\x01\x02"},
		{"empty", TagList, ""},
		{"after", TagByte, "\x07"},
	}, walk(t, w.Bytes()))
}

func TestNbtWalkTruncated(t *testing.T) {
	w := &NbtWriter{}
	w.Compound("")
	w.ByteArray("Blocks", make([]byte, 64))
	w.End()
	buf := w.Bytes()

	for _, n := range []int{1, 3, 8, 40, len(buf) - 1} {
		err := NbtWalk(buf[:n], func([]string, []int, NbtType, []byte) {})
		require.Error(t, err, "cut at %d", n)
	}

	// a negative array length
	bad := append([]byte{}, buf...)
	binary.BigEndian.PutUint32(bad[3+1+2+len("Blocks"):], 0xffffffff)
	require.Error(t, NbtWalk(bad, func([]string, []int, NbtType, []byte) {}))
}

func TestCompression(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog, repeatedly, repeatedly")
	for _, kind := range []Compression{Gzip, Zlib, Uncompressed} {
		c, err := Compress(kind, data)
		require.NoError(t, err)
		d, err := Decompress(kind, c)
		require.NoError(t, err, kind)
		require.Equal(t, data, d)
	}
	_, err := Decompress(Compression(9), data)
	require.ErrorIs(t, err, ErrCompression)
	require.Equal(t, "compression(9)", Compression(9).String())

	_, err = Decompress(Zlib, data)
	require.Error(t, err)
	require.True(t, gzipped(must(Compress(Gzip, data))))
}

func must(b []byte, err error) []byte {
	if err != nil {
		panic(err)
	}
	return b
}

func TestStateBits(t *testing.T) {
	for n, want := range map[int]int{1: 4, 2: 4, 16: 4, 17: 5, 32: 5, 33: 6, 256: 8, 257: 9, 4096: 12} {
		require.Equal(t, want, StateBits(n), "palette of %d", n)
	}
	// 1.16 layout leaves slop at the end of each long
	require.Len(t, PackStates(make([]uint16, 4096), 5, false), 342*8)
	require.Len(t, PackStates(make([]uint16, 4096), 5, true), 320*8)
	require.Len(t, PackStates(make([]uint16, 4096), 4, true), 256*8)

	_, err := UnpackStates(make([]byte, 16), 5, false)
	require.Error(t, err)
}

func TestPackStatesRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)
	properties.Property("unpack inverts pack", prop.ForAll(
		func(width int, spanning bool, seed int64) bool {
			idx := make([]uint16, 4096)
			x := uint64(seed)
			for i := range idx {
				x = x*6364136223846793005 + 1442695040888963407
				idx[i] = uint16(x>>33) & (1<<width - 1)
			}
			got, err := UnpackStates(PackStates(idx, width, spanning), width, spanning)
			if err != nil {
				return false
			}
			for i := range idx {
				if got[i] != idx[i] {
					return false
				}
			}
			return true
		},
		gen.IntRange(4, 12),
		gen.Bool(),
		gen.Int64(),
	))
	properties.TestingRun(t)
}

// spanning and aligned layouts differ once entries straddle longs
func TestPackStatesSpanning(t *testing.T) {
	idx := make([]uint16, 4096)
	idx[12] = 0x1f
	spanned := PackStates(idx, 5, true)
	aligned := PackStates(idx, 5, false)
	// entry 12 starts at bit 60 and straddles into the second long
	require.Equal(t, byte(0xf0), spanned[0])
	require.Equal(t, byte(0x01), spanned[15])
	// with 12 entries per long it opens the second long instead
	require.Equal(t, byte(0x1f), aligned[15])
	require.Equal(t, byte(0x00), aligned[0])
}

func legacySection(t *testing.T, y int8) *Section {
	t.Helper()
	p := palette.NewLegacy()
	p.Set(0, 0, 0, palette.LegacyIdentifier{ID: 1})
	p.Set(15, 15, 15, palette.LegacyIdentifier{ID: 35, Data: 14})
	p.Set(3, 4, 5, palette.LegacyIdentifier{ID: 2000, Data: 2})
	arrays, err := palette.EncodeSection(p, palette.Blocks12)
	require.NoError(t, err)
	light := make([]byte, 2048)
	light[7] = 0xf3
	return &Section{Y: y, Arrays: arrays, BlockLight: light, SkyLight: make([]byte, 2048)}
}

func TestLegacyChunkRoundTrip(t *testing.T) {
	c := &Chunk{X: -3, Z: 40, DataVersion: 1343, Sections: []*Section{legacySection(t, 0), legacySection(t, 4)}}
	buf, err := WriteChunk(c)
	require.NoError(t, err)

	got, err := ReadChunk(buf)
	require.NoError(t, err)
	require.Equal(t, -3, got.X)
	require.Equal(t, 40, got.Z)
	require.Equal(t, 1343, got.DataVersion)
	require.True(t, got.Full())
	require.Len(t, got.Sections, 2)
	require.Equal(t, int8(4), got.Sections[1].Y)
	require.False(t, got.Sections[0].Flattened())
	require.Equal(t, byte(0xf3), got.Sections[0].BlockLight[7])

	p, err := palette.DecodeSection(got.Sections[1])
	require.NoError(t, err)
	require.Equal(t, palette.LegacyIdentifier{ID: 2000, Data: 2}, p.Get(3, 4, 5))
	require.Equal(t, palette.LegacyIdentifier{ID: 35, Data: 14}, p.Get(15, 15, 15))
	require.Equal(t, 4, p.Len())
}

func flatSection(y int8) *Section {
	s := &Section{Y: y}
	p := palette.Filled(blocks.NewIdentifier("minecraft:air"), identifierKey)
	stairs := blocks.NewIdentifier("minecraft:oak_stairs").
		WithState("facing", state.Enum("west")).
		WithState("waterlogged", state.Bool(false))
	for i := 0; i < 40; i++ {
		p.SetAt(i*97, blocks.NewIdentifier("minecraft:stone_"+string(rune('a'+i%26))+string(rune('a'+i/26))))
	}
	p.Set(1, 1, 1, stairs)
	s.SetBlocks(p)
	return s
}

func TestFlattenedChunkRoundTrip(t *testing.T) {
	for _, dv := range []int{1519, 2566} {
		want := flatSection(2)
		require.True(t, want.Flattened())
		c := &Chunk{X: 1, Z: 2, DataVersion: dv, Status: "full", Sections: []*Section{want}}
		buf, err := WriteChunk(c)
		require.NoError(t, err)

		got, err := ReadChunk(buf)
		require.NoError(t, err)
		require.Len(t, got.Sections, 1)
		s := got.Sections[0]
		require.Equal(t, 42, len(s.Palette))
		require.True(t, want.Blocks().Equal(s.Blocks()), "data version %d", dv)
		require.Equal(t, "minecraft:oak_stairs[facing=west,waterlogged=false]", s.Blocks().Get(1, 1, 1).String())
	}
}

// a uniform 1.18 section has a one-entry palette and no data
func TestReadModernSections(t *testing.T) {
	w := &NbtWriter{}
	w.Compound("")
	w.Int("DataVersion", 2975)
	w.Int("xPos", 5)
	w.Int("zPos", -6)
	w.String("Status", "minecraft:full")
	w.List("sections", TagCompound, 2)
	w.Compound("")
	w.Byte("Y", -4)
	w.Compound("block_states")
	w.List("palette", TagCompound, 1)
	w.Compound("")
	w.String("Name", "minecraft:deepslate")
	w.Compound("Properties")
	w.String("axis", "y")
	w.End()
	w.End()
	w.End()
	w.End()
	w.Compound("")
	w.Byte("Y", -3)
	w.Compound("block_states")
	w.List("palette", TagCompound, 2)
	w.Compound("")
	w.String("Name", "minecraft:air")
	w.End()
	w.Compound("")
	w.String("Name", "minecraft:water")
	w.End()
	idx := make([]uint16, 4096)
	idx[4095] = 1
	w.LongArray("data", PackStates(idx, 4, false))
	w.End()
	w.End()
	w.End()

	c, err := ReadChunk(w.Bytes())
	require.NoError(t, err)
	require.Equal(t, 5, c.X)
	require.Equal(t, -6, c.Z)
	require.True(t, c.Full())
	require.Len(t, c.Sections, 2)
	require.Equal(t, int8(-4), c.Sections[0].Y)
	require.Nil(t, c.Sections[0].Indices)
	require.Equal(t, "minecraft:deepslate[axis=y]", c.Sections[0].Blocks().Get(9, 9, 9).String())
	require.Equal(t, "minecraft:water", c.Sections[1].Blocks().Get(15, 15, 15).String())
	require.Equal(t, "minecraft:air", c.Sections[1].Blocks().Get(14, 15, 15).String())

	c.Status = "minecraft:features"
	require.False(t, c.Full())
}

func TestReadChunkRejectsBadIndex(t *testing.T) {
	w := &NbtWriter{}
	w.Compound("")
	w.Int("DataVersion", 2975)
	w.String("Status", "minecraft:full")
	w.List("sections", TagCompound, 1)
	w.Compound("")
	w.Byte("Y", 2)
	w.Compound("block_states")
	w.List("palette", TagCompound, 2)
	w.Compound("")
	w.String("Name", "minecraft:air")
	w.End()
	w.Compound("")
	w.String("Name", "minecraft:stone")
	w.End()
	idx := make([]uint16, 4096)
	idx[100] = 1
	idx[200] = 9
	w.LongArray("data", PackStates(idx, 4, false))
	w.End()
	w.End()
	w.End()

	_, err := ReadChunk(w.Bytes())
	require.ErrorIs(t, err, palette.ErrMalformed)
	require.ErrorContains(t, err, "index 9")
}

func TestWriteChunkRejectsData(t *testing.T) {
	s := &Section{Palette: []blocks.Identifier{blocks.NewIdentifier("minecraft:stone").WithData(3)}}
	_, err := WriteChunk(&Chunk{Sections: []*Section{s}})
	require.ErrorContains(t, err, "data value")

	s = &Section{Palette: []blocks.Identifier{blocks.NewIdentifier("minecraft:stone")}, Indices: make([]uint16, 4096)}
	s.Indices[5] = 3
	_, err = WriteChunk(&Chunk{Sections: []*Section{s}})
	require.ErrorContains(t, err, "outside a palette")
}

func TestRegionRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, RegionName(-40, 70))
	require.Equal(t, "r.-2.2.mca", filepath.Base(path))

	var chunks []Payload
	for _, xz := range [][2]int{{-40, 70}, {-33, 95}, {-64, 64}} {
		c := &Chunk{X: xz[0], Z: xz[1], DataVersion: 1343, Sections: []*Section{legacySection(t, 1)}}
		buf, err := WriteChunk(c)
		require.NoError(t, err)
		chunks = append(chunks, Payload{Index: ChunkIndex(xz[0], xz[1]), Timestamp: 1234, Data: buf})
	}
	require.NoError(t, WriteRegion(path, chunks, Zlib))

	r, err := OpenRegion(path, nil)
	require.NoError(t, err)
	require.Equal(t, -2, r.Rx())
	require.Equal(t, 2, r.Rz())
	require.Len(t, r.Chunks(), 3)
	require.True(t, r.Has(ChunkIndex(-33, 95)))
	require.False(t, r.Has(ChunkIndex(-34, 95)))

	var seen [][2]int
	err = r.ReadChunks(func(p Payload) error {
		require.NoError(t, p.Err)
		require.Equal(t, uint32(1234), p.Timestamp)
		c, err := ReadChunk(p.Data)
		require.NoError(t, err)
		require.Equal(t, [2]int{p.X, p.Z}, [2]int{c.X, c.Z})
		seen = append(seen, [2]int{p.X, p.Z})
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, [][2]int{{-40, 70}, {-33, 95}, {-64, 64}}, seen)
}

func TestRegionBadChunk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.0.0.mca")
	require.NoError(t, WriteRegion(path, []Payload{{Index: 33, Data: []byte("not nbt")}}, Uncompressed))
	require.ErrorIs(t, WriteRegion(path+".x", []Payload{{Data: []byte{1}}}, Compression(7)), ErrCompression)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, raw, 3*4096)
	raw[2*4096+4] = 9
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	r, err := OpenRegion(path, nil)
	require.NoError(t, err)
	var got []Payload
	require.NoError(t, r.ReadChunks(func(p Payload) error {
		got = append(got, p)
		return nil
	}))
	require.Len(t, got, 1)
	require.Equal(t, [2]int{1, 1}, [2]int{got[0].X, got[0].Z})
	require.ErrorIs(t, got[0].Err, ErrCompression)
	require.Len(t, got[0].Data, 4096)
}

func itemDataLevel(t *testing.T, meta string, body func(w *NbtWriter)) []byte {
	t.Helper()
	w := &NbtWriter{}
	w.Compound("")
	w.Compound("Data")
	w.String("LevelName", "modded")
	w.End()
	w.Compound(meta)
	body(w)
	w.End()
	w.End()
	return must(Compress(Gzip, w.Bytes()))
}

func kv(w *NbtWriter, k string, v int32) {
	w.Compound("")
	w.String("K", k)
	w.Int("V", v)
	w.End()
}

func TestReadItemData(t *testing.T) {
	list := itemDataLevel(t, "FML", func(w *NbtWriter) {
		w.List("ItemData", TagCompound, 4)
		kv(w, "\u0001minecraft:stone", 1)
		kv(w, " \u0001ic2:ore ", 700)
		kv(w, "\u0002ic2:wrench", -1)
		w.Compound("")
		w.Int("V", 12)
		w.End()
	})
	ids, err := ReadItemData(list)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"minecraft:stone": 1, "ic2:ore": 700}, ids)

	nested := itemDataLevel(t, "Forge", func(w *NbtWriter) {
		w.Compound("Item Data")
		w.List("ItemData", TagCompound, 1)
		kv(w, "\u0003thermal:ore", 900)
		w.Int("ignored", 5)
		w.End()
	})
	ids, err = ReadItemData(nested)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"thermal:ore": 900}, ids)

	ints := itemDataLevel(t, "FML", func(w *NbtWriter) {
		w.Compound("ItemData")
		w.Int("\u0001mod:a", 3000)
		w.Int("mod:b", 3001)
		w.String("mod:c", "x")
		w.End()
	})
	ids, err = ReadItemData(ints)
	require.NoError(t, err)
	require.Equal(t, map[string]int{"mod:a": 3000, "mod:b": 3001}, ids)

	missing := itemDataLevel(t, "FML", func(w *NbtWriter) { w.Int("ModCount", 2) })
	_, err = ReadItemData(missing)
	require.ErrorIs(t, err, ErrNoItemData)

	vanilla := itemDataLevel(t, "Data2", func(w *NbtWriter) {})
	ids, err = ReadItemData(vanilla)
	require.NoError(t, err)
	require.Empty(t, ids)

	_, err = ReadItemData(must(Compress(Gzip, []byte{TagCompound, 0, 0, TagInt})))
	require.Error(t, err)
}

func TestRegionTruncated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.0.0.mca")
	require.NoError(t, WriteRegion(path, []Payload{
		{Index: 0, Data: []byte("first chunk")},
		{Index: 1, Data: []byte("second chunk")},
	}, Uncompressed))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, raw, 4*4096)
	require.NoError(t, os.WriteFile(path, raw[:3*4096+3], 0o644))

	r, err := OpenRegion(path, nil)
	require.NoError(t, err)
	var got []Payload
	require.NoError(t, r.ReadChunks(func(p Payload) error {
		got = append(got, p)
		return nil
	}))
	require.Len(t, got, 2)
	require.NoError(t, got[0].Err)
	require.Equal(t, []byte("first chunk"), got[0].Data)
	require.Error(t, got[1].Err)
	require.Equal(t, raw[3*4096:3*4096+3], got[1].Data)
}
