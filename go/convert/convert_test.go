package convert

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rmmh/chunkport/go/blocks"
	"github.com/rmmh/chunkport/go/config"
	"github.com/rmmh/chunkport/go/palette"
	"github.com/rmmh/chunkport/go/region"
	"github.com/rmmh/chunkport/go/report"
	"github.com/rmmh/chunkport/go/resolver"
	"github.com/rmmh/chunkport/go/task"
)

func legacyChunk(t *testing.T, x, z int, cells map[int]palette.LegacyIdentifier) []byte {
	t.Helper()
	p := palette.FilledComparable(palette.LegacyIdentifier{ID: 1})
	for i, v := range cells {
		p.SetAt(i, v)
	}
	layout, err := palette.ChooseLayout(p, true)
	require.NoError(t, err)
	arrays, err := palette.EncodeSection(p, layout)
	require.NoError(t, err)
	buf, err := region.WriteChunk(&region.Chunk{X: x, Z: z, Sections: []*region.Section{{
		Y:        0,
		Arrays:   arrays,
		SkyLight: bytes.Repeat([]byte{0xff}, 2048),
	}}})
	require.NoError(t, err)
	return buf
}

func modernChunk(t *testing.T, status string, ids ...string) []byte {
	t.Helper()
	p := palette.Filled(blocks.NewIdentifier(ids[0]), identifierKey)
	for i, id := range ids[1:] {
		p.SetAt(i+1, blocks.NewIdentifier(id))
	}
	sec := &region.Section{Y: 1}
	sec.SetBlocks(p)
	buf, err := region.WriteChunk(&region.Chunk{DataVersion: 2586, Status: status, Sections: []*region.Section{sec}})
	require.NoError(t, err)
	return buf
}

func build(t *testing.T, cfg *config.Config) *Session {
	t.Helper()
	require.NoError(t, cfg.Validate())
	s, err := Build(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func names(ids []blocks.Identifier) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func TestLegacyToModern(t *testing.T) {
	cfg := config.Default()
	s := build(t, cfg)

	c, err := s.ConvertChunk(context.Background(), legacyChunk(t, 3, -4, map[int]palette.LegacyIdentifier{
		1: {ID: 5, Data: 1},
		2: {ID: 3000},
		3: {ID: 3000},
	}))
	require.NoError(t, err)
	require.Equal(t, 3, c.X)
	require.Equal(t, -4, c.Z)
	require.Equal(t, "full", c.Status)
	require.Equal(t, resolver.DataVersion(blocks.V1_16), c.DataVersion)
	require.Len(t, c.Sections, 1)

	sec := c.Sections[0]
	require.Nil(t, sec.Arrays)
	require.Equal(t, []string{"minecraft:stone", "minecraft:spruce_planks", "minecraft:air"}, names(sec.Palette))
	got := sec.Blocks()
	require.Equal(t, "minecraft:spruce_planks", got.At(1).ID)
	require.Equal(t, "minecraft:air", got.At(3).ID)
	require.Equal(t, "minecraft:stone", got.At(4095).ID)
	require.Equal(t, bytes.Repeat([]byte{0xff}, 2048), sec.SkyLight)

	require.Equal(t, map[string]int{"3000": 2}, s.Unmapped())
	dropped := 0
	for _, n := range s.Dropped() {
		dropped += n
	}
	require.Equal(t, 2, dropped)

	// the output reads back
	buf, err := region.WriteChunk(c)
	require.NoError(t, err)
	back, err := region.ReadChunk(buf)
	require.NoError(t, err)
	require.True(t, got.Equal(back.Sections[0].Blocks()))
}

func TestLightingOff(t *testing.T) {
	cfg := config.Default()
	cfg.Lighting = false
	s := build(t, cfg)
	c, err := s.ConvertChunk(context.Background(), legacyChunk(t, 0, 0, nil))
	require.NoError(t, err)
	require.Nil(t, c.Sections[0].SkyLight)
}

func TestModdedIDsKeepTheirNumbers(t *testing.T) {
	dir := t.TempDir()
	table := filepath.Join(dir, "ids.txt")
	require.NoError(t, os.WriteFile(table, []byte("# mod ids\nic2:ore -> 700\n"), 0o644))

	cfg := config.Default()
	cfg.Target = blocks.V1_12
	cfg.Format = config.FormatLegacy
	cfg.IDTable = table
	s := build(t, cfg)

	c, err := s.ConvertChunk(context.Background(), legacyChunk(t, 0, 0, map[int]palette.LegacyIdentifier{
		7:  {ID: 700, Data: 3},
		8:  {ID: 700, Data: 3},
		9:  {ID: 3001},
		10: {ID: 5, Data: 1},
	}))
	require.NoError(t, err)
	require.Equal(t, "", c.Status)

	out, err := palette.DecodeSection(c.Sections[0])
	require.NoError(t, err)
	require.Equal(t, palette.LegacyIdentifier{ID: 1}, out.At(0))
	require.Equal(t, palette.LegacyIdentifier{ID: 700, Data: 3}, out.At(7))
	require.Equal(t, palette.LegacyIdentifier{ID: 700, Data: 3}, out.At(8))
	require.Equal(t, palette.LegacyIdentifier{ID: 3001}, out.At(9))
	require.Equal(t, palette.LegacyIdentifier{ID: 5, Data: 1}, out.At(10))
	require.Empty(t, s.Dropped())
}

func TestPlaceholdersReported(t *testing.T) {
	cfg := config.Default()
	cfg.Source = blocks.V1_16
	cfg.Target = blocks.V1_12
	cfg.Format = config.FormatLegacy
	cfg.ReportPath = filepath.Join(t.TempDir(), "report.db")
	s := build(t, cfg)

	c, err := s.ConvertChunk(context.Background(),
		modernChunk(t, "full", "minecraft:stone", "mymod:thing", "mymod:thing", "othermod:gizmo"))
	require.NoError(t, err)

	out, err := palette.DecodeSection(c.Sections[0])
	require.NoError(t, err)
	require.Equal(t, palette.LegacyIdentifier{ID: 1}, out.At(0))
	require.Equal(t, palette.LegacyIdentifier{ID: 271}, out.At(1))
	require.Equal(t, palette.LegacyIdentifier{ID: 271}, out.At(2))
	require.Equal(t, palette.LegacyIdentifier{ID: 272}, out.At(3))

	require.Equal(t, map[string]int{"mymod:thing": 2, "othermod:gizmo": 1}, s.Unmapped())
	require.NoError(t, s.Flush())
	require.Empty(t, s.Unmapped())

	placeholders, err := s.Report().Placeholders(s.ID)
	require.NoError(t, err)
	require.Equal(t, []report.Placeholder{{Name: "mymod:thing", ID: 271}, {Name: "othermod:gizmo", ID: 272}}, placeholders)
	unmapped, err := s.Report().Unmapped(s.ID)
	require.NoError(t, err)
	require.Equal(t, []report.Unmapped{{Identifier: "mymod:thing", Count: 2}, {Identifier: "othermod:gizmo", Count: 1}}, unmapped)
}

func TestRemapToModdedID(t *testing.T) {
	dir := t.TempDir()
	remap := filepath.Join(dir, "remap.txt")
	require.NoError(t, os.WriteFile(remap, []byte("minecraft:stripped_acacia_log -> etfuturum:stripped_acacia_log[data=2]\n"), 0o644))
	table := filepath.Join(dir, "ids.txt")
	require.NoError(t, os.WriteFile(table, []byte("etfuturum:stripped_acacia_log -> 1300\n"), 0o644))

	cfg := config.Default()
	cfg.Source = blocks.V1_16
	cfg.Target = blocks.V1_12
	cfg.Format = config.FormatLegacy
	cfg.SimpleMappings = remap
	cfg.IDTable = table
	s := build(t, cfg)

	c, err := s.ConvertChunk(context.Background(),
		modernChunk(t, "full", "minecraft:stone", "minecraft:stripped_acacia_log", "mymod:thing"))
	require.NoError(t, err)

	out, err := palette.DecodeSection(c.Sections[0])
	require.NoError(t, err)
	require.Equal(t, palette.LegacyIdentifier{ID: 1}, out.At(0))
	require.Equal(t, palette.LegacyIdentifier{ID: 1300, Data: 2}, out.At(1))
	require.Equal(t, palette.LegacyIdentifier{ID: 271}, out.At(2))
	require.Equal(t, map[string]int{"mymod:thing": 1}, s.Unmapped())

	r, err := s.Resolve(blocks.NewIdentifier("minecraft:stripped_acacia_log"))
	require.NoError(t, err)
	require.False(t, r.Known)
	require.True(t, r.Stored)
	require.Equal(t, 1300, r.ID)
	require.Equal(t, 2, r.Data)
}

func TestProtoChunk(t *testing.T) {
	cfg := config.Default()
	cfg.Source = blocks.V1_16
	s := build(t, cfg)
	_, err := s.ConvertChunk(context.Background(), modernChunk(t, "minecraft:features", "minecraft:stone"))
	require.ErrorIs(t, err, ErrProtoChunk)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Workers = 3
	cfg.ReportPath = filepath.Join(dir, "report.db")
	s := build(t, cfg)

	chunks := []region.Payload{
		{Index: region.ChunkIndex(32, 1), X: 32, Z: 1, Timestamp: 5, Data: legacyChunk(t, 32, 1, nil)},
		{Index: region.ChunkIndex(33, 1), X: 33, Z: 1, Timestamp: 6, Data: []byte{1, 2, 3}, Err: region.ErrCompression},
		{Index: region.ChunkIndex(40, 2), X: 40, Z: 2, Timestamp: 7, Data: legacyChunk(t, 40, 2, map[int]palette.LegacyIdentifier{9: {ID: 5}})},
	}
	out := NewRegionOutput(filepath.Join(dir, "region"), region.Zlib)
	tk := s.Run(context.Background(), "r.1.0.mca", chunks, out)
	require.NoError(t, tk.Wait(context.Background()))
	require.Equal(t, task.Completed, tk.State())
	require.InDelta(t, 1.0, tk.Progress(), 1e-9)

	written, err := out.Flush()
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "region", "r.1.0.mca")}, written)

	r, err := region.OpenRegion(written[0], nil)
	require.NoError(t, err)
	var got []region.Payload
	require.NoError(t, r.ReadChunks(func(p region.Payload) error {
		got = append(got, p)
		return p.Err
	}))
	require.Len(t, got, 2)
	for _, p := range got {
		c, err := region.ReadChunk(p.Data)
		require.NoError(t, err)
		require.Equal(t, p.X, c.X)
		require.Equal(t, p.Z, c.Z)
		require.Equal(t, "full", c.Status)
	}
	require.Equal(t, 32, got[0].X)
	require.Equal(t, uint32(5), got[0].Timestamp)
	require.Equal(t, 40, got[1].X)

	failures, err := s.Report().Failures(s.ID)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	require.Equal(t, 33, failures[0].X)
	require.Equal(t, []byte{1, 2, 3}, failures[0].Payload)
}

func TestRunStopsWhenPlaceholdersRunOut(t *testing.T) {
	cfg := config.Default()
	cfg.Source = blocks.V1_16
	cfg.Target = blocks.V1_12
	cfg.Format = config.FormatLegacy
	cfg.IDBits = 8
	cfg.Workers = 1
	s := build(t, cfg)

	out := NewRegionOutput(t.TempDir(), region.Zlib)
	tk := s.Run(context.Background(), "exhaust", []region.Payload{
		{X: 0, Z: 0, Data: modernChunk(t, "full", "minecraft:stone", "mymod:thing")},
	}, out)
	err := tk.Wait(context.Background())
	require.ErrorIs(t, err, resolver.ErrPlaceholdersExhausted)
	require.Equal(t, task.Failed, tk.State())
}

func TestRunCancelledByContext(t *testing.T) {
	s := build(t, config.Default())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tk := s.Run(ctx, "cancelled", []region.Payload{{Data: legacyChunk(t, 0, 0, nil)}}, NewRegionOutput(t.TempDir(), region.Zlib))
	<-tk.Done()
	require.Contains(t, []task.State{task.Cancelled, task.Completed}, tk.State())
}

func TestLegacyTargetNeedsNumbering(t *testing.T) {
	cfg := config.Default()
	cfg.Target = blocks.V1_12
	cfg.Format = config.FormatLegacy
	m, err := resolver.NewModern(blocks.V1_16)
	require.NoError(t, err)
	_, err = New(cfg, nil, m, m)
	require.Error(t, err)
}

func TestResolve(t *testing.T) {
	s := build(t, config.Default())

	r, err := s.Resolve(blocks.NewIdentifier("5").WithData(1))
	require.NoError(t, err)
	require.True(t, r.Known)
	require.True(t, r.Stored)
	require.Equal(t, "minecraft:spruce_planks", r.Target.String())

	r, err = s.Resolve(blocks.NewIdentifier("3000"))
	require.NoError(t, err)
	require.False(t, r.Known)
	require.False(t, r.Stored)
	require.Equal(t, air, r.Target)
	require.Empty(t, s.Unmapped())
}
