package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rmmh/chunkport/go/palette"
	"github.com/rmmh/chunkport/go/region"
)

// fakeRegion writes a pre-flattening region file whose chunks have a grass
// floor with a sweep above it: at y=1, x is the block id (offset by the
// chunk's position in the region) and z the data value. Ids at or above
// sweepIDs are left as air.
func fakeRegion(t *testing.T, dir string, rx, rz, chunks, sweepIDs int, extra palette.LegacyIdentifier) string {
	t.Helper()
	var payloads []region.Payload
	for cn := 0; cn < chunks; cn++ {
		p := palette.NewLegacy()
		for j := 0; j < 256; j++ {
			p.SetAt(j, palette.LegacyIdentifier{ID: 2})
		}
		for j := 0; j < 256; j++ {
			id := j%16 + cn*16
			if id >= sweepIDs {
				continue
			}
			p.SetAt(256+j, palette.LegacyIdentifier{ID: uint16(id), Data: uint8(j / 16)})
		}
		p.Set(0, 2, 0, extra)

		layout, err := palette.ChooseLayout(p, true)
		require.NoError(t, err)
		arrays, err := palette.EncodeSection(p, layout)
		require.NoError(t, err)
		x, z := rx<<5|cn%32, rz<<5|cn/32
		buf, err := region.WriteChunk(&region.Chunk{X: x, Z: z, Sections: []*region.Section{{Arrays: arrays}}})
		require.NoError(t, err)
		payloads = append(payloads, region.Payload{Index: region.ChunkIndex(x, z), X: x, Z: z, Timestamp: uint32(1000 + cn), Data: buf})
	}
	path := filepath.Join(dir, region.RegionName(rx<<5, rz<<5))
	require.NoError(t, region.WriteRegion(path, payloads, region.Zlib))
	return path
}
