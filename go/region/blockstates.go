package region

import (
	"encoding/binary"
	"math/bits"

	"github.com/pkg/errors"
)

// SpanningDataVersion is the last data version (before 1.16 snapshot
// 20w17a) whose BlockStates let entries straddle two longs.
const SpanningDataVersion = 2528

// StateBits is the width of one BlockStates entry for a palette of n
// entries.
func StateBits(n int) int {
	return max(4, bits.Len(uint(n-1)))
}

func stateLongs(width int, spanning bool) int {
	if spanning {
		return 4096 * width / 64
	}
	per := 64 / width
	return (4096 + per - 1) / per
}

// UnpackStates reads a BlockStates long array (big-endian bytes) into
// 4096 palette indices.
func UnpackStates(value []byte, width int, spanning bool) ([]uint16, error) {
	if width < 1 || width > 16 {
		return nil, errors.Errorf("bad state width %d", width)
	}
	if want := stateLongs(width, spanning) * 8; len(value) != want {
		return nil, errors.Errorf("BlockStates is %d bytes, want %d for %d bit entries", len(value), want, width)
	}
	larr := make([]uint64, len(value)/8)
	for i := range larr {
		larr[i] = binary.BigEndian.Uint64(value[i*8:])
	}
	ret := make([]uint16, 4096)
	mask := uint64(1)<<width - 1
	if !spanning || 64%width == 0 {
		per := 64 / width
		for i := range ret {
			ret[i] = uint16(larr[i/per] >> (i % per * width) & mask)
		}
		return ret, nil
	}
	// entries are packed to use every bit, crossing long boundaries
	for i := range ret {
		bit := i * width
		word, off := bit/64, bit%64
		v := larr[word] >> off
		if off+width > 64 {
			v |= larr[word+1] << (64 - off)
		}
		ret[i] = uint16(v & mask)
	}
	return ret, nil
}

// PackStates is the inverse of UnpackStates.
func PackStates(indices []uint16, width int, spanning bool) []byte {
	larr := make([]uint64, stateLongs(width, spanning))
	mask := uint64(1)<<width - 1
	if !spanning || 64%width == 0 {
		per := 64 / width
		for i, v := range indices {
			larr[i/per] |= uint64(v) & mask << (i % per * width)
		}
	} else {
		for i, v := range indices {
			bit := i * width
			word, off := bit/64, bit%64
			larr[word] |= uint64(v) & mask << off
			if off+width > 64 {
				larr[word+1] |= uint64(v) & mask >> (64 - off)
			}
		}
	}
	out := make([]byte, 0, len(larr)*8)
	for _, l := range larr {
		out = binary.BigEndian.AppendUint64(out, l)
	}
	return out
}
