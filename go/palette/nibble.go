package palette

import "encoding/binary"

// Nibble returns the low or high half of b.
func Nibble(b byte, low bool) byte {
	if low {
		return b & 0xf
	}
	return b >> 4
}

// SetNibble replaces one half of b with the low bits of v.
func SetNibble(b, v byte, low bool) byte {
	if low {
		return b&0xf0 | v&0xf
	}
	return b&0x0f | v<<4
}

// nibble arrays put even cells in the low half
func isLow(i int) bool { return i&1 == 0 }

// ShortsToBytes packs big endian, the way Blocks16 is stored.
func ShortsToBytes(s []uint16) []byte {
	out := make([]byte, len(s)*2)
	for i, v := range s {
		binary.BigEndian.PutUint16(out[i*2:], v)
	}
	return out
}

// BytesToShorts is the inverse of ShortsToBytes. A trailing odd byte is
// ignored.
func BytesToShorts(b []byte) []uint16 {
	out := make([]uint16, len(b)/2)
	for i := range out {
		out[i] = binary.BigEndian.Uint16(b[i*2:])
	}
	return out
}
