package palette

import "github.com/pkg/errors"

// Nibbles is an unpacked 4-bit volume, such as block or sky light.
type Nibbles [Size]byte

func (n *Nibbles) Get(x, y, z int) byte { return n[Index(x, y, z)] }

func (n *Nibbles) Set(x, y, z int, v byte) { n[Index(x, y, z)] = v & 0xf }

func DecodeNibbles(b []byte) (*Nibbles, error) {
	if len(b) != Size/2 {
		return nil, errors.Wrapf(ErrMalformed, "nibble array of %d bytes", len(b))
	}
	var n Nibbles
	for i := range n {
		n[i] = Nibble(b[i>>1], isLow(i))
	}
	return &n, nil
}

func EncodeNibbles(n *Nibbles) []byte {
	out := make([]byte, Size/2)
	for i, v := range n {
		out[i>>1] = SetNibble(out[i>>1], v, isLow(i))
	}
	return out
}
