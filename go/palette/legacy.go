package palette

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

var (
	ErrMalformed   = errors.New("malformed section array")
	ErrUnencodable = errors.New("section doesn't fit layout")
)

// Section array tags.
const (
	TagBlocks   = "Blocks"
	TagAdd      = "Add"
	TagData     = "Data"
	TagBlocks16 = "Blocks16"
)

// LegacyIdentifier is a pre-flattening block as stored in a section.
type LegacyIdentifier struct {
	ID   uint16
	Data uint8
}

var Air = LegacyIdentifier{}

func (l LegacyIdentifier) String() string { return fmt.Sprintf("%d:%d", l.ID, l.Data) }

// ByteArrays is the view of a section's named byte arrays the codec needs.
type ByteArrays interface {
	ByteArray(name string) ([]byte, bool)
}

// Arrays is a plain ByteArrays.
type Arrays map[string][]byte

func (a Arrays) ByteArray(name string) ([]byte, bool) {
	b, ok := a[name]
	return b, ok
}

// Layout is one of the historical ways of packing ids into a section.
type Layout int

const (
	Nibble4  Layout = iota // ids in a nibble-packed Blocks array
	Blocks8                // Blocks + Data
	Blocks12               // Blocks + Add + Data
	Blocks16               // Blocks16 + Data, with Blocks kept for older readers
)

func (l Layout) String() string {
	switch l {
	case Nibble4:
		return "nibble4"
	case Blocks8:
		return "blocks8"
	case Blocks12:
		return "blocks12"
	case Blocks16:
		return "blocks16"
	}
	return fmt.Sprintf("layout(%d)", int(l))
}

// MaxID is the largest id the layout can hold.
func (l Layout) MaxID() int {
	switch l {
	case Nibble4:
		return 0xf
	case Blocks8:
		return 0xff
	case Blocks12:
		return 0xfff
	}
	return 0xffff
}

func NewLegacy() *Palette[LegacyIdentifier] { return FilledComparable(Air) }

func sized(src ByteArrays, name string, sizes ...int) ([]byte, bool, error) {
	b, ok := src.ByteArray(name)
	if !ok {
		return nil, false, nil
	}
	if !lo.Contains(sizes, len(b)) {
		return nil, false, errors.Wrapf(ErrMalformed, "%s has %d bytes", name, len(b))
	}
	return b, true, nil
}

// DecodeSection unpacks a section's ids. Blocks16 supersedes Blocks and Add;
// a section with neither Blocks nor Blocks16 is all air.
func DecodeSection(src ByteArrays) (*Palette[LegacyIdentifier], error) {
	blocks, hasBlocks, err := sized(src, TagBlocks, Size, Size/2)
	if err != nil {
		return nil, err
	}
	wide, hasWide, err := sized(src, TagBlocks16, Size*2)
	if err != nil {
		return nil, err
	}
	p := NewLegacy()
	if !hasBlocks && !hasWide {
		return p, nil
	}
	add, hasAdd, err := sized(src, TagAdd, Size/2)
	if err != nil {
		return nil, err
	}
	data, hasData, err := sized(src, TagData, Size/2)
	if err != nil {
		return nil, err
	}

	for i := 0; i < Size; i++ {
		low := isLow(i)
		var id uint16
		switch {
		case hasWide:
			id = binary.BigEndian.Uint16(wide[i*2:])
		case len(blocks) == Size/2:
			id = uint16(Nibble(blocks[i>>1], low))
		default:
			id = uint16(blocks[i])
			if hasAdd {
				id |= uint16(Nibble(add[i>>1], low)) << 8
			}
		}
		var d uint8
		if hasData {
			d = Nibble(data[i>>1], low)
		}
		p.SetAt(i, LegacyIdentifier{ID: id, Data: d})
	}
	return p, nil
}

// EncodeSection packs p in layout. Decoding the result gives p back.
func EncodeSection(p *Palette[LegacyIdentifier], layout Layout) (Arrays, error) {
	if top := maxID(p); top > layout.MaxID() {
		return nil, errors.Wrapf(ErrUnencodable, "id %d in %s", top, layout)
	}
	data := make([]byte, Size/2)
	out := Arrays{TagData: data}
	var blocks, add []byte
	var wide []uint16
	switch layout {
	case Nibble4:
		blocks = make([]byte, Size/2)
	case Blocks12:
		add = make([]byte, Size/2)
		out[TagAdd] = add
		fallthrough
	case Blocks8:
		blocks = make([]byte, Size)
	case Blocks16:
		blocks = make([]byte, Size)
		wide = make([]uint16, Size)
	default:
		return nil, errors.Errorf("unknown layout %d", int(layout))
	}
	out[TagBlocks] = blocks

	for i := 0; i < Size; i++ {
		v := p.At(i)
		low := isLow(i)
		data[i>>1] = SetNibble(data[i>>1], v.Data, low)
		if layout == Nibble4 {
			blocks[i>>1] = SetNibble(blocks[i>>1], byte(v.ID), low)
			continue
		}
		blocks[i] = byte(v.ID)
		if add != nil {
			add[i>>1] = SetNibble(add[i>>1], byte(v.ID>>8), low)
		}
		if wide != nil {
			wide[i] = v.ID
		}
	}
	if wide != nil {
		out[TagBlocks16] = ShortsToBytes(wide)
	}
	return out, nil
}

func maxID(p *Palette[LegacyIdentifier]) int {
	return int(lo.MaxBy(p.Values(), func(a, b LegacyIdentifier) bool { return a.ID > b.ID }).ID)
}

// ChooseLayout picks the narrowest layout real worlds read: Blocks8,
// Blocks12, or Blocks16 when allowed. Nibble4 is never chosen.
func ChooseLayout(p *Palette[LegacyIdentifier], allow16 bool) (Layout, error) {
	top := maxID(p)
	switch {
	case top <= Blocks8.MaxID():
		return Blocks8, nil
	case top <= Blocks12.MaxID():
		return Blocks12, nil
	case allow16:
		return Blocks16, nil
	}
	return 0, errors.Wrapf(ErrUnencodable, "id %d needs Blocks16", top)
}
