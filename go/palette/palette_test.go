package palette

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func TestPalette(t *testing.T) {
	p := NewLegacy()
	require.Equal(t, 1, p.Len())
	require.Equal(t, Air, p.Get(15, 15, 15))

	stone := LegacyIdentifier{ID: 1}
	p.Set(1, 2, 3, stone)
	require.Equal(t, stone, p.Get(1, 2, 3))
	require.Equal(t, stone, p.At(2<<8|3<<4|1))
	require.Equal(t, []LegacyIdentifier{Air, stone}, p.Values())

	x, y, z := Coords(Index(1, 2, 3))
	require.Equal(t, []int{1, 2, 3}, []int{x, y, z})

	// overwritten values drop out
	for i := 0; i < Size; i++ {
		p.SetAt(i, stone)
	}
	require.Equal(t, []LegacyIdentifier{stone}, p.Values())

	// churn well past the index space
	for n := 0; n < 70000; n++ {
		p.SetAt(n%Size, LegacyIdentifier{ID: uint16(n % 4000)})
	}
	require.LessOrEqual(t, p.Len(), Size)
	require.Equal(t, LegacyIdentifier{ID: uint16(69999 % 4000)}, p.At(69999%Size))
}

func TestMapOncePerValue(t *testing.T) {
	p := NewLegacy()
	for i := 0; i < Size; i++ {
		p.SetAt(i, LegacyIdentifier{ID: uint16(i % 7), Data: uint8(i % 2)})
	}
	calls := map[LegacyIdentifier]int{}
	out, err := Map(p, func(s string) any { return s }, func(l LegacyIdentifier) (string, error) {
		calls[l]++
		return strconv.Itoa(int(l.ID)), nil
	})
	require.NoError(t, err)
	require.Len(t, calls, 14)
	for l, n := range calls {
		require.Equal(t, 1, n, "%s mapped %d times", l, n)
	}
	// data collapses, so the result has one value per id
	require.Equal(t, 7, out.Len())
	for i := 0; i < Size; i++ {
		require.Equal(t, strconv.Itoa(i%7), out.At(i))
	}

	_, err = Map(p, func(s string) any { return s }, func(l LegacyIdentifier) (string, error) {
		return "", ErrUnencodable
	})
	require.ErrorIs(t, err, ErrUnencodable)
}

func randomPalette(seed int64, distinct, maxID int) *Palette[LegacyIdentifier] {
	r := rand.New(rand.NewSource(seed))
	values := make([]LegacyIdentifier, distinct)
	for i := range values {
		values[i] = LegacyIdentifier{ID: uint16(r.Intn(maxID + 1)), Data: uint8(r.Intn(16))}
	}
	p := NewLegacy()
	for i := 0; i < Size; i++ {
		p.SetAt(i, values[r.Intn(distinct)])
	}
	return p
}

func TestLayoutRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	for _, layout := range []Layout{Nibble4, Blocks8, Blocks12, Blocks16} {
		layout := layout
		properties.Property(layout.String()+" decode(encode(p)) == p", prop.ForAll(
			func(seed int64, distinct int) bool {
				p := randomPalette(seed, distinct, layout.MaxID())
				arrays, err := EncodeSection(p, layout)
				if err != nil {
					return false
				}
				back, err := DecodeSection(arrays)
				return err == nil && back.Equal(p)
			},
			gen.Int64(),
			gen.IntRange(1, 300),
		))
	}
	properties.TestingRun(t)
}

func TestBlocks16Supersedes(t *testing.T) {
	wide := make([]uint16, Size)
	blocks := make([]byte, Size)
	add := make([]byte, Size/2)
	data := make([]byte, Size/2)
	for i := range wide {
		wide[i] = 0x1234
		blocks[i] = 0x01
	}
	for i := range add {
		add[i] = 0xff
		data[i] = 0x53
	}
	p, err := DecodeSection(Arrays{
		TagBlocks:   blocks,
		TagAdd:      add,
		TagData:     data,
		TagBlocks16: ShortsToBytes(wide),
	})
	require.NoError(t, err)
	require.Equal(t, LegacyIdentifier{ID: 0x1234, Data: 3}, p.At(0))
	require.Equal(t, LegacyIdentifier{ID: 0x1234, Data: 5}, p.At(1))

	// without Blocks16, Add supplies the high bits
	p, err = DecodeSection(Arrays{TagBlocks: blocks, TagAdd: add, TagData: data})
	require.NoError(t, err)
	require.Equal(t, LegacyIdentifier{ID: 0xf01, Data: 3}, p.At(0))
}

func TestDecodeSectionEdges(t *testing.T) {
	p, err := DecodeSection(Arrays{TagData: make([]byte, Size/2)})
	require.NoError(t, err)
	require.Equal(t, []LegacyIdentifier{Air}, p.Values())

	p, err = DecodeSection(Arrays{TagBlocks: make([]byte, Size)})
	require.NoError(t, err)
	require.Equal(t, []LegacyIdentifier{Air}, p.Values())

	for _, bad := range []Arrays{
		{TagBlocks: make([]byte, 100)},
		{TagBlocks: make([]byte, Size), TagData: make([]byte, Size)},
		{TagBlocks: make([]byte, Size), TagAdd: make([]byte, 10)},
		{TagBlocks16: make([]byte, Size)},
	} {
		_, err := DecodeSection(bad)
		require.ErrorIs(t, err, ErrMalformed)
	}
}

func TestChooseLayout(t *testing.T) {
	p := NewLegacy()
	layout, err := ChooseLayout(p, false)
	require.NoError(t, err)
	require.Equal(t, Blocks8, layout)

	p.SetAt(7, LegacyIdentifier{ID: 300})
	layout, err = ChooseLayout(p, false)
	require.NoError(t, err)
	require.Equal(t, Blocks12, layout)

	p.SetAt(8, LegacyIdentifier{ID: 5000})
	_, err = ChooseLayout(p, false)
	require.ErrorIs(t, err, ErrUnencodable)
	layout, err = ChooseLayout(p, true)
	require.NoError(t, err)
	require.Equal(t, Blocks16, layout)

	_, err = EncodeSection(p, Blocks12)
	require.ErrorIs(t, err, ErrUnencodable)
}

func TestNibbles(t *testing.T) {
	require.Equal(t, byte(0x1), Nibble(0x21, true))
	require.Equal(t, byte(0x2), Nibble(0x21, false))
	require.Equal(t, byte(0x2f), SetNibble(0x21, 0xf, true))
	require.Equal(t, byte(0xf1), SetNibble(0x21, 0xf, false))

	raw := make([]byte, Size/2)
	raw[0] = 0x21
	raw[Index(3, 1, 0)>>1] = 0xe0
	n, err := DecodeNibbles(raw)
	require.NoError(t, err)
	require.Equal(t, byte(1), n.Get(0, 0, 0))
	require.Equal(t, byte(2), n.Get(1, 0, 0))
	require.Equal(t, byte(0xe), n.Get(3, 1, 0))
	require.Equal(t, raw, EncodeNibbles(n))

	n.Set(15, 15, 15, 0x1f)
	require.Equal(t, byte(0xf), n.Get(15, 15, 15))

	_, err = DecodeNibbles(raw[1:])
	require.ErrorIs(t, err, ErrMalformed)

	shorts := []uint16{0x0102, 0xfffe}
	require.Equal(t, []byte{1, 2, 0xff, 0xfe}, ShortsToBytes(shorts))
	require.Equal(t, shorts, BytesToShorts([]byte{1, 2, 0xff, 0xfe, 9}))
}
