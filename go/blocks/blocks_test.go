package blocks

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rmmh/chunkport/go/state"
)

func TestParseIdentifier(t *testing.T) {
	for _, tc := range []struct {
		in   string
		id   string
		data int
		hasD bool
		out  string
	}{
		{"minecraft:stone", "minecraft:stone", 0, false, "minecraft:stone"},
		{"1", "1", 0, false, "1"},
		{"35:14", "35", 14, true, "35[data=14]"},
		{"minecraft:wool:14", "minecraft:wool", 14, true, "minecraft:wool[data=14]"},
		{" Minecraft:Oak_Stairs[facing=east,half=top] ", "minecraft:oak_stairs", 0, false, "minecraft:oak_stairs[facing=east,half=top]"},
		{"minecraft:wool[data=3]", "minecraft:wool", 3, true, "minecraft:wool[data=3]"},
	} {
		id, err := ParseIdentifier(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.id, id.ID, tc.in)
		data, ok := id.Data()
		require.Equal(t, tc.hasD, ok, tc.in)
		require.Equal(t, tc.data, data, tc.in)
		require.Equal(t, tc.out, id.String(), tc.in)
	}

	for _, bad := range []string{"", "minecraft:stone[facing=east", "35:16", "minecraft:stone[facing]"} {
		_, err := ParseIdentifier(bad)
		require.Error(t, err, bad)
	}
}

func TestParseIdentifierStates(t *testing.T) {
	id, err := ParseIdentifier("minecraft:lever[powered=true,face=floor]")
	require.NoError(t, err)
	require.Equal(t, state.Bool(true), id.States["powered"])
	require.Equal(t, state.Enum("floor"), id.States["face"])
	require.Equal(t, map[string]state.Value{"powered": state.Bool(true), "face": state.Enum("floor")}, id.Named())
}

func TestParseMappingLine(t *testing.T) {
	ids, err := ParseMappingLine("  # just a comment")
	require.NoError(t, err)
	require.Nil(t, ids)

	ids, err = ParseMappingLine("35:14 -> minecraft:red_wool -> minecraft:red_concrete # trailing")
	require.NoError(t, err)
	require.Len(t, ids, 3)
	require.Equal(t, "35[data=14]", ids[0].String())
	require.Equal(t, "minecraft:red_concrete", ids[2].ID)

	_, err = ParseMappingLine("minecraft:stone")
	require.Error(t, err)
}

func TestVanillaTypes(t *testing.T) {
	st, ok := Lookup("minecraft:stone")
	require.True(t, ok)
	require.Equal(t, Stone, st)
	require.Equal(t, "minecraft:stone", Stone.Identifier())

	require.Equal(t, "red_bed", Bed[Red].Name())
	require.Equal(t, "dark_oak_fence_gate", FenceGate[DarkOak].Name())
	require.Equal(t, "stripped_birch_log", StrippedLog[Birch].Name())
	require.Equal(t, V1_8, FenceGate[Acacia].Since())
	require.Equal(t, V1_0, FenceGate[Oak].Since())
	require.Equal(t, V1_12, Concrete[White].Since())

	require.True(t, WoodenStairs[Oak].Supports(Half))
	require.False(t, Stone.Supports(Waterlogged))
	k, ok := Lever.KeyNamed("face")
	require.True(t, ok)
	require.Equal(t, AttachFace, k)

	names := map[string]bool{}
	for _, v := range Vanilla() {
		require.False(t, v.IsZero())
		require.False(t, names[v.Name()], v.Name())
		names[v.Name()] = true
	}

	_, ok = Lookup("mod:thing")
	require.False(t, ok)
	c := Custom("mod:thing")
	require.True(t, c.IsCustom())
	require.Equal(t, "mod:thing", c.Identifier())
	require.True(t, Type{}.IsZero())
}

func TestBlockKey(t *testing.T) {
	a := Of(WoodenStairs[Oak], state.Set{FacingHorizontal: state.Enum("east"), Half: state.Enum("top")})
	b := Of(WoodenStairs[Oak], state.Set{Half: state.Enum("top"), FacingHorizontal: state.Enum("east")})
	require.True(t, a.Equal(b))
	require.Equal(t, a.Key(), b.Key())
	require.Equal(t, "minecraft:oak_stairs[facing=east,half=top]", a.String())

	c := a.With(Half, state.Enum("bottom"))
	require.False(t, a.Equal(c))
	require.Equal(t, state.Enum("top"), a.States[Half])

	require.Equal(t, "minecraft:stone", Of(Stone, nil).String())
	require.True(t, Of(Stone, nil).Equal(Of(Stone, state.Set{})))
}

func TestVersion(t *testing.T) {
	v, err := ParseVersion("1.12.2")
	require.NoError(t, err)
	require.Equal(t, Version{1, 12, 2}, v)
	require.True(t, v.AtLeast(V1_12))
	require.True(t, v.Less(V1_13))
	require.False(t, v.Flattened())
	require.Equal(t, "1.12.2", v.String())
	require.Equal(t, "1.13", V1_13.String())

	_, err = ParseVersion("1")
	require.Error(t, err)
	_, err = ParseVersion("1.x")
	require.Error(t, err)
}
