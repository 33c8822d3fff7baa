package resolver

import (
	"github.com/pkg/errors"

	"github.com/rmmh/chunkport/go/blocks"
	"github.com/rmmh/chunkport/go/state"
)

// GroupName identifies one of the shared legacy state groups.
type GroupName int

const (
	GroupFacing GroupName = iota
	GroupDispenser
	GroupPiston
	GroupPistonHead
	GroupObserver
	GroupCommandBlock
	GroupFacingWall
	GroupFacingHorizontal
	GroupBed
	GroupEndPortalFrame
	GroupRotation
	GroupTorch
	GroupStairs
	GroupSlabHalf
	GroupDoor
	GroupTrapdoor
	GroupFenceGate
	GroupButton
	GroupLever
	GroupPressurePlate
	GroupPower
	GroupRail
	GroupPoweredRail
	GroupLiquid
	GroupAge3
	GroupAge7
	GroupAge15
	GroupCocoa
	GroupSnow
	GroupCake
	GroupFarmland
	GroupSapling
	GroupLeaves
	GroupAxis
	GroupVine
	GroupRepeater
	GroupComparator
	GroupHopper
	GroupCauldron
	GroupTripwireHook
	GroupTripwire
	GroupDoublePlant
	GroupPortal
	GroupJukebox
	GroupTNT
	GroupConnectable
	GroupWaterlogged

	numGroups
)

var groupNames = [numGroups]string{
	"facing", "dispenser", "piston", "piston_head", "observer", "command_block",
	"facing_wall", "facing_horizontal", "bed", "end_portal_frame", "rotation",
	"torch", "stairs", "slab_half", "door", "trapdoor", "fence_gate", "button",
	"lever", "pressure_plate", "power", "rail", "powered_rail", "liquid", "age_3",
	"age_7", "age_15", "cocoa", "snow", "cake", "farmland", "sapling", "leaves",
	"axis", "vine", "repeater", "comparator", "hopper", "cauldron",
	"tripwire_hook", "tripwire", "double_plant", "portal", "jukebox", "tnt",
	"connectable", "waterlogged",
}

func (n GroupName) String() string { return groupNames[n] }

// Group returns the registered group.
func (n GroupName) Group() *state.Group { return groups[n] }

// GroupByName resolves a group from its registry name.
func GroupByName(name string) (GroupName, bool) {
	for i, s := range groupNames {
		if s == name {
			return GroupName(i), true
		}
	}
	return 0, false
}

// Metadata packs named states into a legacy data value through the group
// registered as group. States the group doesn't know are ignored and
// missing ones take their defaults.
func Metadata(group string, named map[string]state.Value) (int, error) {
	n, ok := GroupByName(group)
	if !ok {
		return 0, errors.Errorf("unknown state group %q", group)
	}
	g := n.Group()
	return g.Encode(g.DecodeNamed(named)), nil
}

var groups [numGroups]*state.Group

func facing6(b *state.Builder) *state.Builder {
	return b.Enum(blocks.Facing, 0, 3, "down", "up", "north", "south", "west", "east")
}

// horizontal facings in the order most pre-flattening blocks use for data&3
func facingSWNE(b *state.Builder) *state.Builder {
	return b.Enum(blocks.FacingHorizontal, 0, 2, "south", "west", "north", "east")
}

func init() {
	n := func(name GroupName) *state.Builder { return state.NewGroup(name.String()) }
	r := func(name GroupName, b *state.Builder) { groups[name] = b.Build() }

	r(GroupFacing, facing6(n(GroupFacing)))
	r(GroupDispenser, facing6(n(GroupDispenser)).Flag(blocks.Triggered, 3))
	r(GroupPiston, facing6(n(GroupPiston)).Flag(blocks.Extended, 3))
	r(GroupPistonHead, facing6(n(GroupPistonHead)).Enum(blocks.PistonType, 3, 1, "normal", "sticky"))
	r(GroupObserver, facing6(n(GroupObserver)).Flag(blocks.Powered, 3))
	r(GroupCommandBlock, facing6(n(GroupCommandBlock)).Flag(blocks.Conditional, 3))
	r(GroupFacingWall, n(GroupFacingWall).
		Enum(blocks.FacingHorizontal, 0, 3, "", "", "north", "south", "west", "east"))
	r(GroupFacingHorizontal, facingSWNE(n(GroupFacingHorizontal)))
	r(GroupBed, facingSWNE(n(GroupBed)).
		Flag(blocks.Occupied, 2).
		Enum(blocks.BedPart, 3, 1, "foot", "head"))
	r(GroupEndPortalFrame, facingSWNE(n(GroupEndPortalFrame)).Flag(blocks.Eye, 2))
	r(GroupRotation, n(GroupRotation).Int(blocks.Rotation, 0, 4, 0))
	r(GroupTorch, n(GroupTorch).
		Enum(blocks.FacingHorizontal, 0, 3, "", "east", "west", "south", "north"))
	r(GroupStairs, n(GroupStairs).
		Enum(blocks.FacingHorizontal, 0, 2, "east", "west", "south", "north").
		Enum(blocks.Half, 2, 1, "bottom", "top"))
	r(GroupSlabHalf, n(GroupSlabHalf).Enum(blocks.SlabType, 3, 1, "bottom", "top"))
	r(GroupDoor, n(GroupDoor).
		Enum(blocks.DoubleHalf, 3, 1, "lower", "upper").
		When(blocks.DoubleHalf, state.Enum("lower"), func(b *state.Builder) {
			b.Enum(blocks.FacingHorizontal, 0, 2, "east", "south", "west", "north").
				Flag(blocks.Open, 2)
		}).
		When(blocks.DoubleHalf, state.Enum("upper"), func(b *state.Builder) {
			b.Enum(blocks.Hinge, 0, 1, "left", "right").
				Flag(blocks.Powered, 1)
		}))
	r(GroupTrapdoor, n(GroupTrapdoor).
		Enum(blocks.FacingHorizontal, 0, 2, "north", "south", "west", "east").
		Flag(blocks.Open, 2).
		Enum(blocks.Half, 3, 1, "bottom", "top"))
	r(GroupFenceGate, facingSWNE(n(GroupFenceGate)).Flag(blocks.Open, 2))
	r(GroupButton, n(GroupButton).
		Joint(0, 3, []*state.Key{blocks.AttachFace, blocks.FacingHorizontal},
			state.Syms("ceiling", "north"),
			state.Syms("wall", "east"),
			state.Syms("wall", "west"),
			state.Syms("wall", "south"),
			state.Syms("wall", "north"),
			state.Syms("floor", "north")).
		Flag(blocks.Powered, 3))
	r(GroupLever, n(GroupLever).
		Joint(0, 3, []*state.Key{blocks.AttachFace, blocks.FacingHorizontal},
			state.Syms("ceiling", "west"),
			state.Syms("wall", "east"),
			state.Syms("wall", "west"),
			state.Syms("wall", "south"),
			state.Syms("wall", "north"),
			state.Syms("floor", "north"),
			state.Syms("floor", "west"),
			state.Syms("ceiling", "north")).
		Flag(blocks.Powered, 3))
	r(GroupPressurePlate, n(GroupPressurePlate).Flag(blocks.Powered, 0))
	r(GroupPower, n(GroupPower).Int(blocks.Power, 0, 4, 0))
	r(GroupRail, n(GroupRail).Enum(blocks.RailShape, 0, 4,
		"north_south", "east_west", "ascending_east", "ascending_west", "ascending_north",
		"ascending_south", "south_east", "south_west", "north_west", "north_east"))
	r(GroupPoweredRail, n(GroupPoweredRail).
		Enum(blocks.StraightRailShape, 0, 3,
			"north_south", "east_west", "ascending_east", "ascending_west", "ascending_north", "ascending_south").
		Flag(blocks.Powered, 3))
	r(GroupLiquid, n(GroupLiquid).Int(blocks.LiquidLevel, 0, 4, 0))
	r(GroupAge3, n(GroupAge3).Int(blocks.Age3, 0, 2, 0))
	r(GroupAge7, n(GroupAge7).Int(blocks.Age7, 0, 3, 0))
	r(GroupAge15, n(GroupAge15).Int(blocks.Age15, 0, 4, 0))
	r(GroupCocoa, facingSWNE(n(GroupCocoa)).Int(blocks.Age3, 2, 2, 0))
	r(GroupSnow, n(GroupSnow).Int(blocks.Layers, 0, 3, 1))
	r(GroupCake, n(GroupCake).Int(blocks.Bites, 0, 3, 0))
	r(GroupFarmland, n(GroupFarmland).Int(blocks.Moisture, 0, 3, 0))
	r(GroupSapling, n(GroupSapling).Int(blocks.Stage, 3, 1, 0))
	r(GroupLeaves, n(GroupLeaves).Flag(blocks.Persistent, 2).Flag(blocks.Update, 3))
	r(GroupAxis, n(GroupAxis).Enum(blocks.Axis, 2, 2, "y", "x", "z"))
	r(GroupVine, n(GroupVine).
		Flag(blocks.South, 0).
		Flag(blocks.West, 1).
		Flag(blocks.North, 2).
		Flag(blocks.East, 3))
	r(GroupRepeater, n(GroupRepeater).
		Enum(blocks.FacingHorizontal, 0, 2, "south", "west", "north", "east").
		Int(blocks.Delay, 2, 2, 1))
	r(GroupComparator, n(GroupComparator).
		Enum(blocks.FacingHorizontal, 0, 2, "south", "west", "north", "east").
		Enum(blocks.ComparatorMode, 2, 1, "compare", "subtract").
		Flag(blocks.Powered, 3))
	r(GroupHopper, n(GroupHopper).
		Enum(blocks.FacingHopper, 0, 3, "down", "", "north", "south", "west", "east").
		Bits(blocks.Enabled, 3, 1, state.Bool(true), state.Bool(false)))
	r(GroupCauldron, n(GroupCauldron).Int(blocks.CauldronLevel, 0, 2, 0))
	r(GroupTripwireHook, facingSWNE(n(GroupTripwireHook)).
		Flag(blocks.Attached, 2).
		Flag(blocks.Powered, 3))
	r(GroupTripwire, n(GroupTripwire).
		Flag(blocks.Powered, 0).
		Flag(blocks.Attached, 2).
		Flag(blocks.Disarmed, 3))
	r(GroupDoublePlant, n(GroupDoublePlant).Enum(blocks.DoubleHalf, 3, 1, "lower", "upper"))
	r(GroupPortal, n(GroupPortal).Enum(blocks.HorizontalAxis, 0, 2, "", "x", "z"))
	r(GroupJukebox, n(GroupJukebox).Flag(blocks.HasRecord, 0))
	r(GroupTNT, n(GroupTNT).Flag(blocks.Unstable, 0))
	r(GroupConnectable, n(GroupConnectable).
		Default(blocks.North, state.Bool(false)).
		Default(blocks.East, state.Bool(false)).
		Default(blocks.South, state.Bool(false)).
		Default(blocks.West, state.Bool(false)))
	r(GroupWaterlogged, n(GroupWaterlogged).Default(blocks.Waterlogged, state.Bool(false)))
}
