package blocks

import "github.com/rmmh/chunkport/go/state"

// vanilla state keys
var (
	Waterlogged = state.NewBool("waterlogged", false)
	Snowy       = state.NewBool("snowy", false)
	Open        = state.NewBool("open", false)
	Powered     = state.NewBool("powered", false)
	Lit         = state.NewBool("lit", false)
	Triggered   = state.NewBool("triggered", false)
	Extended    = state.NewBool("extended", false)
	Occupied    = state.NewBool("occupied", false)
	Persistent  = state.NewBool("persistent", false)
	Update      = state.NewBool("check_decay", false)
	Conditional = state.NewBool("conditional", false)
	Eye         = state.NewBool("eye", false)
	Attached    = state.NewBool("attached", false)
	Disarmed    = state.NewBool("disarmed", false)
	HasRecord   = state.NewBool("has_record", false)
	Inverted    = state.NewBool("inverted", false)
	Locked      = state.NewBool("locked", false)
	Enabled     = state.NewBool("enabled", true)
	Short       = state.NewBool("short", false)
	Drag        = state.NewBool("drag", true)
	Unstable    = state.NewBool("unstable", false)

	North = state.NewBool("north", false)
	East  = state.NewBool("east", false)
	South = state.NewBool("south", false)
	West  = state.NewBool("west", false)
	Up    = state.NewBool("up", false)

	Facing           = state.NewEnum("facing", "north", "down", "up", "north", "south", "west", "east")
	FacingHorizontal = state.NewEnum("facing", "north", "north", "south", "west", "east")
	FacingHopper     = state.NewEnum("facing", "down", "down", "north", "south", "west", "east")
	Axis             = state.NewEnum("axis", "y", "x", "y", "z")
	HorizontalAxis   = state.NewEnum("axis", "x", "x", "z")
	Half             = state.NewEnum("half", "bottom", "top", "bottom")
	DoubleHalf       = state.NewEnum("half", "lower", "upper", "lower")
	Hinge            = state.NewEnum("hinge", "left", "left", "right")
	SlabType         = state.NewEnum("type", "bottom", "top", "bottom", "double")
	BedPart          = state.NewEnum("part", "foot", "head", "foot")
	AttachFace       = state.NewEnum("face", "wall", "floor", "wall", "ceiling")
	PistonType       = state.NewEnum("type", "normal", "normal", "sticky")
	ComparatorMode   = state.NewEnum("mode", "compare", "compare", "subtract")
	StructureMode    = state.NewEnum("mode", "save", "save", "load", "corner", "data")
	RailShape        = state.NewEnum("shape", "north_south",
		"north_south", "east_west", "ascending_east", "ascending_west", "ascending_north",
		"ascending_south", "south_east", "south_west", "north_west", "north_east")
	StraightRailShape = state.NewEnum("shape", "north_south",
		"north_south", "east_west", "ascending_east", "ascending_west", "ascending_north", "ascending_south")

	Stage         = state.NewInt("stage", 0, 1, 0)
	Age3          = state.NewInt("age", 0, 3, 0)
	Age7          = state.NewInt("age", 0, 7, 0)
	Age15         = state.NewInt("age", 0, 15, 0)
	Age25         = state.NewInt("age", 0, 25, 0)
	Rotation      = state.NewInt("rotation", 0, 15, 0)
	Power         = state.NewInt("power", 0, 15, 0)
	Layers        = state.NewInt("layers", 1, 8, 1)
	Bites         = state.NewInt("bites", 0, 6, 0)
	Moisture      = state.NewInt("moisture", 0, 7, 0)
	LiquidLevel   = state.NewInt("level", 0, 15, 0)
	CauldronLevel = state.NewInt("level", 1, 3, 1)
	Delay         = state.NewInt("delay", 1, 4, 1)
	Note          = state.NewInt("note", 0, 24, 0)
	Pickles       = state.NewInt("pickles", 1, 4, 1)
	Eggs          = state.NewInt("eggs", 1, 4, 1)
	Hatch         = state.NewInt("hatch", 0, 2, 0)
)
