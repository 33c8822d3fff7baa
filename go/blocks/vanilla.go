package blocks

import (
	"fmt"

	"github.com/rmmh/chunkport/go/state"
)

type Color int

const (
	White Color = iota
	Orange
	Magenta
	LightBlue
	Yellow
	Lime
	Pink
	Gray
	LightGray
	Cyan
	Purple
	Blue
	Brown
	Green
	Red
	Black
)

var colorNames = [16]string{
	"white", "orange", "magenta", "light_blue", "yellow", "lime", "pink", "gray",
	"light_gray", "cyan", "purple", "blue", "brown", "green", "red", "black",
}

func (c Color) String() string { return colorNames[c] }

type Wood int

const (
	Oak Wood = iota
	Spruce
	Birch
	Jungle
	Acacia
	DarkOak
)

var woodNames = [6]string{"oak", "spruce", "birch", "jungle", "acacia", "dark_oak"}

func (w Wood) String() string { return woodNames[w] }

func colored(v Version, suffix string, keys ...*state.Key) (out [16]Type) {
	for c := range out {
		out[c] = defSince(v, colorNames[c]+"_"+suffix, keys...)
	}
	return out
}

// acacia and dark oak arrived later than the other four for most blocks
func woods(v, late Version, pattern string, keys ...*state.Key) (out [6]Type) {
	for w := range out {
		since := v
		if Wood(w) >= Acacia {
			since = late
		}
		out[w] = defSince(since, fmt.Sprintf(pattern, woodNames[w]), keys...)
	}
	return out
}

var (
	stairKeys    = []*state.Key{FacingHorizontal, Half, Waterlogged}
	slabKeys     = []*state.Key{SlabType, Waterlogged}
	doorKeys     = []*state.Key{FacingHorizontal, DoubleHalf, Hinge, Open, Powered}
	fenceKeys    = []*state.Key{North, East, South, West, Waterlogged}
	gateKeys     = []*state.Key{FacingHorizontal, Open, Powered}
	trapdoorKeys = []*state.Key{FacingHorizontal, Half, Open, Powered, Waterlogged}
	buttonKeys   = []*state.Key{AttachFace, FacingHorizontal, Powered}
	railKeys     = []*state.Key{StraightRailShape, Powered}
)

var (
	Air                        = def("air")
	Stone                      = def("stone")
	Granite                    = def("granite")
	PolishedGranite            = def("polished_granite")
	Diorite                    = def("diorite")
	PolishedDiorite            = def("polished_diorite")
	Andesite                   = def("andesite")
	PolishedAndesite           = def("polished_andesite")
	GrassBlock                 = def("grass_block", Snowy)
	Dirt                       = def("dirt")
	CoarseDirt                 = def("coarse_dirt")
	Podzol                     = def("podzol", Snowy)
	Cobblestone                = def("cobblestone")
	Planks                     = woods(V1_0, V1_0, "%s_planks")
	Sapling                    = woods(V1_0, V1_0, "%s_sapling", Stage)
	Bedrock                    = def("bedrock")
	Water                      = def("water", LiquidLevel)
	Lava                       = def("lava", LiquidLevel)
	Sand                       = def("sand")
	RedSand                    = def("red_sand")
	Gravel                     = def("gravel")
	GoldOre                    = def("gold_ore")
	IronOre                    = def("iron_ore")
	CoalOre                    = def("coal_ore")
	Log                        = woods(V1_0, V1_0, "%s_log", Axis)
	WoodBlock                  = woods(V1_0, V1_0, "%s_wood", Axis)
	Leaves                     = woods(V1_0, V1_0, "%s_leaves", Persistent, Update)
	Sponge                     = def("sponge")
	WetSponge                  = def("wet_sponge")
	Glass                      = def("glass")
	LapisOre                   = def("lapis_ore")
	LapisBlock                 = def("lapis_block")
	Dispenser                  = def("dispenser", Facing, Triggered)
	Sandstone                  = def("sandstone")
	ChiseledSandstone          = def("chiseled_sandstone")
	CutSandstone               = def("cut_sandstone")
	NoteBlock                  = def("note_block", Note, Powered)
	Bed                        = colored(V1_0, "bed", FacingHorizontal, Occupied, BedPart)
	PoweredRail                = def("powered_rail", railKeys...)
	DetectorRail               = def("detector_rail", railKeys...)
	StickyPiston               = def("sticky_piston", Facing, Extended)
	Cobweb                     = def("cobweb")
	ShortGrass                 = def("short_grass")
	Fern                       = def("fern")
	DeadBush                   = def("dead_bush")
	Piston                     = def("piston", Facing, Extended)
	PistonHead                 = def("piston_head", Facing, PistonType, Short)
	Wool                       = colored(V1_0, "wool")
	MovingPiston               = def("moving_piston", Facing, PistonType)
	Dandelion                  = def("dandelion")
	Poppy                      = def("poppy")
	BlueOrchid                 = def("blue_orchid")
	Allium                     = def("allium")
	AzureBluet                 = def("azure_bluet")
	RedTulip                   = def("red_tulip")
	OrangeTulip                = def("orange_tulip")
	WhiteTulip                 = def("white_tulip")
	PinkTulip                  = def("pink_tulip")
	OxeyeDaisy                 = def("oxeye_daisy")
	BrownMushroom              = def("brown_mushroom")
	RedMushroom                = def("red_mushroom")
	GoldBlock                  = def("gold_block")
	IronBlock                  = def("iron_block")
	SmoothStone                = def("smooth_stone")
	SmoothSandstone            = def("smooth_sandstone")
	SmoothQuartz               = def("smooth_quartz")
	SmoothStoneSlab            = def("smooth_stone_slab", slabKeys...)
	SandstoneSlab              = def("sandstone_slab", slabKeys...)
	PetrifiedOakSlab           = def("petrified_oak_slab", slabKeys...)
	CobblestoneSlab            = def("cobblestone_slab", slabKeys...)
	BrickSlab                  = def("brick_slab", slabKeys...)
	StoneBrickSlab             = def("stone_brick_slab", slabKeys...)
	NetherBrickSlab            = def("nether_brick_slab", slabKeys...)
	QuartzSlab                 = def("quartz_slab", slabKeys...)
	WoodenSlab                 = woods(V1_0, V1_0, "%s_slab", slabKeys...)
	Bricks                     = def("bricks")
	TNT                        = def("tnt", Unstable)
	Bookshelf                  = def("bookshelf")
	MossyCobblestone           = def("mossy_cobblestone")
	Obsidian                   = def("obsidian")
	Torch                      = def("torch")
	WallTorch                  = def("wall_torch", FacingHorizontal)
	Fire                       = def("fire", Age15)
	Spawner                    = def("spawner")
	WoodenStairs               = woods(V1_0, V1_0, "%s_stairs", stairKeys...)
	Chest                      = def("chest", FacingHorizontal, Waterlogged)
	RedstoneWire               = def("redstone_wire", Power)
	DiamondOre                 = def("diamond_ore")
	DiamondBlock               = def("diamond_block")
	CraftingTable              = def("crafting_table")
	Wheat                      = def("wheat", Age7)
	Farmland                   = def("farmland", Moisture)
	Furnace                    = def("furnace", FacingHorizontal, Lit)
	OakSign                    = def("oak_sign", Rotation, Waterlogged)
	WoodenDoor                 = woods(V1_0, V1_8, "%s_door", doorKeys...)
	Ladder                     = def("ladder", FacingHorizontal, Waterlogged)
	Rail                       = def("rail", RailShape)
	CobblestoneStairs          = def("cobblestone_stairs", stairKeys...)
	OakWallSign                = def("oak_wall_sign", FacingHorizontal, Waterlogged)
	Lever                      = def("lever", AttachFace, FacingHorizontal, Powered)
	StonePressurePlate         = def("stone_pressure_plate", Powered)
	IronDoor                   = def("iron_door", doorKeys...)
	OakPressurePlate           = def("oak_pressure_plate", Powered)
	RedstoneOre                = def("redstone_ore", Lit)
	RedstoneTorch              = def("redstone_torch", Lit)
	RedstoneWallTorch          = def("redstone_wall_torch", FacingHorizontal, Lit)
	StoneButton                = def("stone_button", buttonKeys...)
	Snow                       = def("snow", Layers)
	Ice                        = def("ice")
	SnowBlock                  = def("snow_block")
	Cactus                     = def("cactus", Age15)
	Clay                       = def("clay")
	SugarCane                  = def("sugar_cane", Age15)
	Jukebox                    = def("jukebox", HasRecord)
	Fence                      = woods(V1_0, V1_8, "%s_fence", fenceKeys...)
	CarvedPumpkin              = def("carved_pumpkin", FacingHorizontal)
	Netherrack                 = def("netherrack")
	SoulSand                   = def("soul_sand")
	Glowstone                  = def("glowstone")
	NetherPortal               = def("nether_portal", HorizontalAxis)
	JackOLantern               = def("jack_o_lantern", FacingHorizontal)
	Cake                       = def("cake", Bites)
	Repeater                   = def("repeater", FacingHorizontal, Delay, Locked, Powered)
	StainedGlass               = colored(V1_0, "stained_glass")
	OakTrapdoor                = def("oak_trapdoor", trapdoorKeys...)
	StoneBricks                = def("stone_bricks")
	MossyStoneBricks           = def("mossy_stone_bricks")
	CrackedStoneBricks         = def("cracked_stone_bricks")
	ChiseledStoneBricks        = def("chiseled_stone_bricks")
	IronBars                   = def("iron_bars", fenceKeys...)
	GlassPane                  = def("glass_pane", fenceKeys...)
	Melon                      = def("melon")
	PumpkinStem                = def("pumpkin_stem", Age7)
	MelonStem                  = def("melon_stem", Age7)
	Vine                       = def("vine", North, East, South, West, Up)
	FenceGate                  = woods(V1_0, V1_8, "%s_fence_gate", gateKeys...)
	BrickStairs                = def("brick_stairs", stairKeys...)
	StoneBrickStairs           = def("stone_brick_stairs", stairKeys...)
	Mycelium                   = def("mycelium", Snowy)
	LilyPad                    = def("lily_pad")
	NetherBricks               = def("nether_bricks")
	NetherBrickFence           = def("nether_brick_fence", fenceKeys...)
	NetherBrickStairs          = def("nether_brick_stairs", stairKeys...)
	NetherWart                 = def("nether_wart", Age3)
	EnchantingTable            = def("enchanting_table")
	Cauldron                   = def("cauldron")
	WaterCauldron              = def("water_cauldron", CauldronLevel)
	EndPortalFrame             = def("end_portal_frame", FacingHorizontal, Eye)
	EndStone                   = def("end_stone")
	DragonEgg                  = def("dragon_egg")
	RedstoneLamp               = def("redstone_lamp", Lit)
	Cocoa                      = def("cocoa", FacingHorizontal, Age3)
	SandstoneStairs            = def("sandstone_stairs", stairKeys...)
	EmeraldOre                 = def("emerald_ore")
	EnderChest                 = def("ender_chest", FacingHorizontal, Waterlogged)
	TripwireHook               = def("tripwire_hook", FacingHorizontal, Attached, Powered)
	Tripwire                   = def("tripwire", Powered, Attached, Disarmed)
	EmeraldBlock               = def("emerald_block")
	CommandBlock               = def("command_block", Facing, Conditional)
	Beacon                     = def("beacon")
	CobblestoneWall            = def("cobblestone_wall")
	MossyCobblestoneWall       = def("mossy_cobblestone_wall")
	Carrots                    = def("carrots", Age7)
	Potatoes                   = def("potatoes", Age7)
	OakButton                  = def("oak_button", buttonKeys...)
	Anvil                      = def("anvil", FacingHorizontal)
	ChippedAnvil               = def("chipped_anvil", FacingHorizontal)
	DamagedAnvil               = def("damaged_anvil", FacingHorizontal)
	TrappedChest               = def("trapped_chest", FacingHorizontal, Waterlogged)
	LightWeightedPressurePlate = def("light_weighted_pressure_plate", Power)
	HeavyWeightedPressurePlate = def("heavy_weighted_pressure_plate", Power)
	Comparator                 = def("comparator", FacingHorizontal, ComparatorMode, Powered)
	DaylightDetector           = def("daylight_detector", Power, Inverted)
	RedstoneBlock              = def("redstone_block")
	NetherQuartzOre            = def("nether_quartz_ore")
	Hopper                     = def("hopper", FacingHopper, Enabled)
	QuartzBlock                = def("quartz_block")
	ChiseledQuartzBlock        = def("chiseled_quartz_block")
	QuartzPillar               = def("quartz_pillar", Axis)
	QuartzStairs               = def("quartz_stairs", stairKeys...)
	ActivatorRail              = def("activator_rail", railKeys...)
	Dropper                    = def("dropper", Facing, Triggered)
	Terracotta                 = def("terracotta")
	StainedTerracotta          = colored(V1_0, "terracotta")
	StainedGlassPane           = colored(V1_0, "stained_glass_pane", fenceKeys...)
	HayBlock                   = def("hay_block", Axis)
	Carpet                     = colored(V1_0, "carpet")
	CoalBlock                  = def("coal_block")
	PackedIce                  = def("packed_ice")
	Sunflower                  = def("sunflower", DoubleHalf)
	Lilac                      = def("lilac", DoubleHalf)
	TallGrass                  = def("tall_grass", DoubleHalf)
	LargeFern                  = def("large_fern", DoubleHalf)
	RoseBush                   = def("rose_bush", DoubleHalf)
	Peony                      = def("peony", DoubleHalf)

	// 1.8
	Slime                  = defSince(V1_8, "slime_block")
	Barrier                = defSince(V1_8, "barrier")
	IronTrapdoor           = defSince(V1_8, "iron_trapdoor", trapdoorKeys...)
	Prismarine             = defSince(V1_8, "prismarine")
	PrismarineBricks       = defSince(V1_8, "prismarine_bricks")
	DarkPrismarine         = defSince(V1_8, "dark_prismarine")
	SeaLantern             = defSince(V1_8, "sea_lantern")
	Banner                 = colored(V1_8, "banner", Rotation)
	WallBanner             = colored(V1_8, "wall_banner", FacingHorizontal)
	RedSandstone           = defSince(V1_8, "red_sandstone")
	ChiseledRedSandstone   = defSince(V1_8, "chiseled_red_sandstone")
	CutRedSandstone        = defSince(V1_8, "cut_red_sandstone")
	RedSandstoneStairs     = defSince(V1_8, "red_sandstone_stairs", stairKeys...)
	RedSandstoneSlab       = defSince(V1_8, "red_sandstone_slab", slabKeys...)
	SmoothRedSandstone     = defSince(V1_8, "smooth_red_sandstone")

	// 1.9
	EndRod                = defSince(V1_9, "end_rod", Facing)
	ChorusPlant           = defSince(V1_9, "chorus_plant", North, East, South, West, Up)
	PurpurBlock           = defSince(V1_9, "purpur_block")
	PurpurPillar          = defSince(V1_9, "purpur_pillar", Axis)
	PurpurStairs          = defSince(V1_9, "purpur_stairs", stairKeys...)
	PurpurSlab            = defSince(V1_9, "purpur_slab", slabKeys...)
	EndStoneBricks        = defSince(V1_9, "end_stone_bricks")
	Beetroots             = defSince(V1_9, "beetroots", Age3)
	DirtPath              = defSince(V1_9, "dirt_path")
	RepeatingCommandBlock = defSince(V1_9, "repeating_command_block", Facing, Conditional)
	ChainCommandBlock     = defSince(V1_9, "chain_command_block", Facing, Conditional)
	FrostedIce            = defSince(V1_9, "frosted_ice", Age3)
	StructureBlock        = defSince(V1_9, "structure_block", StructureMode)

	// 1.10
	MagmaBlock      = defSince(V1_10, "magma_block")
	NetherWartBlock = defSince(V1_10, "nether_wart_block")
	RedNetherBricks = defSince(V1_10, "red_nether_bricks")
	BoneBlock       = defSince(V1_10, "bone_block", Axis)
	StructureVoid   = defSince(V1_10, "structure_void")

	// 1.11
	Observer   = defSince(V1_11, "observer", Facing, Powered)
	ShulkerBox = colored(V1_11, "shulker_box", Facing)

	// 1.12
	GlazedTerracotta = colored(V1_12, "glazed_terracotta", FacingHorizontal)
	Concrete         = colored(V1_12, "concrete")
	ConcretePowder   = colored(V1_12, "concrete_powder")

	// 1.13
	VoidAir               = defSince(V1_13, "void_air")
	CaveAir               = defSince(V1_13, "cave_air")
	Seagrass              = defSince(V1_13, "seagrass")
	TallSeagrass          = defSince(V1_13, "tall_seagrass", DoubleHalf)
	Kelp                  = defSince(V1_13, "kelp", Age25)
	KelpPlant             = defSince(V1_13, "kelp_plant")
	SeaPickle             = defSince(V1_13, "sea_pickle", Pickles, Waterlogged)
	TurtleEgg             = defSince(V1_13, "turtle_egg", Eggs, Hatch)
	Conduit               = defSince(V1_13, "conduit", Waterlogged)
	BlueIce               = defSince(V1_13, "blue_ice")
	DriedKelpBlock        = defSince(V1_13, "dried_kelp_block")
	TubeCoralBlock        = defSince(V1_13, "tube_coral_block")
	BrainCoralBlock       = defSince(V1_13, "brain_coral_block")
	BubbleCoralBlock      = defSince(V1_13, "bubble_coral_block")
	FireCoralBlock        = defSince(V1_13, "fire_coral_block")
	HornCoralBlock        = defSince(V1_13, "horn_coral_block")
	PrismarineStairs      = defSince(V1_13, "prismarine_stairs", stairKeys...)
	PrismarineBrickStairs = defSince(V1_13, "prismarine_brick_stairs", stairKeys...)
	PrismarineSlab        = defSince(V1_13, "prismarine_slab", slabKeys...)
	PrismarineBrickSlab   = defSince(V1_13, "prismarine_brick_slab", slabKeys...)
	StrippedLog           = woods(V1_13, V1_13, "stripped_%s_log", Axis)

	// 1.16
	CrimsonNylium  = defSince(V1_16, "crimson_nylium")
	WarpedNylium   = defSince(V1_16, "warped_nylium")
	CrimsonStem    = defSince(V1_16, "crimson_stem", Axis)
	WarpedStem     = defSince(V1_16, "warped_stem", Axis)
	Basalt         = defSince(V1_16, "basalt", Axis)
	Blackstone     = defSince(V1_16, "blackstone")
	SoulSoil       = defSince(V1_16, "soul_soil")
	SoulTorch      = defSince(V1_16, "soul_torch")
	SoulLantern    = defSince(V1_16, "soul_lantern")
	AncientDebris  = defSince(V1_16, "ancient_debris")
	NetheriteBlock = defSince(V1_16, "netherite_block")
	CryingObsidian = defSince(V1_16, "crying_obsidian")
	NetherGoldOre  = defSince(V1_16, "nether_gold_ore")
	Target         = defSince(V1_16, "target", Power)
)
