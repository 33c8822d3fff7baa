package resolver

import (
	. "github.com/rmmh/chunkport/go/blocks"
	"github.com/rmmh/chunkport/go/mapping"
	"github.com/rmmh/chunkport/go/state"
)

func g(n GroupName) mapping.Option { return mapping.WithGroup(n.Group()) }

func fix(k *state.Key, v state.Value) mapping.Option { return mapping.WithState(k, v) }

func lit(on bool) mapping.Option { return fix(Lit, state.Bool(on)) }

func out(t Type) mapping.Outcome { return mapping.Outcome{Type: t} }

func outs(types ...Type) map[int]mapping.Outcome {
	m := make(map[int]mapping.Outcome, len(types))
	for i, t := range types {
		m[i] = out(t)
	}
	return m
}

func colors(types [16]Type) map[int]mapping.Outcome {
	return outs(types[:]...)
}

func double(types ...Type) map[int]mapping.Outcome {
	m := make(map[int]mapping.Outcome, len(types))
	for i, t := range types {
		m[i] = mapping.Outcome{Type: t, Fixed: state.Set{SlabType: state.Enum("double")}}
	}
	return m
}

// logs packs species in the low two bits and the axis above them; 12-15
// are the six-sided bark blocks.
func logs(species ...Wood) map[int]mapping.Outcome {
	m := map[int]mapping.Outcome{}
	for i, w := range species {
		for a, axis := range []string{"y", "x", "z"} {
			m[a<<2|i] = mapping.Outcome{Type: Log[w], Fixed: state.Set{Axis: state.Enum(axis)}}
		}
		m[12|i] = out(WoodBlock[w])
	}
	return m
}

// pre-1.13 names light gray "silver"
var legacyColorNames = [16]string{
	"white", "orange", "magenta", "light_blue", "yellow", "lime", "pink", "gray",
	"silver", "cyan", "purple", "blue", "brown", "green", "red", "black",
}

func byColor(suffix string, types [16]Type) map[string]Type {
	m := make(map[string]Type, 16)
	for c, t := range types {
		m[legacyColorNames[c]+"_"+suffix] = t
	}
	return m
}

// allBut registers every color except the canonical one, for blocks whose
// color lives outside the data value.
func allBut(id string, canonical Color, types [16]Type, opts ...mapping.Option) []mapping.BlockMapping {
	var ms []mapping.BlockMapping
	for c, t := range types {
		if Color(c) != canonical {
			ms = append(ms, mapping.Of(id, t, opts...))
		}
	}
	return ms
}

// registerLegacy declares the vanilla pre-flattening table.
func registerLegacy(t *mapping.Table) {
	t.Register(mapping.Of("air", Air))
	t.Since(V1_13, func() {
		t.RegisterDuplicateInput(mapping.Of("air", VoidAir), mapping.Of("air", CaveAir))
	})

	t.Register(
		mapping.Flatten("stone", outs(Stone, Granite, PolishedGranite, Diorite, PolishedDiorite, Andesite, PolishedAndesite)),
		mapping.Of("grass", GrassBlock),
		mapping.Flatten("dirt", outs(Dirt, CoarseDirt, Podzol)),
		mapping.Of("cobblestone", Cobblestone),
		mapping.Flatten("planks", outs(Planks[:]...)),
		mapping.Flatten("sapling", outs(Sapling[:]...), g(GroupSapling)),
		mapping.Of("bedrock", Bedrock),
		mapping.Of("water", Water, g(GroupLiquid)),
		mapping.Of("lava", Lava, g(GroupLiquid)),
		mapping.Flatten("sand", outs(Sand, RedSand)),
		mapping.Of("gravel", Gravel),
		mapping.Of("gold_ore", GoldOre),
		mapping.Of("iron_ore", IronOre),
		mapping.Of("coal_ore", CoalOre),
		mapping.Flatten("log", logs(Oak, Spruce, Birch, Jungle)),
		mapping.Flatten("log2", logs(Acacia, DarkOak)),
		mapping.Flatten("leaves", outs(Leaves[Oak], Leaves[Spruce], Leaves[Birch], Leaves[Jungle]), g(GroupLeaves)),
		mapping.Flatten("leaves2", outs(Leaves[Acacia], Leaves[DarkOak]), g(GroupLeaves)),
		mapping.Flatten("sponge", outs(Sponge, WetSponge)),
		mapping.Of("glass", Glass),
		mapping.Of("lapis_ore", LapisOre),
		mapping.Of("lapis_block", LapisBlock),
		mapping.Of("dispenser", Dispenser, g(GroupDispenser)),
		mapping.Flatten("sandstone", outs(Sandstone, ChiseledSandstone, CutSandstone)),
		mapping.Of("noteblock", NoteBlock),
		mapping.Of("bed", Bed[Red], g(GroupBed)),
		mapping.Of("golden_rail", PoweredRail, g(GroupPoweredRail)),
		mapping.Of("detector_rail", DetectorRail, g(GroupPoweredRail)),
		mapping.Of("sticky_piston", StickyPiston, g(GroupPiston)),
		mapping.Of("web", Cobweb),
		mapping.Flatten("tallgrass", map[int]mapping.Outcome{1: out(ShortGrass), 2: out(Fern)}),
		mapping.Of("deadbush", DeadBush),
		mapping.Of("piston", Piston, g(GroupPiston)),
		mapping.Of("piston_head", PistonHead, g(GroupPistonHead)),
		mapping.Flatten("wool", colors(Wool)),
		mapping.Of("piston_extension", MovingPiston, g(GroupFacing)),
		mapping.Of("yellow_flower", Dandelion),
		mapping.Flatten("red_flower", outs(Poppy, BlueOrchid, Allium, AzureBluet, RedTulip, OrangeTulip, WhiteTulip, PinkTulip, OxeyeDaisy)),
		mapping.Of("brown_mushroom", BrownMushroom),
		mapping.Of("red_mushroom", RedMushroom),
		mapping.Of("gold_block", GoldBlock),
		mapping.Of("iron_block", IronBlock),
		mapping.Flatten("stone_slab", outs(SmoothStoneSlab, SandstoneSlab, PetrifiedOakSlab, CobblestoneSlab,
			BrickSlab, StoneBrickSlab, NetherBrickSlab, QuartzSlab), g(GroupSlabHalf)),
		mapping.Flatten("double_stone_slab", double(SmoothStoneSlab, SandstoneSlab, PetrifiedOakSlab, CobblestoneSlab,
			BrickSlab, StoneBrickSlab, NetherBrickSlab, QuartzSlab)),
		mapping.OfData("double_stone_slab", 8, SmoothStone),
		mapping.OfData("double_stone_slab", 9, SmoothSandstone),
		mapping.OfData("double_stone_slab", 15, SmoothQuartz),
		mapping.Of("brick_block", Bricks),
		mapping.Of("tnt", TNT, g(GroupTNT)),
		mapping.Of("bookshelf", Bookshelf),
		mapping.Of("mossy_cobblestone", MossyCobblestone),
		mapping.Of("obsidian", Obsidian),
		mapping.OfData("torch", 5, Torch),
		mapping.Of("torch", WallTorch, g(GroupTorch)),
		mapping.Of("fire", Fire, g(GroupAge15)),
		mapping.Of("mob_spawner", Spawner),
		mapping.Of("chest", Chest, g(GroupFacingWall)),
		mapping.Of("redstone_wire", RedstoneWire, g(GroupPower)),
		mapping.Of("diamond_ore", DiamondOre),
		mapping.Of("diamond_block", DiamondBlock),
		mapping.Of("crafting_table", CraftingTable),
		mapping.Of("wheat", Wheat, g(GroupAge7)),
		mapping.Of("farmland", Farmland, g(GroupFarmland)),
		mapping.Of("furnace", Furnace, g(GroupFacingWall), lit(false)),
		mapping.Of("lit_furnace", Furnace, g(GroupFacingWall), lit(true)),
		mapping.Of("standing_sign", OakSign, g(GroupRotation)),
		mapping.Of("ladder", Ladder, g(GroupFacingWall)),
		mapping.Of("rail", Rail, g(GroupRail)),
		mapping.Of("wall_sign", OakWallSign, g(GroupFacingWall)),
		mapping.Of("lever", Lever, g(GroupLever)),
		mapping.Of("stone_pressure_plate", StonePressurePlate, g(GroupPressurePlate)),
		mapping.Of("wooden_pressure_plate", OakPressurePlate, g(GroupPressurePlate)),
		mapping.Of("redstone_ore", RedstoneOre, lit(false)),
		mapping.Of("lit_redstone_ore", RedstoneOre, lit(true)),
		mapping.OfData("redstone_torch", 5, RedstoneTorch, lit(true)),
		mapping.Of("redstone_torch", RedstoneWallTorch, g(GroupTorch), lit(true)),
		mapping.OfData("unlit_redstone_torch", 5, RedstoneTorch, lit(false)),
		mapping.Of("unlit_redstone_torch", RedstoneWallTorch, g(GroupTorch), lit(false)),
		mapping.Of("stone_button", StoneButton, g(GroupButton)),
		mapping.Of("wooden_button", OakButton, g(GroupButton)),
		mapping.Of("snow_layer", Snow, g(GroupSnow)),
		mapping.Of("ice", Ice),
		mapping.Of("snow", SnowBlock),
		mapping.Of("cactus", Cactus, g(GroupAge15)),
		mapping.Of("clay", Clay),
		mapping.Of("reeds", SugarCane, g(GroupAge15)),
		mapping.Of("jukebox", Jukebox, g(GroupJukebox)),
		mapping.Of("pumpkin", CarvedPumpkin, g(GroupFacingHorizontal)),
		mapping.Of("netherrack", Netherrack),
		mapping.Of("soul_sand", SoulSand),
		mapping.Of("glowstone", Glowstone),
		mapping.Of("portal", NetherPortal, g(GroupPortal)),
		mapping.Of("lit_pumpkin", JackOLantern, g(GroupFacingHorizontal)),
		mapping.Of("cake", Cake, g(GroupCake)),
		mapping.Of("unpowered_repeater", Repeater, g(GroupRepeater), fix(Powered, state.Bool(false))),
		mapping.Of("powered_repeater", Repeater, g(GroupRepeater), fix(Powered, state.Bool(true))),
		mapping.Flatten("stained_glass", colors(StainedGlass)),
		mapping.Of("trapdoor", OakTrapdoor, g(GroupTrapdoor)),
		mapping.Flatten("stonebrick", outs(StoneBricks, MossyStoneBricks, CrackedStoneBricks, ChiseledStoneBricks)),
		mapping.Of("melon_block", Melon),
		mapping.Of("pumpkin_stem", PumpkinStem, g(GroupAge7)),
		mapping.Of("melon_stem", MelonStem, g(GroupAge7)),
		mapping.Of("vine", Vine, g(GroupVine)),
		mapping.Of("mycelium", Mycelium),
		mapping.Of("waterlily", LilyPad),
		mapping.Of("nether_brick", NetherBricks),
		mapping.Of("nether_wart", NetherWart, g(GroupAge3)),
		mapping.Of("enchanting_table", EnchantingTable),
		mapping.OfData("cauldron", 0, Cauldron),
		mapping.Of("cauldron", WaterCauldron, g(GroupCauldron)),
		mapping.Of("end_portal_frame", EndPortalFrame, g(GroupEndPortalFrame)),
		mapping.Of("end_stone", EndStone),
		mapping.Of("dragon_egg", DragonEgg),
		mapping.Of("redstone_lamp", RedstoneLamp, lit(false)),
		mapping.Of("lit_redstone_lamp", RedstoneLamp, lit(true)),
		mapping.Flatten("wooden_slab", outs(WoodenSlab[:]...), g(GroupSlabHalf)),
		mapping.Flatten("double_wooden_slab", double(WoodenSlab[:]...)),
		mapping.Of("cocoa", Cocoa, g(GroupCocoa)),
		mapping.Of("emerald_ore", EmeraldOre),
		mapping.Of("ender_chest", EnderChest, g(GroupFacingWall)),
		mapping.Of("tripwire_hook", TripwireHook, g(GroupTripwireHook)),
		mapping.Of("tripwire", Tripwire, g(GroupTripwire)),
		mapping.Of("emerald_block", EmeraldBlock),
		mapping.Of("command_block", CommandBlock, g(GroupCommandBlock)),
		mapping.Of("beacon", Beacon),
		mapping.Flatten("cobblestone_wall", outs(CobblestoneWall, MossyCobblestoneWall)),
		mapping.Of("carrots", Carrots, g(GroupAge7)),
		mapping.Of("potatoes", Potatoes, g(GroupAge7)),
		mapping.Flatten("anvil", map[int]mapping.Outcome{0: out(Anvil), 4: out(ChippedAnvil), 8: out(DamagedAnvil)},
			g(GroupFacingHorizontal)),
		mapping.Of("trapped_chest", TrappedChest, g(GroupFacingWall)),
		mapping.Of("light_weighted_pressure_plate", LightWeightedPressurePlate, g(GroupPower)),
		mapping.Of("heavy_weighted_pressure_plate", HeavyWeightedPressurePlate, g(GroupPower)),
		mapping.Of("unpowered_comparator", Comparator, g(GroupComparator)),
		mapping.Of("daylight_detector", DaylightDetector, g(GroupPower), fix(Inverted, state.Bool(false))),
		mapping.Of("redstone_block", RedstoneBlock),
		mapping.Of("quartz_ore", NetherQuartzOre),
		mapping.Of("hopper", Hopper, g(GroupHopper)),
		mapping.Flatten("quartz_block", map[int]mapping.Outcome{
			0: out(QuartzBlock),
			1: out(ChiseledQuartzBlock),
			2: {Type: QuartzPillar, Fixed: state.Set{Axis: state.Enum("y")}},
			3: {Type: QuartzPillar, Fixed: state.Set{Axis: state.Enum("x")}},
			4: {Type: QuartzPillar, Fixed: state.Set{Axis: state.Enum("z")}},
		}),
		mapping.Of("activator_rail", ActivatorRail, g(GroupPoweredRail)),
		mapping.Of("dropper", Dropper, g(GroupDispenser)),
		mapping.Flatten("stained_hardened_clay", colors(StainedTerracotta)),
		mapping.Flatten("stained_glass_pane", colors(StainedGlassPane), g(GroupConnectable)),
		mapping.Of("hay_block", HayBlock, g(GroupAxis)),
		mapping.Flatten("carpet", colors(Carpet)),
		mapping.Of("hardened_clay", Terracotta),
		mapping.Of("coal_block", CoalBlock),
		mapping.Of("packed_ice", PackedIce),
		mapping.Flatten("double_plant", outs(Sunflower, Lilac, TallGrass, LargeFern, RoseBush, Peony), g(GroupDoublePlant)),
	)

	t.Register(
		mapping.Group(map[string]Type{
			"oak_stairs":          WoodenStairs[Oak],
			"spruce_stairs":       WoodenStairs[Spruce],
			"birch_stairs":        WoodenStairs[Birch],
			"jungle_stairs":       WoodenStairs[Jungle],
			"acacia_stairs":       WoodenStairs[Acacia],
			"dark_oak_stairs":     WoodenStairs[DarkOak],
			"stone_stairs":        CobblestoneStairs,
			"brick_stairs":        BrickStairs,
			"stone_brick_stairs":  StoneBrickStairs,
			"nether_brick_stairs": NetherBrickStairs,
			"sandstone_stairs":    SandstoneStairs,
			"quartz_stairs":       QuartzStairs,
		}, GroupStairs.Group()),
		mapping.Group(map[string]Type{
			"wooden_door": WoodenDoor[Oak],
			"iron_door":   IronDoor,
		}, GroupDoor.Group()),
		mapping.Group(map[string]Type{
			"fence":              Fence[Oak],
			"nether_brick_fence": NetherBrickFence,
			"iron_bars":          IronBars,
			"glass_pane":         GlassPane,
		}, GroupConnectable.Group()),
		mapping.Of("fence_gate", FenceGate[Oak], g(GroupFenceGate)),
	)

	// lossy collapses: several legacy slots write back as one
	t.RegisterDuplicateOutput(
		mapping.Of("stone", Stone),
		mapping.Of("dirt", Dirt),
		mapping.Of("sandstone", Sandstone),
		mapping.Of("red_flower", Poppy),
		mapping.OfData("tallgrass", 0, DeadBush),
		mapping.Of("flowing_water", Water, g(GroupLiquid)),
		mapping.Of("flowing_lava", Lava, g(GroupLiquid)),
		mapping.Of("powered_comparator", Comparator, g(GroupComparator), fix(Powered, state.Bool(true))),
	)
	// beds keep their color in a block entity
	t.RegisterDuplicateInput(allBut("bed", Red, Bed, g(GroupBed))...)

	t.Since(V1_8, func() {
		t.Register(
			mapping.Of("slime", Slime),
			mapping.Of("barrier", Barrier),
			mapping.Of("iron_trapdoor", IronTrapdoor, g(GroupTrapdoor)),
			mapping.Flatten("prismarine", outs(Prismarine, PrismarineBricks, DarkPrismarine)),
			mapping.Of("sea_lantern", SeaLantern),
			mapping.Of("standing_banner", Banner[White], g(GroupRotation)),
			mapping.Of("wall_banner", WallBanner[White], g(GroupFacingWall)),
			mapping.Of("daylight_detector_inverted", DaylightDetector, g(GroupPower), fix(Inverted, state.Bool(true))),
			mapping.Flatten("red_sandstone", outs(RedSandstone, ChiseledRedSandstone, CutRedSandstone)),
			mapping.Flatten("stone_slab2", outs(RedSandstoneSlab), g(GroupSlabHalf)),
			mapping.Flatten("double_stone_slab2", double(RedSandstoneSlab)),
			mapping.OfData("double_stone_slab2", 8, SmoothRedSandstone),
			mapping.Group(map[string]Type{
				"red_sandstone_stairs": RedSandstoneStairs,
			}, GroupStairs.Group()),
			mapping.Group(map[string]Type{
				"spruce_door":   WoodenDoor[Spruce],
				"birch_door":    WoodenDoor[Birch],
				"jungle_door":   WoodenDoor[Jungle],
				"acacia_door":   WoodenDoor[Acacia],
				"dark_oak_door": WoodenDoor[DarkOak],
			}, GroupDoor.Group()),
			mapping.Group(map[string]Type{
				"spruce_fence":   Fence[Spruce],
				"birch_fence":    Fence[Birch],
				"jungle_fence":   Fence[Jungle],
				"acacia_fence":   Fence[Acacia],
				"dark_oak_fence": Fence[DarkOak],
			}, GroupConnectable.Group()),
			mapping.Group(map[string]Type{
				"spruce_fence_gate":   FenceGate[Spruce],
				"birch_fence_gate":    FenceGate[Birch],
				"jungle_fence_gate":   FenceGate[Jungle],
				"acacia_fence_gate":   FenceGate[Acacia],
				"dark_oak_fence_gate": FenceGate[DarkOak],
			}, GroupFenceGate.Group()),
		)
		t.RegisterDuplicateInput(allBut("standing_banner", White, Banner, g(GroupRotation))...)
		t.RegisterDuplicateInput(allBut("wall_banner", White, WallBanner, g(GroupFacingWall))...)
	})

	t.Since(V1_9, func() {
		t.Register(
			mapping.Of("end_rod", EndRod, g(GroupFacing)),
			mapping.Of("chorus_plant", ChorusPlant, g(GroupConnectable)),
			mapping.Of("purpur_block", PurpurBlock),
			mapping.Of("purpur_pillar", PurpurPillar, g(GroupAxis)),
			mapping.Of("purpur_stairs", PurpurStairs, g(GroupStairs)),
			mapping.Of("purpur_slab", PurpurSlab, g(GroupSlabHalf)),
			mapping.Of("purpur_double_slab", PurpurSlab, fix(SlabType, state.Enum("double"))),
			mapping.Of("end_bricks", EndStoneBricks),
			mapping.Of("beetroots", Beetroots, g(GroupAge3)),
			mapping.Of("grass_path", DirtPath),
			mapping.Of("repeating_command_block", RepeatingCommandBlock, g(GroupCommandBlock)),
			mapping.Of("chain_command_block", ChainCommandBlock, g(GroupCommandBlock)),
			mapping.Of("frosted_ice", FrostedIce, g(GroupAge3)),
			mapping.Of("structure_block", StructureBlock),
		)
	})

	t.Since(V1_10, func() {
		t.Register(
			mapping.Of("magma", MagmaBlock),
			mapping.Of("nether_wart_block", NetherWartBlock),
			mapping.Of("red_nether_brick", RedNetherBricks),
			mapping.Of("bone_block", BoneBlock, g(GroupAxis)),
			mapping.Of("structure_void", StructureVoid),
		)
	})

	t.Since(V1_11, func() {
		t.Register(
			mapping.Of("observer", Observer, g(GroupObserver)),
			mapping.Group(byColor("shulker_box", ShulkerBox), GroupFacing.Group()),
		)
	})

	t.Since(V1_12, func() {
		t.Register(
			mapping.Group(byColor("glazed_terracotta", GlazedTerracotta), GroupFacingHorizontal.Group()),
			mapping.Flatten("concrete", colors(Concrete)),
			mapping.Flatten("concrete_powder", colors(ConcretePowder)),
		)
	})
}
