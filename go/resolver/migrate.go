package resolver

import "github.com/rmmh/chunkport/go/blocks"

// Migration is one step of block renames, applied when a world crosses
// DataVersion. Each step applies once, so a step may rename a into b and
// b into c without chaining.
type Migration struct {
	DataVersion int
	Renames     map[string]string

	reverse map[string]string
}

// These remappings are sourced from minecraft/datafixer/Schemas.java
// Which appears to be the single best source of truth for data-level
// format differences.
var migrations = []*Migration{
	{DataVersion: 1474, Renames: map[string]string{
		"minecraft:purple_shulker_box": "minecraft:shulker_box",
	}},
	{DataVersion: 1475, Renames: map[string]string{
		"minecraft:flowing_water": "minecraft:water",
		"minecraft:flowing_lava":  "minecraft:lava",
	}},
	{DataVersion: 1480, Renames: map[string]string{
		"minecraft:blue_coral":         "minecraft:tube_coral_block",
		"minecraft:pink_coral":         "minecraft:brain_coral_block",
		"minecraft:purple_coral":       "minecraft:bubble_coral_block",
		"minecraft:red_coral":          "minecraft:fire_coral_block",
		"minecraft:yellow_coral":       "minecraft:horn_coral_block",
		"minecraft:blue_coral_plant":   "minecraft:tube_coral",
		"minecraft:pink_coral_plant":   "minecraft:brain_coral",
		"minecraft:purple_coral_plant": "minecraft:bubble_coral",
		"minecraft:red_coral_plant":    "minecraft:fire_coral",
		"minecraft:yellow_coral_plant": "minecraft:horn_coral",
		"minecraft:blue_coral_fan":     "minecraft:tube_coral_fan",
		"minecraft:pink_coral_fan":     "minecraft:brain_coral_fan",
		"minecraft:purple_coral_fan":   "minecraft:bubble_coral_fan",
		"minecraft:red_coral_fan":      "minecraft:fire_coral_fan",
		"minecraft:yellow_coral_fan":   "minecraft:horn_coral_fan",
		"minecraft:blue_dead_coral":    "minecraft:dead_tube_coral",
		"minecraft:pink_dead_coral":    "minecraft:dead_brain_coral",
		"minecraft:purple_dead_coral":  "minecraft:dead_bubble_coral",
		"minecraft:red_dead_coral":     "minecraft:dead_fire_coral",
		"minecraft:yellow_dead_coral":  "minecraft:dead_horn_coral",
	}},
	{DataVersion: 1484, Renames: map[string]string{
		"minecraft:sea_grass":      "minecraft:seagrass",
		"minecraft:tall_sea_grass": "minecraft:tall_seagrass",
	}},
	{DataVersion: 1487, Renames: map[string]string{
		"minecraft:prismarine_bricks_slab":   "minecraft:prismarine_brick_slab",
		"minecraft:prismarine_bricks_stairs": "minecraft:prismarine_brick_stairs",
	}},
	{DataVersion: 1488, Renames: map[string]string{
		"minecraft:kelp_top": "minecraft:kelp",
		"minecraft:kelp":     "minecraft:kelp_plant",
	}},
	{DataVersion: 1490, Renames: map[string]string{
		"minecraft:melon_block": "minecraft:melon",
	}},
	{DataVersion: 1510, Renames: map[string]string{
		"minecraft:portal":                 "minecraft:nether_portal",
		"minecraft:oak_bark":               "minecraft:oak_wood",
		"minecraft:spruce_bark":            "minecraft:spruce_wood",
		"minecraft:birch_bark":             "minecraft:birch_wood",
		"minecraft:jungle_bark":            "minecraft:jungle_wood",
		"minecraft:acacia_bark":            "minecraft:acacia_wood",
		"minecraft:dark_oak_bark":          "minecraft:dark_oak_wood",
		"minecraft:stripped_oak_bark":      "minecraft:stripped_oak_wood",
		"minecraft:stripped_spruce_bark":   "minecraft:stripped_spruce_wood",
		"minecraft:stripped_birch_bark":    "minecraft:stripped_birch_wood",
		"minecraft:stripped_jungle_bark":   "minecraft:stripped_jungle_wood",
		"minecraft:stripped_acacia_bark":   "minecraft:stripped_acacia_wood",
		"minecraft:stripped_dark_oak_bark": "minecraft:stripped_dark_oak_wood",
		"minecraft:mob_spawner":            "minecraft:spawner",
	}},
	{DataVersion: 1515, Renames: map[string]string{
		"minecraft:tube_coral_fan":   "minecraft:tube_coral_wall_fan",
		"minecraft:brain_coral_fan":  "minecraft:brain_coral_wall_fan",
		"minecraft:bubble_coral_fan": "minecraft:bubble_coral_wall_fan",
		"minecraft:fire_coral_fan":   "minecraft:fire_coral_wall_fan",
		"minecraft:horn_coral_fan":   "minecraft:horn_coral_wall_fan",
	}},
	{DataVersion: 1802, Renames: map[string]string{
		"minecraft:stone_slab": "minecraft:smooth_stone_slab",
		"minecraft:sign":       "minecraft:oak_sign",
		"minecraft:wall_sign":  "minecraft:oak_wall_sign",
	}},
	{DataVersion: 2209, Renames: map[string]string{
		"minecraft:bee_hive": "minecraft:beehive",
	}},
	{DataVersion: 2508, Renames: map[string]string{
		"minecraft:warped_fungi":  "minecraft:warped_fungus",
		"minecraft:crimson_fungi": "minecraft:crimson_fungus",
	}},
	{DataVersion: 2528, Renames: map[string]string{
		"minecraft:soul_fire_torch":      "minecraft:soul_torch",
		"minecraft:soul_fire_wall_torch": "minecraft:soul_wall_torch",
		"minecraft:soul_fire_lantern":    "minecraft:soul_lantern",
	}},
	// Technically this should be done based on the contents; Modern
	// special cases empty cauldrons.
	{DataVersion: 2679, Renames: map[string]string{
		"minecraft:cauldron": "minecraft:water_cauldron",
	}},
	{DataVersion: 2680, Renames: map[string]string{
		"minecraft:grass_path": "minecraft:dirt_path",
	}},
	{DataVersion: 2690, Renames: map[string]string{
		"minecraft:weathered_copper_block":                    "minecraft:oxidized_copper_block",
		"minecraft:semi_weathered_copper_block":               "minecraft:weathered_copper_block",
		"minecraft:lightly_weathered_copper_block":            "minecraft:exposed_copper_block",
		"minecraft:weathered_cut_copper":                      "minecraft:oxidized_cut_copper",
		"minecraft:semi_weathered_cut_copper":                 "minecraft:weathered_cut_copper",
		"minecraft:lightly_weathered_cut_copper":              "minecraft:exposed_cut_copper",
		"minecraft:weathered_cut_copper_stairs":               "minecraft:oxidized_cut_copper_stairs",
		"minecraft:semi_weathered_cut_copper_stairs":          "minecraft:weathered_cut_copper_stairs",
		"minecraft:lightly_weathered_cut_copper_stairs":       "minecraft:exposed_cut_copper_stairs",
		"minecraft:weathered_cut_copper_slab":                 "minecraft:oxidized_cut_copper_slab",
		"minecraft:semi_weathered_cut_copper_slab":            "minecraft:weathered_cut_copper_slab",
		"minecraft:lightly_weathered_cut_copper_slab":         "minecraft:exposed_cut_copper_slab",
		"minecraft:waxed_semi_weathered_copper":               "minecraft:waxed_weathered_copper",
		"minecraft:waxed_lightly_weathered_copper":            "minecraft:waxed_exposed_copper",
		"minecraft:waxed_semi_weathered_cut_copper":           "minecraft:waxed_weathered_cut_copper",
		"minecraft:waxed_lightly_weathered_cut_copper":        "minecraft:waxed_exposed_cut_copper",
		"minecraft:waxed_semi_weathered_cut_copper_stairs":    "minecraft:waxed_weathered_cut_copper_stairs",
		"minecraft:waxed_lightly_weathered_cut_copper_stairs": "minecraft:waxed_exposed_cut_copper_stairs",
		"minecraft:waxed_semi_weathered_cut_copper_slab":      "minecraft:waxed_weathered_cut_copper_slab",
		"minecraft:waxed_lightly_weathered_cut_copper_slab":   "minecraft:waxed_exposed_cut_copper_slab",
	}},
	{DataVersion: 2691, Renames: map[string]string{
		"minecraft:waxed_copper":           "minecraft:waxed_copper_block",
		"minecraft:oxidized_copper_block":  "minecraft:oxidized_copper",
		"minecraft:weathered_copper_block": "minecraft:weathered_copper",
		"minecraft:exposed_copper_block":   "minecraft:exposed_copper",
	}},
	{DataVersion: 2696, Renames: map[string]string{
		"minecraft:grimstone":                 "minecraft:deepslate",
		"minecraft:grimstone_slab":            "minecraft:cobbled_deepslate_slab",
		"minecraft:grimstone_stairs":          "minecraft:cobbled_deepslate_stairs",
		"minecraft:grimstone_wall":            "minecraft:cobbled_deepslate_wall",
		"minecraft:polished_grimstone":        "minecraft:polished_deepslate",
		"minecraft:polished_grimstone_slab":   "minecraft:polished_deepslate_slab",
		"minecraft:polished_grimstone_stairs": "minecraft:polished_deepslate_stairs",
		"minecraft:polished_grimstone_wall":   "minecraft:polished_deepslate_wall",
		"minecraft:grimstone_tiles":           "minecraft:deepslate_tiles",
		"minecraft:grimstone_tile_slab":       "minecraft:deepslate_tile_slab",
		"minecraft:grimstone_tile_stairs":     "minecraft:deepslate_tile_stairs",
		"minecraft:grimstone_tile_wall":       "minecraft:deepslate_tile_wall",
		"minecraft:grimstone_bricks":          "minecraft:deepslate_bricks",
		"minecraft:grimstone_brick_slab":      "minecraft:deepslate_brick_slab",
		"minecraft:grimstone_brick_stairs":    "minecraft:deepslate_brick_stairs",
		"minecraft:grimstone_brick_wall":      "minecraft:deepslate_brick_wall",
		"minecraft:chiseled_grimstone":        "minecraft:chiseled_deepslate",
	}},
	{DataVersion: 2700, Renames: map[string]string{
		"minecraft:cave_vines_head": "minecraft:cave_vines",
		"minecraft:cave_vines_body": "minecraft:cave_vines_plant",
	}},
	{DataVersion: 2717, Renames: map[string]string{
		"minecraft:azalea_leaves_flowers": "minecraft:flowering_azalea_leaves",
	}},
	{DataVersion: 3692, Renames: map[string]string{
		"minecraft:grass": "minecraft:short_grass",
	}},
	{DataVersion: 4541, Renames: map[string]string{
		"minecraft:chain": "minecraft:iron_chain",
	}},
}

func init() {
	for _, m := range migrations {
		m.reverse = make(map[string]string, len(m.Renames))
		for from, to := range m.Renames {
			m.reverse[to] = from
		}
	}
}

// Migrate renames a namespaced block name from data version vfrom to vto,
// in either direction.
func Migrate(name string, vfrom, vto int) string {
	if vfrom < vto {
		for _, m := range migrations {
			if vfrom < m.DataVersion && vto >= m.DataVersion {
				if renamed, ok := m.Renames[name]; ok {
					name = renamed
				}
			}
		}
		return name
	}
	for i := len(migrations) - 1; i >= 0; i-- {
		m := migrations[i]
		if vto < m.DataVersion && vfrom >= m.DataVersion {
			if renamed, ok := m.reverse[name]; ok {
				name = renamed
			}
		}
	}
	return name
}

var dataVersions = []struct {
	version blocks.Version
	data    int
}{
	{blocks.V1_9, 169},
	{blocks.V1_10, 510},
	{blocks.V1_11, 819},
	{blocks.V1_12, 1139},
	{blocks.V1_13, 1519},
	{blocks.Version{Major: 1, Minor: 14}, 1952},
	{blocks.Version{Major: 1, Minor: 15}, 2225},
	{blocks.V1_16, 2566},
	{blocks.Version{Major: 1, Minor: 17}, 2724},
	{blocks.Version{Major: 1, Minor: 18}, 2860},
	{blocks.Version{Major: 1, Minor: 19}, 3105},
	{blocks.Version{Major: 1, Minor: 20}, 3463},
	{blocks.Version{Major: 1, Minor: 20, Patch: 3}, 3698},
	{blocks.Version{Major: 1, Minor: 21}, 3953},
	{blocks.Version{Major: 1, Minor: 21, Patch: 9}, 4554},
}

// LatestDataVersion is the naming the vanilla block types use.
var LatestDataVersion = dataVersions[len(dataVersions)-1].data

// DataVersion is the data version a release writes; 0 before they existed.
func DataVersion(v blocks.Version) int {
	dv := 0
	for _, e := range dataVersions {
		if v.Less(e.version) {
			break
		}
		dv = e.data
	}
	return dv
}
