package engine

import "math"

// biomeGroup buckets biomes into broad climate families, used to derive the
// default terrain-similarity table. The table's existence is required by
// spec.md; its exact values are an explicit open question (§9 item 2) left
// to room config — this is only the built-in default.
type biomeGroup int

const (
	groupWater biomeGroup = iota
	groupTropical
	groupTemperate
	groupDry
	groupCold
	groupRock
)

func groupOf(b Biome) biomeGroup {
	switch b {
	case Ocean, Coastal, River:
		return groupWater
	case TropicalForest, Rainforest:
		return groupTropical
	case Grassland, Woodland, Forest:
		return groupTemperate
	case Desert, Savanna:
		return groupDry
	case Tundra, Taiga:
		return groupCold
	case Mountain:
		return groupRock
	default:
		return groupTemperate
	}
}

// adjacentGroups lists the climate-family pairs that count as "near" rather
// than "far" in the default similarity table.
var adjacentGroups = map[[2]biomeGroup]bool{
	{groupWater, groupTemperate}: true, {groupTemperate, groupWater}: true,
	{groupWater, groupTropical}: true, {groupTropical, groupWater}: true,
	{groupTemperate, groupDry}: true, {groupDry, groupTemperate}: true,
	{groupTemperate, groupCold}: true, {groupCold, groupTemperate}: true,
	{groupDry, groupTropical}: true, {groupTropical, groupDry}: true,
	{groupTemperate, groupRock}: true, {groupRock, groupTemperate}: true,
	{groupCold, groupRock}: true, {groupRock, groupCold}: true,
}

const (
	similaritySame    = 1.0
	similarityGroup   = 0.75
	similarityNear    = 0.55
	similarityFar     = 0.3
)

// defaultSimilarity implements the identical/group/near/far tiers spec.md
// §4.5 describes.
func defaultSimilarity(a, b Biome) float64 {
	if a == b {
		return similaritySame
	}
	ga, gb := groupOf(a), groupOf(b)
	if ga == gb {
		return similarityGroup
	}
	if adjacentGroups[[2]biomeGroup{ga, gb}] {
		return similarityNear
	}
	return similarityFar
}

// biomeSimilarity looks up the terrain-similarity factor between a source
// and target biome, consulting the room's config override table first
// (spec.md §9 open question 2), falling back to the built-in default.
func biomeSimilarity(cfg *Config, a, b Biome) float64 {
	if cfg.Cost.BiomeSimilarity != nil {
		if row, ok := cfg.Cost.BiomeSimilarity[a]; ok {
			if v, ok := row[b]; ok {
				return v
			}
		}
	}
	sim := defaultSimilarity(a, b)
	if sim < cfg.Cost.MinTerrainSimilarity {
		sim = cfg.Cost.MinTerrainSimilarity
	}
	return sim
}

// terrainExpansionMult returns the per-biome expansion-cost multiplier for
// crossing into/through the target biome (river/mountain crossing penalties
// plus any configured per-biome multiplier).
func terrainExpansionMult(cfg *Config, target Cell) float64 {
	mult := 1.0
	if v, ok := cfg.Cost.TerrainExpansionCostMultByBiome[target.Biome]; ok {
		mult *= v
	}
	if target.IsRiver {
		mult *= cfg.Cost.RiverCrossingCostMult
	}
	if target.Biome == Mountain {
		mult *= cfg.Cost.MountainCrossingCostMult
	}
	return mult
}

// terrainDefenseMult returns the per-biome defense multiplier applied when
// attacking into the target biome.
func terrainDefenseMult(cfg *Config, target Cell) float64 {
	if v, ok := cfg.Cost.TerrainDefenseMultByBiome[target.Biome]; ok {
		return v
	}
	return 1.0
}

// distancePenalty grows linearly with distance from the issuing nation's
// capital, capped at MaxDistancePenaltyTiles.
func distancePenalty(cfg *Config, capital, target Coord) float64 {
	d := ManhattanDistance(capital, target)
	if d > cfg.Cost.MaxDistancePenaltyTiles {
		d = cfg.Cost.MaxDistancePenaltyTiles
	}
	return 1.0 + cfg.Cost.DistancePenaltyPerTile*float64(d)
}

// candidateCost computes the troop cost to convert one candidate cell,
// given the source cell it is adjacent to, per spec.md §4.5.
//
//   - lossMult = 1 + k*(1 - similarity), speedMult = 0.5 + 0.5*similarity.
//   - Unowned cells: baseCost * lossMult * distancePenalty * terrainCrossMult
//     * targetTerrainMult / (expansionBonus * speedMult).
//   - Enemy-owned cells additionally multiply by a defense term, and divide
//     by attackerAttackBonus and a structure speed multiplier.
func candidateCost(
	cfg *Config,
	attacker *Nation,
	defender *Nation, // nil when target is unowned
	source, target Coord,
	sourceCell, targetCell Cell,
	expansionBonus, attackBonus, defenseBonus float64,
	encircled bool,
) float64 {
	const lossK = 1.2

	similarity := biomeSimilarity(cfg, sourceCell.Biome, targetCell.Biome)
	lossMult := 1 + lossK*(1-similarity)
	speedMult := 0.5 + 0.5*similarity

	terrainCrossMult := terrainExpansionMult(cfg, targetCell)
	targetTerrainMult := terrainDefenseMult(cfg, targetCell)
	distPenalty := distancePenalty(cfg, attacker.CapitalCell, target)

	if defender == nil {
		cost := cfg.Cost.BaseCost * lossMult * distPenalty * terrainCrossMult * targetTerrainMult
		denom := expansionBonus * speedMult
		if denom <= 0 {
			denom = 1e-6
		}
		return cost / denom
	}

	structLoss, structSpeed := StrongestDefense(cfg, defender, target)

	defense := cfg.Cost.BaseDefense * defenseBonus * cfg.Cost.ContestedDefenseMult * targetTerrainMult * structLoss
	if encircled {
		defense *= 0.2
	}

	cost := cfg.Cost.BaseCost * lossMult * defense * distPenalty * terrainCrossMult * targetTerrainMult
	denom := attackBonus * speedMult * structSpeed
	if denom <= 0 {
		denom = 1e-6
	}
	return cost / denom
}

// pressureBudget computes spec.md §4.5's per-tick pressure budget for one arrow.
func pressureBudget(cfg *Config, remainingPower, initialPower float64) float64 {
	raw := cfg.Arrow.PressurePerTick + math.Sqrt(initialPower)*cfg.Arrow.PressurePerSqrtPower
	clamped := clamp(raw, 1, cfg.Arrow.MaxPressurePerTick)
	return math.Min(remainingPower, clamped)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
