package engine

import (
	"errors"
	"fmt"
)

// ArrowConfig tunes the per-tick pressure budget, candidate generation, and
// arrow lifecycle (spec.md §4.5, §6).
type ArrowConfig struct {
	PressurePerTick           float64
	PressurePerSqrtPower      float64
	MaxPressurePerTick        float64
	AttemptsPerTick           int
	PathCorridorRadius        int
	MinOwnedNeighborsForStable int
	MaxArrowCandidates        int
	MaxStallTicks             int
	RetireEpsilon             float64
	MinArrowDurationMs        int64
	MaxArrowDurationMs        int64
	ArrowDurationPerPowerMs   float64
}

// CostConfig tunes per-candidate conversion cost (spec.md §4.5, §6).
type CostConfig struct {
	BaseCost                      float64
	BaseDefense                   float64
	ContestedDefenseMult          float64
	DistancePenaltyPerTile        float64
	MaxDistancePenaltyTiles       int
	RiverCrossingCostMult         float64
	MountainCrossingCostMult      float64
	TerrainExpansionCostMultByBiome map[Biome]float64
	TerrainDefenseMultByBiome       map[Biome]float64
	MinTerrainSimilarity          float64
	// BiomeSimilarity overrides the default same/group/near/far tiers (spec.md
	// §9 open question 2: the table's existence is required, its values are
	// not fixed). Looked up as BiomeSimilarity[a][b]; missing entries fall
	// back to the built-in default table.
	BiomeSimilarity map[Biome]map[Biome]float64
}

// StructurePost tunes one structure type's defense radius/multipliers (C6).
type StructurePost struct {
	DefenseRadius      float64
	TroopLossMultiplier float64
	SpeedReduction     float64
}

// StructureConfig tunes the structure defense model (spec.md §4.6, §6).
type StructureConfig struct {
	Town               StructurePost
	Tower              StructurePost
	TownPopulationBonus float64
}

// ArrowPricing tunes the food/gold cost a human player pays to draw an arrow.
type ArrowPricing struct {
	BaseFood     float64
	PerTileFood  float64
	BaseGold     float64
	PerTileGold  float64
	FirstArrowFree bool
}

// ResourceEffect is the per-resource-type bonus contribution (C7).
type ResourceEffect struct {
	ExpansionPower float64
	AttackPower    float64
	DefensePower   float64
	Production     float64
	GoldIncome     float64
}

// WinResourceConfig tunes win threshold and resource-node capture/bonuses.
type WinResourceConfig struct {
	WinConditionPercentage     float64
	ResourceCaptureTicks       int
	ResourceNodeLevelMultipliers []float64 // indexed by (level-1); level 1 => index 0
	ResourceEffects            map[ResourceType]ResourceEffect
}

// BotConfig tunes the Bot Director (C8).
type BotConfig struct {
	BotOrderIntervalTicks int
	BotAttackPercent      float64 // commitment, e.g. 0.3
	BotCandidatePickTop   int
}

// GrowthConfig tunes the per-tick population growth and baseline resource
// production (spec.md §4.10 step 2, §4.7 "production" bonus term).
type GrowthConfig struct {
	BaseRate             float64 // fraction of the gap to maxPopulation grown per tick
	TerritoryCoefficient float64 // k in maxPopulation = k*|territory|^0.6 + townBonus*townCount + floor
	Floor                float64
	BaseFoodPerPopulation float64 // food produced per unit population per tick, before production bonus
	BaseGoldPerTick       float64
}

// Config is the full configuration bundle a room is constructed with
// (spec.md §6). It is read-only after room startup and may be shared
// across rooms.
type Config struct {
	TickRateMs                    int
	ConnectivityCheckIntervalTicks int

	Arrow      ArrowConfig
	Cost       CostConfig
	Structure  StructureConfig
	Pricing    ArrowPricing
	WinRes     WinResourceConfig
	Bot        BotConfig
	Growth     GrowthConfig
}

// Validate checks that required knobs are present and sane. A room refuses
// to start on a config that fails validation (spec.md §7: "config missing
// required keys" is a fatal, room-refuses-to-start condition).
func (c *Config) Validate() error {
	var errs []error
	req := func(cond bool, msg string) {
		if !cond {
			errs = append(errs, errors.New(msg))
		}
	}

	req(c.TickRateMs > 0, "tickRateMs must be > 0")
	req(c.ConnectivityCheckIntervalTicks > 0, "connectivityCheckIntervalTicks must be > 0")

	req(c.Arrow.PressurePerTick > 0, "arrow.pressurePerTick must be > 0")
	req(c.Arrow.MaxPressurePerTick >= c.Arrow.PressurePerTick, "arrow.maxPressurePerTick must be >= pressurePerTick")
	req(c.Arrow.AttemptsPerTick > 0, "arrow.attemptsPerTick must be > 0")
	req(c.Arrow.PathCorridorRadius > 0, "arrow.pathCorridorRadius must be > 0")
	req(c.Arrow.MaxArrowCandidates > 0, "arrow.maxArrowCandidates must be > 0")
	req(c.Arrow.MaxStallTicks > 0, "arrow.maxStallTicks must be > 0")
	req(c.Arrow.RetireEpsilon >= 0, "arrow.retireEpsilon must be >= 0")
	req(c.Arrow.MaxArrowDurationMs >= c.Arrow.MinArrowDurationMs, "arrow.maxArrowDurationMs must be >= minArrowDurationMs")

	req(c.Cost.BaseCost > 0, "cost.baseCost must be > 0")
	req(c.Cost.BaseDefense > 0, "cost.baseDefense must be > 0")
	req(c.Cost.MinTerrainSimilarity >= 0 && c.Cost.MinTerrainSimilarity <= 1, "cost.minTerrainSimilarity must be in [0,1]")

	req(c.Structure.Town.DefenseRadius >= 0, "structure.town.defenseRadius must be >= 0")
	req(c.Structure.Tower.DefenseRadius >= 0, "structure.tower.defenseRadius must be >= 0")

	req(c.WinRes.WinConditionPercentage > 0 && c.WinRes.WinConditionPercentage <= 100, "winRes.winConditionPercentage must be in (0,100]")
	req(c.WinRes.ResourceCaptureTicks > 0, "winRes.resourceCaptureTicks must be > 0")

	req(c.Bot.BotOrderIntervalTicks > 0, "bot.botOrderIntervalTicks must be > 0")
	req(c.Bot.BotCandidatePickTop > 0, "bot.botCandidatePickTop must be > 0")

	req(c.Growth.BaseRate > 0 && c.Growth.BaseRate <= 1, "growth.baseRate must be in (0,1]")
	req(c.Growth.TerritoryCoefficient > 0, "growth.territoryCoefficient must be > 0")

	if len(errs) > 0 {
		return fmt.Errorf("invalid room config: %w", errors.Join(errs...))
	}
	return nil
}

// DefaultConfig returns a reasonable, internally-consistent configuration
// matching the tuning values spec.md uses in its worked examples (§4.5, §8
// scenarios). Callers typically start from this and override per-room.
func DefaultConfig() *Config {
	return &Config{
		TickRateMs:                     200,
		ConnectivityCheckIntervalTicks: 3,
		Arrow: ArrowConfig{
			PressurePerTick:            4,
			PressurePerSqrtPower:       0.6,
			MaxPressurePerTick:         60,
			AttemptsPerTick:            40,
			PathCorridorRadius:         7,
			MinOwnedNeighborsForStable: 2,
			MaxArrowCandidates:         400,
			MaxStallTicks:              6,
			RetireEpsilon:              3,
			MinArrowDurationMs:         2000,
			MaxArrowDurationMs:         120000,
			ArrowDurationPerPowerMs:    40,
		},
		Cost: CostConfig{
			BaseCost:                 1.0,
			BaseDefense:              1.0,
			ContestedDefenseMult:     1.3,
			DistancePenaltyPerTile:   0.01,
			MaxDistancePenaltyTiles:  60,
			RiverCrossingCostMult:    1.6,
			MountainCrossingCostMult: 2.2,
			MinTerrainSimilarity:     0.3,
		},
		Structure: StructureConfig{
			Town:                StructurePost{DefenseRadius: 20, TroopLossMultiplier: 3.0, SpeedReduction: 0.5},
			Tower:               StructurePost{DefenseRadius: 40, TroopLossMultiplier: 6.0, SpeedReduction: 0.66},
			TownPopulationBonus: 25,
		},
		Pricing: ArrowPricing{
			BaseFood: 10, PerTileFood: 1, BaseGold: 5, PerTileGold: 0.5, FirstArrowFree: true,
		},
		WinRes: WinResourceConfig{
			WinConditionPercentage:      50,
			ResourceCaptureTicks:        20,
			ResourceNodeLevelMultipliers: []float64{1.0, 1.5, 2.25},
			ResourceEffects: map[ResourceType]ResourceEffect{
				ResourceFood:  {Production: 1.0},
				ResourceWood:  {Production: 0.8, DefensePower: 0.05},
				ResourceStone: {DefensePower: 0.1},
				ResourceIron:  {AttackPower: 0.1},
				ResourceGold:  {GoldIncome: 1.0},
			},
		},
		Bot: BotConfig{
			BotOrderIntervalTicks: 10,
			BotAttackPercent:      0.3,
			BotCandidatePickTop:   5,
		},
		Growth: GrowthConfig{
			BaseRate:              0.02,
			TerritoryCoefficient:  8.0,
			Floor:                 50,
			BaseFoodPerPopulation: 0.01,
			BaseGoldPerTick:       0.05,
		},
	}
}
