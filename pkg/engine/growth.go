package engine

import "math"

// TickGrowth implements spec.md §4.10 step 2 for every non-defeated nation:
// recompute maxPopulation from current territory size and town count, grow
// population toward it, and accrue baseline resource production (modulated
// by that nation's resource-node bonus bundle, §4.7).
func (room *Room) TickGrowth() {
	cfg := room.Config
	for _, n := range room.Registry.Nations() {
		if n.Status == StatusDefeated {
			continue
		}

		townCount := 0
		for _, c := range n.Cities {
			if c.Type == CityTown {
				townCount++
			}
		}
		n.MaxPopulation = cfg.Growth.TerritoryCoefficient*math.Pow(float64(n.TerritorySize()), 0.6) +
			cfg.Structure.TownPopulationBonus*float64(townCount) + cfg.Growth.Floor

		if n.MaxPopulation > 0 {
			n.Population += cfg.Growth.BaseRate * (n.MaxPopulation - n.Population)
			if n.Population < 0 {
				n.Population = 0
			}
		}

		production := 1 + n.Bonus.Production
		n.Resources.Food += cfg.Growth.BaseFoodPerPopulation * n.Population * production
		n.Resources.Gold += cfg.Growth.BaseGoldPerTick * production * (1 + n.Bonus.GoldIncome)
	}
}
