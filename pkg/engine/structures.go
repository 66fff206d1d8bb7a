package engine

import "math"

// StrongestDefense scans the defender's cities and returns the troop-loss and
// speed multipliers from the single strongest applicable post (spec.md
// §4.6): towers first, then towns/capitals, each radius-bounded by Euclidean
// distance. Posts do not stack — only the strongest effect applies. Returns
// (1,1) if no post covers the target cell.
func StrongestDefense(cfg *Config, defender *Nation, target Coord) (lossMult, speedMult float64) {
	lossMult, speedMult = 1.0, 1.0
	bestLoss := 1.0

	consider := func(post StructurePost, coord Coord) {
		d := euclidean(coord, target)
		if d > post.DefenseRadius {
			return
		}
		if post.TroopLossMultiplier > bestLoss {
			bestLoss = post.TroopLossMultiplier
			lossMult = post.TroopLossMultiplier
			speedMult = 1 - post.SpeedReduction
		}
	}

	for _, city := range defender.Cities {
		switch city.Type {
		case CityTower:
			consider(cfg.Structure.Tower, city.Coord)
		case CityTown, CityCapital:
			consider(cfg.Structure.Town, city.Coord)
		}
	}
	return lossMult, speedMult
}

func euclidean(a, b Coord) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
