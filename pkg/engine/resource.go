package engine

// ResourceNodeClaim tracks progressive capture of one resource-bearing cell
// and which nation currently benefits from it (spec.md §3, C7).
type ResourceNodeClaim struct {
	Coord         Coord
	Type          ResourceType
	Level         int
	Owner         *uint16 // nil until captured
	ProgressOwner *uint16
	Progress      int
}

// ResourceBonusBundle is the sum of a nation's passive bonuses from the
// resource-node claims it owns.
type ResourceBonusBundle struct {
	ExpansionBonus float64
	AttackBonus    float64
	DefenseBonus   float64
	Production     float64
	GoldIncome     float64
}

// TickResourceClaims advances every resource-node claim by one tick (C7):
// for each cell that carries a resource node and is currently owned, find
// or create its claim; reset progress on an ownership change, otherwise
// increment it; capture the claim once progress reaches the configured
// threshold.
func (room *Room) TickResourceClaims() {
	cfg := room.Config
	for idx, cell := range room.Map.Cells {
		node := cell.ResourceNode
		if node == nil {
			continue
		}
		ownerIdx := room.Matrix.OwnerAt(idx)
		if ownerIdx == Unowned {
			continue
		}
		coord := room.Map.XY(idx)
		claim, ok := room.Claims[coord]
		if !ok {
			claim = &ResourceNodeClaim{Coord: coord, Type: node.Type, Level: node.Level}
			room.Claims[coord] = claim
		}

		if claim.ProgressOwner == nil || *claim.ProgressOwner != ownerIdx {
			o := ownerIdx
			claim.ProgressOwner = &o
			claim.Progress = 0
		} else {
			claim.Progress++
		}

		if claim.Progress >= cfg.WinRes.ResourceCaptureTicks && (claim.Owner == nil || *claim.Owner != ownerIdx) {
			o := ownerIdx
			claim.Owner = &o
		}
	}
}

// BonusBundle recomputes a nation's passive bonus bundle as the sum over
// every claim it owns of effect(type) * nodeLevelMultiplier(level).
func (room *Room) BonusBundle(n *Nation) ResourceBonusBundle {
	var bundle ResourceBonusBundle
	mults := room.Config.WinRes.ResourceNodeLevelMultipliers
	for _, claim := range room.Claims {
		if claim.Owner == nil || *claim.Owner != n.Index {
			continue
		}
		effect, ok := room.Config.WinRes.ResourceEffects[claim.Type]
		if !ok {
			continue
		}
		mult := 1.0
		if claim.Level >= 1 && claim.Level <= len(mults) {
			mult = mults[claim.Level-1]
		}
		bundle.ExpansionBonus += effect.ExpansionPower * mult
		bundle.AttackBonus += effect.AttackPower * mult
		bundle.DefenseBonus += effect.DefensePower * mult
		bundle.Production += effect.Production * mult
		bundle.GoldIncome += effect.GoldIncome * mult
	}
	return bundle
}
