package engine

import (
	"fmt"
	"math"
)

// newArrowID derives a deterministic, room-unique id for an arrow issued at
// a given tick, so bot-issued arrows don't need a separate id generator.
func newArrowID(n *Nation, tick uint64, typ ArrowType) string {
	return fmt.Sprintf("%s-%d-%s", n.OwnerID, tick, typ)
}

// ArrowType discriminates the two arrow kinds a nation can have live at once.
type ArrowType string

const (
	ArrowAttack ArrowType = "attack"
	ArrowDefend ArrowType = "defend"
)

// ArrowStatus is a derived visual hint, recomputed every tick; it has no
// effect on the simulation itself (spec.md §4.5 "State labels").
type ArrowStatus string

const (
	ArrowAdvancing     ArrowStatus = "advancing"
	ArrowConsolidating ArrowStatus = "consolidating"
	ArrowStalled       ArrowStatus = "stalled"
	ArrowRetreating    ArrowStatus = "retreating" // reserved; never produced by this engine
)

// Arrow is the central runtime entity: a player- or bot-issued polyline
// instructing troops to expand or attack along a corridor of cells
// (spec.md §3).
type Arrow struct {
	ID              string
	Type            ArrowType
	Path            []Coord
	CurrentIndex    int
	InitialPower    float64
	RemainingPower  float64
	CreatedAtTick   uint64
	StalledTicks    int
	TroopCommitment float64
	Status          ArrowStatus
}

// NewArrow validates and constructs an arrow. The path must have at least
// two points; path[0] must lie in the issuing nation's territory at
// creation time (spec.md §3 invariants) — callers validate that against the
// registry before calling NewArrow, since Arrow itself has no nation
// reference.
func NewArrow(id string, typ ArrowType, path []Coord, initialPower, commitment float64, createdAtTick uint64) (*Arrow, error) {
	if len(path) < 2 {
		return nil, fmt.Errorf("engine: arrow path must have length >= 2, got %d", len(path))
	}
	if initialPower <= 0 {
		return nil, fmt.Errorf("engine: arrow initialPower must be > 0")
	}
	if commitment <= 0 || commitment > 1 {
		return nil, fmt.Errorf("engine: arrow troopCommitment must be in (0,1]")
	}
	return &Arrow{
		ID:              id,
		Type:            typ,
		Path:            path,
		CurrentIndex:    1,
		InitialPower:    initialPower,
		RemainingPower:  initialPower,
		CreatedAtTick:   createdAtTick,
		TroopCommitment: commitment,
		Status:          ArrowAdvancing,
	}, nil
}

// AdvanceArrows advances every live arrow of every active nation by
// one tick (C5), then runs the hole-filling pass for any nation whose
// territory changed. Per-arrow processing is isolated: a panic while
// advancing one arrow is recovered, logged, and that arrow is retired
// without affecting sibling arrows or other nations (spec.md §4.10 failure
// semantics, §7 "Arrow processing fault").
func (room *Room) AdvanceArrows() {
	for _, n := range room.Registry.Nations() {
		if n.Status != StatusActive {
			continue
		}
		mutated := false

		if n.Orders.Attack != nil {
			if room.safelyAdvanceAttack(n) {
				mutated = true
			}
		}
		if n.Orders.Defend != nil {
			room.advanceDefendArrow(n, n.Orders.Defend)
		}

		if mutated {
			room.holeFill(n)
		}
	}
}

// safelyAdvanceAttack wraps advanceAttackArrow with panic recovery.
func (room *Room) safelyAdvanceAttack(n *Nation) (mutated bool) {
	arrow := n.Orders.Attack
	defer func() {
		if r := recover(); r != nil {
			room.Logger.Error().
				Str("owner", n.OwnerID).
				Str("arrowId", arrow.ID).
				Interface("panic", r).
				Msg("arrow processing fault, retiring arrow")
			n.Population += math.Max(0, arrow.RemainingPower)
			n.Orders.Attack = nil
		}
	}()
	return room.advanceAttackArrow(n, arrow)
}

// advanceAttackArrow implements spec.md §4.5 end to end for one attack
// arrow. Returns true if the nation's territory changed this tick.
func (room *Room) advanceAttackArrow(n *Nation, arrow *Arrow) bool {
	cfg := room.Config
	budget := pressureBudget(cfg, arrow.RemainingPower, arrow.InitialPower)

	candidates := generateCandidates(room, n, arrow)

	spent := 0.0
	attempts := 0
	mutated := false

	expansionBonus := 1 + n.Bonus.ExpansionBonus
	attackBonus := 1 + n.Bonus.AttackBonus

	for _, cand := range candidates {
		if attempts >= cfg.Arrow.AttemptsPerTick {
			break
		}
		if budget-spent <= 0 {
			break
		}
		attempts++

		var defender *Nation
		defenseBonus := 0.0
		encircled := false
		if idx := room.Matrix.Get(cand.Coord.X, cand.Coord.Y); idx != Unowned {
			defender = room.Registry.ByIndex(idx)
			if defender == nil {
				continue
			}
			defenseBonus = 1 + defender.Bonus.DefenseBonus
			encircled = room.isEncircled(defender)
		}

		sourceCell := room.Map.At(cand.Source.X, cand.Source.Y)
		targetCell := room.Map.At(cand.Coord.X, cand.Coord.Y)

		cost := candidateCost(cfg, n, defender, cand.Source, cand.Coord, sourceCell, targetCell,
			expansionBonus, attackBonus, defenseBonus, encircled)

		if budget-spent < cost {
			continue
		}

		if defender != nil {
			room.Registry.RemoveCell(defender, cand.Coord.X, cand.Coord.Y, room.Map)
		}
		room.Registry.AddCell(n, cand.Coord.X, cand.Coord.Y, room.Map)
		spent += cost
		mutated = true
	}

	arrow.RemainingPower -= spent

	oldIndex := arrow.CurrentIndex
	room.advanceWaypoint(n, arrow)
	advanced := arrow.CurrentIndex > oldIndex

	if spent == 0 {
		arrow.StalledTicks++
	} else {
		arrow.StalledTicks = 0
	}

	switch {
	case advanced:
		arrow.Status = ArrowAdvancing
	case spent > 0:
		arrow.Status = ArrowConsolidating
	case arrow.StalledTicks > 0:
		arrow.Status = ArrowStalled
	}

	if room.shouldRetireAttack(arrow) {
		n.Population += math.Max(0, arrow.RemainingPower)
		n.Orders.Attack = nil
	}

	return mutated
}

// advanceWaypoint moves the arrow's target waypoint forward once the
// attacker owns a cell within Manhattan distance <= 2 of it.
func (room *Room) advanceWaypoint(n *Nation, arrow *Arrow) {
	if arrow.CurrentIndex >= len(arrow.Path)-1 {
		return
	}
	target := arrow.Path[arrow.CurrentIndex]
	for dx := -2; dx <= 2; dx++ {
		for dy := -2; dy <= 2; dy++ {
			if absInt(dx)+absInt(dy) > 2 {
				continue
			}
			c := Coord{X: target.X + dx, Y: target.Y + dy}
			if n.Owns(c) {
				arrow.CurrentIndex++
				return
			}
		}
	}
}

// shouldRetireAttack implements spec.md §4.5 "Stall & retire" for attack
// arrows.
func (room *Room) shouldRetireAttack(arrow *Arrow) bool {
	cfg := room.Config
	if arrow.RemainingPower <= cfg.Arrow.RetireEpsilon {
		return true
	}
	if arrow.StalledTicks >= cfg.Arrow.MaxStallTicks {
		return true
	}
	ageMs := float64(room.Tick-arrow.CreatedAtTick) * float64(cfg.TickRateMs)
	expiryMs := clamp(
		float64(cfg.Arrow.MinArrowDurationMs)+arrow.InitialPower*cfg.Arrow.ArrowDurationPerPowerMs,
		float64(cfg.Arrow.MinArrowDurationMs),
		float64(cfg.Arrow.MaxArrowDurationMs),
	)
	return ageMs > expiryMs
}

// advanceDefendArrow implements spec.md §4.5 "Defend arrow": each tick it
// returns a fixed fraction of the per-tick pressure rate to population and
// retires once its remaining power is exhausted. The defend arrow currently
// grants no additional defense along its path — see defendOverlayMultiplier
// for the extension point spec.md §9 open question 1 asks for.
func (room *Room) advanceDefendArrow(n *Nation, arrow *Arrow) {
	rate := room.Config.Arrow.PressurePerTick * 0.3
	returned := math.Min(rate, arrow.RemainingPower)
	arrow.RemainingPower -= returned
	n.Population += returned

	if arrow.RemainingPower <= 0.5 {
		n.Orders.Defend = nil
	}
}

// defendOverlayMultiplier is the clean extension point spec.md §9 open
// question 1 asks for: a defend arrow could someday lower the attacker's
// cost along its path. This engine does not yet compute one, so it is a
// no-op multiplier; candidateCost never calls it directly today, but any
// future cost-formula change should multiply defense by this.
func defendOverlayMultiplier(_ *Room, _ *Nation, _ Coord) float64 {
	return 1.0
}

// isEncircled reports whether the defender's capital region is cut off
// (spec.md §4.5, §9 open question 3). The encirclement heuristic in the
// original implementation was not fully specified; this engine defers it
// and treats every defender as non-encircled until a heuristic is adopted.
func (room *Room) isEncircled(_ *Nation) bool {
	return false
}

// holeFill scans n's border neighbourhood and converts any non-owned,
// non-ocean cell with >= 3 owned 4-neighbors for free, bounded by
// dynamicFillBudget = clamp(0.008*|territory|, 4, 18) (spec.md §4.5
// "Hole-filling pass").
func (room *Room) holeFill(n *Nation) {
	budget := int(clamp(0.008*float64(n.TerritorySize()), 4, 18))
	if budget <= 0 {
		return
	}

	seen := make(map[Coord]bool)
	filled := 0
	for border := range n.borderSet {
		if filled >= budget {
			break
		}
		for _, nb := range room.Map.neighbors4(border.X, border.Y) {
			if filled >= budget {
				break
			}
			if n.Owns(nb) || seen[nb] {
				continue
			}
			seen[nb] = true
			cell := room.Map.At(nb.X, nb.Y)
			if !cell.Claimable() {
				continue
			}
			if countOwnedNeighbors(room, n, nb) < 3 {
				continue
			}
			// Free conversion is restricted to genuinely unowned cells: an
			// enemy-held "hole" still has to be paid for through the normal
			// arrow conversion path.
			if room.Matrix.Get(nb.X, nb.Y) != Unowned {
				continue
			}
			room.Registry.AddCell(n, nb.X, nb.Y, room.Map)
			filled++
		}
	}
}
