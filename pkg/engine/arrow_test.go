package engine

import (
	"testing"

	"github.com/rs/zerolog"
)

func newArrowTestRoom(t *testing.T, width, height int) *Room {
	t.Helper()
	m := flatMap(width, height, Grassland)
	cfg := DefaultConfig()
	return NewRoom("arrow-test", m, cfg, 1, zerolog.Nop())
}

func TestAdvanceAttackArrowConvertsTowardWaypoint(t *testing.T) {
	room := newArrowTestRoom(t, 20, 5)
	a, _ := room.Registry.Register("alice", false)
	a.Status = StatusActive
	a.CapitalCell = Coord{2, 2}
	room.Registry.AddCell(a, 2, 2, room.Map)

	arrow, err := NewArrow("a1", ArrowAttack, []Coord{{2, 2}, {10, 2}}, 200, 0.3, 0)
	if err != nil {
		t.Fatalf("NewArrow: %v", err)
	}
	a.Orders.Attack = arrow

	for i := 0; i < 40 && a.Orders.Attack != nil; i++ {
		room.AdvanceArrows()
		room.Tick++
	}

	if !a.Owns(Coord{3, 2}) {
		t.Error("expected the cell adjacent to the capital along the path to be converted")
	}
	if arrow.RemainingPower > arrow.InitialPower {
		t.Error("remainingPower should never exceed initialPower")
	}
}

func TestAdvanceAttackArrowMonotonicity(t *testing.T) {
	room := newArrowTestRoom(t, 20, 5)
	a, _ := room.Registry.Register("alice", false)
	a.Status = StatusActive
	a.CapitalCell = Coord{2, 2}
	room.Registry.AddCell(a, 2, 2, room.Map)

	arrow, _ := NewArrow("a1", ArrowAttack, []Coord{{2, 2}, {10, 2}}, 150, 0.3, 0)
	a.Orders.Attack = arrow

	lastIndex := arrow.CurrentIndex
	lastPower := arrow.RemainingPower
	for i := 0; i < 30 && a.Orders.Attack != nil; i++ {
		room.AdvanceArrows()
		room.Tick++
		if arrow.CurrentIndex < lastIndex {
			t.Fatalf("tick %d: currentIndex decreased from %d to %d", i, lastIndex, arrow.CurrentIndex)
		}
		if arrow.RemainingPower > lastPower {
			t.Fatalf("tick %d: remainingPower increased from %v to %v", i, lastPower, arrow.RemainingPower)
		}
		lastIndex = arrow.CurrentIndex
		lastPower = arrow.RemainingPower
	}
}

func TestAttackArrowRetiresAndReturnsResidualPower(t *testing.T) {
	// A one-row map with ocean directly ahead of the attacker: with no
	// y-neighbors (height 1) and the only x-neighbor ahead being ocean,
	// there is no claimable candidate at all, so the arrow can never spend
	// anything and stalls out within maxStallTicks (spec.md §8 scenario S5).
	cells := make([]Cell, 5)
	for i := range cells {
		cells[i] = Cell{Biome: Grassland}
	}
	m := NewMap(5, 1, cells)
	m.Cells[m.Index(3, 0)] = Cell{Biome: Ocean}

	cfg := DefaultConfig()
	room := NewRoom("retire-test", m, cfg, 1, zerolog.Nop())

	a, _ := room.Registry.Register("alice", false)
	a.Status = StatusActive
	a.CapitalCell = Coord{0, 0}
	room.Registry.AddCell(a, 0, 0, room.Map)
	room.Registry.AddCell(a, 1, 0, room.Map)
	room.Registry.AddCell(a, 2, 0, room.Map)

	arrow, _ := NewArrow("a1", ArrowAttack, []Coord{{2, 0}, {3, 0}}, 50, 0.3, 0)
	a.Population = 0
	a.Orders.Attack = arrow

	for i := 0; i < cfg.Arrow.MaxStallTicks+2; i++ {
		room.AdvanceArrows()
		room.Tick++
	}

	if a.Orders.Attack != nil {
		t.Fatal("expected the arrow to retire once it stalled for maxStallTicks")
	}
	if a.Population <= 0 {
		t.Errorf("expected residual power to be returned to population, got %v", a.Population)
	}
}

func TestDefendArrowReturnsPowerAndRetires(t *testing.T) {
	room := newArrowTestRoom(t, 5, 5)
	a, _ := room.Registry.Register("alice", false)
	a.Status = StatusActive

	arrow, _ := NewArrow("d1", ArrowDefend, []Coord{{0, 0}, {1, 0}}, 5.0, 0.3, 0)
	a.Orders.Defend = arrow
	a.Population = 0

	room.advanceDefendArrow(a, arrow)

	if a.Population <= 0 {
		t.Error("expected defend arrow to return some power to population")
	}
	if a.Orders.Defend == nil {
		t.Fatal("a single tick should not yet retire a fresh defend arrow")
	}

	for i := 0; i < 20 && a.Orders.Defend != nil; i++ {
		room.advanceDefendArrow(a, a.Orders.Defend)
	}
	if a.Orders.Defend != nil {
		t.Error("defend arrow should retire once remainingPower drops to <= 0.5")
	}
}

func TestHoleFillOnlyConvertsUnownedCellsWithThreeOwnedNeighbors(t *testing.T) {
	room := newArrowTestRoom(t, 5, 5)
	a, _ := room.Registry.Register("alice", false)
	a.Status = StatusActive

	// Surround (2,2) on three sides; the fourth neighbor remains unowned.
	room.Registry.AddCell(a, 1, 2, room.Map)
	room.Registry.AddCell(a, 3, 2, room.Map)
	room.Registry.AddCell(a, 2, 1, room.Map)

	room.holeFill(a)

	if !a.Owns(Coord{2, 2}) {
		t.Error("hole cell with 3 owned neighbors should be converted for free")
	}
}

func TestHoleFillNeverConvertsEnemyOwnedCells(t *testing.T) {
	room := newArrowTestRoom(t, 5, 5)
	a, _ := room.Registry.Register("alice", false)
	a.Status = StatusActive
	b, _ := room.Registry.Register("bob", false)
	b.Status = StatusActive

	room.Registry.AddCell(b, 2, 2, room.Map)
	room.Registry.AddCell(a, 1, 2, room.Map)
	room.Registry.AddCell(a, 3, 2, room.Map)
	room.Registry.AddCell(a, 2, 1, room.Map)

	room.holeFill(a)

	if a.Owns(Coord{2, 2}) {
		t.Error("hole-filling must never convert an enemy-held cell")
	}
	if !b.Owns(Coord{2, 2}) {
		t.Error("enemy-held cell should remain untouched by hole-filling")
	}
}

func TestNewArrowRejectsInvalidInput(t *testing.T) {
	if _, err := NewArrow("a", ArrowAttack, []Coord{{0, 0}}, 10, 0.3, 0); err == nil {
		t.Error("expected error for path shorter than 2 points")
	}
	if _, err := NewArrow("a", ArrowAttack, []Coord{{0, 0}, {1, 0}}, 0, 0.3, 0); err == nil {
		t.Error("expected error for non-positive initialPower")
	}
	if _, err := NewArrow("a", ArrowAttack, []Coord{{0, 0}, {1, 0}}, 10, 1.5, 0); err == nil {
		t.Error("expected error for commitment outside (0,1]")
	}
}
