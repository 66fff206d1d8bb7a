package engine

import "testing"

func activeNation(r *Registry, m *Map, ownerID string, capital Coord) *Nation {
	n, _ := r.Register(ownerID, false)
	n.Status = StatusActive
	n.CapitalCell = capital
	n.Cities = []City{{Coord: capital, Type: CityCapital}}
	r.AddCell(n, capital.X, capital.Y, m)
	return n
}

func TestCheckConnectivityPrunesDisconnectedTerritory(t *testing.T) {
	r, m, _ := newTestRegistry(10, 1)
	n := activeNation(r, m, "alice", Coord{0, 0})
	r.AddCell(n, 1, 0, m)
	// Cell at x=5 is owned but disconnected from the capital at x=0..1.
	r.AddCell(n, 5, 0, m)

	survived := r.CheckConnectivity(n, m)
	if !survived {
		t.Fatal("nation with a connected capital should survive the audit")
	}
	if n.Owns(Coord{5, 0}) {
		t.Error("disconnected cell should have been pruned")
	}
	if !n.Owns(Coord{1, 0}) {
		t.Error("connected cell should remain owned")
	}
}

func TestCheckConnectivitySucceedsToNearestTown(t *testing.T) {
	r, m, _ := newTestRegistry(10, 1)
	n := activeNation(r, m, "alice", Coord{0, 0})
	r.AddCell(n, 1, 0, m)
	r.AddCell(n, 2, 0, m)
	n.Cities = append(n.Cities, City{Coord: Coord{2, 0}, Type: CityTown})

	// Capital cell itself is captured/lost.
	r.RemoveCell(n, 0, 0, m)

	survived := r.CheckConnectivity(n, m)
	if !survived {
		t.Fatal("nation with a surviving town should succeed, not be defeated")
	}
	if n.Status != StatusActive {
		t.Fatalf("status = %s, want active after succession", n.Status)
	}
	if n.CapitalCell != (Coord{2, 0}) {
		t.Fatalf("CapitalCell = %v, want the promoted town's coord", n.CapitalCell)
	}
	if n.Capital() == nil || n.Capital().Coord != (Coord{2, 0}) {
		t.Fatal("expected exactly one capital record at the promoted town")
	}
}

func TestCheckConnectivityDefeatsWithNoSuccessionCandidate(t *testing.T) {
	r, m, _ := newTestRegistry(10, 1)
	n := activeNation(r, m, "alice", Coord{0, 0})
	r.AddCell(n, 1, 0, m)

	r.RemoveCell(n, 0, 0, m)

	survived := r.CheckConnectivity(n, m)
	if survived {
		t.Fatal("nation with no surviving town should be defeated")
	}
	if n.Status != StatusDefeated {
		t.Fatalf("status = %s, want defeated", n.Status)
	}
	if n.TerritorySize() != 0 {
		t.Fatalf("defeated nation should have no territory left, got %d cells", n.TerritorySize())
	}
}

func TestDefeatErasesTerritoryAndOrders(t *testing.T) {
	r, m, matrix := newTestRegistry(5, 5)
	n := activeNation(r, m, "alice", Coord{0, 0})
	r.AddCell(n, 1, 0, m)
	n.Orders.Attack = &Arrow{ID: "a1"}

	r.Defeat(n, m)

	if n.Status != StatusDefeated {
		t.Fatalf("status = %s, want defeated", n.Status)
	}
	if n.TerritorySize() != 0 {
		t.Error("defeated nation should own nothing")
	}
	if n.Orders.Attack != nil {
		t.Error("defeated nation's orders should be cleared")
	}
	if matrix.Get(0, 0) != Unowned || matrix.Get(1, 0) != Unowned {
		t.Error("defeat should release every cell back to Unowned in the matrix")
	}
}
