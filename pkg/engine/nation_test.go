package engine

import "testing"

func newTestRegistry(width, height int) (*Registry, *Map, *OwnershipMatrix) {
	m := flatMap(width, height, Grassland)
	matrix := NewOwnershipMatrix(width, height)
	return NewRegistry(matrix), m, matrix
}

func TestRegistryRegisterAssignsStableIndices(t *testing.T) {
	r, _, _ := newTestRegistry(5, 5)
	a, err := r.Register("alice", false)
	if err != nil {
		t.Fatalf("register alice: %v", err)
	}
	b, err := r.Register("bob", false)
	if err != nil {
		t.Fatalf("register bob: %v", err)
	}
	if a.Index != 0 || b.Index != 1 {
		t.Fatalf("indices = %d,%d, want 0,1", a.Index, b.Index)
	}
	if _, err := r.Register("alice", false); err == nil {
		t.Fatal("expected error re-registering owner id")
	}
}

func TestRegistryGetAndByIndex(t *testing.T) {
	r, _, _ := newTestRegistry(5, 5)
	a, _ := r.Register("alice", false)

	got, ok := r.Get("alice")
	if !ok || got != a {
		t.Fatalf("Get(alice) = %v,%v, want %v,true", got, ok, a)
	}
	if r.ByIndex(a.Index) != a {
		t.Fatalf("ByIndex(%d) did not return registered nation", a.Index)
	}
	if r.ByIndex(99) != nil {
		t.Fatal("ByIndex(out of range) should return nil")
	}
}

func TestAddCellUpdatesMatrixAndTerritory(t *testing.T) {
	r, m, matrix := newTestRegistry(5, 5)
	a, _ := r.Register("alice", false)

	r.AddCell(a, 2, 2, m)

	if matrix.Get(2, 2) != a.Index {
		t.Fatalf("matrix owner at (2,2) = %d, want %d", matrix.Get(2, 2), a.Index)
	}
	if !a.Owns(Coord{2, 2}) {
		t.Fatal("nation should own (2,2) after AddCell")
	}
	if a.TerritorySize() != 1 {
		t.Fatalf("TerritorySize() = %d, want 1", a.TerritorySize())
	}
	if !a.IsBorder(Coord{2, 2}) {
		t.Fatal("a lone cell should be a border cell (all neighbors foreign)")
	}
}

func TestAddCellInteriorCellLeavesBorder(t *testing.T) {
	r, m, _ := newTestRegistry(5, 5)
	a, _ := r.Register("alice", false)

	// Claim a plus-shape around (2,2): once all four neighbors are owned,
	// (2,2) itself stops being a border cell.
	r.AddCell(a, 2, 2, m)
	r.AddCell(a, 1, 2, m)
	r.AddCell(a, 3, 2, m)
	r.AddCell(a, 2, 1, m)
	r.AddCell(a, 2, 3, m)

	if a.IsBorder(Coord{2, 2}) {
		t.Error("(2,2) should no longer be a border cell once fully surrounded")
	}
	for _, c := range []Coord{{1, 2}, {3, 2}, {2, 1}, {2, 3}} {
		if !a.IsBorder(c) {
			t.Errorf("%v should still be a border cell", c)
		}
	}
}

func TestRemoveCellUpdatesMatrixTerritoryAndLostCellTracker(t *testing.T) {
	r, m, matrix := newTestRegistry(5, 5)
	a, _ := r.Register("alice", false)
	r.AddCell(a, 2, 2, m)

	r.RemoveCell(a, 2, 2, m)

	if matrix.Get(2, 2) != Unowned {
		t.Fatalf("matrix owner at (2,2) = %d, want Unowned", matrix.Get(2, 2))
	}
	if a.Owns(Coord{2, 2}) {
		t.Fatal("nation should not own (2,2) after RemoveCell")
	}
	if a.TerritorySize() != 0 {
		t.Fatalf("TerritorySize() = %d, want 0", a.TerritorySize())
	}

	lost := r.DrainLostCell()
	if !lost[a] {
		t.Fatal("expected alice to be tracked as having lost a cell")
	}

	lost = r.DrainLostCell()
	if len(lost) != 0 {
		t.Fatal("DrainLostCell should reset tracker after draining")
	}
}

func TestTerritoryDeltaReset(t *testing.T) {
	d := TerritoryDelta{Add: []Coord{{1, 1}}, Sub: []Coord{{2, 2}}}
	d.reset()
	if len(d.Add) != 0 || len(d.Sub) != 0 {
		t.Fatalf("reset did not clear streams: %+v", d)
	}
}
