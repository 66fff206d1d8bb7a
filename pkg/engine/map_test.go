package engine

import "testing"

func flatMap(width, height int, biome Biome) *Map {
	cells := make([]Cell, width*height)
	for i := range cells {
		cells[i] = Cell{Biome: biome}
	}
	return NewMap(width, height, cells)
}

func TestMapIndexAndXYRoundTrip(t *testing.T) {
	m := flatMap(5, 4, Grassland)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			idx := m.Index(x, y)
			c := m.XY(idx)
			if c.X != x || c.Y != y {
				t.Fatalf("XY(Index(%d,%d)) = %v, want (%d,%d)", x, y, c, x, y)
			}
		}
	}
}

func TestMapInBounds(t *testing.T) {
	m := flatMap(3, 3, Grassland)
	cases := []struct {
		x, y int
		want bool
	}{
		{0, 0, true}, {2, 2, true}, {-1, 0, false}, {0, -1, false}, {3, 0, false}, {0, 3, false},
	}
	for _, c := range cases {
		if got := m.InBounds(c.x, c.y); got != c.want {
			t.Errorf("InBounds(%d,%d) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestCellClaimableExcludesOceanOnly(t *testing.T) {
	if (Cell{Biome: Ocean}).Claimable() {
		t.Error("ocean cell should not be claimable")
	}
	if !(Cell{Biome: Mountain}).Claimable() {
		t.Error("mountain cell should be claimable")
	}
}

func TestMapCountClaimableExcludesOcean(t *testing.T) {
	cells := []Cell{{Biome: Ocean}, {Biome: Grassland}, {Biome: Ocean}, {Biome: Forest}}
	m := NewMap(2, 2, cells)
	if got := m.CountClaimable(); got != 2 {
		t.Errorf("CountClaimable() = %d, want 2", got)
	}
}

func TestManhattanDistance(t *testing.T) {
	if d := ManhattanDistance(Coord{0, 0}, Coord{3, 4}); d != 7 {
		t.Errorf("ManhattanDistance = %d, want 7", d)
	}
}

func TestNewMapPanicsOnCellCountMismatch(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic on mismatched cell count")
		}
	}()
	NewMap(2, 2, make([]Cell, 3))
}
